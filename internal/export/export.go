// Package export renders member records as printable documents: ID cards, detail sheets and CSV.
package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"

	"gymctl/internal/models"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// AllDetailsFileName is the file written by the bulk details export
const AllDetailsFileName = "All_Member_details.pdf"

// Branding is the gym identity printed on exported documents
type Branding struct {
	Name     string
	Address  string
	Phones   string
	Website  string
	LogoPath string
}

// ImageSource fetches images referenced by member records
type ImageSource interface {
	FetchImage(ctx context.Context, ref string) ([]byte, string, error)
}

// Exporter builds documents for members
type Exporter struct {
	Brand  Branding
	images ImageSource
	logger *zap.Logger
}

// NewExporter creates an exporter. images may be nil, in which case photos are left out.
func NewExporter(brand Branding, images ImageSource, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		Brand:  brand,
		images: images,
		logger: logger.Named("export"),
	}
}

// IDCardFileName is the file name used for a member's ID card
func IDCardFileName(m *models.Member) string {
	return safeName(m.FullName) + "_MembershipID.pdf"
}

// DetailsFileName is the file name used for a member's detail sheet
func DetailsFileName(m *models.Member) string {
	return safeName(m.FullName) + "_details.pdf"
}

func safeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "member"
	}
	return strings.NewReplacer("/", "_", "\\", "_", string(os.PathSeparator), "_").Replace(name)
}

type rgb struct{ r, g, b int }

var (
	orange = rgb{255, 102, 0}
	black  = rgb{0, 0, 0}
	white  = rgb{255, 255, 255}
)

func setText(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}

// centerText writes txt centred on x with its baseline at y
func centerText(pdf *fpdf.Fpdf, x, y float64, txt string) {
	w := pdf.GetStringWidth(txt)
	pdf.Text(x-w/2, y, txt)
}

func rightText(pdf *fpdf.Fpdf, x, y float64, txt string) {
	w := pdf.GetStringWidth(txt)
	pdf.Text(x-w, y, txt)
}

// imageType maps a MIME type to the names fpdf understands
func imageType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/jpeg"), strings.HasPrefix(contentType, "image/jpg"):
		return "JPG"
	case strings.HasPrefix(contentType, "image/png"):
		return "PNG"
	case strings.HasPrefix(contentType, "image/gif"):
		return "GIF"
	}
	return ""
}

// placeImage registers data under name and draws it. Images fpdf cannot read are
// logged and skipped without spoiling the rest of the document.
func (e *Exporter) placeImage(pdf *fpdf.Fpdf, name string, data []byte, contentType string, x, y, w, h float64) bool {
	tp := imageType(contentType)
	if tp == "" {
		tp = imageType(http.DetectContentType(data))
	}
	if tp == "" {
		e.logger.Warn("skipping image with unsupported type", zap.String("image", name), zap.String("content_type", contentType))
		return false
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		e.logger.Warn("skipping unreadable image", zap.String("image", name), zap.Error(err))
		return false
	}

	opts := fpdf.ImageOptions{ImageType: tp}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() {
		e.logger.Warn("skipping image fpdf could not load", zap.String("image", name), zap.Error(pdf.Error()))
		pdf.ClearError()
		return false
	}
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return true
}

// profilePhoto downloads the member's picture. A missing or failed download yields nil.
func (e *Exporter) profilePhoto(ctx context.Context, m *models.Member) ([]byte, string) {
	ref := models.StringOr(m.ProfileImageURL, "")
	if ref == "" || e.images == nil {
		return nil, ""
	}

	data, contentType, err := e.images.FetchImage(ctx, ref)
	if err != nil {
		e.logger.Warn("failed to fetch profile image",
			zap.String("member_id", m.ID),
			zap.String("url", ref),
			zap.Error(err),
		)
		return nil, ""
	}
	return data, contentType
}

// logo reads the configured logo file, if any
func (e *Exporter) logo() ([]byte, string) {
	if e.Brand.LogoPath == "" {
		return nil, ""
	}
	data, err := os.ReadFile(e.Brand.LogoPath)
	if err != nil {
		e.logger.Warn("failed to read logo", zap.String("path", e.Brand.LogoPath), zap.Error(err))
		return nil, ""
	}
	return data, http.DetectContentType(data)
}

// DecodeDataURL splits a data: URL into its bytes and MIME type
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URL")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URL")
	}

	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return []byte(payload), contentType, nil
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("error decoding data URL: %w", err)
	}
	return data, contentType, nil
}
