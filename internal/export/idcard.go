package export

import (
	"context"
	"fmt"
	"io"

	"gymctl/internal/models"
	"gymctl/internal/util"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// Card dimensions in millimetres, a little over credit-card size
const (
	cardWidth  = 88.0
	cardHeight = 56.0
)

// IDCard writes a two-page membership card: details and barcode on the front,
// gym branding on a black back.
func (e *Exporter) IDCard(ctx context.Context, w io.Writer, m *models.Member) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: cardWidth, Ht: cardHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(m.FullName+" membership card", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	e.cardFront(ctx, pdf, m, tr)
	e.cardBack(pdf, tr)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing ID card for %s: %w", m.FullName, err)
	}
	e.logger.Info("ID card written", zap.String("member_id", m.ID))
	return nil
}

func (e *Exporter) cardFront(ctx context.Context, pdf *fpdf.Fpdf, m *models.Member, tr func(string) string) {
	pdf.AddPage()

	if data, contentType := e.profilePhoto(ctx, m); data != nil {
		e.placeImage(pdf, "photo-"+m.ID, data, contentType, 8, 5, 20, 20)
	}

	first, rest := util.SplitName(m.FullName)
	nameX := (cardWidth/2 - 6.5) / 2

	setText(pdf, black)
	pdf.SetFont("Helvetica", "B", 10)
	centerText(pdf, nameX, 29, tr(first))
	pdf.SetFont("Helvetica", "", 7)
	centerText(pdf, nameX, 32, tr(rest))

	labelX := cardWidth/2 - 4
	valueX := cardWidth/2 + 11
	rows := []struct {
		label string
		value string
		y     float64
	}{
		{"Phone no.", m.PhoneNumber, 9},
		{"Address", util.TruncateText(models.StringOr(m.Address, ""), 17), 14},
		{"Service", util.TruncateText(m.ServiceName(), 17), 19},
		{"Emergency", util.TruncateText(models.StringOr(m.EmergencyContact, ""), 33), 24},
		{"Sex", m.Gender, 29},
	}

	pdf.SetFont("Helvetica", "", 6)
	for _, row := range rows {
		pdf.Text(labelX, row.y, row.label)
	}
	pdf.SetFont("Helvetica", "B", 8)
	for _, row := range rows {
		pdf.Text(valueX, row.y, tr(row.value))
	}

	if m.Barcode != "" {
		data, contentType, err := DecodeDataURL(m.Barcode)
		if err != nil {
			e.logger.Warn("skipping barcode", zap.String("member_id", m.ID), zap.Error(err))
		} else {
			e.placeImage(pdf, "barcode-"+m.ID, data, contentType, 6, 36, 75, 15)
		}
	}

	pdf.SetFont("Helvetica", "B", 8)
	rightText(pdf, cardWidth-5, 5, "ID")
}

func (e *Exporter) cardBack(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.AddPage()
	pdf.SetFillColor(black.r, black.g, black.b)
	pdf.Rect(0, 0, cardWidth, cardHeight, "F")

	if data, contentType := e.logo(); data != nil {
		e.placeImage(pdf, "logo", data, contentType, cardWidth/2-10, 8, 20, 24)
	}

	setText(pdf, white)
	pdf.SetFont("Helvetica", "B", 10)
	centerText(pdf, cardWidth/2, 33, tr(e.Brand.Name))

	pdf.SetFont("Helvetica", "", 8)
	centerText(pdf, cardWidth/2, 38, tr(e.Brand.Address))
	centerText(pdf, cardWidth/2, 43, tr(e.Brand.Phones))

	pdf.SetFont("Helvetica", "B", 8)
	centerText(pdf, cardWidth/2, 50, tr(e.Brand.Website))
}
