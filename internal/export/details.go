package export

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gymctl/internal/models"
	"gymctl/internal/util"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// NotAvailable stands in for values the member record does not have
const NotAvailable = "N/A"

// DetailsFooter closes every detail sheet
const DetailsFooter = "Thank you for being a valued member of our gym!"

// DetailLines returns the text lines of a member's detail sheet, in print order
func DetailLines(m *models.Member) []string {
	hc := m.HealthCondition
	if hc == nil {
		hc = &models.HealthCondition{}
	}

	service := m.ServiceName()
	if service == "" {
		service = "No Service Assigned"
	}

	bmi := NotAvailable
	if v, ok := m.LatestBMI(); ok && v != 0 {
		bmi = formatNumber(v)
	}

	return []string{
		"Phone Number: " + m.PhoneNumber,
		"Email: " + models.StringOr(m.Email, NotAvailable),
		"Address: " + models.StringOr(m.Address, NotAvailable),
		"Date of Birth: " + formatDob(m.Dob),
		"Emergency Contact: " + util.YesNo(models.StringOr(m.EmergencyContact, "") != ""),
		"Exercise Restrictions: " + util.YesNo(hc.ExerciseRestriction),
		"Pain During Workout: " + util.YesNo(hc.PainDuringExercise),
		"Heart / HyperTension Meds: " + util.YesNo(hc.HeartHypertensionMeds),
		"Dizziness or Fainting Before: " + util.YesNo(hc.DizzinessOrFainting),
		"Chronic Diseases: " + util.YesNo(strings.TrimSpace(hc.ChronicDiseases) != ""),
		"Additional Remarks: " + util.YesNo(strings.TrimSpace(hc.AdditionalRemarks) != ""),
		"Goal: " + models.StringOr(m.Goal, NotAvailable),
		"Service: " + service,
		"Weight: " + optionalNumber(m.Weight) + " kg",
		"Height: " + optionalNumber(m.Height) + " cm",
		"BMI: " + bmi + " kg/m²",
	}
}

func optionalNumber(v *float64) string {
	if v == nil || *v == 0 {
		return NotAvailable
	}
	return formatNumber(*v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDob(dob *string) string {
	raw := models.StringOr(dob, "")
	if raw == "" {
		return NotAvailable
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return raw
}

// Details writes a one-page A4 detail sheet for m
func (e *Exporter) Details(ctx context.Context, w io.Writer, m *models.Member) error {
	pdf := newSheet()
	pdf.SetTitle(m.FullName+" details", true)
	e.detailsPage(ctx, pdf, m)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing details for %s: %w", m.FullName, err)
	}
	e.logger.Info("member details written", zap.String("member_id", m.ID))
	return nil
}

// AllDetails writes one detail page per member into a single document
func (e *Exporter) AllDetails(ctx context.Context, w io.Writer, members []models.Member) error {
	pdf := newSheet()
	pdf.SetTitle("All member details", true)

	for i := range members {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.detailsPage(ctx, pdf, &members[i])
	}
	if len(members) == 0 {
		pdf.AddPage()
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing member details: %w", err)
	}
	e.logger.Info("all member details written", zap.Int("count", len(members)))
	return nil
}

func newSheet() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}

func (e *Exporter) detailsPage(ctx context.Context, pdf *fpdf.Fpdf, m *models.Member) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if data, contentType := e.profilePhoto(ctx, m); data != nil {
		e.placeImage(pdf, "photo-"+m.ID, data, contentType, 80, 5, 50, 40)
	}

	pdf.SetFont("Helvetica", "B", 20)
	setText(pdf, orange)
	centerText(pdf, 105, 58, "Member Details")

	pdf.SetFont("Helvetica", "B", 16)
	setText(pdf, black)
	centerText(pdf, 105, 68, tr(m.FullName))

	pdf.SetFont("Helvetica", "", 12)
	const startY, lineHeight = 85.0, 10.0
	for i, line := range DetailLines(m) {
		centerText(pdf, 105, startY+float64(i)*lineHeight, tr(line))
	}

	pdf.SetFont("Helvetica", "", 10)
	setText(pdf, orange)
	centerText(pdf, 105, 280, DetailsFooter)
}
