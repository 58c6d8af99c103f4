package services

import (
	"CareClinic/models"
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	exportDateLayout = "2006-01-02"
	pdfLineLimit     = 90

	// Letter page in points, one inch margins.
	pdfMargin     = 72.0
	pdfPageBottom = 792.0 - pdfMargin
	pdfLeading    = 12.0
)

func PDFFilename(report *models.Report) string {
	return fmt.Sprintf("report_%d.pdf", report.ID)
}

func CSVFilename(report *models.Report) string {
	return fmt.Sprintf("report_%d.csv", report.ID)
}

type reportHeader struct {
	Title   string
	Patient string
	Doctor  string
	Date    string
	Type    string
}

func headerOf(report *models.Report) reportHeader {
	return reportHeader{
		Title:   report.Title,
		Patient: report.Patient.DisplayName(),
		Doctor:  report.Doctor.DisplayName(),
		Date:    report.CreatedAt.Format(exportDateLayout),
		Type:    report.TypeLabel(),
	}
}

// RenderReportPDF lays the report out on Letter pages. Each content line is
// cut at 90 characters.
func RenderReportPDF(report *models.Report) ([]byte, error) {
	h := headerOf(report)

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle(h.Title, true)
	pdf.SetCreator("CareClinic", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(pdfMargin, 72, tr("Healthcare System Report"))

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(pdfMargin, 108, tr("Title: "+h.Title))

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(pdfMargin, 129.6, tr("Patient: "+h.Patient))
	pdf.Text(pdfMargin, 144, tr("Doctor: "+h.Doctor))
	pdf.Text(pdfMargin, 158.4, tr("Date: "+h.Date))
	pdf.Text(pdfMargin, 172.8, tr("Type: "+h.Type))

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(pdfMargin, 201.6, tr("Report Content:"))

	pdf.SetFont("Helvetica", "", 10)
	y := 223.2
	for _, line := range contentLines(report.Content) {
		if y > pdfPageBottom {
			pdf.AddPage()
			pdf.SetFont("Helvetica", "", 10)
			y = pdfMargin
		}
		pdf.Text(pdfMargin, y, tr(line))
		y += pdfLeading
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func contentLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if runes := []rune(line); len(runes) > pdfLineLimit {
			lines[i] = string(runes[:pdfLineLimit])
		}
	}
	return lines
}

// RenderReportCSV writes the report as Field/Value rows.
func RenderReportCSV(report *models.Report) ([]byte, error) {
	h := headerOf(report)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	rows := [][]string{
		{"Field", "Value"},
		{"Title", h.Title},
		{"Patient", h.Patient},
		{"Doctor", h.Doctor},
		{"Date", h.Date},
		{"Type", h.Type},
		{"Content", report.Content},
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to render report csv: %w", err)
	}
	return buf.Bytes(), nil
}
