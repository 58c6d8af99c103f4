package services

import (
	"CareClinic/models"
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

func exportReport() *models.Report {
	doctorUser := &models.User{FirstName: "John", LastName: "Smith"}
	patientUser := &models.User{FirstName: "Alice", LastName: "Brown"}
	return &models.Report{
		ID:         42,
		ReportType: models.ReportConsultation,
		Title:      "Follow-up",
		Content:    "Line one\r\nLine two, with comma",
		CreatedAt:  time.Date(2030, 3, 4, 9, 0, 0, 0, time.UTC),
		Doctor:     &models.DoctorProfile{UserProfile: &models.UserProfile{User: doctorUser}},
		Patient:    &models.PatientProfile{UserProfile: &models.UserProfile{User: patientUser}},
	}
}

func TestRenderReportCSV(t *testing.T) {
	out, err := RenderReportCSV(exportReport())
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("Expected valid csv, got: %v", err)
	}

	want := [][]string{
		{"Field", "Value"},
		{"Title", "Follow-up"},
		{"Patient", "Alice Brown"},
		{"Doctor", "Dr. John Smith"},
		{"Date", "2030-03-04"},
		{"Type", "Consultation Summary"},
	}
	if len(rows) != len(want)+1 {
		t.Fatalf("Expected %d rows, got %d", len(want)+1, len(rows))
	}
	for i, row := range want {
		if rows[i][0] != row[0] || rows[i][1] != row[1] {
			t.Errorf("Row %d: expected %v, got %v", i, row, rows[i])
		}
	}
	if !strings.Contains(rows[6][1], "Line two, with comma") {
		t.Errorf("Expected the content row to keep the full text, got %q", rows[6][1])
	}
}

func TestRenderReportPDF(t *testing.T) {
	report := exportReport()
	report.Content = strings.Repeat("lorem ipsum\n", 120)

	out, err := RenderReportPDF(report)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Errorf("Expected a PDF document, got prefix %q", out[:8])
	}
}

func TestContentLines(t *testing.T) {
	long := strings.Repeat("é", 95)
	lines := contentLines("short\r\n" + long + "\n")

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "short" {
		t.Errorf("Expected CRLF to be stripped, got %q", lines[0])
	}
	if n := len([]rune(lines[1])); n != 90 {
		t.Errorf("Expected the long line cut at 90 characters, got %d", n)
	}
}

func TestExportFilenames(t *testing.T) {
	report := exportReport()
	if got := PDFFilename(report); got != "report_42.pdf" {
		t.Errorf("Expected report_42.pdf, got %s", got)
	}
	if got := CSVFilename(report); got != "report_42.csv" {
		t.Errorf("Expected report_42.csv, got %s", got)
	}
}
