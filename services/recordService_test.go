package services

import (
	"CareClinic/models"
	"CareClinic/testutil"
	"errors"
	"testing"
	"time"
)

type recordFixture struct {
	clinic  *testutil.Clinic
	service *RecordService
	doctor  Actor
	patient Actor
	other   Actor
}

func newRecordFixture(t *testing.T) *recordFixture {
	t.Helper()
	clinic := testutil.NewClinic()
	f := &recordFixture{
		clinic:  clinic,
		doctor:  actorOf(clinic.AddDoctor("drsmith", "John", "Smith")),
		patient: actorOf(clinic.AddPatient("patient1", "Alice", "Brown")),
		other:   actorOf(clinic.AddPatient("patient2", "Charlie", "Davis")),
	}
	f.service = NewRecordService(clinic.Records(), clinic.Patients(), clinic.Appointments())
	f.service.now = func() time.Time { return time.Date(2030, 3, 4, 15, 30, 0, 0, time.UTC) }
	return f
}

func (f *recordFixture) record(t *testing.T, patient Actor) *models.MedicalRecord {
	t.Helper()
	rec, err := f.service.CreateMedicalRecord(ctxT(), f.doctor, MedicalRecordInput{
		PatientID:    patient.PatientID(),
		Diagnosis:    "Hypertension",
		Symptoms:     "Headaches",
		Prescription: "Lisinopril 10mg",
	})
	if err != nil {
		t.Fatalf("Expected record creation to succeed, got: %v", err)
	}
	return rec
}

func TestCreateMedicalRecord(t *testing.T) {
	f := newRecordFixture(t)

	rec := f.record(t, f.patient)
	if models.FormatDate(rec.RecordDate) != "2030-03-04" {
		t.Errorf("Expected the record to default to today, got %s", models.FormatDate(rec.RecordDate))
	}
	if rec.DoctorID == nil || *rec.DoctorID != f.doctor.DoctorID() {
		t.Errorf("Expected the record to name its doctor, got %v", rec.DoctorID)
	}

	if _, err := f.service.CreateMedicalRecord(ctxT(), f.patient, MedicalRecordInput{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected patients to be refused, got: %v", err)
	}
	_, err := f.service.CreateMedicalRecord(ctxT(), f.doctor, MedicalRecordInput{
		PatientID: 9999, Diagnosis: "x", Symptoms: "y", Prescription: "z",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected an unknown patient to be rejected, got: %v", err)
	}
}

func TestCreateMedicalRecord_AppointmentMustMatchPatient(t *testing.T) {
	f := newRecordFixture(t)
	date, _ := models.ParseDate("2030-03-01")
	apptID := f.clinic.AddAppointment(models.Appointment{
		PatientID: f.other.PatientID(), DoctorID: f.doctor.DoctorID(), AppointmentDate: date, Status: models.StatusCompleted,
	})

	_, err := f.service.CreateMedicalRecord(ctxT(), f.doctor, MedicalRecordInput{
		PatientID: f.patient.PatientID(), AppointmentID: apptID,
		Diagnosis: "x", Symptoms: "y", Prescription: "z", RecordDate: "2030-03-01",
	})
	if got := userMessage(err); got != "The selected appointment does not belong to this patient." {
		t.Errorf("Expected the appointment mismatch message, got %q", got)
	}
}

func TestMedicalRecordAccess(t *testing.T) {
	f := newRecordFixture(t)
	rec := f.record(t, f.patient)
	f.record(t, f.other)
	otherDoctor := actorOf(f.clinic.AddDoctor("drjohnson", "Emily", "Johnson"))

	if _, err := f.service.GetMedicalRecord(ctxT(), f.patient, rec.ID); err != nil {
		t.Errorf("Expected the patient to read their record, got: %v", err)
	}
	if _, err := f.service.GetMedicalRecord(ctxT(), otherDoctor, rec.ID); err != nil {
		t.Errorf("Expected any doctor to read the record, got: %v", err)
	}
	if _, err := f.service.GetMedicalRecord(ctxT(), f.other, rec.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected another patient to be refused, got: %v", err)
	}
	if _, err := f.service.GetMedicalRecord(ctxT(), f.doctor, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}

	mine, _ := f.service.ListMedicalRecords(ctxT(), f.patient)
	if len(mine) != 1 {
		t.Errorf("Expected 1 record for the patient, got %d", len(mine))
	}
	written, _ := f.service.ListMedicalRecords(ctxT(), f.doctor)
	if len(written) != 2 {
		t.Errorf("Expected 2 records by the doctor, got %d", len(written))
	}
	none, _ := f.service.ListMedicalRecords(ctxT(), otherDoctor)
	if len(none) != 0 {
		t.Errorf("Expected no records by the other doctor, got %d", len(none))
	}
}

func TestGenerateReport(t *testing.T) {
	f := newRecordFixture(t)
	rec := f.record(t, f.patient)

	in := ReportInput{
		PatientID:       f.patient.PatientID(),
		MedicalRecordID: rec.ID,
		ReportType:      models.ReportLab,
		Title:           "Blood panel",
		Content:         "All values within range.",
	}
	report, err := f.service.GenerateReport(ctxT(), f.doctor, in)
	if err != nil {
		t.Fatalf("Expected report generation to succeed, got: %v", err)
	}
	if report.MedicalRecordID == nil || *report.MedicalRecordID != rec.ID {
		t.Errorf("Expected the report to link the record, got %v", report.MedicalRecordID)
	}

	in.ReportType = "xray"
	if _, err := f.service.GenerateReport(ctxT(), f.doctor, in); err == nil {
		t.Error("Expected an unknown report type to be rejected")
	}
	in.ReportType = models.ReportLab
	in.PatientID = f.other.PatientID()
	if _, err := f.service.GenerateReport(ctxT(), f.doctor, in); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected a record of another patient to be rejected, got: %v", err)
	}
	if _, err := f.service.GenerateReport(ctxT(), f.patient, in); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected patients to be refused, got: %v", err)
	}

	if _, err := f.service.ReportForExport(ctxT(), f.other, report.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected another patient to be refused the export, got: %v", err)
	}
	got, err := f.service.ReportForExport(ctxT(), f.patient, report.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Patient.DisplayName() != "Alice Brown" || got.Doctor.DisplayName() != "Dr. John Smith" {
		t.Errorf("Expected the parties to be loaded, got %q and %q", got.Patient.DisplayName(), got.Doctor.DisplayName())
	}
}
