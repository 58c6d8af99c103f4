package services

import (
	"CareClinic/models"
	"CareClinic/repositories"
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/datatypes"
)

type MedicalRecordInput struct {
	PatientID     uint   `form:"patient" json:"patient"`
	AppointmentID uint   `form:"appointment" json:"appointment"`
	Diagnosis     string `form:"diagnosis" json:"diagnosis"`
	Symptoms      string `form:"symptoms" json:"symptoms"`
	Prescription  string `form:"prescription" json:"prescription"`
	LabResults    string `form:"lab_results" json:"lab_results"`
	Notes         string `form:"notes" json:"notes"`
	RecordDate    string `form:"record_date" json:"record_date"`
}

func (in MedicalRecordInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.PatientID, validation.Required.Error("please choose a patient")),
		validation.Field(&in.Diagnosis, validation.Required),
		validation.Field(&in.Symptoms, validation.Required),
		validation.Field(&in.Prescription, validation.Required),
		validation.Field(&in.RecordDate, validation.Date(models.DateLayout)),
	)
}

type ReportInput struct {
	PatientID       uint   `form:"patient" json:"patient"`
	MedicalRecordID uint   `form:"medical_record" json:"medical_record"`
	ReportType      string `form:"report_type" json:"report_type"`
	Title           string `form:"title" json:"title"`
	Content         string `form:"content" json:"content"`
}

func (in ReportInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.PatientID, validation.Required.Error("please choose a patient")),
		validation.Field(&in.ReportType, validation.Required, validation.By(func(value interface{}) error {
			if t, _ := value.(string); !models.IsReportType(t) {
				return validation.NewError("validation_report_type", "must be a known report type")
			}
			return nil
		})),
		validation.Field(&in.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&in.Content, validation.Required),
	)
}

// RecordService covers medical records and reports. Doctors may read every
// record and report; patients only their own.
type RecordService struct {
	records      repositories.RecordRepository
	patients     repositories.PatientRepository
	appointments repositories.AppointmentRepository
	now          func() time.Time
}

func NewRecordService(records repositories.RecordRepository, patients repositories.PatientRepository, appointments repositories.AppointmentRepository) *RecordService {
	return &RecordService{
		records:      records,
		patients:     patients,
		appointments: appointments,
		now:          time.Now,
	}
}

// Patients lists every patient for the doctor-facing forms.
func (s *RecordService) Patients(ctx context.Context, actor Actor) ([]models.PatientProfile, error) {
	if !actor.IsDoctor() {
		return nil, forbidden("Only doctors can create medical records.")
	}
	return s.patients.GetAll(ctx)
}

func (s *RecordService) scope(actor Actor) (repositories.RecordQuery, error) {
	switch {
	case actor.IsDoctor():
		return repositories.RecordQuery{DoctorID: actor.DoctorID()}, nil
	case actor.IsPatient():
		return repositories.RecordQuery{PatientID: actor.PatientID()}, nil
	}
	return repositories.RecordQuery{}, ErrProfileMissing
}

func (s *RecordService) ListMedicalRecords(ctx context.Context, actor Actor) ([]models.MedicalRecord, error) {
	q, err := s.scope(actor)
	if err != nil {
		return nil, err
	}
	return s.records.ListMedicalRecords(ctx, q)
}

func (s *RecordService) GetMedicalRecord(ctx context.Context, actor Actor, id uint) (*models.MedicalRecord, error) {
	record, err := s.records.GetMedicalRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	if !actor.IsDoctor() && record.PatientID != actor.PatientID() {
		return nil, forbidden("You do not have permission to view this record.")
	}
	return record, nil
}

func (s *RecordService) CreateMedicalRecord(ctx context.Context, actor Actor, in MedicalRecordInput) (*models.MedicalRecord, error) {
	if !actor.IsDoctor() {
		return nil, forbidden("Only doctors can create medical records.")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requirePatient(ctx, in.PatientID); err != nil {
		return nil, err
	}

	doctorID := actor.DoctorID()
	record := &models.MedicalRecord{
		PatientID:    in.PatientID,
		DoctorID:     &doctorID,
		Diagnosis:    in.Diagnosis,
		Symptoms:     in.Symptoms,
		Prescription: in.Prescription,
		LabResults:   in.LabResults,
		Notes:        in.Notes,
		RecordDate:   today(s.now()),
	}
	if in.RecordDate != "" {
		date, err := models.ParseDate(in.RecordDate)
		if err != nil {
			return nil, invalid(err.Error())
		}
		record.RecordDate = date
	}
	if in.AppointmentID != 0 {
		appointment, err := s.appointments.GetByID(ctx, in.AppointmentID)
		if err != nil {
			return nil, err
		}
		if appointment == nil || appointment.PatientID != in.PatientID {
			return nil, invalid("The selected appointment does not belong to this patient.")
		}
		record.AppointmentID = &appointment.ID
	}

	if err := s.records.CreateMedicalRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *RecordService) requirePatient(ctx context.Context, patientID uint) error {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return err
	}
	if patient == nil {
		return invalid("The selected patient does not exist.")
	}
	return nil
}

func (s *RecordService) ListReports(ctx context.Context, actor Actor) ([]models.Report, error) {
	q, err := s.scope(actor)
	if err != nil {
		return nil, err
	}
	return s.records.ListReports(ctx, q)
}

func (s *RecordService) GetReport(ctx context.Context, actor Actor, id uint) (*models.Report, error) {
	return s.report(ctx, actor, id, "You do not have permission to view this report.")
}

// ReportForExport is GetReport with the wording used by the export endpoints.
func (s *RecordService) ReportForExport(ctx context.Context, actor Actor, id uint) (*models.Report, error) {
	return s.report(ctx, actor, id, "You do not have permission to access this report.")
}

func (s *RecordService) report(ctx context.Context, actor Actor, id uint, denied string) (*models.Report, error) {
	report, err := s.records.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrNotFound
	}
	if !actor.IsDoctor() && report.PatientID != actor.PatientID() {
		return nil, forbidden(denied)
	}
	return report, nil
}

func (s *RecordService) GenerateReport(ctx context.Context, actor Actor, in ReportInput) (*models.Report, error) {
	if !actor.IsDoctor() {
		return nil, forbidden("Only doctors can generate reports.")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.requirePatient(ctx, in.PatientID); err != nil {
		return nil, err
	}

	doctorID := actor.DoctorID()
	report := &models.Report{
		PatientID:  in.PatientID,
		DoctorID:   &doctorID,
		ReportType: in.ReportType,
		Title:      in.Title,
		Content:    in.Content,
	}
	if in.MedicalRecordID != 0 {
		record, err := s.records.GetMedicalRecord(ctx, in.MedicalRecordID)
		if err != nil {
			return nil, err
		}
		if record == nil || record.PatientID != in.PatientID {
			return nil, invalid("The selected medical record does not belong to this patient.")
		}
		report.MedicalRecordID = &record.ID
	}

	if err := s.records.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// today is the calendar date of t in its own location.
func today(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}
