package services

import (
	"CareClinic/models"
	"CareClinic/repositories"
	"context"
	"time"
)

type DoctorDashboard struct {
	Doctor            *models.DoctorProfile     `json:"doctor"`
	Upcoming          []models.Appointment      `json:"upcoming_appointments"`
	RecentNotes       []models.ConsultationNote `json:"recent_notes"`
	AppointmentsToday int64                     `json:"total_appointments_today"`
	TotalPatients     int64                     `json:"total_patients"`
}

type PatientDashboard struct {
	Patient          *models.PatientProfile `json:"patient"`
	Upcoming         []models.Appointment   `json:"upcoming_appointments"`
	MedicalHistory   []models.MedicalRecord `json:"medical_history"`
	PastAppointments []models.Appointment   `json:"past_appointments"`
}

type DashboardService struct {
	appointments  repositories.AppointmentRepository
	consultations repositories.ConsultationRepository
	records       repositories.RecordRepository
	now           func() time.Time
}

func NewDashboardService(appointments repositories.AppointmentRepository, consultations repositories.ConsultationRepository, records repositories.RecordRepository) *DashboardService {
	return &DashboardService{
		appointments:  appointments,
		consultations: consultations,
		records:       records,
		now:           time.Now,
	}
}

func (s *DashboardService) Doctor(ctx context.Context, actor Actor) (*DoctorDashboard, error) {
	if !actor.IsDoctor() {
		return nil, forbidden("Only doctors can view the doctor dashboard.")
	}
	doctorID := actor.DoctorID()
	day := today(s.now())

	upcoming, err := s.appointments.Find(ctx, repositories.AppointmentQuery{
		DoctorID:  doctorID,
		FromDate:  &day,
		Statuses:  models.ActiveStatuses,
		Ascending: true,
		Limit:     10,
	})
	if err != nil {
		return nil, err
	}
	notes, err := s.consultations.ListNotes(ctx, repositories.NoteQuery{DoctorID: doctorID, Limit: 5})
	if err != nil {
		return nil, err
	}
	todayCount, err := s.appointments.Count(ctx, repositories.AppointmentQuery{DoctorID: doctorID, OnDate: &day})
	if err != nil {
		return nil, err
	}
	patients, err := s.appointments.CountDistinctPatients(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	return &DoctorDashboard{
		Doctor:            actor.Profile.Doctor,
		Upcoming:          upcoming,
		RecentNotes:       notes,
		AppointmentsToday: todayCount,
		TotalPatients:     patients,
	}, nil
}

func (s *DashboardService) Patient(ctx context.Context, actor Actor) (*PatientDashboard, error) {
	if !actor.IsPatient() {
		return nil, forbidden("Only patients can view the patient dashboard.")
	}
	patientID := actor.PatientID()
	day := today(s.now())

	upcoming, err := s.appointments.Find(ctx, repositories.AppointmentQuery{
		PatientID: patientID,
		FromDate:  &day,
		Statuses:  models.ActiveStatuses,
		Ascending: true,
		Limit:     5,
	})
	if err != nil {
		return nil, err
	}
	history, err := s.records.ListMedicalRecords(ctx, repositories.RecordQuery{PatientID: patientID, Limit: 5})
	if err != nil {
		return nil, err
	}
	past, err := s.appointments.Find(ctx, repositories.AppointmentQuery{
		PatientID: patientID,
		Statuses:  []string{models.StatusCompleted},
		Limit:     5,
	})
	if err != nil {
		return nil, err
	}

	return &PatientDashboard{
		Patient:          actor.Profile.Patient,
		Upcoming:         upcoming,
		MedicalHistory:   history,
		PastAppointments: past,
	}, nil
}
