package services

import (
	"CareClinic/messaging"
	"CareClinic/models"
	"CareClinic/repositories"
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type NoteInput struct {
	ChiefComplaint string `form:"chief_complaint" json:"chief_complaint"`
	History        string `form:"history" json:"history"`
	Examination    string `form:"examination" json:"examination"`
	Diagnosis      string `form:"diagnosis" json:"diagnosis"`
	TreatmentPlan  string `form:"treatment_plan" json:"treatment_plan"`
	FollowUp       string `form:"follow_up" json:"follow_up"`
}

func (in NoteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ChiefComplaint, validation.Required),
		validation.Field(&in.Diagnosis, validation.Required),
		validation.Field(&in.TreatmentPlan, validation.Required),
	)
}

// ChatView is an appointment's conversation as seen by one participant.
type ChatView struct {
	Appointment *models.Appointment  `json:"appointment"`
	Messages    []models.ChatMessage `json:"messages"`
}

type ConsultationService struct {
	consultations repositories.ConsultationRepository
	appointments  repositories.AppointmentRepository
	events        messaging.EventPublisher
	now           func() time.Time
	newSessionID  func() string
}

func NewConsultationService(consultations repositories.ConsultationRepository, appointments repositories.AppointmentRepository, events messaging.EventPublisher) *ConsultationService {
	return &ConsultationService{
		consultations: consultations,
		appointments:  appointments,
		events:        events,
		now:           time.Now,
		newSessionID:  uuid.NewString,
	}
}

// WithClock replaces the clock used for video session timestamps.
func (s *ConsultationService) WithClock(now func() time.Time) *ConsultationService {
	s.now = now
	return s
}

func (s *ConsultationService) appointment(ctx context.Context, id uint) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrNotFound
	}
	return appointment, nil
}

func (s *ConsultationService) ListNotes(ctx context.Context, actor Actor) ([]models.ConsultationNote, error) {
	switch {
	case actor.IsDoctor():
		return s.consultations.ListNotes(ctx, repositories.NoteQuery{DoctorID: actor.DoctorID()})
	case actor.IsPatient():
		return s.consultations.ListNotes(ctx, repositories.NoteQuery{PatientID: actor.PatientID()})
	}
	return nil, ErrProfileMissing
}

// GetNote is open to every doctor and to the note's patient.
func (s *ConsultationService) GetNote(ctx context.Context, actor Actor, id uint) (*models.ConsultationNote, error) {
	note, err := s.consultations.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNotFound
	}
	if !actor.IsDoctor() && note.PatientID != actor.PatientID() {
		return nil, forbidden("You do not have permission to view this note.")
	}
	return note, nil
}

// NoteTarget returns the appointment a doctor is about to write a note for.
func (s *ConsultationService) NoteTarget(ctx context.Context, actor Actor, appointmentID uint) (*models.Appointment, error) {
	if !actor.IsDoctor() {
		return nil, forbidden("Only doctors can create consultation notes.")
	}
	appointment, err := s.appointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != actor.DoctorID() {
		return nil, forbidden("You do not have permission to create notes for this appointment.")
	}
	return appointment, nil
}

// CreateNote stores the note and completes the appointment whatever its
// current status.
func (s *ConsultationService) CreateNote(ctx context.Context, actor Actor, appointmentID uint, in NoteInput) (*models.ConsultationNote, error) {
	appointment, err := s.NoteTarget(ctx, actor, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	note := &models.ConsultationNote{
		AppointmentID:  appointment.ID,
		DoctorID:       appointment.DoctorID,
		PatientID:      appointment.PatientID,
		ChiefComplaint: in.ChiefComplaint,
		History:        in.History,
		Examination:    in.Examination,
		Diagnosis:      in.Diagnosis,
		TreatmentPlan:  in.TreatmentPlan,
		FollowUp:       in.FollowUp,
	}
	if err := s.consultations.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	if s.events != nil {
		event := messaging.NewConsultationNoteEvent(messaging.ConsultationNoteData{
			NoteID:        note.ID,
			AppointmentID: note.AppointmentID,
			DoctorID:      note.DoctorID,
			PatientID:     note.PatientID,
			CreatedAt:     note.CreatedAt,
		})
		if err := s.events.Publish(ctx, event); err != nil {
			log.Warn().Err(err).Uint("note_id", note.ID).Msg("failed to publish event")
		}
	}
	return note, nil
}

// Chat marks the other party's messages as read and returns the conversation.
func (s *ConsultationService) Chat(ctx context.Context, actor Actor, appointmentID uint) (*ChatView, error) {
	appointment, err := s.chatAppointment(ctx, actor, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := s.consultations.MarkRead(ctx, appointment.ID, actor.UserID()); err != nil {
		return nil, err
	}
	messages, err := s.consultations.ListMessages(ctx, appointment.ID)
	if err != nil {
		return nil, err
	}
	return &ChatView{Appointment: appointment, Messages: messages}, nil
}

func (s *ConsultationService) PostMessage(ctx context.Context, actor Actor, appointmentID uint, text string) (*models.ChatMessage, error) {
	appointment, err := s.chatAppointment(ctx, actor, appointmentID)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("Message cannot be empty.")
	}
	message := &models.ChatMessage{
		AppointmentID: appointment.ID,
		SenderID:      actor.UserID(),
		Message:       text,
	}
	if err := s.consultations.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *ConsultationService) chatAppointment(ctx context.Context, actor Actor, appointmentID uint) (*models.Appointment, error) {
	appointment, err := s.appointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !actor.participates(appointment) {
		return nil, forbidden("You do not have permission to access this chat.")
	}
	return appointment, nil
}

func (s *ConsultationService) videoAppointment(ctx context.Context, actor Actor, appointmentID uint) (*models.Appointment, error) {
	appointment, err := s.appointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !actor.participates(appointment) {
		return nil, forbidden("You do not have permission to access this video session.")
	}
	return appointment, nil
}

// Video returns the appointment's session, creating it on first access.
func (s *ConsultationService) Video(ctx context.Context, actor Actor, appointmentID uint) (*models.Appointment, *models.VideoSession, error) {
	appointment, err := s.videoAppointment(ctx, actor, appointmentID)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.consultations.GetOrCreateVideo(ctx, appointment.ID, s.newSessionID())
	if err != nil {
		return nil, nil, err
	}
	return appointment, session, nil
}

func (s *ConsultationService) StartVideo(ctx context.Context, actor Actor, appointmentID uint) (*models.VideoSession, error) {
	return s.updateVideo(ctx, actor, appointmentID, func(session *models.VideoSession) {
		session.Begin(s.now())
	})
}

func (s *ConsultationService) EndVideo(ctx context.Context, actor Actor, appointmentID uint) (*models.VideoSession, error) {
	return s.updateVideo(ctx, actor, appointmentID, func(session *models.VideoSession) {
		session.Finish(s.now())
	})
}

func (s *ConsultationService) updateVideo(ctx context.Context, actor Actor, appointmentID uint, change func(*models.VideoSession)) (*models.VideoSession, error) {
	appointment, err := s.videoAppointment(ctx, actor, appointmentID)
	if err != nil {
		return nil, err
	}
	session, err := s.consultations.GetVideo(ctx, appointment.ID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrVideoSessionNotFound
	}
	change(session)
	if err := s.consultations.SaveVideo(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
