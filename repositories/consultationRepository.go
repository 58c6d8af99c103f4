package repositories

import (
	"CareClinic/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// NoteQuery filters consultation notes. Zero fields are ignored.
type NoteQuery struct {
	DoctorID  uint
	PatientID uint
	Limit     int
}

type ConsultationRepository interface {
	CreateNote(ctx context.Context, note *models.ConsultationNote) error
	GetNote(ctx context.Context, id uint) (*models.ConsultationNote, error)
	ListNotes(ctx context.Context, q NoteQuery) ([]models.ConsultationNote, error)

	MarkRead(ctx context.Context, appointmentID, viewerID uint) error
	ListMessages(ctx context.Context, appointmentID uint) ([]models.ChatMessage, error)
	CreateMessage(ctx context.Context, message *models.ChatMessage) error

	GetOrCreateVideo(ctx context.Context, appointmentID uint, sessionID string) (*models.VideoSession, error)
	GetVideo(ctx context.Context, appointmentID uint) (*models.VideoSession, error)
	SaveVideo(ctx context.Context, session *models.VideoSession) error
}

type consultationRepository struct {
	db *gorm.DB
}

func NewConsultationRepository(db *gorm.DB) ConsultationRepository {
	return &consultationRepository{db: db}
}

// CreateNote stores the note and completes its appointment in the same transaction.
func (r *consultationRepository) CreateNote(ctx context.Context, note *models.ConsultationNote) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Appointment", "Doctor", "Patient").Create(note).Error; err != nil {
			return err
		}
		return tx.Model(&models.Appointment{}).
			Where("id = ?", note.AppointmentID).
			Update("status", models.StatusCompleted).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create consultation note: %w", err)
	}
	return nil
}

func (r *consultationRepository) GetNote(ctx context.Context, id uint) (*models.ConsultationNote, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var note models.ConsultationNote
	err := r.db.WithContext(ctx).
		Preload("Appointment").
		Preload("Doctor.UserProfile.User", withAccount).
		Preload("Patient.UserProfile.User", withAccount).
		First(&note, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get consultation note: %w", err)
	}
	return &note, nil
}

func (r *consultationRepository) ListNotes(ctx context.Context, q NoteQuery) ([]models.ConsultationNote, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	db := r.db.WithContext(ctx).
		Preload("Doctor.UserProfile.User", withAccount).
		Preload("Patient.UserProfile.User", withAccount)
	if q.DoctorID != 0 {
		db = db.Where("doctor_id = ?", q.DoctorID)
	}
	if q.PatientID != 0 {
		db = db.Where("patient_id = ?", q.PatientID)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var notes []models.ConsultationNote
	if err := db.Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to list consultation notes: %w", err)
	}
	return notes, nil
}

// MarkRead flags every message of the appointment not sent by viewerID as read.
func (r *consultationRepository) MarkRead(ctx context.Context, appointmentID, viewerID uint) error {
	err := r.db.WithContext(ctx).Model(&models.ChatMessage{}).
		Where("appointment_id = ? AND sender_id <> ? AND is_read = ?", appointmentID, viewerID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}

func (r *consultationRepository) ListMessages(ctx context.Context, appointmentID uint) ([]models.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).
		Preload("Sender", withAccount).
		Where("appointment_id = ?", appointmentID).
		Order("timestamp ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (r *consultationRepository) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	if err := r.db.WithContext(ctx).Omit("Sender").Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetOrCreateVideo returns the appointment's session, creating it with
// sessionID on first access.
func (r *consultationRepository) GetOrCreateVideo(ctx context.Context, appointmentID uint, sessionID string) (*models.VideoSession, error) {
	var session models.VideoSession
	err := r.db.WithContext(ctx).
		Where(models.VideoSession{AppointmentID: appointmentID}).
		Attrs(models.VideoSession{SessionID: sessionID, Status: models.VideoScheduled}).
		FirstOrCreate(&session).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost the race against a concurrent first access
		return r.GetVideo(ctx, appointmentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get or create video session: %w", err)
	}
	return &session, nil
}

func (r *consultationRepository) GetVideo(ctx context.Context, appointmentID uint) (*models.VideoSession, error) {
	var session models.VideoSession
	err := r.db.WithContext(ctx).Where("appointment_id = ?", appointmentID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get video session: %w", err)
	}
	return &session, nil
}

func (r *consultationRepository) SaveVideo(ctx context.Context, session *models.VideoSession) error {
	err := r.db.WithContext(ctx).Model(&models.VideoSession{}).Where("id = ?", session.ID).Updates(map[string]interface{}{
		"status":           session.Status,
		"start_time":       session.StartTime,
		"end_time":         session.EndTime,
		"duration_minutes": session.DurationMinutes,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to save video session: %w", err)
	}
	return nil
}
