package repositories

import (
	"CareClinic/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrSlotTaken is returned when an active appointment already holds the slot,
// whether detected by the pre-check or by the unique index at commit time.
var ErrSlotTaken = errors.New("slot already taken")

// AppointmentQuery filters appointment listings. Zero fields are ignored.
type AppointmentQuery struct {
	DoctorID  uint
	PatientID uint
	FromDate  *datatypes.Date
	OnDate    *datatypes.Date
	Statuses  []string
	Ascending bool
	Limit     int
}

type AppointmentRepository interface {
	BookSlot(ctx context.Context, appointment *models.Appointment) error
	MoveSlot(ctx context.Context, appointment *models.Appointment, date datatypes.Date, at datatypes.Time) error
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)
	Find(ctx context.Context, q AppointmentQuery) ([]models.Appointment, error)
	Count(ctx context.Context, q AppointmentQuery) (int64, error)
	CountDistinctPatients(ctx context.Context, doctorID uint) (int64, error)
	UpdateStatus(ctx context.Context, id uint, status, notes string) error
}

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func withParties(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Patient.UserProfile.User", withAccount).
		Preload("Doctor.UserProfile.User", withAccount)
}

// slotTaken reports whether another active appointment holds the slot.
func slotTaken(tx *gorm.DB, doctorID uint, date datatypes.Date, at datatypes.Time, excludeID uint) (bool, error) {
	q := tx.Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ? AND status IN ?",
			doctorID, date, at, models.ActiveStatuses)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// BookSlot checks and inserts inside one transaction. A unique violation from
// the active slot index maps to ErrSlotTaken like the pre-check does.
func (r *appointmentRepository) BookSlot(ctx context.Context, appointment *models.Appointment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := slotTaken(tx, appointment.DoctorID, appointment.AppointmentDate, appointment.AppointmentTime, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		return tx.Omit("Patient", "Doctor").Create(appointment).Error
	})
	return translateSlotError(err, "failed to book appointment")
}

// MoveSlot re-runs the conflict check excluding the appointment itself and
// marks it rescheduled.
func (r *appointmentRepository) MoveSlot(ctx context.Context, appointment *models.Appointment, date datatypes.Date, at datatypes.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := slotTaken(tx, appointment.DoctorID, date, at, appointment.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		return tx.Model(&models.Appointment{}).Where("id = ?", appointment.ID).Updates(map[string]interface{}{
			"appointment_date": date,
			"appointment_time": at,
			"status":           models.StatusRescheduled,
		}).Error
	})
	if err := translateSlotError(err, "failed to reschedule appointment"); err != nil {
		return err
	}
	appointment.AppointmentDate = date
	appointment.AppointmentTime = at
	appointment.Status = models.StatusRescheduled
	return nil
}

func translateSlotError(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSlotTaken), errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrSlotTaken
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var appointment models.Appointment
	err := withParties(r.db.WithContext(ctx)).First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) filter(db *gorm.DB, q AppointmentQuery) *gorm.DB {
	if q.DoctorID != 0 {
		db = db.Where("doctor_id = ?", q.DoctorID)
	}
	if q.PatientID != 0 {
		db = db.Where("patient_id = ?", q.PatientID)
	}
	if q.FromDate != nil {
		db = db.Where("appointment_date >= ?", *q.FromDate)
	}
	if q.OnDate != nil {
		db = db.Where("appointment_date = ?", *q.OnDate)
	}
	if len(q.Statuses) > 0 {
		db = db.Where("status IN ?", q.Statuses)
	}
	return db
}

func (r *appointmentRepository) Find(ctx context.Context, q AppointmentQuery) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	db := r.filter(withParties(r.db.WithContext(ctx)).Model(&models.Appointment{}), q)
	if q.Ascending {
		db = db.Order("appointment_date ASC, appointment_time ASC")
	} else {
		db = db.Order("appointment_date DESC, appointment_time DESC")
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var appointments []models.Appointment
	if err := db.Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Count(ctx context.Context, q AppointmentQuery) (int64, error) {
	var count int64
	err := r.filter(r.db.WithContext(ctx).Model(&models.Appointment{}), q).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountDistinctPatients(ctx context.Context, doctorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ?", doctorID).
		Distinct("patient_id").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}

// UpdateStatus sets the status and, when notes is not empty, the notes.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uint, status, notes string) error {
	updates := map[string]interface{}{"status": status}
	if notes != "" {
		updates["notes"] = notes
	}
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Updates(updates).Error
	return translateSlotError(err, "failed to update appointment status")
}
