package repositories

import (
	"CareClinic/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrWindowExists is returned for a second window with the same weekday and start time.
var ErrWindowExists = errors.New("availability window already exists")

type AvailabilityRepository interface {
	ListForDoctor(ctx context.Context, doctorID uint) ([]models.DoctorAvailability, error)
	GetByID(ctx context.Context, id uint) (*models.DoctorAvailability, error)
	Create(ctx context.Context, window *models.DoctorAvailability) error
	Delete(ctx context.Context, id uint) error
}

type availabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) ListForDoctor(ctx context.Context, doctorID uint) ([]models.DoctorAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var windows []models.DoctorAvailability
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("day_of_week ASC, start_time ASC").
		Find(&windows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	return windows, nil
}

func (r *availabilityRepository) GetByID(ctx context.Context, id uint) (*models.DoctorAvailability, error) {
	var window models.DoctorAvailability
	err := r.db.WithContext(ctx).First(&window, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return &window, nil
}

func (r *availabilityRepository) Create(ctx context.Context, window *models.DoctorAvailability) error {
	err := r.db.WithContext(ctx).Omit("Doctor").Create(window).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrWindowExists
	}
	if err != nil {
		return fmt.Errorf("failed to create availability: %w", err)
	}
	return nil
}

func (r *availabilityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.DoctorAvailability{}, id).Error
}
