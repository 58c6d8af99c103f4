package repositories

import (
	"CareClinic/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type PatientRepository interface {
	GetByID(ctx context.Context, id uint) (*models.PatientProfile, error)
	GetAll(ctx context.Context) ([]models.PatientProfile, error)
}

type patientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) GetByID(ctx context.Context, id uint) (*models.PatientProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var patient models.PatientProfile
	err := r.db.WithContext(ctx).
		Preload("UserProfile").
		Preload("UserProfile.User", withAccount).
		First(&patient, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetAll(ctx context.Context) ([]models.PatientProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var patients []models.PatientProfile
	err := r.db.WithContext(ctx).
		Preload("UserProfile").
		Preload("UserProfile.User", withAccount).
		Order("id").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
