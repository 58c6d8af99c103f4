package repositories

import (
	"CareClinic/cache"
	"CareClinic/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	DoctorCacheExpiry   = 10 * time.Minute
	availableDoctorsKey = "doctors_cache:available"
)

type DoctorRepository interface {
	ListAvailable(ctx context.Context) ([]models.DoctorProfile, error)
	GetByID(ctx context.Context, id uint) (*models.DoctorProfile, error)
	SetAvailable(ctx context.Context, id uint, available bool) error
	DeleteAllCache(ctx context.Context) error
}

type doctorRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewDoctorRepository(db *gorm.DB, cache *cache.Cache) DoctorRepository {
	return &doctorRepository{db: db, cache: cache}
}

func withAccount(db *gorm.DB) *gorm.DB {
	return db.Select("id, username, email, first_name, last_name")
}

// ListAvailable returns doctors accepting bookings, cached in Redis.
func (r *doctorRepository) ListAvailable(ctx context.Context) ([]models.DoctorProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doctors []models.DoctorProfile
	if r.cache != nil {
		found, err := r.cache.GetJSON(ctx, availableDoctorsKey, &doctors)
		if err != nil {
			log.Warn().Err(err).Msg("failed to get doctors from cache")
		} else if found {
			return doctors, nil
		}
	}

	err := r.db.WithContext(ctx).
		Preload("UserProfile").
		Preload("UserProfile.User", withAccount).
		Where("available = ?", true).
		Order("id").
		Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.SetJSON(ctx, availableDoctorsKey, doctors, DoctorCacheExpiry); err != nil {
			log.Warn().Err(err).Msg("failed to set doctors in cache")
		}
	}
	return doctors, nil
}

func (r *doctorRepository) GetByID(ctx context.Context, id uint) (*models.DoctorProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doctor models.DoctorProfile
	err := r.db.WithContext(ctx).
		Preload("UserProfile").
		Preload("UserProfile.User", withAccount).
		First(&doctor, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) SetAvailable(ctx context.Context, id uint, available bool) error {
	err := r.db.WithContext(ctx).Model(&models.DoctorProfile{}).Where("id = ?", id).Update("available", available).Error
	if err != nil {
		return fmt.Errorf("failed to update doctor availability: %w", err)
	}
	return r.DeleteAllCache(ctx)
}

func (r *doctorRepository) DeleteAllCache(ctx context.Context) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.DeleteAll(ctx, "doctors_cache:*")
}
