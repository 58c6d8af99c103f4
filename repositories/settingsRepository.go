package repositories

import (
	"CareClinic/models"
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	GetOrCreateUserSettings(ctx context.Context, userID uint) (*models.UserSettings, error)
	SaveUserSettings(ctx context.Context, settings *models.UserSettings) error
	ListSystemSettings(ctx context.Context) ([]models.SystemSetting, error)
	UpdateSystemSettings(ctx context.Context, values map[uint]string) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetOrCreateUserSettings(ctx context.Context, userID uint) (*models.UserSettings, error) {
	defaults := models.DefaultUserSettings(userID)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit("User").
		Create(&defaults).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create user settings: %w", err)
	}

	var settings models.UserSettings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to get user settings: %w", err)
	}
	return &settings, nil
}

func (r *settingsRepository) SaveUserSettings(ctx context.Context, settings *models.UserSettings) error {
	err := r.db.WithContext(ctx).Model(&models.UserSettings{}).Where("user_id = ?", settings.UserID).Updates(map[string]interface{}{
		"profile_visibility": settings.ProfileVisibility,
		"show_phone":         settings.ShowPhone,
		"show_email":         settings.ShowEmail,
		"theme":              settings.Theme,
		"allow_messages":     settings.AllowMessages,
		"allow_video_calls":  settings.AllowVideoCalls,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to save user settings: %w", err)
	}
	return nil
}

func (r *settingsRepository) ListSystemSettings(ctx context.Context) ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	if err := r.db.WithContext(ctx).Order("setting_key").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to list system settings: %w", err)
	}
	return settings, nil
}

// UpdateSystemSettings writes the given values keyed by setting id.
func (r *settingsRepository) UpdateSystemSettings(ctx context.Context, values map[uint]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, value := range values {
			err := tx.Model(&models.SystemSetting{}).Where("id = ?", id).Update("setting_value", value).Error
			if err != nil {
				return fmt.Errorf("failed to update system setting %d: %w", id, err)
			}
		}
		return nil
	})
}
