package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UserSettings holds per-account preferences
type UserSettings struct {
	ID                uint      `gorm:"primaryKey;column:id" json:"id"`
	UserID            uint      `gorm:"not null;uniqueIndex;column:user_id" json:"user_id"`
	ProfileVisibility bool      `gorm:"not null;column:profile_visibility" json:"profile_visibility"`
	ShowPhone         bool      `gorm:"not null;column:show_phone" json:"show_phone"`
	ShowEmail         bool      `gorm:"not null;column:show_email" json:"show_email"`
	Theme             string    `gorm:"size:20;not null;check:theme IN ('light', 'dark');column:theme" json:"theme"`
	AllowMessages     bool      `gorm:"not null;column:allow_messages" json:"allow_messages"`
	AllowVideoCalls   bool      `gorm:"not null;column:allow_video_calls" json:"allow_video_calls"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	User              *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultUserSettings is what a user gets on first access.
func DefaultUserSettings(userID uint) UserSettings {
	return UserSettings{
		UserID:            userID,
		ProfileVisibility: true,
		ShowEmail:         true,
		Theme:             ThemeLight,
		AllowMessages:     true,
		AllowVideoCalls:   true,
	}
}

// SystemSetting is a clinic wide key/value pair
type SystemSetting struct {
	ID           uint      `gorm:"primaryKey;column:id" json:"id"`
	SettingKey   string    `gorm:"size:100;not null;uniqueIndex;column:setting_key" json:"setting_key"`
	SettingValue string    `gorm:"type:text;not null;column:setting_value" json:"setting_value"`
	Description  string    `gorm:"type:text;column:description" json:"description"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}

// SeedSystemSettings inserts the default clinic settings
func SeedSystemSettings(db *gorm.DB) error {
	initial := []SystemSetting{
		{SettingKey: "clinic_name", SettingValue: "CareClinic", Description: "Name shown on reports and e-mails"},
		{SettingKey: "support_email", SettingValue: "support@careclinic.local", Description: "Contact address for patients"},
		{SettingKey: "appointment_slot_minutes", SettingValue: "30", Description: "Default length of an appointment slot"},
		{SettingKey: "max_daily_appointments", SettingValue: "20", Description: "Soft cap of appointments per doctor and day"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, setting := range initial {
			if err := tx.FirstOrCreate(&setting, SystemSetting{SettingKey: setting.SettingKey}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
