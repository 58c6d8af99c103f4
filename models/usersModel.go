package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	UserTypeDoctor  = "doctor"
	UserTypePatient = "patient"
)

// User represents an account that can sign in
type User struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	Username    string    `gorm:"size:150;not null;uniqueIndex;column:username" json:"username"`
	Email       string    `gorm:"size:255;not null;uniqueIndex;column:email" json:"email"`
	Password    string    `gorm:"size:255;not null;column:password" json:"-"`
	FirstName   string    `gorm:"size:150;column:first_name" json:"first_name"`
	LastName    string    `gorm:"size:150;column:last_name" json:"last_name"`
	IsStaff     bool      `gorm:"column:is_staff;not null" json:"is_staff"`
	IsSuperuser bool      `gorm:"column:is_superuser;not null" json:"is_superuser"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// FullName falls back to the username when no name was given.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Elevated reports whether the account may use the administrative surface.
func (u *User) Elevated() bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}

// UserProfile carries the role discriminator and contact details
type UserProfile struct {
	ID                 uint            `gorm:"primaryKey;column:id" json:"id"`
	UserID             uint            `gorm:"not null;uniqueIndex;column:user_id" json:"user_id"`
	User               *User           `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	UserType           string          `gorm:"size:10;not null;check:user_type IN ('doctor', 'patient');column:user_type" json:"user_type"`
	PhoneNumber        string          `gorm:"size:15;column:phone_number" json:"phone_number"`
	DateOfBirth        *datatypes.Date `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Address            string          `gorm:"type:text;column:address" json:"address"`
	ProfilePicture     string          `gorm:"size:255;column:profile_picture" json:"profile_picture,omitempty"`
	EmailNotifications bool            `gorm:"column:email_notifications;not null" json:"email_notifications"`
	SmsNotifications   bool            `gorm:"column:sms_notifications;not null" json:"sms_notifications"`
	Doctor             *DoctorProfile  `gorm:"foreignKey:UserProfileID" json:"doctor,omitempty"`
	Patient            *PatientProfile `gorm:"foreignKey:UserProfileID" json:"patient,omitempty"`
	CreatedAt          time.Time       `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profile"
}

func (p *UserProfile) IsDoctor() bool {
	return p != nil && p.UserType == UserTypeDoctor
}

func (p *UserProfile) IsPatient() bool {
	return p != nil && p.UserType == UserTypePatient
}

// DoctorProfile holds the practice details of a doctor
type DoctorProfile struct {
	ID              uint         `gorm:"primaryKey;column:id" json:"id"`
	UserProfileID   uint         `gorm:"not null;uniqueIndex;column:user_profile_id" json:"user_profile_id"`
	UserProfile     *UserProfile `gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE;" json:"user_profile,omitempty"`
	Specialization  string       `gorm:"size:100;not null;column:specialization" json:"specialization"`
	Qualification   string       `gorm:"size:200;not null;column:qualification" json:"qualification"`
	ExperienceYears int          `gorm:"not null;default:0;column:experience_years" json:"experience_years"`
	LicenseNumber   string       `gorm:"size:50;not null;uniqueIndex;column:license_number" json:"license_number"`
	ConsultationFee float64      `gorm:"type:numeric(10,2);not null;default:0;column:consultation_fee" json:"consultation_fee"`
	Available       bool         `gorm:"not null;column:available" json:"available"`
	Bio             string       `gorm:"type:text;column:bio" json:"bio"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profile"
}

// DisplayName renders "Dr. First Last" when the account is loaded.
func (d *DoctorProfile) DisplayName() string {
	if d == nil || d.UserProfile == nil || d.UserProfile.User == nil {
		return ""
	}
	return "Dr. " + d.UserProfile.User.FullName()
}

// PatientProfile holds the clinical contact details of a patient
type PatientProfile struct {
	ID                   uint         `gorm:"primaryKey;column:id" json:"id"`
	UserProfileID        uint         `gorm:"not null;uniqueIndex;column:user_profile_id" json:"user_profile_id"`
	UserProfile          *UserProfile `gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE;" json:"user_profile,omitempty"`
	BloodGroup           string       `gorm:"size:5;column:blood_group" json:"blood_group"`
	EmergencyContact     string       `gorm:"size:15;column:emergency_contact" json:"emergency_contact"`
	EmergencyContactName string       `gorm:"size:100;column:emergency_contact_name" json:"emergency_contact_name"`
	Allergies            string       `gorm:"type:text;column:allergies" json:"allergies"`
	ChronicConditions    string       `gorm:"type:text;column:chronic_conditions" json:"chronic_conditions"`
}

func (PatientProfile) TableName() string {
	return "patient_profile"
}

func (p *PatientProfile) DisplayName() string {
	if p == nil || p.UserProfile == nil || p.UserProfile.User == nil {
		return ""
	}
	return p.UserProfile.User.FullName()
}
