package models

import (
	"time"
)

const (
	VideoScheduled = "scheduled"
	VideoActive    = "active"
	VideoCompleted = "completed"
	VideoCancelled = "cancelled"
)

// ConsultationNote is written by the appointment's doctor
type ConsultationNote struct {
	ID             uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AppointmentID  uint            `gorm:"column:appointment_id;not null;index" json:"appointment_id"`
	DoctorID       uint            `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	PatientID      uint            `gorm:"column:patient_id;not null;index" json:"patient_id"`
	ChiefComplaint string          `gorm:"column:chief_complaint;type:text;not null" json:"chief_complaint"`
	History        string          `gorm:"column:history;type:text" json:"history"`
	Examination    string          `gorm:"column:examination;type:text" json:"examination"`
	Diagnosis      string          `gorm:"column:diagnosis;type:text;not null" json:"diagnosis"`
	TreatmentPlan  string          `gorm:"column:treatment_plan;type:text;not null" json:"treatment_plan"`
	FollowUp       string          `gorm:"column:follow_up;type:text" json:"follow_up"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Appointment    *Appointment    `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE;" json:"appointment,omitempty"`
	Doctor         *DoctorProfile  `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE;" json:"doctor,omitempty"`
	Patient        *PatientProfile `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE;" json:"patient,omitempty"`
}

func (ConsultationNote) TableName() string {
	return "consultation_note"
}

// ChatMessage model
type ChatMessage struct {
	ID            uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AppointmentID uint      `gorm:"column:appointment_id;not null;index" json:"appointment_id"`
	SenderID      uint      `gorm:"column:sender_id;not null;index" json:"sender_id"`
	Message       string    `gorm:"column:message;type:text;not null" json:"message"`
	Timestamp     time.Time `gorm:"column:timestamp;autoCreateTime;index" json:"timestamp"`
	IsRead        bool      `gorm:"column:is_read;not null" json:"is_read"`
	Sender        *User     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE;" json:"sender,omitempty"`
}

func (ChatMessage) TableName() string {
	return "chat_message"
}

// VideoSession model, one per appointment
type VideoSession struct {
	ID              uint         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AppointmentID   uint         `gorm:"column:appointment_id;not null;uniqueIndex" json:"appointment_id"`
	SessionID       string       `gorm:"column:session_id;size:100;not null;uniqueIndex" json:"session_id"`
	Status          string       `gorm:"column:status;size:20;not null;check:status IN ('scheduled', 'active', 'completed', 'cancelled')" json:"status"`
	StartTime       *time.Time   `gorm:"column:start_time" json:"start_time"`
	EndTime         *time.Time   `gorm:"column:end_time" json:"end_time"`
	DurationMinutes int          `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
	CreatedAt       time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Appointment     *Appointment `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (VideoSession) TableName() string {
	return "video_session"
}

func (v *VideoSession) Begin(at time.Time) {
	v.Status = VideoActive
	v.StartTime = &at
}

// Finish closes the session. Duration is the truncated whole-minute span
// from StartTime, or 0 when the session was never started.
func (v *VideoSession) Finish(at time.Time) {
	v.Status = VideoCompleted
	v.EndTime = &at
	if v.StartTime != nil {
		v.DurationMinutes = int(at.Sub(*v.StartTime) / time.Minute)
	}
}
