package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const (
	StatusScheduled   = "scheduled"
	StatusConfirmed   = "confirmed"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusRescheduled = "rescheduled"
)

// AppointmentStatuses lists every status an appointment may hold.
var AppointmentStatuses = []string{
	StatusScheduled,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusRescheduled,
}

// ActiveStatuses are the statuses that occupy a slot.
var ActiveStatuses = []string{StatusScheduled, StatusConfirmed}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Appointment model
type Appointment struct {
	ID              uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID       uint            `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID        uint            `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	AppointmentDate datatypes.Date  `gorm:"column:appointment_date;not null;index" json:"appointment_date"`
	AppointmentTime datatypes.Time  `gorm:"column:appointment_time;not null" json:"appointment_time"`
	Status          string          `gorm:"column:status;size:20;not null;check:status IN ('scheduled', 'confirmed', 'completed', 'cancelled', 'rescheduled')" json:"status"`
	Reason          string          `gorm:"column:reason;type:text;not null" json:"reason"`
	Notes           string          `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient         *PatientProfile `gorm:"foreignKey:PatientID;references:ID;constraint:OnDelete:CASCADE;" json:"patient,omitempty"`
	Doctor          *DoctorProfile  `gorm:"foreignKey:DoctorID;references:ID;constraint:OnDelete:CASCADE;" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointment"
}

// IsActive reports whether the appointment holds its slot.
func (a *Appointment) IsActive() bool {
	return IsActiveStatus(a.Status)
}

func (a *Appointment) SlotKey() string {
	return SlotKey(a.DoctorID, a.AppointmentDate, a.AppointmentTime)
}

// DoctorAvailability is a weekly open window of a doctor. Monday is 0.
type DoctorAvailability struct {
	ID          uint           `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	DoctorID    uint           `gorm:"column:doctor_id;not null;uniqueIndex:idx_availability_window" json:"doctor_id"`
	DayOfWeek   int            `gorm:"column:day_of_week;not null;check:day_of_week BETWEEN 0 AND 6;uniqueIndex:idx_availability_window" json:"day_of_week"`
	StartTime   datatypes.Time `gorm:"column:start_time;not null;uniqueIndex:idx_availability_window" json:"start_time"`
	EndTime     datatypes.Time `gorm:"column:end_time;not null" json:"end_time"`
	IsAvailable bool           `gorm:"column:is_available;not null" json:"is_available"`
	Doctor      *DoctorProfile `gorm:"foreignKey:DoctorID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (DoctorAvailability) TableName() string {
	return "doctor_availability"
}

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (a *DoctorAvailability) DayName() string {
	if a.DayOfWeek < 0 || a.DayOfWeek > 6 {
		return ""
	}
	return weekdayNames[a.DayOfWeek]
}

func IsActiveStatus(status string) bool {
	for _, s := range ActiveStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsAppointmentStatus(status string) bool {
	for _, s := range AppointmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// SlotKey identifies a (doctor, date, time) triple.
func SlotKey(doctorID uint, date datatypes.Date, at datatypes.Time) string {
	return fmt.Sprintf("%d:%s:%s", doctorID, FormatDate(date), at.String())
}

func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

// ParseDate accepts YYYY-MM-DD.
func ParseDate(value string) (datatypes.Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return datatypes.Date(t), nil
}

// ParseClock accepts HH:MM or HH:MM:SS.
func ParseClock(value string) (datatypes.Time, error) {
	for _, layout := range []string{TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
}

// SameDate compares calendar days, ignoring location and clock.
func SameDate(a, b datatypes.Date) bool {
	return FormatDate(a) == FormatDate(b)
}
