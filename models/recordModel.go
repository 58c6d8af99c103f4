package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ReportConsultation   = "consultation"
	ReportPrescription   = "prescription"
	ReportLab            = "lab"
	ReportMedicalHistory = "medical_history"
)

var reportTypeLabels = map[string]string{
	ReportConsultation:   "Consultation Summary",
	ReportPrescription:   "Prescription",
	ReportLab:            "Lab Report",
	ReportMedicalHistory: "Medical History",
}

// ReportTypes lists the report kinds in form order.
var ReportTypes = []string{ReportConsultation, ReportPrescription, ReportLab, ReportMedicalHistory}

func IsReportType(t string) bool {
	_, ok := reportTypeLabels[t]
	return ok
}

// MedicalRecord model
type MedicalRecord struct {
	ID            uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID     uint            `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID      *uint           `gorm:"column:doctor_id;index" json:"doctor_id"`
	AppointmentID *uint           `gorm:"column:appointment_id;index" json:"appointment_id"`
	Diagnosis     string          `gorm:"column:diagnosis;type:text;not null" json:"diagnosis"`
	Symptoms      string          `gorm:"column:symptoms;type:text;not null" json:"symptoms"`
	Prescription  string          `gorm:"column:prescription;type:text;not null" json:"prescription"`
	LabResults    string          `gorm:"column:lab_results;type:text" json:"lab_results"`
	Notes         string          `gorm:"column:notes;type:text" json:"notes"`
	RecordDate    datatypes.Date  `gorm:"column:record_date;not null;index" json:"record_date"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Patient       *PatientProfile `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE;" json:"patient,omitempty"`
	Doctor        *DoctorProfile  `gorm:"foreignKey:DoctorID;constraint:OnDelete:SET NULL;" json:"doctor,omitempty"`
	Appointment   *Appointment    `gorm:"foreignKey:AppointmentID;constraint:OnDelete:SET NULL;" json:"appointment,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "medical_record"
}

// Report model
type Report struct {
	ID              uint            `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PatientID       uint            `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID        *uint           `gorm:"column:doctor_id;index" json:"doctor_id"`
	MedicalRecordID *uint           `gorm:"column:medical_record_id;index" json:"medical_record_id"`
	ReportType      string          `gorm:"column:report_type;size:20;not null;check:report_type IN ('consultation', 'prescription', 'lab', 'medical_history')" json:"report_type"`
	Title           string          `gorm:"column:title;size:200;not null" json:"title"`
	Content         string          `gorm:"column:content;type:text;not null" json:"content"`
	FilePath        string          `gorm:"column:file_path;size:255" json:"file_path,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	Patient         *PatientProfile `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE;" json:"patient,omitempty"`
	Doctor          *DoctorProfile  `gorm:"foreignKey:DoctorID;constraint:OnDelete:SET NULL;" json:"doctor,omitempty"`
	MedicalRecord   *MedicalRecord  `gorm:"foreignKey:MedicalRecordID;constraint:OnDelete:CASCADE;" json:"medical_record,omitempty"`
}

func (Report) TableName() string {
	return "report"
}

// TypeLabel is the human readable report type.
func (r *Report) TypeLabel() string {
	if label, ok := reportTypeLabels[r.ReportType]; ok {
		return label
	}
	return r.ReportType
}
