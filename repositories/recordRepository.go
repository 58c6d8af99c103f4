package repositories

import (
	"CareClinic/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// RecordQuery filters medical records and reports. Zero fields are ignored.
type RecordQuery struct {
	DoctorID  uint
	PatientID uint
	Limit     int
}

type RecordRepository interface {
	CreateMedicalRecord(ctx context.Context, record *models.MedicalRecord) error
	GetMedicalRecord(ctx context.Context, id uint) (*models.MedicalRecord, error)
	ListMedicalRecords(ctx context.Context, q RecordQuery) ([]models.MedicalRecord, error)

	CreateReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id uint) (*models.Report, error)
	ListReports(ctx context.Context, q RecordQuery) ([]models.Report, error)
}

type recordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) scoped(ctx context.Context, q RecordQuery) *gorm.DB {
	db := r.db.WithContext(ctx).
		Preload("Patient.UserProfile.User", withAccount).
		Preload("Doctor.UserProfile.User", withAccount)
	if q.DoctorID != 0 {
		db = db.Where("doctor_id = ?", q.DoctorID)
	}
	if q.PatientID != 0 {
		db = db.Where("patient_id = ?", q.PatientID)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	return db
}

func (r *recordRepository) CreateMedicalRecord(ctx context.Context, record *models.MedicalRecord) error {
	if err := r.db.WithContext(ctx).Omit("Patient", "Doctor", "Appointment").Create(record).Error; err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return nil
}

func (r *recordRepository) GetMedicalRecord(ctx context.Context, id uint) (*models.MedicalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var record models.MedicalRecord
	err := r.scoped(ctx, RecordQuery{}).Preload("Appointment").First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}
	return &record, nil
}

func (r *recordRepository) ListMedicalRecords(ctx context.Context, q RecordQuery) ([]models.MedicalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var records []models.MedicalRecord
	err := r.scoped(ctx, q).Order("record_date DESC, created_at DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

func (r *recordRepository) CreateReport(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Omit("Patient", "Doctor", "MedicalRecord").Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *recordRepository) GetReport(ctx context.Context, id uint) (*models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var report models.Report
	err := r.scoped(ctx, RecordQuery{}).Preload("MedicalRecord").First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

func (r *recordRepository) ListReports(ctx context.Context, q RecordQuery) ([]models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var reports []models.Report
	if err := r.scoped(ctx, q).Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}
