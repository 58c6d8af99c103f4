package services

import (
	"CareClinic/models"
	"CareClinic/repositories"
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type AvailabilityInput struct {
	DayOfWeek   int    `form:"day_of_week" json:"day_of_week"`
	StartTime   string `form:"start_time" json:"start_time"`
	EndTime     string `form:"end_time" json:"end_time"`
	IsAvailable *bool  `form:"is_available" json:"is_available"`
}

func (in AvailabilityInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.DayOfWeek, validation.Min(0), validation.Max(6)),
		validation.Field(&in.StartTime, validation.Required, validation.By(isClock)),
		validation.Field(&in.EndTime, validation.Required, validation.By(isClock)),
	)
}

// AvailabilityService manages the weekly windows doctors publish. Booking
// does not consult them.
type AvailabilityService struct {
	windows repositories.AvailabilityRepository
	doctors repositories.DoctorRepository
}

func NewAvailabilityService(windows repositories.AvailabilityRepository, doctors repositories.DoctorRepository) *AvailabilityService {
	return &AvailabilityService{windows: windows, doctors: doctors}
}

func (s *AvailabilityService) ListForDoctor(ctx context.Context, doctorID uint) (*models.DoctorProfile, []models.DoctorAvailability, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, nil, err
	}
	if doctor == nil {
		return nil, nil, ErrNotFound
	}
	windows, err := s.windows.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, nil, err
	}
	return doctor, windows, nil
}

func (s *AvailabilityService) Create(ctx context.Context, actor Actor, in AvailabilityInput) (*models.DoctorAvailability, error) {
	if !actor.IsDoctor() {
		return nil, forbidden("Only doctors can manage availability.")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	start, _ := models.ParseClock(in.StartTime)
	end, _ := models.ParseClock(in.EndTime)
	if end <= start {
		return nil, invalid("End time must be after start time.")
	}

	window := &models.DoctorAvailability{
		DoctorID:    actor.DoctorID(),
		DayOfWeek:   in.DayOfWeek,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
	}
	if err := s.windows.Create(ctx, window); err != nil {
		if errors.Is(err, repositories.ErrWindowExists) {
			return nil, invalid("You already have availability starting at that time on " + window.DayName() + ".")
		}
		return nil, err
	}
	return window, nil
}

func (s *AvailabilityService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsDoctor() {
		return forbidden("Only doctors can manage availability.")
	}
	window, err := s.windows.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if window == nil {
		return ErrNotFound
	}
	if window.DoctorID != actor.DoctorID() {
		return forbidden("You do not have permission to delete this availability.")
	}
	return s.windows.Delete(ctx, id)
}
