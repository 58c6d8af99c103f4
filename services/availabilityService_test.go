package services

import (
	"CareClinic/testutil"
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type availabilityFixture struct {
	clinic  *testutil.Clinic
	service *AvailabilityService
	doctor  Actor
	other   Actor
	patient Actor
}

func newAvailabilityFixture() *availabilityFixture {
	clinic := testutil.NewClinic()
	return &availabilityFixture{
		clinic:  clinic,
		service: NewAvailabilityService(clinic.Availability(), clinic.Doctors()),
		doctor:  actorOf(clinic.AddDoctor("drsmith", "John", "Smith")),
		other:   actorOf(clinic.AddDoctor("drjohnson", "Emily", "Johnson")),
		patient: actorOf(clinic.AddPatient("patient1", "Alice", "Brown")),
	}
}

func TestAvailability_CreateAndList(t *testing.T) {
	f := newAvailabilityFixture()

	later, err := f.service.Create(ctxT(), f.doctor, AvailabilityInput{DayOfWeek: 2, StartTime: "13:00", EndTime: "17:00"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !later.IsAvailable {
		t.Errorf("Expected window to default to available")
	}
	closed := false
	if _, err := f.service.Create(ctxT(), f.doctor, AvailabilityInput{DayOfWeek: 0, StartTime: "09:00", EndTime: "12:00", IsAvailable: &closed}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	doctor, windows, err := f.service.ListForDoctor(ctxT(), f.doctor.DoctorID())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if doctor.ID != f.doctor.DoctorID() {
		t.Errorf("Expected doctor %d, got %d", f.doctor.DoctorID(), doctor.ID)
	}
	if len(windows) != 2 {
		t.Fatalf("Expected 2 windows, got %d", len(windows))
	}
	if windows[0].DayName() != "Monday" || windows[0].IsAvailable {
		t.Errorf("Expected closed Monday window first, got %s available=%v", windows[0].DayName(), windows[0].IsAvailable)
	}

	_, others, _ := f.service.ListForDoctor(ctxT(), f.other.DoctorID())
	if len(others) != 0 {
		t.Errorf("Expected no windows for other doctor, got %d", len(others))
	}
}

func TestAvailability_CreateRejected(t *testing.T) {
	f := newAvailabilityFixture()
	if _, err := f.service.Create(ctxT(), f.doctor, AvailabilityInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	tests := []struct {
		name    string
		actor   Actor
		input   AvailabilityInput
		wantErr error
		field   string
		message string
	}{
		{"patient", f.patient, AvailabilityInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}, ErrForbidden, "", "Only doctors can manage availability."},
		{"day out of range", f.doctor, AvailabilityInput{DayOfWeek: 7, StartTime: "09:00", EndTime: "10:00"}, nil, "day_of_week", ""},
		{"bad clock", f.doctor, AvailabilityInput{DayOfWeek: 3, StartTime: "nine", EndTime: "10:00"}, nil, "start_time", ""},
		{"end before start", f.doctor, AvailabilityInput{DayOfWeek: 3, StartTime: "10:00", EndTime: "09:00"}, ErrInvalidInput, "", "End time must be after start time."},
		{"duplicate start", f.doctor, AvailabilityInput{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"}, ErrInvalidInput, "", "You already have availability starting at that time on Tuesday."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(ctxT(), tt.actor, tt.input)
			if err == nil {
				t.Fatal("Expected an error, got nil")
			}
			if tt.field != "" {
				var fieldErrs validation.Errors
				if !errors.As(err, &fieldErrs) {
					t.Fatalf("Expected validation errors, got %v", err)
				}
				if _, ok := fieldErrs[tt.field]; !ok {
					t.Errorf("Expected error on %s, got %v", tt.field, fieldErrs)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if msg := userMessage(err); msg != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, msg)
			}
		})
	}
}

func TestAvailability_Delete(t *testing.T) {
	f := newAvailabilityFixture()
	window, err := f.service.Create(ctxT(), f.doctor, AvailabilityInput{DayOfWeek: 4, StartTime: "09:00", EndTime: "17:00"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := f.service.Delete(ctxT(), f.other, window.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected forbidden for another doctor, got %v", err)
	}
	if err := f.service.Delete(ctxT(), f.patient, window.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected forbidden for a patient, got %v", err)
	}
	if err := f.service.Delete(ctxT(), f.doctor, window.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := f.service.Delete(ctxT(), f.doctor, window.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}

func TestAvailability_UnknownDoctor(t *testing.T) {
	f := newAvailabilityFixture()
	if _, _, err := f.service.ListForDoctor(ctxT(), 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}
