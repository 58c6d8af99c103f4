package services

import (
	"CareClinic/models"
	"CareClinic/testutil"
	"testing"
)

func actorOf(profile *models.UserProfile) Actor {
	return Actor{User: profile.User, Profile: profile}
}

type appointmentFixture struct {
	clinic   *testutil.Clinic
	locker   *testutil.Locker
	events   *testutil.Publisher
	service  *AppointmentService
	doctor   Actor
	patient  Actor
	otherPt  Actor
	otherDoc Actor
}

func newAppointmentFixture(t *testing.T, policy *TransitionPolicy) *appointmentFixture {
	t.Helper()
	clinic := testutil.NewClinic()
	f := &appointmentFixture{
		clinic:   clinic,
		locker:   testutil.NewLocker(),
		events:   &testutil.Publisher{},
		doctor:   actorOf(clinic.AddDoctor("drsmith", "John", "Smith")),
		otherDoc: actorOf(clinic.AddDoctor("drjohnson", "Emily", "Johnson")),
		patient:  actorOf(clinic.AddPatient("patient1", "Alice", "Brown")),
		otherPt:  actorOf(clinic.AddPatient("patient2", "Charlie", "Davis")),
	}
	f.service = NewAppointmentService(clinic.Appointments(), clinic.Doctors(), f.locker, policy, f.events)
	return f
}

func (f *appointmentFixture) book(t *testing.T, patient Actor, date, at string) *models.Appointment {
	t.Helper()
	appt, err := f.service.Book(ctxT(), patient, BookingInput{
		DoctorID: f.doctor.DoctorID(),
		Date:     date,
		Time:     at,
		Reason:   "Checkup",
	})
	if err != nil {
		t.Fatalf("Expected booking to succeed, got: %v", err)
	}
	return appt
}
