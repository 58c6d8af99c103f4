package services

import "CareClinic/models"

// Actor is the signed-in user of a request together with its profile.
type Actor struct {
	User    *models.User
	Profile *models.UserProfile
}

// HasProfile reports whether the profile and its role profile are loaded.
func (a Actor) HasProfile() bool {
	switch {
	case a.Profile == nil:
		return false
	case a.Profile.IsDoctor():
		return a.Profile.Doctor != nil
	case a.Profile.IsPatient():
		return a.Profile.Patient != nil
	}
	return false
}

func (a Actor) IsDoctor() bool {
	return a.Profile.IsDoctor() && a.Profile.Doctor != nil
}

func (a Actor) IsPatient() bool {
	return a.Profile.IsPatient() && a.Profile.Patient != nil
}

func (a Actor) DoctorID() uint {
	if !a.IsDoctor() {
		return 0
	}
	return a.Profile.Doctor.ID
}

func (a Actor) PatientID() uint {
	if !a.IsPatient() {
		return 0
	}
	return a.Profile.Patient.ID
}

func (a Actor) UserID() uint {
	if a.User == nil {
		return 0
	}
	return a.User.ID
}

// participates reports whether the actor is the doctor or the patient of the appointment.
func (a Actor) participates(appointment *models.Appointment) bool {
	return (a.IsDoctor() && appointment.DoctorID == a.DoctorID()) ||
		(a.IsPatient() && appointment.PatientID == a.PatientID())
}
