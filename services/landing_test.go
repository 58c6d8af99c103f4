package services

import (
	"CareClinic/models"
	"testing"
)

func TestResolveLanding(t *testing.T) {
	doctor := &models.UserProfile{UserType: models.UserTypeDoctor, Doctor: &models.DoctorProfile{ID: 1}}
	patient := &models.UserProfile{UserType: models.UserTypePatient, Patient: &models.PatientProfile{ID: 2}}
	orphanDoctor := &models.UserProfile{UserType: models.UserTypeDoctor}

	tests := []struct {
		name    string
		user    *models.User
		profile *models.UserProfile
		kind    LandingKind
		path    string
	}{
		{"doctor", &models.User{}, doctor, LandingDashboard, DoctorDashboardPath},
		{"patient", &models.User{}, patient, LandingDashboard, PatientDashboardPath},
		{"staff doctor keeps dashboard", &models.User{IsStaff: true}, doctor, LandingDashboard, DoctorDashboardPath},
		{"staff without profile", &models.User{IsStaff: true}, nil, LandingAdminPanel, AdminPanelPath},
		{"superuser with broken profile", &models.User{IsSuperuser: true}, orphanDoctor, LandingAdminPanel, AdminPanelPath},
		{"plain user without profile", &models.User{}, nil, LandingLoggedOut, LoginPath},
		{"plain user with broken profile", &models.User{}, orphanDoctor, LandingLoggedOut, LoginPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveLanding(tt.user, tt.profile)
			if got.Kind != tt.kind || got.Path != tt.path {
				t.Errorf("Expected %v %s, got %v %s", tt.kind, tt.path, got.Kind, got.Path)
			}
			if tt.kind == LandingLoggedOut && got.Message != ProfileMissingMessage {
				t.Errorf("Expected the profile missing message, got %q", got.Message)
			}
		})
	}
}
