package services

import "CareClinic/models"

type LandingKind int

const (
	LandingDashboard LandingKind = iota
	LandingAdminPanel
	LandingLoggedOut
)

const (
	DoctorDashboardPath  = "/dashboard/doctor/"
	PatientDashboardPath = "/dashboard/patient/"
	AdminPanelPath       = "/admin/"
	LoginPath            = "/accounts/login/"

	ProfileMissingMessage = "Your user profile could not be loaded. This may indicate a system configuration issue. Please contact your system administrator for assistance."
)

// Landing is where an authenticated identity is sent.
type Landing struct {
	Kind    LandingKind
	Path    string
	Message string
}

// ResolveLanding routes a signed-in user. Users without a usable profile go
// to the admin panel when elevated and are logged out otherwise; the caller
// must revoke the session for LandingLoggedOut.
func ResolveLanding(user *models.User, profile *models.UserProfile) Landing {
	actor := Actor{User: user, Profile: profile}
	switch {
	case actor.IsDoctor():
		return Landing{Kind: LandingDashboard, Path: DoctorDashboardPath}
	case actor.IsPatient():
		return Landing{Kind: LandingDashboard, Path: PatientDashboardPath}
	case user.Elevated():
		return Landing{Kind: LandingAdminPanel, Path: AdminPanelPath}
	default:
		return Landing{Kind: LandingLoggedOut, Path: LoginPath, Message: ProfileMissingMessage}
	}
}
