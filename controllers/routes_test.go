package controllers

import (
	"CareClinic/handlers"
	"CareClinic/middlewares"
	"CareClinic/models"
	"CareClinic/services"
	"CareClinic/testutil"
	"CareClinic/utils"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuth signs every request with a session cookie in as actor.
type fakeAuth struct {
	actor services.Actor
}

func (f fakeAuth) Authenticate(ctx context.Context, token string) (*services.Session, error) {
	return &services.Session{ID: "session-1", Actor: f.actor}, nil
}

type recordingRevoker struct {
	revoked []string
}

func (r *recordingRevoker) Logout(ctx context.Context, sessionID string) error {
	r.revoked = append(r.revoked, sessionID)
	return nil
}

// clinicRouter registers the production route groups over in-memory
// repositories, with every session resolving to actor.
func clinicRouter(t *testing.T, clinic *testutil.Clinic, actor services.Actor) (*gin.Engine, *recordingRevoker) {
	t.Helper()
	tokens, err := utils.NewTokenMaker([]byte(strings.Repeat("k", 32)))
	if err != nil {
		t.Fatalf("Failed to create token maker: %v", err)
	}
	events := &testutil.Publisher{}
	revoker := &recordingRevoker{}

	auth := services.NewAuthService(clinic.Users(), clinic.Doctors(), testutil.NewSessionStore(), tokens, testutil.NewMailer(), time.Hour)
	appointments := services.NewAppointmentService(clinic.Appointments(), clinic.Doctors(), testutil.NewLocker(), services.OpenPolicy(), events)
	dashboards := handlers.NewDashboardHandler(services.NewDashboardService(clinic.Appointments(), clinic.Consultations(), clinic.Records()), revoker)
	settings := handlers.NewSettingsHandler(services.NewSettingsService(clinic.Users(), clinic.Settings(), clinic.Doctors(), clinic.Patients()))

	signedIn := middlewares.SessionAuth(fakeAuth{actor: actor})
	withProfile := middlewares.RequireProfile(revoker)

	router := gin.New()
	NewAuthController(handlers.NewAuthHandler(auth)).RegisterRoutes(router, signedIn)
	SetupClinicRoutes(router, ClinicHandlers{
		Appointments:  handlers.NewAppointmentHandler(appointments),
		Availability:  handlers.NewAvailabilityHandler(services.NewAvailabilityService(clinic.Availability(), clinic.Doctors())),
		Consultations: handlers.NewConsultationHandler(services.NewConsultationService(clinic.Consultations(), clinic.Appointments(), events)),
		Reports:       handlers.NewReportHandler(services.NewRecordService(clinic.Records(), clinic.Patients(), clinic.Appointments())),
		Dashboards:    dashboards,
		Settings:      settings,
	}, signedIn, withProfile)
	SetupRootRoutes(router, dashboards, settings, handlers.NewHealthHandler(nil, nil),
		middlewares.ValidateBearerToken("health-token"), signedIn)
	return router, revoker
}

func actorOf(profile *models.UserProfile) services.Actor {
	return services.Actor{User: profile.User, Profile: profile}
}

func send(router *gin.Engine, method, target string, form url.Values, signed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if signed {
		req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: "token"})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func cookieOf(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func flashesOf(t *testing.T, rec *httptest.ResponseRecorder) []utils.Flash {
	t.Helper()
	cookie := cookieOf(rec, utils.FlashCookie)
	if cookie == nil || cookie.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		t.Fatalf("Failed to decode flash cookie: %v", err)
	}
	var flashes []utils.Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		t.Fatalf("Failed to parse flash cookie: %v", err)
	}
	return flashes
}

func expectLocation(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %s, got %s", location, got)
	}
}

func TestRoutes_Registered(t *testing.T) {
	router, _ := clinicRouter(t, testutil.NewClinic(), services.Actor{})

	registered := map[string]bool{}
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"POST /accounts/register/",
		"POST /accounts/login/",
		"POST /accounts/logout/",
		"GET /accounts/profile/",
		"POST /accounts/password-reset/",
		"POST /accounts/password-reset/confirm/",
		"GET /",
		"GET /dashboard/",
		"GET /dashboard/doctor/",
		"GET /dashboard/patient/",
		"GET /appointments/",
		"GET /appointments/doctors/",
		"GET /appointments/book/",
		"POST /appointments/book/",
		"GET /appointments/:id/",
		"POST /appointments/:id/cancel/",
		"POST /appointments/:id/reschedule/",
		"POST /appointments/:id/update-status/",
		"GET /appointments/availability/:id/",
		"POST /appointments/availability/",
		"POST /appointments/availability/:id/delete/",
		"GET /consultation/notes/",
		"GET /consultation/notes/:id/",
		"POST /consultation/notes/create/:id/",
		"GET /consultation/chat/:id/",
		"POST /consultation/chat/:id/",
		"GET /consultation/video/:id/",
		"POST /consultation/video/:id/start/",
		"POST /consultation/video/:id/end/",
		"GET /reports/",
		"GET /reports/:id/",
		"POST /reports/generate/",
		"GET /reports/:id/export-pdf/",
		"GET /reports/:id/export-csv/",
		"GET /reports/medical-records/",
		"GET /reports/medical-records/:id/",
		"POST /reports/medical-records/create/",
		"GET /settings/user/",
		"POST /settings/user/",
		"POST /settings/change-password/",
		"GET /settings/system/",
		"POST /settings/system/",
		"GET /admin/",
		"GET /health",
		"GET /health/details",
	}
	for _, route := range expected {
		if !registered[route] {
			t.Errorf("Expected route %s to be registered", route)
		}
	}
}

func TestUpdateStatusRoute(t *testing.T) {
	clinic := testutil.NewClinic()
	doctor := actorOf(clinic.AddDoctor("drsmith", "John", "Smith"))
	patient := actorOf(clinic.AddPatient("patient1", "Alice", "Brown"))
	date, _ := models.ParseDate("2030-06-01")
	at, _ := models.ParseClock("10:00")
	id := clinic.AddAppointment(models.Appointment{
		PatientID:       patient.PatientID(),
		DoctorID:        doctor.DoctorID(),
		AppointmentDate: date,
		AppointmentTime: at,
		Status:          models.StatusScheduled,
	})

	router, _ := clinicRouter(t, clinic, doctor)
	rec := send(router, http.MethodPost, fmt.Sprintf("/appointments/%d/update-status/", id), url.Values{"status": {"confirmed"}}, true)

	expectLocation(t, rec, fmt.Sprintf("/appointments/%d/", id))
	flashes := flashesOf(t, rec)
	if len(flashes) != 1 || flashes[0].Level != utils.FlashSuccess {
		t.Errorf("Expected one success flash, got %+v", flashes)
	}
	if got := clinic.Appointment(id).Status; got != models.StatusConfirmed {
		t.Errorf("Expected status %s, got %s", models.StatusConfirmed, got)
	}
}

func TestProfileGate_PlainUserLoggedOut(t *testing.T) {
	clinic := testutil.NewClinic()
	user := clinic.AddUser(models.User{Username: "orphan", IsActive: true})

	router, revoker := clinicRouter(t, clinic, services.Actor{User: user})
	rec := send(router, http.MethodGet, "/appointments/", nil, true)

	expectLocation(t, rec, services.LoginPath)
	flashes := flashesOf(t, rec)
	if len(flashes) != 1 || flashes[0].Level != utils.FlashError || flashes[0].Message != services.ProfileMissingMessage {
		t.Errorf("Expected profile missing error flash, got %+v", flashes)
	}
	if len(revoker.revoked) != 1 || revoker.revoked[0] != "session-1" {
		t.Errorf("Expected session-1 to be revoked, got %v", revoker.revoked)
	}
	if cookie := cookieOf(rec, utils.SessionCookie); cookie == nil || cookie.MaxAge >= 0 {
		t.Errorf("Expected the session cookie to be cleared, got %+v", cookie)
	}
}

func TestProfileGate_StaffGoesToAdmin(t *testing.T) {
	clinic := testutil.NewClinic()
	admin := clinic.AddUser(models.User{Username: "admin", IsStaff: true, IsActive: true})
	actor := services.Actor{User: admin}

	tests := []struct {
		name   string
		target string
	}{
		{"role router", "/dashboard/"},
		{"root", "/"},
		{"clinic group", "/appointments/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, revoker := clinicRouter(t, clinic, actor)
			rec := send(router, http.MethodGet, tt.target, nil, true)

			expectLocation(t, rec, services.AdminPanelPath)
			if len(revoker.revoked) != 0 {
				t.Errorf("Expected no revocation for staff, got %v", revoker.revoked)
			}
			if flashes := flashesOf(t, rec); len(flashes) != 0 {
				t.Errorf("Expected no flash, got %+v", flashes)
			}
		})
	}

	router, _ := clinicRouter(t, clinic, actor)
	if rec := send(router, http.MethodGet, "/admin/", nil, true); rec.Code != http.StatusOK {
		t.Errorf("Expected admin panel to render, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRoleRouter_ProfileLanding(t *testing.T) {
	clinic := testutil.NewClinic()
	doctor := actorOf(clinic.AddDoctor("drsmith", "John", "Smith"))
	patient := actorOf(clinic.AddPatient("patient1", "Alice", "Brown"))

	router, _ := clinicRouter(t, clinic, doctor)
	expectLocation(t, send(router, http.MethodGet, "/dashboard/", nil, true), services.DoctorDashboardPath)

	router, _ = clinicRouter(t, clinic, patient)
	expectLocation(t, send(router, http.MethodGet, "/", nil, true), services.PatientDashboardPath)
}

func TestSessionRequired(t *testing.T) {
	router, revoker := clinicRouter(t, testutil.NewClinic(), services.Actor{})

	for _, target := range []string{"/appointments/", "/dashboard/", "/accounts/profile/", "/admin/"} {
		rec := send(router, http.MethodGet, target, nil, false)
		expectLocation(t, rec, services.LoginPath)
	}
	if len(revoker.revoked) != 0 {
		t.Errorf("Expected no revocation without a session, got %v", revoker.revoked)
	}
	if rec := send(router, http.MethodPost, "/accounts/password-reset/", url.Values{"email": {"nobody@example.com"}}, false); rec.Code != http.StatusFound {
		t.Errorf("Expected public reset route to answer 302, got %d", rec.Code)
	}
}

func TestHealthDetails_RequiresBearer(t *testing.T) {
	router, _ := clinicRouter(t, testutil.NewClinic(), services.Actor{})
	if rec := send(router, http.MethodGet, "/health/details", nil, false); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}
