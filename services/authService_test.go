package services

import (
	"CareClinic/models"
	"CareClinic/testutil"
	"CareClinic/utils"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

type authFixture struct {
	clinic   *testutil.Clinic
	sessions *testutil.SessionStore
	mailer   *testutil.Mailer
	service  *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	tokens, err := utils.NewTokenMaker(testKey)
	if err != nil {
		t.Fatalf("Failed to create token maker: %v", err)
	}
	f := &authFixture{
		clinic:   testutil.NewClinic(),
		sessions: testutil.NewSessionStore(),
		mailer:   testutil.NewMailer(),
	}
	f.service = NewAuthService(f.clinic.Users(), f.clinic.Doctors(), f.sessions, tokens, f.mailer, time.Hour)
	return f
}

func patientRegistration() RegisterInput {
	return RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "s3curePass",
		Password2: "s3curePass",
		FirstName: "Alice",
		LastName:  "Brown",
		UserType:  models.UserTypePatient,
	}
}

func userMessage(err error) string {
	var uf UserFacing
	if errors.As(err, &uf) {
		return uf.UserMessage()
	}
	return ""
}

func TestRegister_Patient(t *testing.T) {
	f := newAuthFixture(t)

	user, err := f.service.Register(ctxT(), patientRegistration())
	if err != nil {
		t.Fatalf("Expected registration to succeed, got: %v", err)
	}
	if user.Password == "s3curePass" || !utils.CheckPassword(user.Password, "s3curePass") {
		t.Error("Expected the stored password to be a bcrypt hash of the input")
	}
	profile, _ := f.clinic.Users().GetProfile(ctxT(), user.ID)
	if profile == nil || profile.Patient == nil || profile.Doctor != nil {
		t.Fatalf("Expected a patient profile, got %+v", profile)
	}
	if f.clinic.CacheDrops() != 0 {
		t.Error("Expected the doctors cache to stay untouched for patients")
	}
}

func TestRegister_Doctor(t *testing.T) {
	f := newAuthFixture(t)
	in := patientRegistration()
	in.UserType = models.UserTypeDoctor

	_, err := f.service.Register(ctxT(), in)
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("Expected validation errors for missing doctor fields, got: %v", err)
	}
	for _, field := range []string{"specialization", "qualification", "license_number"} {
		if _, ok := fieldErrs[field]; !ok {
			t.Errorf("Expected an error for %s, got %v", field, fieldErrs)
		}
	}

	in.Specialization, in.Qualification, in.LicenseNumber = "Cardiology", "MD", "DOC12345"
	user, err := f.service.Register(ctxT(), in)
	if err != nil {
		t.Fatalf("Expected registration to succeed, got: %v", err)
	}
	profile, _ := f.clinic.Users().GetProfile(ctxT(), user.ID)
	if profile.Doctor == nil || !profile.Doctor.Available {
		t.Errorf("Expected an available doctor profile, got %+v", profile.Doctor)
	}
	if f.clinic.CacheDrops() != 1 {
		t.Errorf("Expected the doctors cache to be dropped once, got %d", f.clinic.CacheDrops())
	}

	in.Username, in.Email = "other", "other@example.com"
	_, err = f.service.Register(ctxT(), in)
	if got := userMessage(err); got != "License number already registered!" {
		t.Errorf("Expected duplicate license message, got %q", got)
	}
}

func TestRegister_Rejections(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.service.Register(ctxT(), patientRegistration()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		modify func(*RegisterInput)
		want   string
	}{
		{"mismatched passwords", func(in *RegisterInput) { in.Password2 = "different1" }, "Passwords do not match!"},
		{"taken username", func(in *RegisterInput) { in.Email = "new@example.com" }, "Username already exists!"},
		{"taken email", func(in *RegisterInput) { in.Username = "alice2" }, "Email already exists!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := patientRegistration()
			tt.modify(&in)
			_, err := f.service.Register(ctxT(), in)
			if got := userMessage(err); got != tt.want {
				t.Errorf("Expected %q, got %q (%v)", tt.want, got, err)
			}
		})
	}

	in := patientRegistration()
	in.Username, in.Email = "bob", "bob@example.com"
	in.Password, in.Password2 = "12345678", "12345678"
	if _, err := f.service.Register(ctxT(), in); err == nil {
		t.Error("Expected an all-numeric password to be rejected")
	}
}

func TestLoginAuthenticateLogout(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.service.Register(ctxT(), patientRegistration()); err != nil {
		t.Fatal(err)
	}

	if _, err := f.service.Login(ctxT(), "alice", "wrongpass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got: %v", err)
	}
	if _, err := f.service.Login(ctxT(), "nobody", "s3curePass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for an unknown user, got: %v", err)
	}

	result, err := f.service.Login(ctxT(), " alice ", "s3curePass")
	if err != nil {
		t.Fatalf("Expected login to succeed, got: %v", err)
	}
	if result.Landing.Path != PatientDashboardPath || result.Token == "" {
		t.Errorf("Expected a token and the patient dashboard, got %+v", result.Landing)
	}
	if f.sessions.SessionCount() != 1 {
		t.Errorf("Expected 1 session, got %d", f.sessions.SessionCount())
	}

	session, err := f.service.Authenticate(ctxT(), result.Token)
	if err != nil {
		t.Fatalf("Expected the token to authenticate, got: %v", err)
	}
	if !session.Actor.IsPatient() || session.Actor.User.Username != "alice" {
		t.Errorf("Expected alice as a patient, got %+v", session.Actor.User)
	}

	if err := f.service.Logout(ctxT(), session.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.Authenticate(ctxT(), result.Token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Expected ErrSessionExpired after logout, got: %v", err)
	}
	if _, err := f.service.Authenticate(ctxT(), "garbage"); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("Expected ErrSessionExpired for a forged token, got: %v", err)
	}
}

func TestLogin_WithoutProfile(t *testing.T) {
	f := newAuthFixture(t)
	hashed, _ := utils.HashPassword("admin123")
	f.clinic.AddUser(models.User{Username: "plain", Email: "plain@example.com", Password: hashed, IsActive: true})
	f.clinic.AddUser(models.User{Username: "admin", Email: "admin@example.com", Password: hashed, IsActive: true, IsStaff: true, IsSuperuser: true})

	result, err := f.service.Login(ctxT(), "plain", "admin123")
	if err != nil {
		t.Fatal(err)
	}
	if result.Landing.Kind != LandingLoggedOut || result.Token != "" {
		t.Errorf("Expected the user to be turned away without a session, got %+v", result.Landing)
	}
	if f.sessions.SessionCount() != 0 {
		t.Errorf("Expected no session, got %d", f.sessions.SessionCount())
	}

	result, err = f.service.Login(ctxT(), "admin", "admin123")
	if err != nil {
		t.Fatal(err)
	}
	if result.Landing.Kind != LandingAdminPanel || result.Token == "" {
		t.Errorf("Expected the admin panel with a session, got %+v", result.Landing)
	}
}

func TestLogin_InactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	hashed, _ := utils.HashPassword("s3curePass")
	f.clinic.AddUser(models.User{Username: "gone", Email: "gone@example.com", Password: hashed, IsActive: false})

	if _, err := f.service.Login(ctxT(), "gone", "s3curePass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestPasswordReset(t *testing.T) {
	f := newAuthFixture(t)
	user, err := f.service.Register(ctxT(), patientRegistration())
	if err != nil {
		t.Fatal(err)
	}

	if err := f.service.SendResetCode(ctxT(), "nobody@example.com"); err != nil {
		t.Errorf("Expected unknown emails to succeed silently, got: %v", err)
	}
	if len(f.mailer.Sent) != 0 {
		t.Errorf("Expected no mail for unknown emails, got %v", f.mailer.Sent)
	}
	if err := f.service.SendResetCode(ctxT(), "not-an-email"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got: %v", err)
	}

	if err := f.service.SendResetCode(ctxT(), "alice@example.com"); err != nil {
		t.Fatalf("Expected the code to be sent, got: %v", err)
	}
	code := f.mailer.Sent["alice@example.com"]
	if len(code) != 6 {
		t.Fatalf("Expected a 6-digit code, got %q", code)
	}

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if err := f.service.ResetPassword(ctxT(), "alice@example.com", wrong, "newPassw0rd"); !errors.Is(err, ErrInvalidResetCode) {
		t.Errorf("Expected ErrInvalidResetCode, got: %v", err)
	}
	if err := f.service.ResetPassword(ctxT(), "alice@example.com", code, "newPassw0rd"); err != nil {
		t.Fatalf("Expected reset to succeed, got: %v", err)
	}
	if !utils.CheckPassword(f.clinic.User(user.ID).Password, "newPassw0rd") {
		t.Error("Expected the new password to be stored")
	}
	if err := f.service.ResetPassword(ctxT(), "alice@example.com", code, "anotherPass1"); !errors.Is(err, ErrInvalidResetCode) {
		t.Errorf("Expected the code to be single use, got: %v", err)
	}
}

func TestSendResetCode_MailerFailure(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.service.Register(ctxT(), patientRegistration()); err != nil {
		t.Fatal(err)
	}
	f.mailer.Err = errors.New("smtp down")

	if err := f.service.SendResetCode(ctxT(), "alice@example.com"); err == nil {
		t.Error("Expected the mailer failure to surface")
	}
}

func TestResetPassword_AttemptLimit(t *testing.T) {
	f := newAuthFixture(t)
	user, err := f.service.Register(ctxT(), patientRegistration())
	if err != nil {
		t.Fatal(err)
	}
	if err := f.service.SendResetCode(ctxT(), "alice@example.com"); err != nil {
		t.Fatalf("Expected the code to be sent, got: %v", err)
	}
	code := f.mailer.Sent["alice@example.com"]
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	for i := 0; i < utils.MaxResetAttempts; i++ {
		if err := f.service.ResetPassword(ctxT(), "alice@example.com", wrong, "newPassw0rd"); !errors.Is(err, ErrInvalidResetCode) {
			t.Fatalf("Attempt %d: expected ErrInvalidResetCode, got: %v", i+1, err)
		}
	}
	if err := f.service.ResetPassword(ctxT(), "alice@example.com", code, "newPassw0rd"); !errors.Is(err, ErrTooManyResetAttempts) {
		t.Errorf("Expected the right code to be refused once locked, got: %v", err)
	}
	if utils.CheckPassword(f.clinic.User(user.ID).Password, "newPassw0rd") {
		t.Error("Expected the password to stay unchanged")
	}
}
