package services

import (
	"CareClinic/models"
	"CareClinic/repositories"
	"CareClinic/utils"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrSessionExpired = errors.New("session expired")

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ResetMailer delivers password reset codes.
type ResetMailer interface {
	SendResetCode(email, code string) error
}

type RegisterInput struct {
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	Password2 string `form:"password2" json:"password2"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	UserType  string `form:"user_type" json:"user_type"`
	Phone     string `form:"phone_number" json:"phone_number"`

	Specialization string `form:"specialization" json:"specialization"`
	Qualification  string `form:"qualification" json:"qualification"`
	LicenseNumber  string `form:"license_number" json:"license_number"`

	BloodGroup       string `form:"blood_group" json:"blood_group"`
	EmergencyContact string `form:"emergency_contact" json:"emergency_contact"`
}

func (in RegisterInput) Validate() error {
	doctor := in.UserType == models.UserTypeDoctor
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, validation.RuneLength(3, 150), validation.Match(usernamePattern)),
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.Password, utils.PasswordRules...),
		validation.Field(&in.UserType, validation.Required, validation.In(models.UserTypeDoctor, models.UserTypePatient)),
		validation.Field(&in.Phone, validation.RuneLength(0, 15)),
		validation.Field(&in.Specialization, validation.When(doctor, validation.Required), validation.RuneLength(0, 100)),
		validation.Field(&in.Qualification, validation.When(doctor, validation.Required), validation.RuneLength(0, 200)),
		validation.Field(&in.LicenseNumber, validation.When(doctor, validation.Required), validation.RuneLength(0, 50)),
		validation.Field(&in.BloodGroup, validation.RuneLength(0, 5)),
		validation.Field(&in.EmergencyContact, validation.RuneLength(0, 15)),
	)
}

// LoginResult carries the landing of a successful sign-in. Token is empty
// when the landing logs the user out again.
type LoginResult struct {
	User    *models.User
	Profile *models.UserProfile
	Landing Landing
	Token   string
}

// Session is an authenticated request context.
type Session struct {
	ID    string
	Actor Actor
}

type AuthService struct {
	users      repositories.UserRepository
	doctors    repositories.DoctorRepository
	sessions   repositories.SessionRepository
	tokens     *utils.TokenMaker
	mailer     ResetMailer
	sessionTTL time.Duration
}

func NewAuthService(users repositories.UserRepository, doctors repositories.DoctorRepository, sessions repositories.SessionRepository, tokens *utils.TokenMaker, mailer ResetMailer, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		doctors:    doctors,
		sessions:   sessions,
		tokens:     tokens,
		mailer:     mailer,
		sessionTTL: sessionTTL,
	}
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Register creates the user, its profile and the role profile together.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.LicenseNumber = strings.TrimSpace(in.LicenseNumber)

	if in.Password != in.Password2 {
		return nil, invalid("Passwords do not match!")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.users.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, invalid("Username already exists!")
	}
	if exists, err = s.users.EmailExists(ctx, in.Email); err != nil {
		return nil, err
	}
	if exists {
		return nil, invalid("Email already exists!")
	}
	if in.UserType == models.UserTypeDoctor {
		if exists, err = s.users.LicenseExists(ctx, in.LicenseNumber); err != nil {
			return nil, err
		}
		if exists {
			return nil, invalid("License number already registered!")
		}
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &repositories.Account{
		User: &models.User{
			Username:  in.Username,
			Email:     in.Email,
			Password:  hashed,
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			IsActive:  true,
		},
		Profile: &models.UserProfile{
			UserType:           in.UserType,
			PhoneNumber:        in.Phone,
			EmailNotifications: true,
			SmsNotifications:   true,
		},
	}
	if in.UserType == models.UserTypeDoctor {
		account.Doctor = &models.DoctorProfile{
			Specialization: in.Specialization,
			Qualification:  in.Qualification,
			LicenseNumber:  in.LicenseNumber,
			Available:      true,
		}
	} else {
		account.Patient = &models.PatientProfile{
			BloodGroup:       in.BloodGroup,
			EmergencyContact: in.EmergencyContact,
		}
	}

	if err := s.users.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrAccountConflict) {
			return nil, invalid("An account with these details already exists.")
		}
		return nil, err
	}
	if account.Doctor != nil {
		if err := s.doctors.DeleteAllCache(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate doctors cache")
		}
	}
	log.Info().Uint("user_id", account.User.ID).Str("user_type", in.UserType).Msg("account registered")
	return account.User, nil
}

// Login checks the credentials and resolves the landing. A session is only
// opened when the landing keeps the user signed in.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive || !utils.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.users.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	result := &LoginResult{User: user, Profile: profile, Landing: ResolveLanding(user, profile)}
	if result.Landing.Kind == LandingLoggedOut {
		log.Warn().Uint("user_id", user.ID).Msg("login refused, user has no profile")
		return result, nil
	}

	session := repositories.Session{ID: uuid.NewString(), UserID: user.ID, CreatedAt: time.Now().UTC()}
	if err := s.sessions.CreateSession(ctx, session, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	token, err := s.tokens.Issue(session.ID, user.ID, s.sessionTTL)
	if err != nil {
		return nil, err
	}
	result.Token = token
	return result, nil
}

// Authenticate resolves a session cookie to the signed-in actor.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrSessionExpired
	}
	stored, err := s.sessions.GetSession(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.UserID != claims.UserID {
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrSessionExpired
	}
	profile, err := s.users.GetProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{ID: stored.ID, Actor: Actor{User: user, Profile: profile}}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, sessionID)
}

// SendResetCode mails a reset code when the address belongs to an account.
// Unknown addresses succeed silently.
func (s *AuthService) SendResetCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		return invalid("Enter a valid email address.")
	}
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		log.Info().Msg("password reset requested for unknown email")
		return nil
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		return err
	}
	if err := s.sessions.SetResetCode(ctx, email, code, utils.ResetCodeExpiry); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	if err := s.mailer.SendResetCode(email, code); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.TrimSpace(email)
	if err := utils.ValidatePasswordReset(email, code, newPassword); err != nil {
		return err
	}
	attempts, err := s.sessions.CountResetAttempt(ctx, email, utils.ResetCodeExpiry)
	if err != nil {
		return fmt.Errorf("failed to count reset attempts: %w", err)
	}
	if attempts > utils.MaxResetAttempts {
		log.Warn().Int64("attempts", attempts).Msg("password reset locked for email")
		return ErrTooManyResetAttempts
	}
	stored, err := s.sessions.GetResetCode(ctx, email)
	if err != nil {
		return err
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return ErrInvalidResetCode
	}
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidResetCode
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdateUserPassword(ctx, user.ID, hashed); err != nil {
		return err
	}
	if err := s.sessions.DeleteResetCode(ctx, email); err != nil {
		log.Warn().Err(err).Msg("failed to delete reset code")
	}
	return nil
}
