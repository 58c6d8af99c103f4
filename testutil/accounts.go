package testutil

import (
	"CareClinic/models"
	"CareClinic/repositories"
	"context"
	"sort"
	"sync"
	"time"
)

var (
	_ repositories.UserRepository     = (*UserRepo)(nil)
	_ repositories.SettingsRepository = (*SettingsRepo)(nil)
	_ repositories.SessionRepository  = (*SessionStore)(nil)
)

type UserRepo struct{ c *Clinic }

func (c *Clinic) Users() *UserRepo { return &UserRepo{c: c} }

func (r *UserRepo) exists(match func(*models.User) bool) bool {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, u := range r.c.users {
		if match(u) {
			return true
		}
	}
	return false
}

func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(func(u *models.User) bool { return u.Username == username }), nil
}

func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(func(u *models.User) bool { return u.Email == email }), nil
}

func (r *UserRepo) LicenseExists(ctx context.Context, license string) (bool, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, d := range r.c.doctors {
		if d.LicenseNumber == license {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) CreateAccount(ctx context.Context, account *repositories.Account) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.c.Err != nil {
		return r.c.Err
	}
	for _, u := range r.c.users {
		if u.Username == account.User.Username || u.Email == account.User.Email {
			return repositories.ErrAccountConflict
		}
	}
	account.User.ID = r.c.id()
	user := *account.User
	r.c.users[user.ID] = &user

	account.Profile.ID = r.c.id()
	account.Profile.UserID = user.ID
	profile := *account.Profile
	r.c.profiles[profile.ID] = &profile

	if account.Doctor != nil {
		account.Doctor.ID = r.c.id()
		account.Doctor.UserProfileID = profile.ID
		doctor := *account.Doctor
		r.c.doctors[doctor.ID] = &doctor
	}
	if account.Patient != nil {
		account.Patient.ID = r.c.id()
		account.Patient.UserProfileID = profile.ID
		patient := *account.Patient
		r.c.patients[patient.ID] = &patient
	}
	return nil
}

func (r *UserRepo) CreateUser(ctx context.Context, user *models.User) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	user.ID = r.c.id()
	stored := *user
	r.c.users[stored.ID] = &stored
	return nil
}

func (r *UserRepo) find(match func(*models.User) bool) *models.User {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, u := range r.c.users {
		if match(u) {
			out := *u
			return &out
		}
	}
	return nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == userID }), nil
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username }), nil
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email }), nil
}

func (r *UserRepo) GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, p := range r.c.profiles {
		if p.UserID == userID {
			return r.c.loadedProfile(p), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) UpdateUserPassword(ctx context.Context, userID uint, hashedPassword string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if u, ok := r.c.users[userID]; ok {
		u.Password = hashedPassword
	}
	return nil
}

func (r *UserRepo) UpdatePersonalDetails(ctx context.Context, user *models.User, profile *models.UserProfile) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, u := range r.c.users {
		if u.ID != user.ID && u.Email == user.Email {
			return repositories.ErrAccountConflict
		}
	}
	if u, ok := r.c.users[user.ID]; ok {
		u.FirstName, u.LastName, u.Email = user.FirstName, user.LastName, user.Email
	}
	if profile != nil {
		if p, ok := r.c.profiles[profile.ID]; ok {
			p.PhoneNumber = profile.PhoneNumber
			p.Address = profile.Address
			p.EmailNotifications = profile.EmailNotifications
			p.SmsNotifications = profile.SmsNotifications
		}
	}
	return nil
}

type SettingsRepo struct{ c *Clinic }

func (c *Clinic) Settings() *SettingsRepo { return &SettingsRepo{c: c} }

func (r *SettingsRepo) GetOrCreateUserSettings(ctx context.Context, userID uint) (*models.UserSettings, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	s, ok := r.c.uSettings[userID]
	if !ok {
		defaults := models.DefaultUserSettings(userID)
		defaults.ID = r.c.id()
		s = &defaults
		r.c.uSettings[userID] = s
	}
	out := *s
	return &out, nil
}

func (r *SettingsRepo) SaveUserSettings(ctx context.Context, settings *models.UserSettings) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	stored := *settings
	r.c.uSettings[settings.UserID] = &stored
	return nil
}

func (r *SettingsRepo) ListSystemSettings(ctx context.Context) ([]models.SystemSetting, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []models.SystemSetting
	for _, s := range r.c.sSettings {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SettingKey < out[j].SettingKey })
	return out, nil
}

func (r *SettingsRepo) UpdateSystemSettings(ctx context.Context, values map[uint]string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for id, value := range values {
		if s, ok := r.c.sSettings[id]; ok {
			s.SettingValue = value
		}
	}
	return nil
}

// SessionStore keeps sessions, reset codes and attempt counters in maps and
// ignores TTLs.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]repositories.Session
	codes    map[string]string
	attempts map[string]int64
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: map[string]repositories.Session{},
		codes:    map[string]string{},
		attempts: map[string]int64{},
	}
}

func (s *SessionStore) CreateSession(ctx context.Context, session repositories.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *SessionStore) GetSession(ctx context.Context, id string) (*repositories.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok {
		return &session, nil
	}
	return nil, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) SetResetCode(ctx context.Context, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = code
	return nil
}

func (s *SessionStore) GetResetCode(ctx context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[email], nil
}

func (s *SessionStore) DeleteResetCode(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	delete(s.attempts, email)
	return nil
}

func (s *SessionStore) CountResetAttempt(ctx context.Context, email string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[email]++
	return s.attempts[email], nil
}

func (s *SessionStore) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
