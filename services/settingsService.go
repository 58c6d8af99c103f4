package services

import (
	"CareClinic/models"
	"CareClinic/repositories"
	"CareClinic/utils"
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/zerolog/log"
)

// UserSettingsInput is the whole settings form. Checkbox fields are false when
// absent from the submission.
type UserSettingsInput struct {
	FirstName string
	LastName  string
	Email     string

	PhoneNumber        string
	Address            string
	EmailNotifications bool
	SmsNotifications   bool

	ProfileVisibility bool
	ShowPhone         bool
	ShowEmail         bool
	Theme             string
	AllowMessages     bool
	AllowVideoCalls   bool

	// AcceptingAppointments is only honored for doctors; nil leaves it unchanged.
	AcceptingAppointments *bool
}

func (in UserSettingsInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.EmailFormat),
		validation.Field(&in.PhoneNumber, validation.RuneLength(0, 15)),
		validation.Field(&in.Theme, validation.In(models.ThemeLight, models.ThemeDark)),
	)
}

type PasswordChangeInput struct {
	OldPassword  string `form:"old_password" json:"old_password"`
	NewPassword1 string `form:"new_password1" json:"new_password1"`
	NewPassword2 string `form:"new_password2" json:"new_password2"`
}

type SettingsView struct {
	Profile  *models.UserProfile  `json:"user_profile"`
	Settings *models.UserSettings `json:"user_settings"`
}

type AdminOverview struct {
	Settings []models.SystemSetting  `json:"settings"`
	Doctors  []models.DoctorProfile  `json:"available_doctors"`
	Patients []models.PatientProfile `json:"patients"`
}

type SettingsService struct {
	users    repositories.UserRepository
	settings repositories.SettingsRepository
	doctors  repositories.DoctorRepository
	patients repositories.PatientRepository
}

func NewSettingsService(users repositories.UserRepository, settings repositories.SettingsRepository, doctors repositories.DoctorRepository, patients repositories.PatientRepository) *SettingsService {
	return &SettingsService{users: users, settings: settings, doctors: doctors, patients: patients}
}

func (s *SettingsService) UserSettings(ctx context.Context, actor Actor) (*SettingsView, error) {
	settings, err := s.settings.GetOrCreateUserSettings(ctx, actor.UserID())
	if err != nil {
		return nil, err
	}
	return &SettingsView{Profile: actor.Profile, Settings: settings}, nil
}

func (s *SettingsService) UpdateUserSettings(ctx context.Context, actor Actor, in UserSettingsInput) error {
	in.Email = strings.TrimSpace(in.Email)
	if in.Theme == "" {
		in.Theme = models.ThemeLight
	}
	if err := in.Validate(); err != nil {
		return err
	}

	user := *actor.User
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Email = in.Email

	var profile *models.UserProfile
	if actor.Profile != nil {
		p := *actor.Profile
		p.PhoneNumber = in.PhoneNumber
		p.Address = in.Address
		p.EmailNotifications = in.EmailNotifications
		p.SmsNotifications = in.SmsNotifications
		profile = &p
	}
	if err := s.users.UpdatePersonalDetails(ctx, &user, profile); err != nil {
		if errors.Is(err, repositories.ErrAccountConflict) {
			return invalid("Email already exists!")
		}
		return err
	}

	settings, err := s.settings.GetOrCreateUserSettings(ctx, user.ID)
	if err != nil {
		return err
	}
	settings.ProfileVisibility = in.ProfileVisibility
	settings.ShowPhone = in.ShowPhone
	settings.ShowEmail = in.ShowEmail
	settings.Theme = in.Theme
	settings.AllowMessages = in.AllowMessages
	settings.AllowVideoCalls = in.AllowVideoCalls
	if err := s.settings.SaveUserSettings(ctx, settings); err != nil {
		return err
	}

	if actor.IsDoctor() && in.AcceptingAppointments != nil && *in.AcceptingAppointments != actor.Profile.Doctor.Available {
		if err := s.doctors.SetAvailable(ctx, actor.DoctorID(), *in.AcceptingAppointments); err != nil {
			return err
		}
	}
	return nil
}

func (s *SettingsService) ChangePassword(ctx context.Context, actor Actor, in PasswordChangeInput) error {
	if !utils.CheckPassword(actor.User.Password, in.OldPassword) {
		return invalid("Your old password was entered incorrectly. Please enter it again.")
	}
	if in.NewPassword1 != in.NewPassword2 {
		return invalid("The two password fields didn't match.")
	}
	if err := utils.ValidatePassword(in.NewPassword1); err != nil {
		return invalid(err.Error())
	}
	hashed, err := utils.HashPassword(in.NewPassword1)
	if err != nil {
		return err
	}
	if err := s.users.UpdateUserPassword(ctx, actor.UserID(), hashed); err != nil {
		return err
	}
	log.Info().Uint("user_id", actor.UserID()).Msg("password changed")
	return nil
}

func (s *SettingsService) SystemSettings(ctx context.Context, actor Actor) ([]models.SystemSetting, error) {
	if actor.User == nil || !actor.User.IsStaff {
		return nil, forbidden("You do not have permission to access system settings.")
	}
	return s.settings.ListSystemSettings(ctx)
}

// UpdateSystemSettings applies the submitted values of known settings; ids
// that do not exist are ignored.
func (s *SettingsService) UpdateSystemSettings(ctx context.Context, actor Actor, values map[uint]string) error {
	existing, err := s.SystemSettings(ctx, actor)
	if err != nil {
		return err
	}
	known := make(map[uint]string, len(values))
	for _, setting := range existing {
		if value, ok := values[setting.ID]; ok {
			known[setting.ID] = value
		}
	}
	if len(known) == 0 {
		return nil
	}
	return s.settings.UpdateSystemSettings(ctx, known)
}

func (s *SettingsService) AdminOverview(ctx context.Context, actor Actor) (*AdminOverview, error) {
	if !actor.User.Elevated() {
		return nil, forbidden("You do not have permission to access the admin panel.")
	}
	settings, err := s.settings.ListSystemSettings(ctx)
	if err != nil {
		return nil, err
	}
	doctors, err := s.doctors.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.patients.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminOverview{Settings: settings, Doctors: doctors, Patients: patients}, nil
}
