package repositories

import (
	"CareClinic/models"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const queryTimeout = 5 * time.Second

// ErrAccountConflict is returned when a unique account column collides at insert time.
var ErrAccountConflict = errors.New("an account with these details already exists")

// Account groups the rows created by a registration.
type Account struct {
	User    *models.User
	Profile *models.UserProfile
	Doctor  *models.DoctorProfile
	Patient *models.PatientProfile
}

type UserRepository interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	LicenseExists(ctx context.Context, license string) (bool, error)
	CreateAccount(ctx context.Context, account *Account) error
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error)
	UpdateUserPassword(ctx context.Context, userID uint, hashedPassword string) error
	UpdatePersonalDetails(ctx context.Context, user *models.User, profile *models.UserProfile) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) exists(ctx context.Context, model interface{}, column, value string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Where(column+" = ?", value).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", column, err)
	}
	return count > 0, nil
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, &models.User{}, "username", username)
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, &models.User{}, "email", email)
}

func (r *userRepository) LicenseExists(ctx context.Context, license string) (bool, error) {
	return r.exists(ctx, &models.DoctorProfile{}, "license_number", license)
}

// CreateAccount inserts the user, its profile and the role profile in one transaction.
func (r *userRepository) CreateAccount(ctx context.Context, account *Account) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account.User).Error; err != nil {
			return err
		}
		account.Profile.UserID = account.User.ID
		if err := tx.Omit("Doctor", "Patient", "User").Create(account.Profile).Error; err != nil {
			return err
		}
		if account.Doctor != nil {
			account.Doctor.UserProfileID = account.Profile.ID
			if err := tx.Omit("UserProfile").Create(account.Doctor).Error; err != nil {
				return err
			}
		}
		if account.Patient != nil {
			account.Patient.UserProfileID = account.Profile.ID
			if err := tx.Omit("UserProfile").Create(account.Patient).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAccountConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAccountConflict
	}
	return err
}

func (r *userRepository) findUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var user models.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return r.findUser(ctx, "id = ?", userID)
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findUser(ctx, "username = ?", username)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, "email = ?", email)
}

// GetProfile loads the profile of a user with its role profile. It returns
// nil, nil when the user has no profile.
func (r *userRepository) GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var profile models.UserProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Doctor").
		Preload("Patient").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *userRepository) UpdateUserPassword(ctx context.Context, userID uint, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepository) UpdatePersonalDetails(ctx context.Context, user *models.User, profile *models.UserProfile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
		}).Error
		if err != nil {
			return err
		}
		if profile == nil {
			return nil
		}
		return tx.Model(&models.UserProfile{}).Where("id = ?", profile.ID).Updates(map[string]interface{}{
			"phone_number":        profile.PhoneNumber,
			"address":             profile.Address,
			"email_notifications": profile.EmailNotifications,
			"sms_notifications":   profile.SmsNotifications,
		}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAccountConflict
	}
	return err
}
