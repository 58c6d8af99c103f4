package utils

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordNumeric  = errors.New("password cannot be entirely numeric")
	ErrInvalidResetCode = errors.New("invalid reset code")
)

var (
	resetCodePattern = regexp.MustCompile(`^\d{6}$`)
	numericPattern   = regexp.MustCompile(`^\d+$`)
)

// PasswordRules are applied to every password a user chooses.
var PasswordRules = []validation.Rule{
	validation.Required.Error("password cannot be blank"),
	validation.By(validatePassword),
}

func ValidatePassword(password string) error {
	return validation.Validate(password, PasswordRules...)
}

// ValidatePasswordReset checks the shape of a reset request before the code
// is compared with the stored one.
func ValidatePasswordReset(email, resetCode, newPassword string) error {
	return validation.Errors{
		"email":     validation.Validate(email, validation.Required, is.EmailFormat),
		"resetCode": validation.Validate(resetCode, validation.Required.Error(ErrInvalidResetCode.Error()), validation.Match(resetCodePattern).Error(ErrInvalidResetCode.Error())),
		"password":  validation.Validate(newPassword, PasswordRules...),
	}.Filter()
}

func validatePassword(value interface{}) error {
	password, _ := value.(string)
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if numericPattern.MatchString(password) {
		return ErrPasswordNumeric
	}
	return nil
}
