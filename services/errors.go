package services

import (
	"CareClinic/repositories"
	"errors"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidInput         = errors.New("invalid input")
	ErrSlotTaken            = repositories.ErrSlotTaken
	ErrSlotBusy             = errors.New("slot is being booked concurrently")
	ErrDoctorUnavailable    = errors.New("doctor is not accepting appointments")
	ErrProfileMissing       = errors.New("user profile missing")
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
	ErrVideoSessionNotFound = errors.New("video session not found")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrInvalidResetCode     = errors.New("invalid or expired reset code")
	ErrTooManyResetAttempts = errors.New("too many reset attempts")
)

// UserFacing is implemented by errors whose text may be shown to the user.
type UserFacing interface {
	UserMessage() string
}

// ForbiddenError is an authorization failure with a message for the user.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

func (e *ForbiddenError) UserMessage() string { return e.Message }

func forbidden(message string) error {
	return &ForbiddenError{Message: message}
}

// InputError is a rejected form submission with a message for the user.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func (e *InputError) UserMessage() string { return e.Message }

func invalid(message string) error {
	return &InputError{Message: message}
}

// TransitionError is a status change refused by the transition policy.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return "cannot move appointment from " + e.From + " to " + e.To
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrTransitionNotAllowed || target == ErrForbidden
}

func (e *TransitionError) UserMessage() string {
	return "An appointment that is " + e.From + " cannot be changed to " + e.To + "."
}
