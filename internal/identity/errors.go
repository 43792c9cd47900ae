package identity

import "errors"

var (
	// ErrInvalidName is returned when the name is missing
	ErrInvalidName = errors.New("identity: name is required")

	// ErrInvalidEmail is returned when the email is missing or malformed
	ErrInvalidEmail = errors.New("identity: valid email is required")

	// ErrInvalidPhone is returned when the phone number is missing
	ErrInvalidPhone = errors.New("identity: phone is required")

	// ErrUserNotFound is returned when no user exists for the given id
	ErrUserNotFound = errors.New("identity: user not found")
)
