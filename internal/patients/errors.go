package patients

import "errors"

var (
	// ErrMissingUserID is returned when the owning user id is absent
	ErrMissingUserID = errors.New("patients: user id is required")

	// ErrInvalidName is returned when the name is missing
	ErrInvalidName = errors.New("patients: name is required")

	// ErrInvalidEmail is returned when the email is missing or malformed
	ErrInvalidEmail = errors.New("patients: valid email is required")

	// ErrInvalidPhone is returned when the phone number is missing
	ErrInvalidPhone = errors.New("patients: phone is required")

	// ErrMissingBirthDate is returned when the birth date is absent
	ErrMissingBirthDate = errors.New("patients: birth date is required")

	// ErrMissingGender is returned when the gender field is absent
	ErrMissingGender = errors.New("patients: gender is required")

	// ErrPrivacyConsentRequired is returned when the privacy consent box is unchecked
	ErrPrivacyConsentRequired = errors.New("patients: privacy consent is required")

	// ErrPatientNotFound is returned when a patient is not found
	ErrPatientNotFound = errors.New("patients: patient not found")
)
