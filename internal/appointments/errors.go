package appointments

import "errors"

var (
	// ErrInvalidUserID is returned when the user id is missing
	ErrInvalidUserID = errors.New("appointments: user id is required")

	// ErrInvalidPatientID is returned when the patient id is missing
	ErrInvalidPatientID = errors.New("appointments: patient id is required")

	// ErrInvalidPhysician is returned when the physician is missing
	ErrInvalidPhysician = errors.New("appointments: primary physician is required")

	// ErrInvalidSchedule is returned when the schedule time is missing
	ErrInvalidSchedule = errors.New("appointments: schedule is required")

	// ErrInvalidReason is returned when the visit reason is missing
	ErrInvalidReason = errors.New("appointments: reason is required")

	// ErrAppointmentNotFound is returned when no appointment matches the id
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrIllegalTransition is returned when the requested status change is not allowed
	ErrIllegalTransition = errors.New("appointments: illegal status transition")

	// ErrCreateFailed is returned when the appointment could not be persisted
	ErrCreateFailed = errors.New("appointments: create failed")

	// ErrUpdateFailed is returned when the appointment could not be updated
	ErrUpdateFailed = errors.New("appointments: update failed")
)
