package appointments

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

// Update types accepted by PATCH requests.
const (
	UpdateTypeSchedule = "schedule"
	UpdateTypeCancel   = "cancel"
)

// Appointment is one requested or booked visit.
type Appointment struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	PatientID          string    `json:"patient_id"`
	PrimaryPhysician   string    `json:"primary_physician"`
	Schedule           time.Time `json:"schedule"`
	Status             Status    `json:"status"`
	Reason             string    `json:"reason"`
	Note               string    `json:"note,omitempty"`
	CancellationReason *string   `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CreateAppointmentRequest is the body for POST /appointments. Any status the
// caller supplies is ignored; new appointments always start pending.
type CreateAppointmentRequest struct {
	UserID           string    `json:"user_id"`
	PatientID        string    `json:"patient_id"`
	PrimaryPhysician string    `json:"primary_physician"`
	Schedule         time.Time `json:"schedule"`
	Reason           string    `json:"reason"`
	Note             string    `json:"note"`
	Status           string    `json:"status,omitempty"`
}

// Validate checks required create fields.
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrInvalidUserID
	}
	if strings.TrimSpace(r.PatientID) == "" {
		return ErrInvalidPatientID
	}
	if strings.TrimSpace(r.PrimaryPhysician) == "" {
		return ErrInvalidPhysician
	}
	if r.Schedule.IsZero() {
		return ErrInvalidSchedule
	}
	if strings.TrimSpace(r.Reason) == "" {
		return ErrInvalidReason
	}
	return nil
}

// UpdateAppointmentRequest is the body for PATCH /appointments/{id}. Nil
// fields are left unchanged. Type selects the target status.
type UpdateAppointmentRequest struct {
	Type               string     `json:"type"`
	UserID             string     `json:"user_id"`
	PrimaryPhysician   *string    `json:"primary_physician,omitempty"`
	Schedule           *time.Time `json:"schedule,omitempty"`
	Reason             *string    `json:"reason,omitempty"`
	Note               *string    `json:"note,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
}

// UpdateFields is the partial update a repository applies. Status is always
// set; pointer fields are applied only when non-nil.
type UpdateFields struct {
	Status             Status
	PrimaryPhysician   *string
	Schedule           *time.Time
	Reason             *string
	Note               *string
	CancellationReason *string
}

// StatusForUpdateType maps an update type to its target status. Anything
// other than the two known types resets the appointment to pending; callers
// sending unknown types have always gotten this behavior, so it stays.
func StatusForUpdateType(updateType string) Status {
	switch updateType {
	case UpdateTypeSchedule:
		return StatusScheduled
	case UpdateTypeCancel:
		return StatusCancelled
	default:
		return StatusPending
	}
}

// CanTransition reports whether an appointment may move from one status to
// another. Rewriting the current status is always allowed; cancelled is
// terminal.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusScheduled || to == StatusCancelled
	case StatusScheduled:
		return to == StatusCancelled
	default:
		return false
	}
}
