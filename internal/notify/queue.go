package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobKind discriminates notification payloads.
type JobKind string

const (
	KindAppointmentScheduled JobKind = "appointment.scheduled"
	KindAppointmentCancelled JobKind = "appointment.cancelled"
)

// Job is one notification to deliver. The worker resolves the recipient's
// contact details from the user directory at delivery time.
type Job struct {
	ID                 string    `json:"id"`
	Kind               JobKind   `json:"kind"`
	UserID             string    `json:"user_id"`
	AppointmentID      string    `json:"appointment_id"`
	PrimaryPhysician   string    `json:"primary_physician"`
	Schedule           time.Time `json:"schedule"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
}

// Publisher enqueues notification jobs.
type Publisher interface {
	Publish(ctx context.Context, job Job) error
}

// Message is a received, not-yet-acknowledged queue entry.
type Message struct {
	ID            string
	Body          string
	ReceiptHandle string
}

// Queue is the transport between the API and the notification worker.
type Queue interface {
	Publisher
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]Message, error)
	Delete(ctx context.Context, receiptHandle string) error
}

func encodeJob(job Job) (Job, string, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	body, err := json.Marshal(job)
	if err != nil {
		return Job{}, "", fmt.Errorf("notify: failed to encode job: %w", err)
	}
	return job, string(body), nil
}

// DecodeJob parses a queue message body back into a Job.
func DecodeJob(body string) (Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		return Job{}, fmt.Errorf("notify: failed to decode job: %w", err)
	}
	return job, nil
}
