package notify

import (
	"context"
	"fmt"

	"github.com/carepulse/intake-platform/internal/identity"
	"github.com/carepulse/intake-platform/internal/observability/metrics"
	"github.com/carepulse/intake-platform/pkg/logging"
)

const scheduleTimeFormat = "Monday, January 2 at 3:04 PM"

// Service delivers appointment notifications. SMS is the primary channel;
// email is sent additionally when a sender is configured and the user has an
// address on file. A failed delivery never affects the appointment record,
// which was already updated by the time the job was published.
type Service struct {
	users      identity.Getter
	sms        SMSSender
	email      EmailSender
	clinicName string
	logger     *logging.Logger
	metrics    *metrics.IntakeMetrics
}

// NewService creates a notification service.
func NewService(users identity.Getter, sms SMSSender, email EmailSender, clinicName string, logger *logging.Logger, m *metrics.IntakeMetrics) *Service {
	if users == nil {
		panic("notify: user directory required")
	}
	if sms == nil {
		panic("notify: sms sender required")
	}
	if clinicName == "" {
		clinicName = "CarePulse"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		users:      users,
		sms:        sms,
		email:      email,
		clinicName: clinicName,
		logger:     logger,
		metrics:    m,
	}
}

// Deliver sends the notification described by the job.
func (s *Service) Deliver(ctx context.Context, job Job) error {
	user, err := s.users.Get(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("notify: resolve recipient %s: %w", job.UserID, err)
	}

	var body, subject string
	switch job.Kind {
	case KindAppointmentScheduled:
		subject = "Appointment confirmed"
		body = fmt.Sprintf("Greetings from %s. Your appointment with Dr. %s is confirmed for %s.",
			s.clinicName, job.PrimaryPhysician, job.Schedule.Format(scheduleTimeFormat))
	case KindAppointmentCancelled:
		subject = "Appointment cancelled"
		body = fmt.Sprintf("We regret to inform you that your appointment for %s has been cancelled. Reason: %s",
			job.Schedule.Format(scheduleTimeFormat), job.CancellationReason)
	default:
		return fmt.Errorf("notify: unknown job kind %q", job.Kind)
	}

	var errs []error

	if err := s.sms.SendSMS(ctx, user.Phone, body); err != nil {
		s.logger.Error("notify: failed to send SMS", "error", err, "to", user.Phone, "appointment_id", job.AppointmentID)
		s.metrics.ObserveNotification("sms", "failed")
		errs = append(errs, err)
	} else {
		s.metrics.ObserveNotification("sms", "sent")
	}

	if s.email != nil && user.Email != "" {
		msg := EmailMessage{To: user.Email, ToName: user.Name, Subject: subject, Body: body}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notify: failed to send email", "error", err, "to", user.Email, "appointment_id", job.AppointmentID)
			s.metrics.ObserveNotification("email", "failed")
			errs = append(errs, err)
		} else {
			s.metrics.ObserveNotification("email", "sent")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d delivery failure(s) for appointment %s", len(errs), job.AppointmentID)
	}

	s.logger.Info("notification delivered", "kind", job.Kind, "user_id", job.UserID, "appointment_id", job.AppointmentID)
	return nil
}
