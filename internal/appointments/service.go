package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carepulse/intake-platform/internal/notify"
	"github.com/carepulse/intake-platform/internal/observability/metrics"
	"github.com/carepulse/intake-platform/pkg/logging"
)

var appointmentsTracer = otel.Tracer("carepulse.internal.appointments")

// Service owns the appointment lifecycle. Every booking starts pending;
// schedule and cancel updates move it through the status machine and notify
// the patient once per applied change.
type Service struct {
	repo      Repository
	publisher notify.Publisher
	logger    *logging.Logger
	metrics   *metrics.IntakeMetrics
}

// NewService constructs an appointment service. The publisher may be nil, in
// which case updates apply without notifications.
func NewService(repo Repository, publisher notify.Publisher, logger *logging.Logger, m *metrics.IntakeMetrics) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger, metrics: m}
}

// Create books a new appointment in pending status. A status supplied by the
// caller is ignored.
func (s *Service) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.create")
	defer span.End()

	if err := req.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("carepulse.patient_id", req.PatientID))

	now := time.Now().UTC()
	appointment := &Appointment{
		ID:               uuid.New().String(),
		UserID:           req.UserID,
		PatientID:        req.PatientID,
		PrimaryPhysician: req.PrimaryPhysician,
		Schedule:         req.Schedule,
		Status:           StatusPending,
		Reason:           req.Reason,
		Note:             req.Note,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, appointment); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}

	s.logger.Info("appointment created",
		"appointment_id", appointment.ID,
		"patient_id", appointment.PatientID,
		"physician", appointment.PrimaryPhysician,
	)
	s.metrics.ObserveAppointmentCreated()

	return appointment, nil
}

// Get fetches one appointment.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a schedule or cancel request. The target status comes from
// the request type; unrecognized types reset to pending. Only supplied fields
// change. After a successful update exactly one notification job is published
// for schedule and cancel updates.
func (s *Service) Update(ctx context.Context, id string, req *UpdateAppointmentRequest) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.update")
	defer span.End()
	span.SetAttributes(
		attribute.String("carepulse.appointment_id", id),
		attribute.String("carepulse.update_type", req.Type),
	)

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	target := StatusForUpdateType(req.Type)
	if req.Type != UpdateTypeSchedule && req.Type != UpdateTypeCancel {
		s.logger.Warn("unrecognized appointment update type, resetting to pending",
			"appointment_id", id, "type", req.Type)
	}

	if !CanTransition(current.Status, target) {
		span.RecordError(ErrIllegalTransition)
		s.metrics.ObserveStatusUpdate(req.Type, "rejected")
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, current.Status, target)
	}

	updated, err := s.repo.Update(ctx, id, UpdateFields{
		Status:             target,
		PrimaryPhysician:   req.PrimaryPhysician,
		Schedule:           req.Schedule,
		Reason:             req.Reason,
		Note:               req.Note,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}

	s.logger.Info("appointment updated",
		"appointment_id", updated.ID,
		"type", req.Type,
		"status", updated.Status,
	)
	s.metrics.ObserveStatusUpdate(req.Type, string(updated.Status))

	s.publishNotification(ctx, req.Type, updated)

	return updated, nil
}

// publishNotification enqueues one job for a schedule or cancel update. A
// publish failure is logged and does not roll back the already-applied
// update.
func (s *Service) publishNotification(ctx context.Context, updateType string, a *Appointment) {
	if s.publisher == nil {
		return
	}

	var kind notify.JobKind
	switch updateType {
	case UpdateTypeSchedule:
		kind = notify.KindAppointmentScheduled
	case UpdateTypeCancel:
		kind = notify.KindAppointmentCancelled
	default:
		return
	}

	job := notify.Job{
		Kind:             kind,
		UserID:           a.UserID,
		AppointmentID:    a.ID,
		PrimaryPhysician: a.PrimaryPhysician,
		Schedule:         a.Schedule,
	}
	if a.CancellationReason != nil {
		job.CancellationReason = *a.CancellationReason
	}

	if err := s.publisher.Publish(ctx, job); err != nil {
		s.logger.Error("failed to publish notification job",
			"error", err, "appointment_id", a.ID, "kind", kind)
	}
}
