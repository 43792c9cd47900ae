package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carepulse/intake-platform/internal/notify"
)

type recordingPublisher struct {
	jobs []notify.Job
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, job notify.Job) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	return nil
}

type failingRepository struct{}

func (failingRepository) Insert(ctx context.Context, a *Appointment) error {
	return errors.New("connection refused")
}
func (failingRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	return nil, errors.New("connection refused")
}
func (failingRepository) Update(ctx context.Context, id string, fields UpdateFields) (*Appointment, error) {
	return nil, errors.New("connection refused")
}

func validCreateRequest() *CreateAppointmentRequest {
	return &CreateAppointmentRequest{
		UserID:           "user-1",
		PatientID:        "patient-1",
		PrimaryPhysician: "Leila Cameron",
		Schedule:         time.Now().UTC().Add(48 * time.Hour),
		Reason:           "Annual checkup",
		Note:             "prefers mornings",
	}
}

func TestService_CreateForcesPending(t *testing.T) {
	repo := NewInMemoryRepository()
	svc := NewService(repo, nil, nil, nil)

	req := validCreateRequest()
	req.Status = "scheduled"

	created, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != StatusPending {
		t.Errorf("expected pending regardless of requested status, got %q", created.Status)
	}
	if created.ID == "" {
		t.Error("expected a generated id")
	}

	stored, err := repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Status != StatusPending {
		t.Errorf("persisted status should be pending, got %q", stored.Status)
	}
}

func TestService_CreateValidationError(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil)

	req := validCreateRequest()
	req.Reason = ""

	if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrInvalidReason) {
		t.Errorf("expected ErrInvalidReason, got %v", err)
	}
}

func TestService_CreateRepositoryFailure(t *testing.T) {
	svc := NewService(failingRepository{}, nil, nil, nil)

	if _, err := svc.Create(context.Background(), validCreateRequest()); !errors.Is(err, ErrCreateFailed) {
		t.Errorf("expected ErrCreateFailed, got %v", err)
	}
}

func createPending(t *testing.T, svc *Service) *Appointment {
	t.Helper()
	created, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return created
}

func TestService_UpdateSchedulePublishesOnce(t *testing.T) {
	repo := NewInMemoryRepository()
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, nil, nil)
	created := createPending(t, svc)

	newSchedule := created.Schedule.Add(24 * time.Hour)
	updated, err := svc.Update(context.Background(), created.ID, &UpdateAppointmentRequest{
		Type:     UpdateTypeSchedule,
		Schedule: &newSchedule,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != StatusScheduled {
		t.Errorf("expected scheduled, got %q", updated.Status)
	}
	if len(pub.jobs) != 1 {
		t.Fatalf("expected exactly one published job, got %d", len(pub.jobs))
	}
	job := pub.jobs[0]
	if job.Kind != notify.KindAppointmentScheduled {
		t.Errorf("unexpected job kind %q", job.Kind)
	}
	if job.AppointmentID != created.ID || job.UserID != created.UserID {
		t.Errorf("job carries wrong ids: %+v", job)
	}
	if !job.Schedule.Equal(newSchedule) {
		t.Errorf("job should carry the updated schedule, got %v", job.Schedule)
	}
}

func TestService_UpdateCancelPublishesCancellation(t *testing.T) {
	repo := NewInMemoryRepository()
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, nil, nil)
	created := createPending(t, svc)

	reason := "physician unavailable"
	updated, err := svc.Update(context.Background(), created.ID, &UpdateAppointmentRequest{
		Type:               UpdateTypeCancel,
		CancellationReason: &reason,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %q", updated.Status)
	}
	if len(pub.jobs) != 1 {
		t.Fatalf("expected exactly one published job, got %d", len(pub.jobs))
	}
	if pub.jobs[0].Kind != notify.KindAppointmentCancelled {
		t.Errorf("unexpected job kind %q", pub.jobs[0].Kind)
	}
	if pub.jobs[0].CancellationReason != reason {
		t.Errorf("job should carry the cancellation reason, got %q", pub.jobs[0].CancellationReason)
	}
}

func TestService_UpdateUnknownTypeResetsToPendingWithoutNotification(t *testing.T) {
	repo := NewInMemoryRepository()
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, nil, nil)
	created := createPending(t, svc)

	updated, err := svc.Update(context.Background(), created.ID, &UpdateAppointmentRequest{Type: "reschedule"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusPending {
		t.Errorf("unknown type must reset to pending, got %q", updated.Status)
	}
	if len(pub.jobs) != 0 {
		t.Errorf("no notification expected for an unknown type, got %d", len(pub.jobs))
	}
}

func TestService_UpdateIllegalTransition(t *testing.T) {
	repo := NewInMemoryRepository()
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, nil, nil)
	created := createPending(t, svc)

	reason := "no longer needed"
	if _, err := svc.Update(context.Background(), created.ID, &UpdateAppointmentRequest{
		Type:               UpdateTypeCancel,
		CancellationReason: &reason,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pub.jobs = nil

	_, err := svc.Update(context.Background(), created.ID, &UpdateAppointmentRequest{Type: UpdateTypeSchedule})
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition, got %v", err)
	}
	if len(pub.jobs) != 0 {
		t.Error("no notification expected for a rejected update")
	}

	stored, _ := repo.GetByID(context.Background(), created.ID)
	if stored.Status != StatusCancelled {
		t.Errorf("rejected update must not change the record, got %q", stored.Status)
	}
}

func TestService_UpdateSameStatusIsIdempotent(t *testing.T) {
	repo := NewInMemoryRepository()
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, nil, nil)
	created := createPending(t, svc)

	if _, err := svc.Update(context.Background(), created.ID, &UpdateAppointmentRequest{Type: UpdateTypeSchedule}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Update(context.Background(), created.ID, &UpdateAppointmentRequest{Type: UpdateTypeSchedule}); err != nil {
		t.Fatalf("rescheduling a scheduled appointment should succeed: %v", err)
	}
	if len(pub.jobs) != 2 {
		t.Errorf("each applied update publishes one job, got %d", len(pub.jobs))
	}
}

func TestService_UpdateNotFound(t *testing.T) {
	svc := NewService(NewInMemoryRepository(), nil, nil, nil)

	_, err := svc.Update(context.Background(), "missing", &UpdateAppointmentRequest{Type: UpdateTypeSchedule})
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestService_UpdatePublishFailureDoesNotFailUpdate(t *testing.T) {
	repo := NewInMemoryRepository()
	pub := &recordingPublisher{err: errors.New("queue down")}
	svc := NewService(repo, pub, nil, nil)
	created := createPending(t, svc)

	updated, err := svc.Update(context.Background(), created.ID, &UpdateAppointmentRequest{Type: UpdateTypeSchedule})
	if err != nil {
		t.Fatalf("publish failure must not fail the update: %v", err)
	}
	if updated.Status != StatusScheduled {
		t.Errorf("expected scheduled, got %q", updated.Status)
	}
}
