package appointments

import (
	"context"
	"sync"
	"time"
)

// Repository persists appointments.
type Repository interface {
	Insert(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*Appointment, error)
}

// InMemoryRepository keeps appointments in memory. Used in tests and local
// development.
type InMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*Appointment
}

// NewInMemoryRepository creates a new in-memory appointment repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*Appointment)}
}

// Insert stores a new appointment.
func (r *InMemoryRepository) Insert(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *a
	r.byID[a.ID] = &stored
	return nil
}

// GetByID fetches an appointment by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	out := *a
	return &out, nil
}

// Update applies a partial update. Only non-nil fields change; the status is
// always written. Concurrent updates are last-write-wins in full.
func (r *InMemoryRepository) Update(ctx context.Context, id string, fields UpdateFields) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}

	a.Status = fields.Status
	if fields.PrimaryPhysician != nil {
		a.PrimaryPhysician = *fields.PrimaryPhysician
	}
	if fields.Schedule != nil {
		a.Schedule = *fields.Schedule
	}
	if fields.Reason != nil {
		a.Reason = *fields.Reason
	}
	if fields.Note != nil {
		a.Note = *fields.Note
	}
	if fields.CancellationReason != nil {
		reason := *fields.CancellationReason
		a.CancellationReason = &reason
	}
	a.UpdatedAt = time.Now().UTC()

	out := *a
	return &out, nil
}

var _ Repository = (*InMemoryRepository)(nil)
