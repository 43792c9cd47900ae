package patients

import (
	"context"
	"sync"
)

// Repository defines the interface for patient storage. The registration
// workflow builds the full record (id included) before handing it over, so
// Insert persists exactly what it is given.
type Repository interface {
	Insert(ctx context.Context, patient *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	GetByUserID(ctx context.Context, userID string) (*Patient, error)
}

// InMemoryRepository stores patients in memory for tests and local development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients map[string]*Patient
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{patients: make(map[string]*Patient)}
}

// Insert stores the patient record.
func (r *InMemoryRepository) Insert(ctx context.Context, patient *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *patient
	r.patients[patient.ID] = &cp
	return nil
}

// GetByID retrieves a patient by id
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patient, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	cp := *patient
	return &cp, nil
}

// GetByUserID retrieves the patient registered for the given user.
func (r *InMemoryRepository) GetByUserID(ctx context.Context, userID string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, patient := range r.patients {
		if patient.UserID == userID {
			cp := *patient
			return &cp, nil
		}
	}
	return nil, ErrPatientNotFound
}

var _ Repository = (*InMemoryRepository)(nil)
