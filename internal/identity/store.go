package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store defines the interface for the user directory. Create is idempotent by
// email: a second create with an email that already exists returns the
// existing user instead of failing.
type Store interface {
	Create(ctx context.Context, req *CreateUserRequest) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
}

// Getter is the read-only subset used by collaborators that only resolve ids.
type Getter interface {
	Get(ctx context.Context, id string) (*User, error)
}

// InMemoryStore keeps users in memory. Used in tests and local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]*User
	byID    map[string]*User
}

// NewInMemoryStore creates a new in-memory user store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byEmail: make(map[string]*User),
		byID:    make(map[string]*User),
	}
}

// Create stores a new user, or returns the existing one when the email is
// already registered.
func (s *InMemoryStore) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := req.NormalizedEmail()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byEmail[email]; ok {
		out := *existing
		return &out, nil
	}

	user := &User{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     email,
		Phone:     req.Phone,
		CreatedAt: time.Now().UTC(),
	}
	s.byEmail[email] = user
	s.byID[user.ID] = user

	out := *user
	return &out, nil
}

// Get retrieves a user by id
func (s *InMemoryStore) Get(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *user
	return &out, nil
}

var _ Store = (*InMemoryStore)(nil)
