package identity

import (
	"context"
	"testing"
)

func TestInMemoryStore_CreateIdempotentByEmail(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	req := &CreateUserRequest{Name: "Jane Doe", Email: "jane@example.com", Phone: "+15550001111"}

	first, err := store.Create(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := store.Create(ctx, &CreateUserRequest{Name: "Jane Again", Email: "Jane@Example.com ", Phone: "+15550002222"})
	if err != nil {
		t.Fatalf("unexpected error on duplicate create: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("expected same user for duplicate email, got %s and %s", first.ID, second.ID)
	}
	if second.Name != "Jane Doe" {
		t.Errorf("expected original record to win, got name %q", second.Name)
	}
}

func TestInMemoryStore_DistinctEmailsDistinctIDs(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	a, err := store.Create(ctx, &CreateUserRequest{Name: "A", Email: "a@example.com", Phone: "+15550000001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := store.Create(ctx, &CreateUserRequest{Name: "B", Email: "b@example.com", Phone: "+15550000002"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.ID == b.ID {
		t.Error("expected distinct ids for distinct emails")
	}
}

func TestInMemoryStore_Get(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, &CreateUserRequest{Name: "C", Email: "c@example.com", Phone: "+15550000003"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Email != "c@example.com" {
		t.Errorf("unexpected email %q", found.Email)
	}
}

func TestInMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	created, err := store.Create(ctx, &CreateUserRequest{Name: "D", Email: "d@example.com", Phone: "+15550000004"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating a returned record must not leak into the store.
	created.Name = "mutated"

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "D" {
		t.Errorf("stored record was mutated through a returned copy, got name %q", got.Name)
	}

	got.Phone = "tampered"
	again, _ := store.Get(ctx, created.ID)
	if again.Phone != "+15550000004" {
		t.Errorf("stored record was mutated through a Get result, got phone %q", again.Phone)
	}
}

func TestInMemoryStore_GetNotFound(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	if err != ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  CreateUserRequest
		want error
	}{
		{"missing name", CreateUserRequest{Email: "x@y.z", Phone: "1"}, ErrInvalidName},
		{"missing email", CreateUserRequest{Name: "X", Phone: "1"}, ErrInvalidEmail},
		{"malformed email", CreateUserRequest{Name: "X", Email: "nope", Phone: "1"}, ErrInvalidEmail},
		{"missing phone", CreateUserRequest{Name: "X", Email: "x@y.z"}, ErrInvalidPhone},
		{"valid", CreateUserRequest{Name: "X", Email: "x@y.z", Phone: "1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); err != tt.want {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
