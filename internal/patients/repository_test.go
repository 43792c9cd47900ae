package patients

import (
	"context"
	"testing"
	"time"
)

func validRequest() *RegisterPatientRequest {
	return &RegisterPatientRequest{
		UserID:           "user-1",
		Name:             "Jane Smith",
		Email:            "jane@example.com",
		Phone:            "+15551234567",
		BirthDate:        time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:           "female",
		PrimaryPhysician: "Dr. Green",
		PrivacyConsent:   true,
	}
}

func TestRegisterPatientRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterPatientRequest)
		want   error
	}{
		{"valid", func(r *RegisterPatientRequest) {}, nil},
		{"missing user id", func(r *RegisterPatientRequest) { r.UserID = " " }, ErrMissingUserID},
		{"missing name", func(r *RegisterPatientRequest) { r.Name = "" }, ErrInvalidName},
		{"malformed email", func(r *RegisterPatientRequest) { r.Email = "not-an-email" }, ErrInvalidEmail},
		{"missing phone", func(r *RegisterPatientRequest) { r.Phone = "" }, ErrInvalidPhone},
		{"missing birth date", func(r *RegisterPatientRequest) { r.BirthDate = time.Time{} }, ErrMissingBirthDate},
		{"missing gender", func(r *RegisterPatientRequest) { r.Gender = "" }, ErrMissingGender},
		{"no privacy consent", func(r *RegisterPatientRequest) { r.PrivacyConsent = false }, ErrPrivacyConsentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			if err := req.Validate(); err != tt.want {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestInMemoryRepository_InsertAndGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	patient := &Patient{ID: "p-1", UserID: "user-1", Name: "Jane Smith", CreatedAt: time.Now().UTC()}
	if err := repo.Insert(ctx, patient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Jane Smith" {
		t.Errorf("unexpected name %q", got.Name)
	}
	if got.IdentificationDocumentID != nil {
		t.Error("expected nil document id when none was stored")
	}

	byUser, err := repo.GetByUserID(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byUser.ID != "p-1" {
		t.Errorf("unexpected patient %q", byUser.ID)
	}
}

func TestInMemoryRepository_NotFound(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "missing"); err != ErrPatientNotFound {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
	if _, err := repo.GetByUserID(ctx, "missing"); err != ErrPatientNotFound {
		t.Errorf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestInMemoryRepository_CopiesRecords(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	patient := &Patient{ID: "p-1", Name: "Before"}
	if err := repo.Insert(ctx, patient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	patient.Name = "After"

	got, err := repo.GetByID(ctx, "p-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Before" {
		t.Error("repository should not share memory with callers")
	}
}
