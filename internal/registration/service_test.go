package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/carepulse/intake-platform/internal/patients"
	"github.com/carepulse/intake-platform/pkg/logging"
)

type fakeDocStore struct {
	putID  string
	putErr error
	puts   int
}

func (f *fakeDocStore) Put(_ context.Context, data []byte, filename string) (string, error) {
	f.puts++
	if f.putErr != nil {
		return "", f.putErr
	}
	return f.putID, nil
}

func (f *fakeDocStore) ViewURL(objectID string) string {
	return fmt.Sprintf("https://cloud.example.com/v1/storage/buckets/identification/files/%s/view?project=proj-1", objectID)
}

type failingPatientRepo struct {
	patients.Repository
}

func (failingPatientRepo) Insert(context.Context, *patients.Patient) error {
	return errors.New("connection refused")
}

func validRequest() *patients.RegisterPatientRequest {
	return &patients.RegisterPatientRequest{
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

func TestRegister_WithoutDocument(t *testing.T) {
	repo := patients.NewInMemoryRepository()
	svc := NewService(&fakeDocStore{putID: "unused"}, repo, logging.Default(), nil)

	patient, err := svc.Register(context.Background(), validRequest(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if patient.ID == "" {
		t.Error("expected generated patient id")
	}
	if patient.IdentificationDocumentID != nil || patient.IdentificationDocumentURL != nil {
		t.Error("expected nil document fields when no document supplied")
	}

	persisted, err := repo.GetByID(context.Background(), patient.ID)
	if err != nil {
		t.Fatalf("patient not persisted: %v", err)
	}
	if persisted.Name != "Jane Smith" {
		t.Errorf("unexpected name %q", persisted.Name)
	}
}

func TestRegister_WithDocument(t *testing.T) {
	docs := &fakeDocStore{putID: "obj-77"}
	svc := NewService(docs, patients.NewInMemoryRepository(), logging.Default(), nil)

	patient, err := svc.Register(context.Background(), validRequest(), &Document{
		Data:     []byte("scan"),
		Filename: "passport.png",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if docs.puts != 1 {
		t.Fatalf("expected one document upload, got %d", docs.puts)
	}
	if patient.IdentificationDocumentID == nil || *patient.IdentificationDocumentID != "obj-77" {
		t.Fatalf("unexpected document id %v", patient.IdentificationDocumentID)
	}
	url := *patient.IdentificationDocumentURL
	for _, part := range []string{"obj-77", "identification", "proj-1", "cloud.example.com"} {
		if !strings.Contains(url, part) {
			t.Errorf("view URL missing %q: %s", part, url)
		}
	}
}

func TestRegister_InvalidPayload(t *testing.T) {
	svc := NewService(&fakeDocStore{}, patients.NewInMemoryRepository(), logging.Default(), nil)

	req := validRequest()
	req.Name = ""

	_, err := svc.Register(context.Background(), req, nil)
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestRegister_DocumentStoreFailure(t *testing.T) {
	docs := &fakeDocStore{putErr: errors.New("bucket gone")}
	repo := patients.NewInMemoryRepository()
	svc := NewService(docs, repo, logging.Default(), nil)

	_, err := svc.Register(context.Background(), validRequest(), &Document{Data: []byte("x"), Filename: "id.pdf"})
	if !errors.Is(err, ErrDocumentStoreFailed) {
		t.Fatalf("expected ErrDocumentStoreFailed, got %v", err)
	}

	// Nothing should be persisted when the document step fails.
	if _, getErr := repo.GetByUserID(context.Background(), "user-1"); !errors.Is(getErr, patients.ErrPatientNotFound) {
		t.Error("expected no patient record after document failure")
	}
}

func TestRegister_RecordStoreFailure(t *testing.T) {
	docs := &fakeDocStore{putID: "obj-orphan"}
	svc := NewService(docs, failingPatientRepo{}, logging.Default(), nil)

	_, err := svc.Register(context.Background(), validRequest(), &Document{Data: []byte("x"), Filename: "id.pdf"})
	if !errors.Is(err, ErrRecordStoreFailed) {
		t.Fatalf("expected ErrRecordStoreFailed, got %v", err)
	}
	if docs.puts != 1 {
		t.Error("document upload should have happened before the failed insert")
	}
}
