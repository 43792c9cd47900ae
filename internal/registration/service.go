package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carepulse/intake-platform/internal/observability/metrics"
	"github.com/carepulse/intake-platform/internal/patients"
	"github.com/carepulse/intake-platform/pkg/logging"
)

var registrationTracer = otel.Tracer("carepulse.internal.registration")

var (
	// ErrInvalidPayload is returned when the form fields fail validation
	ErrInvalidPayload = errors.New("registration: invalid payload")

	// ErrDocumentStoreFailed is returned when the identification document could not be stored
	ErrDocumentStoreFailed = errors.New("registration: document store failed")

	// ErrRecordStoreFailed is returned when the patient record could not be persisted
	ErrRecordStoreFailed = errors.New("registration: record store failed")
)

// DocumentStore stores identification documents and derives their view URLs.
type DocumentStore interface {
	Put(ctx context.Context, data []byte, filename string) (string, error)
	ViewURL(objectID string) string
}

// Document is an uploaded identification document, consumed once during
// registration and replaced by a document-store reference.
type Document struct {
	Data     []byte
	Filename string
}

// Service turns a submitted intake form into a persisted patient record.
type Service struct {
	docs    DocumentStore
	repo    patients.Repository
	logger  *logging.Logger
	metrics *metrics.IntakeMetrics
}

// NewService constructs a registration service.
func NewService(docs DocumentStore, repo patients.Repository, logger *logging.Logger, m *metrics.IntakeMetrics) *Service {
	if repo == nil {
		panic("registration: patient repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{docs: docs, repo: repo, logger: logger, metrics: m}
}

// Register stores the optional identification document, then persists the
// patient record. A missing document is not an error; the document fields
// stay nil. There is no rollback: a document orphaned by a failed record
// write is logged and left for out-of-band cleanup.
func (s *Service) Register(ctx context.Context, req *patients.RegisterPatientRequest, doc *Document) (*patients.Patient, error) {
	ctx, span := registrationTracer.Start(ctx, "registration.register")
	defer span.End()

	if err := req.Validate(); err != nil {
		span.RecordError(err)
		s.metrics.ObserveRegistration("invalid", doc != nil)
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	span.SetAttributes(attribute.String("carepulse.user_id", req.UserID))

	var documentID, documentURL *string
	if doc != nil {
		if s.docs == nil {
			s.metrics.ObserveRegistration("document_failed", true)
			return nil, fmt.Errorf("%w: document store not configured", ErrDocumentStoreFailed)
		}
		objectID, err := s.docs.Put(ctx, doc.Data, doc.Filename)
		if err != nil {
			span.RecordError(err)
			s.metrics.ObserveRegistration("document_failed", true)
			return nil, fmt.Errorf("%w: %v", ErrDocumentStoreFailed, err)
		}
		url := s.docs.ViewURL(objectID)
		documentID = &objectID
		documentURL = &url
	}

	patient := &patients.Patient{
		ID:                        uuid.New().String(),
		UserID:                    req.UserID,
		Name:                      req.Name,
		Email:                     req.Email,
		Phone:                     req.Phone,
		BirthDate:                 req.BirthDate,
		Gender:                    req.Gender,
		Address:                   req.Address,
		Occupation:                req.Occupation,
		EmergencyContactName:      req.EmergencyContactName,
		EmergencyContactNumber:    req.EmergencyContactNumber,
		PrimaryPhysician:          req.PrimaryPhysician,
		InsuranceProvider:         req.InsuranceProvider,
		InsurancePolicyNumber:     req.InsurancePolicyNumber,
		Allergies:                 req.Allergies,
		CurrentMedication:         req.CurrentMedication,
		FamilyMedicalHistory:      req.FamilyMedicalHistory,
		PastMedicalHistory:        req.PastMedicalHistory,
		IdentificationType:        req.IdentificationType,
		IdentificationNumber:      req.IdentificationNumber,
		IdentificationDocumentID:  documentID,
		IdentificationDocumentURL: documentURL,
		TreatmentConsent:          req.TreatmentConsent,
		DisclosureConsent:         req.DisclosureConsent,
		PrivacyConsent:            req.PrivacyConsent,
		CreatedAt:                 time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, patient); err != nil {
		span.RecordError(err)
		s.metrics.ObserveRegistration("record_failed", doc != nil)
		if documentID != nil {
			// The stored document is now orphaned. Left for out-of-band cleanup.
			s.logger.Warn("patient insert failed after document upload",
				"object_id", *documentID, "user_id", req.UserID, "error", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrRecordStoreFailed, err)
	}

	s.logger.Info("patient registered",
		"patient_id", patient.ID,
		"user_id", patient.UserID,
		"has_document", documentID != nil,
	)
	s.metrics.ObserveRegistration("ok", doc != nil)

	return patient, nil
}
