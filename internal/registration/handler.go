package registration

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carepulse/intake-platform/internal/patients"
	"github.com/carepulse/intake-platform/pkg/logging"
)

// maxDocumentBytes caps identification document uploads.
const maxDocumentBytes = 10 << 20

// Handler handles HTTP requests for patient registration
type Handler struct {
	service *Service
	repo    patients.Repository
	logger  *logging.Logger
}

// NewHandler creates a new registration handler
func NewHandler(service *Service, repo patients.Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, repo: repo, logger: logger}
}

// RegisterPatient handles POST /patients/register. The request is
// multipart/form-data with a JSON "payload" part and an optional
// "identificationDocument" file part.
func (h *Handler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxDocumentBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	payload := r.FormValue("payload")
	if payload == "" {
		http.Error(w, "missing payload part", http.StatusBadRequest)
		return
	}

	var req patients.RegisterPatientRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		h.logger.Error("failed to decode registration payload", "error", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	var doc *Document
	file, header, err := r.FormFile("identificationDocument")
	switch {
	case err == nil:
		defer file.Close()
		// Read one byte past the cap so an oversized file is detected
		// instead of silently truncated.
		data, readErr := io.ReadAll(io.LimitReader(file, maxDocumentBytes+1))
		if readErr != nil {
			http.Error(w, "failed to read document", http.StatusBadRequest)
			return
		}
		if len(data) > maxDocumentBytes {
			http.Error(w, "document exceeds size limit", http.StatusRequestEntityTooLarge)
			return
		}
		doc = &Document{Data: data, Filename: header.Filename}
	case errors.Is(err, http.ErrMissingFile):
		// Registration proceeds without a document.
	default:
		http.Error(w, "invalid document part", http.StatusBadRequest)
		return
	}

	patient, err := h.service.Register(r.Context(), &req, doc)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPayload):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("registration failed", "error", err)
			http.Error(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(patient)
}

// GetPatient handles GET /patients/{patientID}
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		http.Error(w, "missing patientID", http.StatusBadRequest)
		return
	}
	h.respondWithPatient(w, r, func() (*patients.Patient, error) {
		return h.repo.GetByID(r.Context(), patientID)
	})
}

// GetPatientByUser handles GET /users/{userID}/patient
func (h *Handler) GetPatientByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		http.Error(w, "missing userID", http.StatusBadRequest)
		return
	}
	h.respondWithPatient(w, r, func() (*patients.Patient, error) {
		return h.repo.GetByUserID(r.Context(), userID)
	})
}

func (h *Handler) respondWithPatient(w http.ResponseWriter, r *http.Request, fetch func() (*patients.Patient, error)) {
	patient, err := fetch()
	if err != nil {
		if errors.Is(err, patients.ErrPatientNotFound) {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch patient", "error", err, "path", r.URL.Path)
		http.Error(w, "failed to fetch patient", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patient)
}
