package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/carepulse/intake-platform/internal/appointments"
	"github.com/carepulse/intake-platform/pkg/logging"
)

const recentAppointmentsLimit = 50

// AdminAppointmentsHandler serves the admin dashboard read model: the recent
// appointment list and the per-status counts shown as cards.
type AdminAppointmentsHandler struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewAdminAppointmentsHandler creates the dashboard handler.
func NewAdminAppointmentsHandler(db *sql.DB, logger *logging.Logger) *AdminAppointmentsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminAppointmentsHandler{db: db, logger: logger}
}

// StatusCounts are the dashboard cards.
type StatusCounts struct {
	Pending   int `json:"pending"`
	Scheduled int `json:"scheduled"`
	Cancelled int `json:"cancelled"`
}

type dashboardResponse struct {
	Counts       StatusCounts               `json:"counts"`
	Appointments []appointments.Appointment `json:"appointments"`
}

// List handles GET /admin/appointments.
func (h *AdminAppointmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.countByStatus(ctx)
	if err != nil {
		h.logger.Error("failed to count appointments", "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}

	recent, err := h.listRecent(ctx)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dashboardResponse{Counts: counts, Appointments: recent})
}

func (h *AdminAppointmentsHandler) countByStatus(ctx context.Context) (StatusCounts, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM appointments GROUP BY status`)
	if err != nil {
		return StatusCounts{}, err
	}
	defer rows.Close()

	var counts StatusCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return StatusCounts{}, err
		}
		switch appointments.Status(status) {
		case appointments.StatusPending:
			counts.Pending = n
		case appointments.StatusScheduled:
			counts.Scheduled = n
		case appointments.StatusCancelled:
			counts.Cancelled = n
		}
	}
	return counts, rows.Err()
}

func (h *AdminAppointmentsHandler) listRecent(ctx context.Context) ([]appointments.Appointment, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, user_id, patient_id, primary_physician, schedule, status,
			reason, note, cancellation_reason, created_at, updated_at
		FROM appointments
		ORDER BY created_at DESC
		LIMIT $1
	`, recentAppointmentsLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]appointments.Appointment, 0, recentAppointmentsLimit)
	for rows.Next() {
		var a appointments.Appointment
		var cancellationReason sql.NullString
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.PatientID, &a.PrimaryPhysician, &a.Schedule,
			&a.Status, &a.Reason, &a.Note, &cancellationReason, &a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if cancellationReason.Valid {
			reason := cancellationReason.String
			a.CancellationReason = &reason
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
