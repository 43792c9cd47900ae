package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAdminAppointmentsHandler_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM appointments GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 3).
			AddRow("scheduled", 5).
			AddRow("cancelled", 1))

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, user_id, patient_id, primary_physician, schedule, status`).
		WithArgs(recentAppointmentsLimit).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "patient_id", "primary_physician", "schedule", "status",
			"reason", "note", "cancellation_reason", "created_at", "updated_at",
		}).
			AddRow("appt-2", "user-2", "patient-2", "Evan Peter", now, "cancelled",
				"follow-up", "", "physician unavailable", now, now).
			AddRow("appt-1", "user-1", "patient-1", "Leila Cameron", now, "scheduled",
				"Annual checkup", "bring referral", nil, now, now))

	handler := NewAdminAppointmentsHandler(db, nil)

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/admin/appointments", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Counts.Pending != 3 || resp.Counts.Scheduled != 5 || resp.Counts.Cancelled != 1 {
		t.Errorf("unexpected counts: %+v", resp.Counts)
	}
	if len(resp.Appointments) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(resp.Appointments))
	}
	if resp.Appointments[0].ID != "appt-2" {
		t.Errorf("expected newest first, got %q", resp.Appointments[0].ID)
	}
	if resp.Appointments[0].CancellationReason == nil || *resp.Appointments[0].CancellationReason != "physician unavailable" {
		t.Error("cancellation reason not carried through")
	}
	if resp.Appointments[1].CancellationReason != nil {
		t.Error("null cancellation reason should stay nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestAdminAppointmentsHandler_ListEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM appointments GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}))
	mock.ExpectQuery(`SELECT id, user_id, patient_id`).
		WithArgs(recentAppointmentsLimit).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "patient_id", "primary_physician", "schedule", "status",
			"reason", "note", "cancellation_reason", "created_at", "updated_at",
		}))

	handler := NewAdminAppointmentsHandler(db, nil)

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/admin/appointments", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Counts != (StatusCounts{}) {
		t.Errorf("expected zero counts, got %+v", resp.Counts)
	}
	if len(resp.Appointments) != 0 {
		t.Errorf("expected empty list, got %d", len(resp.Appointments))
	}
}

func TestAdminAppointmentsHandler_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) FROM appointments GROUP BY status`).
		WillReturnError(sqlmock.ErrCancelled)

	handler := NewAdminAppointmentsHandler(db, nil)

	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/admin/appointments", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
