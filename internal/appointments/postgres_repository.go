package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `
	id, user_id, patient_id, primary_physician, schedule, status, reason, note,
	cancellation_reason, created_at, updated_at
`

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Insert writes a new appointment row.
func (r *PostgresRepository) Insert(ctx context.Context, a *Appointment) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		a.ID, a.UserID, a.PatientID, a.PrimaryPhysician, a.Schedule, a.Status,
		a.Reason, a.Note, a.CancellationReason, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("appointments: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches an appointment by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// Update applies a partial update in a single statement. Only non-nil fields
// appear in the SET clause; status and updated_at are always written.
func (r *PostgresRepository) Update(ctx context.Context, id string, fields UpdateFields) (*Appointment, error) {
	set := []string{"status = $1", "updated_at = now()"}
	args := []any{fields.Status}

	appendField := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if fields.PrimaryPhysician != nil {
		appendField("primary_physician", *fields.PrimaryPhysician)
	}
	if fields.Schedule != nil {
		appendField("schedule", *fields.Schedule)
	}
	if fields.Reason != nil {
		appendField("reason", *fields.Reason)
	}
	if fields.Note != nil {
		appendField("note", *fields.Note)
	}
	if fields.CancellationReason != nil {
		appendField("cancellation_reason", *fields.CancellationReason)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE appointments SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), appointmentColumns,
	)
	return r.scanOne(r.pool.QueryRow(ctx, query, args...))
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.UserID, &a.PatientID, &a.PrimaryPhysician, &a.Schedule,
		&a.Status, &a.Reason, &a.Note, &a.CancellationReason, &a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return &a, nil
}

var _ Repository = (*PostgresRepository)(nil)
