package patients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const patientColumns = `
	id, user_id, name, email, phone, birth_date, gender, address, occupation,
	emergency_contact_name, emergency_contact_number, primary_physician,
	insurance_provider, insurance_policy_number, allergies, current_medication,
	family_medical_history, past_medical_history, identification_type,
	identification_number, identification_document_id, identification_document_url,
	treatment_consent, disclosure_consent, privacy_consent, created_at
`

// PostgresRepository stores patients in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// Insert writes a new patient row.
func (r *PostgresRepository) Insert(ctx context.Context, p *Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.UserID, p.Name, p.Email, p.Phone, p.BirthDate, p.Gender,
		p.Address, p.Occupation, p.EmergencyContactName, p.EmergencyContactNumber,
		p.PrimaryPhysician, p.InsuranceProvider, p.InsurancePolicyNumber,
		p.Allergies, p.CurrentMedication, p.FamilyMedicalHistory,
		p.PastMedicalHistory, p.IdentificationType, p.IdentificationNumber,
		p.IdentificationDocumentID, p.IdentificationDocumentURL,
		p.TreatmentConsent, p.DisclosureConsent, p.PrivacyConsent, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("patients: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches a patient by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByUserID fetches the patient registered for the given user.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE user_id = $1 ORDER BY created_at LIMIT 1`
	return r.scanOne(r.pool.QueryRow(ctx, query, userID))
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Email, &p.Phone, &p.BirthDate, &p.Gender,
		&p.Address, &p.Occupation, &p.EmergencyContactName, &p.EmergencyContactNumber,
		&p.PrimaryPhysician, &p.InsuranceProvider, &p.InsurancePolicyNumber,
		&p.Allergies, &p.CurrentMedication, &p.FamilyMedicalHistory,
		&p.PastMedicalHistory, &p.IdentificationType, &p.IdentificationNumber,
		&p.IdentificationDocumentID, &p.IdentificationDocumentURL,
		&p.TreatmentConsent, &p.DisclosureConsent, &p.PrivacyConsent, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("patients: select failed: %w", err)
	}
	return &p, nil
}

var _ Repository = (*PostgresRepository)(nil)
