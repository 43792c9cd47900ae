package patients

import (
	"strings"
	"time"
)

// Patient is the persisted intake record. Created once per registration and
// not mutated afterwards; the identification document fields stay nil when no
// document was uploaded.
type Patient struct {
	ID                        string    `json:"id"`
	UserID                    string    `json:"user_id"`
	Name                      string    `json:"name"`
	Email                     string    `json:"email"`
	Phone                     string    `json:"phone"`
	BirthDate                 time.Time `json:"birth_date"`
	Gender                    string    `json:"gender"`
	Address                   string    `json:"address"`
	Occupation                string    `json:"occupation"`
	EmergencyContactName      string    `json:"emergency_contact_name"`
	EmergencyContactNumber    string    `json:"emergency_contact_number"`
	PrimaryPhysician          string    `json:"primary_physician"`
	InsuranceProvider         string    `json:"insurance_provider"`
	InsurancePolicyNumber     string    `json:"insurance_policy_number"`
	Allergies                 string    `json:"allergies,omitempty"`
	CurrentMedication         string    `json:"current_medication,omitempty"`
	FamilyMedicalHistory      string    `json:"family_medical_history,omitempty"`
	PastMedicalHistory        string    `json:"past_medical_history,omitempty"`
	IdentificationType        string    `json:"identification_type,omitempty"`
	IdentificationNumber      string    `json:"identification_number,omitempty"`
	IdentificationDocumentID  *string   `json:"identification_document_id"`
	IdentificationDocumentURL *string   `json:"identification_document_url"`
	TreatmentConsent          bool      `json:"treatment_consent"`
	DisclosureConsent         bool      `json:"disclosure_consent"`
	PrivacyConsent            bool      `json:"privacy_consent"`
	CreatedAt                 time.Time `json:"created_at"`
}

// RegisterPatientRequest carries the intake form fields.
type RegisterPatientRequest struct {
	UserID                 string    `json:"user_id"`
	Name                   string    `json:"name"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone"`
	BirthDate              time.Time `json:"birth_date"`
	Gender                 string    `json:"gender"`
	Address                string    `json:"address"`
	Occupation             string    `json:"occupation"`
	EmergencyContactName   string    `json:"emergency_contact_name"`
	EmergencyContactNumber string    `json:"emergency_contact_number"`
	PrimaryPhysician       string    `json:"primary_physician"`
	InsuranceProvider      string    `json:"insurance_provider"`
	InsurancePolicyNumber  string    `json:"insurance_policy_number"`
	Allergies              string    `json:"allergies"`
	CurrentMedication      string    `json:"current_medication"`
	FamilyMedicalHistory   string    `json:"family_medical_history"`
	PastMedicalHistory     string    `json:"past_medical_history"`
	IdentificationType     string    `json:"identification_type"`
	IdentificationNumber   string    `json:"identification_number"`
	TreatmentConsent       bool      `json:"treatment_consent"`
	DisclosureConsent      bool      `json:"disclosure_consent"`
	PrivacyConsent         bool      `json:"privacy_consent"`
}

// Validate validates the registration form fields
func (r *RegisterPatientRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrMissingUserID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(r.Phone) == "" {
		return ErrInvalidPhone
	}
	if r.BirthDate.IsZero() {
		return ErrMissingBirthDate
	}
	if strings.TrimSpace(r.Gender) == "" {
		return ErrMissingGender
	}
	if !r.PrivacyConsent {
		return ErrPrivacyConsentRequired
	}
	return nil
}
