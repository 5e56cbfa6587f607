package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

type VerificationKind string

const (
	KindIndividual VerificationKind = "individual"
	KindBusiness   VerificationKind = "business"
)

// VerificationRequest is one KYC/KYB submission attempt. Requests are never
// deleted; the most recent request per user is the authoritative one.
type VerificationRequest struct {
	ID     int64              `json:"id"`
	UserID int64              `json:"user_id" gorm:"index;not null"`
	Kind   VerificationKind   `json:"kind" gorm:"type:varchar(16);not null"`
	Status VerificationStatus `json:"status" gorm:"type:varchar(16);index;not null"`

	// CompanyName is denormalized from BusinessData for admin list views.
	CompanyName string `json:"company_name,omitempty"`

	SubmittedData json.RawMessage `json:"submitted_data" gorm:"type:jsonb"`

	RejectionReason string     `json:"rejection_reason,omitempty" gorm:"type:text"`
	AdminNotes      string     `json:"admin_notes,omitempty" gorm:"type:text"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	ReviewedBy      *int64     `json:"reviewed_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VerificationRequest) TableName() string { return "verification_requests" }

// SubmissionAddress is the postal address block shared by both kinds.
type SubmissionAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type IndividualData struct {
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	DateOfBirth    string            `json:"date_of_birth"`
	Nationality    string            `json:"nationality"`
	IDDocumentType string            `json:"id_document_type"`
	IDDocumentRef  string            `json:"id_document_ref"`
	Address        SubmissionAddress `json:"address"`
	DocumentRefs   []string          `json:"document_refs,omitempty"`
}

type BusinessData struct {
	CompanyName          string            `json:"company_name"`
	RegistrationNumber   string            `json:"registration_number"`
	TaxID                string            `json:"tax_id,omitempty"`
	IncorporationCountry string            `json:"incorporation_country"`
	DirectorName         string            `json:"director_name"`
	DirectorPhotoRef     string            `json:"director_photo_ref"`
	Address              SubmissionAddress `json:"address"`
	DocumentRefs         []string          `json:"document_refs,omitempty"`
}

// SubmissionData is a tagged variant: exactly one of Individual or Business is
// set, matching Kind.
type SubmissionData struct {
	Kind       VerificationKind `json:"kind"`
	Individual *IndividualData  `json:"individual,omitempty"`
	Business   *BusinessData    `json:"business,omitempty"`
}

var ErrInvalidSubmission = errors.New("invalid submission data")

// Validate checks the variant tag and the per-kind required fields.
func (d *SubmissionData) Validate() error {
	switch d.Kind {
	case KindIndividual:
		if d.Individual == nil || d.Business != nil {
			return ErrInvalidSubmission
		}
		ind := d.Individual
		if anyEmpty(ind.FirstName, ind.LastName, ind.DateOfBirth, ind.Nationality, ind.IDDocumentType, ind.IDDocumentRef) {
			return ErrInvalidSubmission
		}
		return validateAddress(ind.Address)
	case KindBusiness:
		if d.Business == nil || d.Individual != nil {
			return ErrInvalidSubmission
		}
		biz := d.Business
		if anyEmpty(biz.CompanyName, biz.RegistrationNumber, biz.IncorporationCountry, biz.DirectorName, biz.DirectorPhotoRef) {
			return ErrInvalidSubmission
		}
		return validateAddress(biz.Address)
	default:
		return ErrInvalidSubmission
	}
}

func validateAddress(a SubmissionAddress) error {
	if anyEmpty(a.Street, a.City, a.PostalCode, a.Country) {
		return ErrInvalidSubmission
	}
	return nil
}

func anyEmpty(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// SetSubmittedData encodes the variant into the JSON column and keeps the
// denormalized company name in sync.
func (r *VerificationRequest) SetSubmittedData(d *SubmissionData) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	r.SubmittedData = b
	r.Kind = d.Kind
	if d.Kind == KindBusiness && d.Business != nil {
		r.CompanyName = d.Business.CompanyName
	} else {
		r.CompanyName = ""
	}
	return nil
}

// GetSubmittedData decodes the JSON column back into the tagged variant.
func (r *VerificationRequest) GetSubmittedData() (*SubmissionData, error) {
	var d SubmissionData
	if len(r.SubmittedData) == 0 {
		return nil, ErrInvalidSubmission
	}
	if err := json.Unmarshal(r.SubmittedData, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// IsDecided reports whether an admin or the auto reviewer already acted.
func (r *VerificationRequest) IsDecided() bool {
	return r.Status != VerificationPending
}
