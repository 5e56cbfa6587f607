package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PropertyStatus string

const (
	PropertyDraft     PropertyStatus = "draft"
	PropertyPending   PropertyStatus = "pending"
	PropertyApproved  PropertyStatus = "approved"
	PropertyRejected  PropertyStatus = "rejected"
	PropertyTokenized PropertyStatus = "tokenized"
)

type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
	PropertyLand        PropertyType = "land"
	PropertyIndustrial  PropertyType = "industrial"
)

// Property is an owner-submitted listing. Listings are never deleted; rejected
// ones keep their reason so the owner can see why.
type Property struct {
	ID           int64           `json:"id"`
	OwnerID      int64           `json:"owner_id" gorm:"index;not null"`
	Title        string          `json:"title" gorm:"not null"`
	Address      string          `json:"address" gorm:"not null"`
	PropertyType PropertyType    `json:"property_type" gorm:"type:varchar(16)"`
	Valuation    decimal.Decimal `json:"valuation" gorm:"type:numeric(18,2)"`
	Description  string          `json:"description,omitempty" gorm:"type:text"`
	Highlights   string          `json:"highlights,omitempty" gorm:"type:text"`

	// Images is an ordered list of upload references.
	Images []string `json:"images,omitempty" gorm:"serializer:json"`

	// ExpectedTokens is the owner's suggestion; the actual supply is fixed by
	// the admin at issuance time.
	ExpectedTokens int64 `json:"expected_tokens,omitempty"`

	Status          PropertyStatus `json:"status" gorm:"type:varchar(16);index;not null"`
	RejectionReason string         `json:"rejection_reason,omitempty" gorm:"type:text"`
	AdminNotes      string         `json:"admin_notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Property) TableName() string { return "properties" }

// CanTransitionTo encodes the legal listing lifecycle:
// draft -> pending -> approved -> tokenized, pending -> rejected.
func (p *Property) CanTransitionTo(next PropertyStatus) bool {
	switch p.Status {
	case PropertyDraft:
		return next == PropertyPending
	case PropertyPending:
		return next == PropertyApproved || next == PropertyRejected
	case PropertyApproved:
		return next == PropertyTokenized
	default:
		return false
	}
}
