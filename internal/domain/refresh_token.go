package domain

import "time"

// RefreshToken stores rotated refresh tokens.
//
// Only the SHA-256 hash of the raw token is stored. On refresh the old token
// is revoked and replaced; reuse of an already-rotated token revokes the
// whole family.
type RefreshToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	TokenHash string `json:"-" gorm:"size:64;uniqueIndex;not null"`
	FamilyID  string `json:"-" gorm:"size:36;index;not null"`

	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index;not null"`
	UsedAt    *time.Time `json:"used_at"`
	RevokedAt *time.Time `json:"revoked_at" gorm:"index"`

	ReplacedByID *int64 `json:"replaced_by_id" gorm:"index"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsReused reports whether this token was already rotated or revoked, which
// signals theft when it shows up again.
func (t *RefreshToken) IsReused() bool {
	return t.UsedAt != nil || t.RevokedAt != nil
}
