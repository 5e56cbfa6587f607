package notification

import (
	"encoding/json"
	"time"
)

type Type string

const (
	TypeVerificationApproved      Type = "verification_approved"
	TypeVerificationRejected      Type = "verification_rejected"
	TypeVerificationNeedsRevision Type = "verification_needs_revision"

	TypePropertyApproved Type = "property_approved"
	TypePropertyRejected Type = "property_rejected"
	TypeTokensIssued     Type = "tokens_issued"

	TypePurchaseCompleted Type = "purchase_completed"
)

type Notification struct {
	ID        int64           `json:"id" gorm:"primaryKey"`
	UserID    int64           `json:"user_id" gorm:"index:idx_notifications_user_unread;not null"`
	Type      Type            `json:"type" gorm:"type:varchar(32);not null"`
	Title     string          `json:"title" gorm:"not null"`
	Message   string          `json:"message,omitempty" gorm:"type:text"`
	Data      json.RawMessage `json:"data,omitempty" gorm:"type:jsonb"`
	IsRead    bool            `json:"is_read" gorm:"index:idx_notifications_user_unread"`
	ReadAt    *time.Time      `json:"read_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
