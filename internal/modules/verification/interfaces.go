package verification

import (
	"context"
	"time"

	"proptoken/internal/domain"
)

// RequestRepository defines the storage surface the workflow needs.
type RequestRepository interface {
	Create(ctx context.Context, v *domain.VerificationRequest) error
	GetByID(ctx context.Context, id int64) (*domain.VerificationRequest, error)
	GetLatestByUserID(ctx context.Context, userID int64) (*domain.VerificationRequest, error)
	ListByUserID(ctx context.Context, userID int64) ([]domain.VerificationRequest, error)
	Update(ctx context.Context, v *domain.VerificationRequest) error
	ApproveIfPending(ctx context.Context, id int64, reviewedBy *int64, notes string, at time.Time) (bool, error)
	RejectIfPending(ctx context.Context, id int64, reviewedBy *int64, reason string, at time.Time) (bool, error)
	RequestRevisionIfPending(ctx context.Context, id int64, reviewedBy *int64, notes string, at time.Time) (bool, error)
}

// UserStatusWriter mirrors decisions onto the user row.
type UserStatusWriter interface {
	UpdateVerificationStatus(ctx context.Context, userID int64, status domain.VerificationStatus) error
}

type NotificationSender interface {
	NotifyVerificationApproved(ctx context.Context, userID, requestID int64) error
	NotifyVerificationRejected(ctx context.Context, userID, requestID int64, reason string) error
	NotifyVerificationNeedsRevision(ctx context.Context, userID, requestID int64, notes string) error
}
