package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"proptoken/internal/domain"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, v *domain.VerificationRequest) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *VerificationRepository) GetByID(ctx context.Context, id int64) (*domain.VerificationRequest, error) {
	var v domain.VerificationRequest
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// GetLatestByUserID returns the authoritative (most recent) request.
func (r *VerificationRepository) GetLatestByUserID(ctx context.Context, userID int64) (*domain.VerificationRequest, error) {
	var v domain.VerificationRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VerificationRepository) ListByUserID(ctx context.Context, userID int64) ([]domain.VerificationRequest, error) {
	var out []domain.VerificationRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *VerificationRepository) ListByStatus(ctx context.Context, status domain.VerificationStatus, limit, offset int) ([]domain.VerificationRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.VerificationRequest{}).Where("status = ?", status)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.VerificationRequest
	if err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *VerificationRepository) Update(ctx context.Context, v *domain.VerificationRequest) error {
	return r.db.WithContext(ctx).Save(v).Error
}

// ApproveIfPending flips pending -> approved in one guarded update so the auto
// reviewer can never overwrite an admin decision. Returns false when the
// request was already decided.
func (r *VerificationRepository) ApproveIfPending(ctx context.Context, id int64, reviewedBy *int64, notes string, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":      string(domain.VerificationApproved),
		"verified_at": at,
		"updated_at":  at,
	}
	if reviewedBy != nil {
		updates["reviewed_by"] = *reviewedBy
	}
	if notes != "" {
		updates["admin_notes"] = notes
	}
	return r.decideIfPending(ctx, id, updates)
}

// RejectIfPending flips pending -> rejected under the same guard, so a racing
// auto approval can never land after an admin rejection.
func (r *VerificationRepository) RejectIfPending(ctx context.Context, id int64, reviewedBy *int64, reason string, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":           string(domain.VerificationRejected),
		"rejection_reason": reason,
		"updated_at":       at,
	}
	if reviewedBy != nil {
		updates["reviewed_by"] = *reviewedBy
	}
	return r.decideIfPending(ctx, id, updates)
}

// RequestRevisionIfPending flips pending -> needs_revision under the guard.
func (r *VerificationRepository) RequestRevisionIfPending(ctx context.Context, id int64, reviewedBy *int64, notes string, at time.Time) (bool, error) {
	updates := map[string]any{
		"status":      string(domain.VerificationNeedsRevision),
		"admin_notes": notes,
		"updated_at":  at,
	}
	if reviewedBy != nil {
		updates["reviewed_by"] = *reviewedBy
	}
	return r.decideIfPending(ctx, id, updates)
}

func (r *VerificationRepository) decideIfPending(ctx context.Context, id int64, updates map[string]any) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.VerificationRequest{}).
		Where("id = ? AND status = ?", id, string(domain.VerificationPending)).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
