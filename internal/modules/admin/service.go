package admin

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"proptoken/internal/domain"
)

type Service struct {
	db            *gorm.DB
	verifications VerificationQueue
	properties    PropertyQueue
	users         UserLister
}

func NewService(db *gorm.DB, verifications VerificationQueue, properties PropertyQueue, users UserLister) *Service {
	return &Service{
		db:            db,
		verifications: verifications,
		properties:    properties,
		users:         users,
	}
}

func (s *Service) PendingVerifications(ctx context.Context, page, limit int) ([]domain.VerificationRequest, int64, error) {
	limit, offset := pageToOffset(page, limit)
	return s.verifications.ListByStatus(ctx, domain.VerificationPending, limit, offset)
}

func (s *Service) GetVerification(ctx context.Context, id int64) (*domain.VerificationRequest, error) {
	return s.verifications.GetByID(ctx, id)
}

func (s *Service) PendingProperties(ctx context.Context, page, limit int) ([]domain.Property, int64, error) {
	limit, offset := pageToOffset(page, limit)
	return s.properties.ListByStatus(ctx, domain.PropertyPending, limit, offset)
}

func (s *Service) ListUsers(ctx context.Context, role string, page, limit int) ([]domain.User, int64, error) {
	limit, offset := pageToOffset(page, limit)
	return s.users.List(ctx, role, limit, offset)
}

// Statistics aggregates dashboard counts in one pass over the tables.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{TotalVolume: decimal.Zero}
	db := s.db.WithContext(ctx)

	if err := db.Table("users").Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Table("verification_requests").
		Where("status = ?", domain.VerificationPending).
		Count(&stats.PendingVerifications).Error; err != nil {
		return nil, err
	}
	if err := db.Table("properties").
		Where("status = ?", domain.PropertyPending).
		Count(&stats.PendingProperties).Error; err != nil {
		return nil, err
	}
	if err := db.Table("properties").
		Where("status = ?", domain.PropertyTokenized).
		Count(&stats.TokenizedProperties).Error; err != nil {
		return nil, err
	}
	if err := db.Table("token_purchases").Count(&stats.TotalPurchases).Error; err != nil {
		return nil, err
	}

	var volume decimal.NullDecimal
	if err := db.Table("token_purchases").
		Select("SUM(total_amount)").
		Scan(&volume).Error; err != nil {
		return nil, err
	}
	if volume.Valid {
		stats.TotalVolume = volume.Decimal
	}

	return stats, nil
}

func pageToOffset(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return limit, (page - 1) * limit
}
