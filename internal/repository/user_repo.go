package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"proptoken/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID                  int64      `gorm:"column:id;primaryKey"`
	Email               string     `gorm:"column:email;uniqueIndex"`
	PasswordHash        string     `gorm:"column:password_hash"`
	FullName            string     `gorm:"column:full_name"`
	Phone               *string    `gorm:"column:phone"`
	Role                string     `gorm:"column:role"`
	Mode                string     `gorm:"column:mode"`
	VerificationStatus  *string    `gorm:"column:verification_status"`
	FailedLoginAttempts int        `gorm:"column:failed_login_attempts"`
	LockedUntil         *time.Time `gorm:"column:locked_until"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var phone string
	if m.Phone != nil {
		phone = *m.Phone
	}
	status := domain.VerificationUnverified
	if m.VerificationStatus != nil && *m.VerificationStatus != "" {
		status = domain.VerificationStatus(*m.VerificationStatus)
	}

	return &domain.User{
		ID:                  m.ID,
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		FullName:            m.FullName,
		Phone:               phone,
		Role:                domain.UserRole(m.Role),
		Mode:                domain.UserMode(m.Mode),
		VerificationStatus:  status,
		FailedLoginAttempts: m.FailedLoginAttempts,
		LockedUntil:         m.LockedUntil,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	email := strings.TrimSpace(strings.ToLower(u.Email))

	var phone, status *string
	if u.Phone != "" {
		v := u.Phone
		phone = &v
	}
	if u.VerificationStatus != "" {
		v := string(u.VerificationStatus)
		status = &v
	}

	return userModel{
		ID:                  u.ID,
		Email:               email,
		PasswordHash:        u.PasswordHash,
		FullName:            u.FullName,
		Phone:               phone,
		Role:                string(u.Role),
		Mode:                string(u.Mode),
		VerificationStatus:  status,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockedUntil:         u.LockedUntil,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

// UpdateVerificationStatus keeps the denormalized status column in sync with
// the latest verification request.
func (r *UserRepository) UpdateVerificationStatus(ctx context.Context, userID int64, status domain.VerificationStatus) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Update("verification_status", string(status)).Error
}

// UpdateLoginAttempts records the failed-attempt counter and, past the
// threshold, the lockout window. A nil lockedUntil clears the lock.
func (r *UserRepository) UpdateLoginAttempts(ctx context.Context, userID int64, failed int, lockedUntil *time.Time) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"failed_login_attempts": failed,
			"locked_until":          lockedUntil,
		}).Error
}

func (r *UserRepository) UpdateMode(ctx context.Context, userID int64, mode domain.UserMode) error {
	return r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Update("mode", string(mode)).Error
}

// List returns users page by page, optionally filtered by role.
func (r *UserRepository) List(ctx context.Context, role string, limit, offset int) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&userModel{})
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []userModel
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.User, 0, len(models))
	for _, m := range models {
		u := toDomainUser(m)
		u.PasswordHash = ""
		out = append(out, *u)
	}
	return out, total, nil
}
