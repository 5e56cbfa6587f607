package listing

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"proptoken/internal/domain"
)

type Service struct {
	properties PropertyRepository
	owners     OwnerReader
	issuances  IssuanceWriter
	notifs     NotificationSender
}

func NewService(properties PropertyRepository, owners OwnerReader, issuances IssuanceWriter, notifs NotificationSender) *Service {
	return &Service{
		properties: properties,
		owners:     owners,
		issuances:  issuances,
		notifs:     notifs,
	}
}

// SaveDraft creates a listing in draft state. Only sellers with an approved
// verification may list property.
func (s *Service) SaveDraft(ctx context.Context, ownerID int64, in *PropertyInput) (*domain.Property, error) {
	if err := s.requireVerifiedOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if !in.Valuation.IsPositive() {
		return nil, ErrValidation
	}

	p := &domain.Property{
		OwnerID: ownerID,
		Status:  domain.PropertyDraft,
	}
	in.apply(p)

	if err := s.properties.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Submit moves a draft into the admin review queue.
func (s *Service) Submit(ctx context.Context, ownerID, propertyID int64) (*domain.Property, error) {
	p, err := s.ownedProperty(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	if err := s.requireVerifiedOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if !p.CanTransitionTo(domain.PropertyPending) {
		return nil, ErrInvalidTransition
	}

	p.Status = domain.PropertyPending
	if err := s.properties.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SubmitDirect creates a listing and submits it for review in one call.
func (s *Service) SubmitDirect(ctx context.Context, ownerID int64, in *PropertyInput) (*domain.Property, error) {
	p, err := s.SaveDraft(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	return s.Submit(ctx, ownerID, p.ID)
}

// UpdateDraft edits listing fields. Only drafts are editable; anything already
// in review or beyond is immutable for the owner.
func (s *Service) UpdateDraft(ctx context.Context, ownerID, propertyID int64, in *PropertyInput) (*domain.Property, error) {
	p, err := s.ownedProperty(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PropertyDraft {
		return nil, ErrInvalidTransition
	}
	if !in.Valuation.IsPositive() {
		return nil, ErrValidation
	}

	in.apply(p)
	if err := s.properties.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, propertyID int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) ListMine(ctx context.Context, ownerID int64) ([]domain.Property, error) {
	return s.properties.ListByOwner(ctx, ownerID)
}

func (s *Service) ListByStatus(ctx context.Context, status domain.PropertyStatus, limit, offset int) ([]domain.Property, int64, error) {
	return s.properties.ListByStatus(ctx, status, limit, offset)
}

// Approve is the admin decision for a pending listing.
func (s *Service) Approve(ctx context.Context, propertyID int64, notes string) (*domain.Property, error) {
	p, err := s.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !p.CanTransitionTo(domain.PropertyApproved) {
		return nil, ErrInvalidTransition
	}

	p.Status = domain.PropertyApproved
	p.AdminNotes = strings.TrimSpace(notes)
	if err := s.properties.Update(ctx, p); err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyPropertyApproved(ctx, p.OwnerID, p.ID)
	}
	return p, nil
}

// Reject requires a non-empty reason, same contract as verification review.
func (s *Service) Reject(ctx context.Context, propertyID int64, reason string) (*domain.Property, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	p, err := s.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !p.CanTransitionTo(domain.PropertyRejected) {
		return nil, ErrInvalidTransition
	}

	p.Status = domain.PropertyRejected
	p.RejectionReason = strings.TrimSpace(reason)
	if err := s.properties.Update(ctx, p); err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyPropertyRejected(ctx, p.OwnerID, p.ID, p.RejectionReason)
	}
	return p, nil
}

// IssueTokens fixes the token supply and price for an approved listing and
// moves it to tokenized. Issuance happens at most once per property.
func (s *Service) IssueTokens(ctx context.Context, propertyID, totalTokens int64, pricePerToken decimal.Decimal) (*domain.TokenIssuance, error) {
	if totalTokens <= 0 || !pricePerToken.IsPositive() {
		return nil, ErrValidation
	}

	p, err := s.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !p.CanTransitionTo(domain.PropertyTokenized) {
		return nil, ErrInvalidTransition
	}

	if _, err := s.issuances.GetIssuanceByPropertyID(ctx, propertyID); err == nil {
		return nil, ErrAlreadyTokenized
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	issuance, err := s.issuances.Tokenize(ctx, propertyID, totalTokens, pricePerToken)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyTokenized
		}
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyTokensIssued(ctx, p.OwnerID, p.ID, totalTokens)
	}
	return issuance, nil
}

func (s *Service) ownedProperty(ctx context.Context, ownerID, propertyID int64) (*domain.Property, error) {
	p, err := s.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *Service) requireVerifiedOwner(ctx context.Context, ownerID int64) error {
	owner, err := s.owners.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		return err
	}
	if !owner.IsVerifiedSeller() {
		return ErrOwnerNotVerified
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite driver reports the constraint in the message
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
