package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"proptoken/internal/domain"
)

type mockPropertyRepo struct {
	mock.Mock
}

func (m *mockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil {
		p.ID = 1
	}
	return args.Error(0)
}

func (m *mockPropertyRepo) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *mockPropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPropertyRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Property, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *mockPropertyRepo) ListByStatus(ctx context.Context, status domain.PropertyStatus, limit, offset int) ([]domain.Property, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Property), args.Get(1).(int64), args.Error(2)
}

type mockOwnerReader struct {
	mock.Mock
}

func (m *mockOwnerReader) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockIssuanceWriter struct {
	mock.Mock
}

func (m *mockIssuanceWriter) GetIssuanceByPropertyID(ctx context.Context, propertyID int64) (*domain.TokenIssuance, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenIssuance), args.Error(1)
}

func (m *mockIssuanceWriter) Tokenize(ctx context.Context, propertyID, totalTokens int64, pricePerToken decimal.Decimal) (*domain.TokenIssuance, error) {
	args := m.Called(ctx, propertyID, totalTokens, pricePerToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenIssuance), args.Error(1)
}

func verifiedOwner(id int64) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleSeller, VerificationStatus: domain.VerificationApproved}
}

func validInput() *PropertyInput {
	return &PropertyInput{
		Title:        "Oak Villa",
		Address:      "1 Oak Rd",
		PropertyType: "residential",
		Valuation:    decimal.NewFromInt(500_000),
	}
}

func TestSaveDraftRequiresVerifiedOwner(t *testing.T) {
	props := &mockPropertyRepo{}
	owners := &mockOwnerReader{}
	svc := NewService(props, owners, nil, nil)

	owners.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.User{ID: 1, Role: domain.RoleSeller, VerificationStatus: domain.VerificationPending}, nil)

	_, err := svc.SaveDraft(context.Background(), 1, validInput())
	assert.ErrorIs(t, err, ErrOwnerNotVerified)
	props.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaveDraftRejectsNonPositiveValuation(t *testing.T) {
	props := &mockPropertyRepo{}
	owners := &mockOwnerReader{}
	svc := NewService(props, owners, nil, nil)

	owners.On("GetByID", mock.Anything, int64(1)).Return(verifiedOwner(1), nil)

	in := validInput()
	in.Valuation = decimal.Zero
	_, err := svc.SaveDraft(context.Background(), 1, in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSaveDraftCreatesDraft(t *testing.T) {
	props := &mockPropertyRepo{}
	owners := &mockOwnerReader{}
	svc := NewService(props, owners, nil, nil)

	owners.On("GetByID", mock.Anything, int64(1)).Return(verifiedOwner(1), nil)
	props.On("Create", mock.Anything, mock.AnythingOfType("*domain.Property")).Return(nil)

	p, err := svc.SaveDraft(context.Background(), 1, validInput())
	assert.NoError(t, err)
	assert.Equal(t, domain.PropertyDraft, p.Status)
	assert.Equal(t, int64(1), p.OwnerID)
}

func TestSubmitForeignPropertyForbidden(t *testing.T) {
	props := &mockPropertyRepo{}
	owners := &mockOwnerReader{}
	svc := NewService(props, owners, nil, nil)

	props.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Property{ID: 5, OwnerID: 2, Status: domain.PropertyDraft}, nil)

	_, err := svc.Submit(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitOnlyFromDraft(t *testing.T) {
	props := &mockPropertyRepo{}
	owners := &mockOwnerReader{}
	svc := NewService(props, owners, nil, nil)

	props.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Property{ID: 5, OwnerID: 1, Status: domain.PropertyApproved}, nil)
	owners.On("GetByID", mock.Anything, int64(1)).Return(verifiedOwner(1), nil)

	_, err := svc.Submit(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateDraftImmutableAfterSubmission(t *testing.T) {
	props := &mockPropertyRepo{}
	owners := &mockOwnerReader{}
	svc := NewService(props, owners, nil, nil)

	props.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Property{ID: 5, OwnerID: 1, Status: domain.PropertyPending}, nil)

	_, err := svc.UpdateDraft(context.Background(), 1, 5, validInput())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApproveOnlyPending(t *testing.T) {
	props := &mockPropertyRepo{}
	owners := &mockOwnerReader{}
	svc := NewService(props, owners, nil, nil)

	props.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Property{ID: 5, OwnerID: 1, Status: domain.PropertyDraft}, nil)

	_, err := svc.Approve(context.Background(), 5, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRejectRequiresReason(t *testing.T) {
	props := &mockPropertyRepo{}
	owners := &mockOwnerReader{}
	svc := NewService(props, owners, nil, nil)

	_, err := svc.Reject(context.Background(), 5, "")
	assert.ErrorIs(t, err, ErrReasonRequired)
	props.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRejectStoresReason(t *testing.T) {
	props := &mockPropertyRepo{}
	owners := &mockOwnerReader{}
	svc := NewService(props, owners, nil, nil)

	existing := &domain.Property{ID: 5, OwnerID: 1, Status: domain.PropertyPending}
	props.On("GetByID", mock.Anything, int64(5)).Return(existing, nil)
	props.On("Update", mock.Anything, existing).Return(nil)

	p, err := svc.Reject(context.Background(), 5, "valuation unsupported")
	assert.NoError(t, err)
	assert.Equal(t, domain.PropertyRejected, p.Status)
	assert.Equal(t, "valuation unsupported", p.RejectionReason)
}

func TestIssueTokensValidation(t *testing.T) {
	svc := NewService(&mockPropertyRepo{}, &mockOwnerReader{}, &mockIssuanceWriter{}, nil)

	_, err := svc.IssueTokens(context.Background(), 5, 0, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.IssueTokens(context.Background(), 5, 1000, decimal.Zero)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIssueTokensOnlyFromApproved(t *testing.T) {
	props := &mockPropertyRepo{}
	issuances := &mockIssuanceWriter{}
	svc := NewService(props, &mockOwnerReader{}, issuances, nil)

	props.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Property{ID: 5, OwnerID: 1, Status: domain.PropertyPending}, nil)

	_, err := svc.IssueTokens(context.Background(), 5, 10000, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	issuances.AssertNotCalled(t, "Tokenize", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIssueTokensRejectsSecondIssuance(t *testing.T) {
	props := &mockPropertyRepo{}
	issuances := &mockIssuanceWriter{}
	svc := NewService(props, &mockOwnerReader{}, issuances, nil)

	props.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Property{ID: 5, OwnerID: 1, Status: domain.PropertyApproved}, nil)
	issuances.On("GetIssuanceByPropertyID", mock.Anything, int64(5)).
		Return(&domain.TokenIssuance{ID: 1, PropertyID: 5}, nil)

	_, err := svc.IssueTokens(context.Background(), 5, 10000, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrAlreadyTokenized)
}

func TestIssueTokensCreatesPool(t *testing.T) {
	props := &mockPropertyRepo{}
	issuances := &mockIssuanceWriter{}
	svc := NewService(props, &mockOwnerReader{}, issuances, nil)

	price := decimal.NewFromInt(100)
	props.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Property{ID: 5, OwnerID: 1, Status: domain.PropertyApproved}, nil)
	issuances.On("GetIssuanceByPropertyID", mock.Anything, int64(5)).
		Return(nil, gorm.ErrRecordNotFound)
	issuances.On("Tokenize", mock.Anything, int64(5), int64(10000), price).
		Return(&domain.TokenIssuance{ID: 1, PropertyID: 5, TotalTokens: 10000, AvailableTokens: 10000, PricePerToken: price}, nil)

	issuance, err := svc.IssueTokens(context.Background(), 5, 10000, price)
	assert.NoError(t, err)
	assert.Equal(t, int64(10000), issuance.AvailableTokens)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: token_issuances.property_id")))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
}
