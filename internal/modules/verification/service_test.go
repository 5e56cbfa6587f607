package verification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"proptoken/internal/domain"
)

type mockRequestRepo struct {
	mock.Mock
}

func (m *mockRequestRepo) Create(ctx context.Context, v *domain.VerificationRequest) error {
	args := m.Called(ctx, v)
	if args.Error(0) == nil {
		v.ID = 1
	}
	return args.Error(0)
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id int64) (*domain.VerificationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRequest), args.Error(1)
}

func (m *mockRequestRepo) GetLatestByUserID(ctx context.Context, userID int64) (*domain.VerificationRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRequest), args.Error(1)
}

func (m *mockRequestRepo) ListByUserID(ctx context.Context, userID int64) ([]domain.VerificationRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VerificationRequest), args.Error(1)
}

func (m *mockRequestRepo) Update(ctx context.Context, v *domain.VerificationRequest) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *mockRequestRepo) ApproveIfPending(ctx context.Context, id int64, reviewedBy *int64, notes string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, reviewedBy, notes, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockRequestRepo) RejectIfPending(ctx context.Context, id int64, reviewedBy *int64, reason string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, reviewedBy, reason, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockRequestRepo) RequestRevisionIfPending(ctx context.Context, id int64, reviewedBy *int64, notes string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, reviewedBy, notes, at)
	return args.Bool(0), args.Error(1)
}

type mockUserWriter struct {
	mock.Mock
}

func (m *mockUserWriter) UpdateVerificationStatus(ctx context.Context, userID int64, status domain.VerificationStatus) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func validIndividual() *domain.SubmissionData {
	return &domain.SubmissionData{
		Kind: domain.KindIndividual,
		Individual: &domain.IndividualData{
			FirstName:      "Ada",
			LastName:       "Nash",
			DateOfBirth:    "1990-01-15",
			Nationality:    "US",
			IDDocumentType: "passport",
			IDDocumentRef:  "P9988776",
			Address: domain.SubmissionAddress{
				Street:     "5 Elm St",
				City:       "Denver",
				PostalCode: "80014",
				Country:    "US",
			},
		},
	}
}

func newTestService(requests *mockRequestRepo, users *mockUserWriter) *Service {
	// auto review disabled so tests control timing
	return NewService(requests, users, nil, 0)
}

func TestSubmitRejectsIncompleteData(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	data := validIndividual()
	data.Individual.IDDocumentRef = ""

	_, err := svc.Submit(context.Background(), 1, data)
	assert.ErrorIs(t, err, ErrValidation)
	requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitRejectsMismatchedVariant(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	data := validIndividual()
	data.Business = &domain.BusinessData{CompanyName: "Acme"}

	_, err := svc.Submit(context.Background(), 1, data)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	requests.On("GetLatestByUserID", mock.Anything, int64(1)).Return(nil, gorm.ErrRecordNotFound)
	requests.On("Create", mock.Anything, mock.AnythingOfType("*domain.VerificationRequest")).Return(nil)
	users.On("UpdateVerificationStatus", mock.Anything, int64(1), domain.VerificationPending).Return(nil)

	req, err := svc.Submit(context.Background(), 1, validIndividual())
	assert.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, req.Status)
	assert.Equal(t, domain.KindIndividual, req.Kind)
	users.AssertExpectations(t)
}

func TestSubmitConflictsWithActiveRequest(t *testing.T) {
	for _, status := range []domain.VerificationStatus{
		domain.VerificationPending,
		domain.VerificationApproved,
		domain.VerificationNeedsRevision,
	} {
		requests := &mockRequestRepo{}
		users := &mockUserWriter{}
		svc := newTestService(requests, users)

		requests.On("GetLatestByUserID", mock.Anything, int64(1)).
			Return(&domain.VerificationRequest{ID: 5, UserID: 1, Status: status}, nil)

		_, err := svc.Submit(context.Background(), 1, validIndividual())
		assert.ErrorIs(t, err, ErrActiveRequest, "status %s", status)
		svc.Close()
	}
}

func TestSubmitAllowedAfterRejection(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	requests.On("GetLatestByUserID", mock.Anything, int64(1)).
		Return(&domain.VerificationRequest{ID: 5, UserID: 1, Status: domain.VerificationRejected}, nil)
	requests.On("Create", mock.Anything, mock.AnythingOfType("*domain.VerificationRequest")).Return(nil)
	users.On("UpdateVerificationStatus", mock.Anything, int64(1), domain.VerificationPending).Return(nil)

	req, err := svc.Submit(context.Background(), 1, validIndividual())
	assert.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, req.Status)
}

func TestResubmitOnlyFromNeedsRevision(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	requests.On("GetByID", mock.Anything, int64(9)).
		Return(&domain.VerificationRequest{ID: 9, UserID: 1, Status: domain.VerificationPending}, nil)

	_, err := svc.Resubmit(context.Background(), 1, 9, validIndividual())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestResubmitClearsReasonAndReenters(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	adminID := int64(99)
	existing := &domain.VerificationRequest{
		ID:              9,
		UserID:          1,
		Status:          domain.VerificationNeedsRevision,
		RejectionReason: "document unreadable",
		ReviewedBy:      &adminID,
	}
	requests.On("GetByID", mock.Anything, int64(9)).Return(existing, nil)
	requests.On("Update", mock.Anything, existing).Return(nil)
	users.On("UpdateVerificationStatus", mock.Anything, int64(1), domain.VerificationPending).Return(nil)

	req, err := svc.Resubmit(context.Background(), 1, 9, validIndividual())
	assert.NoError(t, err)
	assert.Equal(t, domain.VerificationPending, req.Status)
	assert.Empty(t, req.RejectionReason)
	assert.Nil(t, req.ReviewedBy)
}

func TestResubmitForeignRequestForbidden(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	requests.On("GetByID", mock.Anything, int64(9)).
		Return(&domain.VerificationRequest{ID: 9, UserID: 2, Status: domain.VerificationNeedsRevision}, nil)

	_, err := svc.Resubmit(context.Background(), 1, 9, validIndividual())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRejectRequiresReason(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	_, err := svc.Reject(context.Background(), 9, 99, "   ")
	assert.ErrorIs(t, err, ErrReasonRequired)
	requests.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRejectPendingIsTerminal(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	pending := &domain.VerificationRequest{ID: 9, UserID: 1, Status: domain.VerificationPending}
	adminID := int64(99)
	decided := &domain.VerificationRequest{
		ID: 9, UserID: 1,
		Status:          domain.VerificationRejected,
		RejectionReason: "forged documents",
		ReviewedBy:      &adminID,
	}
	requests.On("GetByID", mock.Anything, int64(9)).Return(pending, nil).Once()
	requests.On("RejectIfPending", mock.Anything, int64(9), &adminID, "forged documents", mock.Anything).
		Return(true, nil)
	requests.On("GetByID", mock.Anything, int64(9)).Return(decided, nil)
	users.On("UpdateVerificationStatus", mock.Anything, int64(1), domain.VerificationRejected).Return(nil)

	req, err := svc.Reject(context.Background(), 9, 99, "forged documents")
	assert.NoError(t, err)
	assert.Equal(t, domain.VerificationRejected, req.Status)
	assert.Equal(t, "forged documents", req.RejectionReason)
	users.AssertExpectations(t)
}

func TestRejectDecidedRequestFails(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	requests.On("GetByID", mock.Anything, int64(9)).
		Return(&domain.VerificationRequest{ID: 9, UserID: 1, Status: domain.VerificationApproved}, nil)
	requests.On("RejectIfPending", mock.Anything, int64(9), mock.Anything, "too late", mock.Anything).
		Return(false, nil)

	_, err := svc.Reject(context.Background(), 9, 99, "too late")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRejectGuardedUpdateLoses(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	// Request still reads as pending, but the auto review decided it between
	// the read and the update. The guard must keep the user status untouched.
	requests.On("GetByID", mock.Anything, int64(9)).
		Return(&domain.VerificationRequest{ID: 9, UserID: 1, Status: domain.VerificationPending}, nil)
	requests.On("RejectIfPending", mock.Anything, int64(9), mock.Anything, "forged documents", mock.Anything).
		Return(false, nil)

	_, err := svc.Reject(context.Background(), 9, 99, "forged documents")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	users.AssertNotCalled(t, "UpdateVerificationStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestRevisionGuardedUpdateLoses(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	requests.On("GetByID", mock.Anything, int64(9)).
		Return(&domain.VerificationRequest{ID: 9, UserID: 1, Status: domain.VerificationPending}, nil)
	requests.On("RequestRevisionIfPending", mock.Anything, int64(9), mock.Anything, "blurry scan", mock.Anything).
		Return(false, nil)

	_, err := svc.RequestRevision(context.Background(), 9, 99, "blurry scan")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	users.AssertNotCalled(t, "UpdateVerificationStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveGuardedUpdateLoses(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	requests.On("GetByID", mock.Anything, int64(9)).
		Return(&domain.VerificationRequest{ID: 9, UserID: 1, Status: domain.VerificationPending}, nil)
	requests.On("ApproveIfPending", mock.Anything, int64(9), mock.Anything, "", mock.Anything).
		Return(false, nil)

	_, err := svc.Approve(context.Background(), 9, 99, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	users.AssertNotCalled(t, "UpdateVerificationStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAutoReviewApprovesStillPendingRequest(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	requests.On("ApproveIfPending", mock.Anything, int64(4), (*int64)(nil), "", mock.Anything).
		Return(true, nil)
	requests.On("GetByID", mock.Anything, int64(4)).
		Return(&domain.VerificationRequest{ID: 4, UserID: 2, Status: domain.VerificationApproved}, nil)
	users.On("UpdateVerificationStatus", mock.Anything, int64(2), domain.VerificationApproved).Return(nil)

	svc.completeAutoReview(4)
	users.AssertExpectations(t)
}

func TestAutoReviewSkipsDecidedRequest(t *testing.T) {
	requests := &mockRequestRepo{}
	users := &mockUserWriter{}
	svc := newTestService(requests, users)
	defer svc.Close()

	requests.On("ApproveIfPending", mock.Anything, int64(4), (*int64)(nil), "", mock.Anything).
		Return(false, nil)

	svc.completeAutoReview(4)
	users.AssertNotCalled(t, "UpdateVerificationStatus", mock.Anything, mock.Anything, mock.Anything)
	requests.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
