package verification

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"proptoken/internal/domain"
	"proptoken/internal/pkg/logger"
)

const autoReviewTimeout = 10 * time.Second

type Service struct {
	requests RequestRepository
	users    UserStatusWriter
	notifs   NotificationSender
	reviewer *AutoReviewer
}

func NewService(requests RequestRepository, users UserStatusWriter, notifs NotificationSender, autoReviewDelay time.Duration) *Service {
	s := &Service{
		requests: requests,
		users:    users,
		notifs:   notifs,
	}
	s.reviewer = NewAutoReviewer(autoReviewDelay, s.completeAutoReview)
	return s
}

// Close cancels all queued auto approvals.
func (s *Service) Close() {
	s.reviewer.Stop()
}

// Submit creates a new verification request in pending state and queues the
// simulated review. A user with a pending or approved request cannot open
// another one; a rejected request stays on file and a fresh application
// becomes the authoritative latest.
func (s *Service) Submit(ctx context.Context, userID int64, data *domain.SubmissionData) (*domain.VerificationRequest, error) {
	if data == nil || data.Validate() != nil {
		return nil, ErrValidation
	}

	latest, err := s.requests.GetLatestByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if latest != nil {
		switch latest.Status {
		case domain.VerificationPending, domain.VerificationApproved:
			return nil, ErrActiveRequest
		case domain.VerificationNeedsRevision:
			// edits to an open revision go through Resubmit
			return nil, ErrActiveRequest
		}
	}

	req := &domain.VerificationRequest{
		UserID: userID,
		Status: domain.VerificationPending,
	}
	if err := req.SetSubmittedData(data); err != nil {
		return nil, ErrValidation
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	if err := s.users.UpdateVerificationStatus(ctx, userID, domain.VerificationPending); err != nil {
		return nil, err
	}

	s.reviewer.Schedule(req.ID)
	return req, nil
}

// Resubmit re-enters pending from needs_revision with edited fields. The
// previous rejection reason is cleared and the review clock restarts.
func (s *Service) Resubmit(ctx context.Context, userID, requestID int64, data *domain.SubmissionData) (*domain.VerificationRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if req.UserID != userID {
		return nil, ErrForbidden
	}
	if req.Status != domain.VerificationNeedsRevision {
		return nil, ErrInvalidTransition
	}

	if data == nil || data.Validate() != nil {
		return nil, ErrValidation
	}
	if err := req.SetSubmittedData(data); err != nil {
		return nil, ErrValidation
	}

	req.Status = domain.VerificationPending
	req.RejectionReason = ""
	req.VerifiedAt = nil
	req.ReviewedBy = nil

	if err := s.requests.Update(ctx, req); err != nil {
		return nil, err
	}
	if err := s.users.UpdateVerificationStatus(ctx, userID, domain.VerificationPending); err != nil {
		return nil, err
	}

	s.reviewer.Schedule(req.ID)
	return req, nil
}

func (s *Service) Latest(ctx context.Context, userID int64) (*domain.VerificationRequest, error) {
	req, err := s.requests.GetLatestByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *Service) History(ctx context.Context, userID int64) ([]domain.VerificationRequest, error) {
	return s.requests.ListByUserID(ctx, userID)
}

// Approve is the admin decision path. Only a pending request can be approved.
func (s *Service) Approve(ctx context.Context, requestID, adminID int64, notes string) (*domain.VerificationRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.reviewer.Cancel(requestID)

	ok, err := s.requests.ApproveIfPending(ctx, requestID, &adminID, notes, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	if err := s.users.UpdateVerificationStatus(ctx, req.UserID, domain.VerificationApproved); err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyVerificationApproved(ctx, req.UserID, requestID)
	}

	return s.requests.GetByID(ctx, requestID)
}

// Reject requires a non-empty reason; without one nothing is stored.
// Rejected is terminal for this request. Like Approve, the transition runs as
// a guarded update so a racing auto approval cannot land afterwards.
func (s *Service) Reject(ctx context.Context, requestID, adminID int64, reason string) (*domain.VerificationRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.reviewer.Cancel(requestID)

	ok, err := s.requests.RejectIfPending(ctx, requestID, &adminID, reason, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	if err := s.users.UpdateVerificationStatus(ctx, req.UserID, domain.VerificationRejected); err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyVerificationRejected(ctx, req.UserID, requestID, reason)
	}

	return s.requests.GetByID(ctx, requestID)
}

// RequestRevision sends a pending request back to the subject for edits.
func (s *Service) RequestRevision(ctx context.Context, requestID, adminID int64, notes string) (*domain.VerificationRequest, error) {
	notes = strings.TrimSpace(notes)

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.reviewer.Cancel(requestID)

	ok, err := s.requests.RequestRevisionIfPending(ctx, requestID, &adminID, notes, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	if err := s.users.UpdateVerificationStatus(ctx, req.UserID, domain.VerificationNeedsRevision); err != nil {
		return nil, err
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyVerificationNeedsRevision(ctx, req.UserID, requestID, notes)
	}

	return s.requests.GetByID(ctx, requestID)
}

// completeAutoReview runs when the simulated review delay elapses. The guarded
// update only fires on a still-pending request, so a racing admin decision
// always wins.
func (s *Service) completeAutoReview(requestID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), autoReviewTimeout)
	defer cancel()

	ok, err := s.requests.ApproveIfPending(ctx, requestID, nil, "", time.Now().UTC())
	if err != nil {
		logger.L().Error("auto review failed", zap.Int64("request_id", requestID), zap.Error(err))
		return
	}
	if !ok {
		return
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		logger.L().Error("auto review readback failed", zap.Int64("request_id", requestID), zap.Error(err))
		return
	}

	if err := s.users.UpdateVerificationStatus(ctx, req.UserID, domain.VerificationApproved); err != nil {
		logger.L().Error("auto review status sync failed", zap.Int64("user_id", req.UserID), zap.Error(err))
	}
	if s.notifs != nil {
		_ = s.notifs.NotifyVerificationApproved(ctx, req.UserID, requestID)
	}
}
