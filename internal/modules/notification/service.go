package notification

import (
	"context"
	"encoding/json"
	"fmt"
)

type Service struct {
	repo *Repository
	hub  *Hub
}

func NewService(repo *Repository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

func (s *Service) Create(ctx context.Context, userID int64, t Type, title, message string, data map[string]any) error {
	n := &Notification{
		UserID:  userID,
		Type:    t,
		Title:   title,
		Message: message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		n.Data = raw
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.SendToUser(userID, n)
	}
	return nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}
	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) NotifyVerificationApproved(ctx context.Context, userID, requestID int64) error {
	return s.Create(ctx, userID, TypeVerificationApproved,
		"Verification approved",
		"Your identity verification has been approved. You can now list properties.",
		map[string]any{"request_id": requestID},
	)
}

func (s *Service) NotifyVerificationRejected(ctx context.Context, userID, requestID int64, reason string) error {
	msg := "Your verification request has been rejected."
	if reason != "" {
		msg = msg + " Reason: " + reason
	}
	return s.Create(ctx, userID, TypeVerificationRejected,
		"Verification rejected", msg,
		map[string]any{"request_id": requestID},
	)
}

func (s *Service) NotifyVerificationNeedsRevision(ctx context.Context, userID, requestID int64, notes string) error {
	msg := "Your verification request needs changes before it can be approved."
	if notes != "" {
		msg = msg + " Notes: " + notes
	}
	return s.Create(ctx, userID, TypeVerificationNeedsRevision,
		"Verification needs revision", msg,
		map[string]any{"request_id": requestID},
	)
}

func (s *Service) NotifyPropertyApproved(ctx context.Context, ownerID, propertyID int64) error {
	return s.Create(ctx, ownerID, TypePropertyApproved,
		"Property approved",
		"Your property listing has been approved and is ready for tokenization.",
		map[string]any{"property_id": propertyID},
	)
}

func (s *Service) NotifyPropertyRejected(ctx context.Context, ownerID, propertyID int64, reason string) error {
	msg := "Your property listing has been rejected."
	if reason != "" {
		msg = msg + " Reason: " + reason
	}
	return s.Create(ctx, ownerID, TypePropertyRejected,
		"Property rejected", msg,
		map[string]any{"property_id": propertyID},
	)
}

func (s *Service) NotifyTokensIssued(ctx context.Context, ownerID, propertyID, totalTokens int64) error {
	return s.Create(ctx, ownerID, TypeTokensIssued,
		"Tokens issued",
		fmt.Sprintf("%d tokens have been issued for your property. It is now live on the marketplace.", totalTokens),
		map[string]any{"property_id": propertyID, "total_tokens": totalTokens},
	)
}

func (s *Service) NotifyPurchaseCompleted(ctx context.Context, buyerID, propertyID, tokens int64) error {
	return s.Create(ctx, buyerID, TypePurchaseCompleted,
		"Purchase completed",
		fmt.Sprintf("You purchased %d tokens.", tokens),
		map[string]any{"property_id": propertyID, "tokens": tokens},
	)
}
