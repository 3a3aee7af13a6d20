package services

import (
	"context"
	"fmt"

	"github.com/anonto42/pixgram/backend/internal/models"
	"github.com/anonto42/pixgram/backend/internal/repositories"
)

// Notice describes one notification to fan out.
type Notice struct {
	ReceiverID       uint
	SenderID         *uint
	Type             string
	Message          string
	RelatedPostID    *uint
	RelatedCommentID *uint
}

// Notify inserts a notification through tx. It does nothing when the
// receiver is the sender.
func (s *Service) Notify(tx *repositories.Store, n Notice) error {
	if n.SenderID != nil && *n.SenderID == n.ReceiverID {
		s.logger.Debug("self notification suppressed", "type", n.Type, "user_id", n.ReceiverID)
		return nil
	}
	notification := &models.Notification{
		ReceiverID:       n.ReceiverID,
		SenderID:         n.SenderID,
		Type:             n.Type,
		Message:          n.Message,
		RelatedPostID:    n.RelatedPostID,
		RelatedCommentID: n.RelatedCommentID,
		CreatedAt:        s.clock(),
	}
	if err := tx.Notifications.CreateNotification(notification); err != nil {
		return fmt.Errorf("create %s notification: %w", n.Type, err)
	}
	return nil
}

// ListNotifications returns the receiver's notifications newest first and the total count.
func (s *Service) ListNotifications(ctx context.Context, receiverID uint, skip, limit int) ([]models.Notification, int64, error) {
	skip, limit = page(skip, limit)
	notifications, total, err := s.repo(ctx).Notifications.GetByReceiverID(receiverID, skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, total, nil
}

// GroupedNotifications buckets the receiver's notifications into today,
// yesterday, this week and older.
func (s *Service) GroupedNotifications(ctx context.Context, receiverID uint) (*models.GroupedNotifications, error) {
	grouped, err := s.repo(ctx).Notifications.GetGrouped(receiverID, s.clock())
	if err != nil {
		return nil, fmt.Errorf("group notifications: %w", err)
	}
	return grouped, nil
}

func (s *Service) UnreadCount(ctx context.Context, receiverID uint) (int64, error) {
	count, err := s.repo(ctx).Notifications.GetUnreadCount(receiverID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags one of the receiver's notifications as read.
func (s *Service) MarkRead(ctx context.Context, receiverID, notificationID uint) error {
	repo := s.repo(ctx)
	notification, err := repo.Notifications.GetNotificationByID(notificationID)
	if err != nil {
		return lookupErr(err, "notification %d", notificationID)
	}
	if notification.ReceiverID != receiverID {
		return fmt.Errorf("notification %d: %w", notificationID, ErrForbidden)
	}
	if err := repo.Notifications.MarkAsRead(notificationID); err != nil {
		return fmt.Errorf("mark notification %d read: %w", notificationID, err)
	}
	return nil
}

// MarkAllRead flags every unread notification of the receiver and returns how many changed.
func (s *Service) MarkAllRead(ctx context.Context, receiverID uint) (int64, error) {
	n, err := s.repo(ctx).Notifications.MarkAllAsRead(receiverID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return n, nil
}
