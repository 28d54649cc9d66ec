package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lancebay/contracts-service/internal/model"
)

type NotificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) ListMine(ctx context.Context, principal model.Principal) ([]model.Notification, error) {
	return s.store.ListNotificationsByUser(ctx, principal.UserID)
}

// MarkRead flags a notification as read. Owner only; already-read
// notifications are returned as-is.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID uuid.UUID, principal model.Principal) (*model.Notification, error) {
	notification, err := s.store.GetNotification(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: notification", ErrNotFound)
		}
		return nil, err
	}
	if notification.UserID != principal.UserID {
		return nil, fmt.Errorf("%w: notification belongs to another user", ErrPermissionDenied)
	}
	if notification.IsRead {
		return notification, nil
	}
	if err := s.store.MarkNotificationRead(ctx, notification.ID); err != nil {
		return nil, err
	}
	notification.IsRead = true
	return notification, nil
}
