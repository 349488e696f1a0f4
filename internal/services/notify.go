package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/pkg/logger"
)

type notificationNSStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

// notificationService is purely additive: no control flow depends on a
// notification landing, so Push swallows failures after logging them.
type notificationService struct {
	store notificationNSStore
}

func NewNotificationService(store notificationNSStore) *notificationService {
	return &notificationService{store: store}
}

func (s *notificationService) Push(ctx context.Context, userID, ntype, title, message string, data map[string]any) {
	n := &models.Notification{
		NotificationID: uuid.NewString(),
		UserID:         userID,
		Type:           ntype,
		Title:          title,
		Message:        message,
		Data:           data,
	}
	if err := s.store.Create(ctx, n); err != nil {
		log := logger.FromContext(ctx)
		log.Warn("failed to write notification",
			"user_id", userID,
			"type", ntype,
			"error", err)
	}
}

func (s *notificationService) List(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	return s.store.ListByUser(ctx, userID, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}
