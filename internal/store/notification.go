package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

type notificationStore struct {
	client *firestore.Client
}

func NewNotificationStore(client *firestore.Client) *notificationStore {
	return &notificationStore{client: client}
}

func (s *notificationStore) collection() *firestore.CollectionRef {
	return s.client.Collection("notifications")
}

func (s *notificationStore) Create(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := s.collection().Doc(n.NotificationID).Create(ctx, n)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create notification", err)
	}
	return nil
}

func (s *notificationStore) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error) {
	if limit <= 0 {
		limit = defaultOrderLimit
	}
	docs, err := s.collection().
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list notifications", err)
	}
	out := make([]*models.Notification, 0, len(docs))
	for _, d := range docs {
		var n models.Notification
		if err := d.DataTo(&n); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse notification data", err)
		}
		out = append(out, &n)
	}
	return out, nil
}

func (s *notificationStore) MarkRead(ctx context.Context, userID, notificationID string) error {
	ref := s.collection().Doc(notificationID)
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("notification not found")
		}
		return errs.NewDatabaseError("read", "failed to get notification", err)
	}
	var n models.Notification
	if err := doc.DataTo(&n); err != nil {
		return errs.NewDatabaseError("read", "failed to parse notification data", err)
	}
	if n.UserID != userID {
		return errs.NewForbiddenError("notification belongs to another user")
	}
	_, err = ref.Update(ctx, []firestore.Update{
		{Path: "isRead", Value: true},
		{Path: "readAt", Value: time.Now()},
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to mark notification read", err)
	}
	return nil
}
