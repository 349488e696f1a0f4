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

type webhookLogStore struct {
	client *firestore.Client
}

func NewWebhookLogStore(client *firestore.Client) *webhookLogStore {
	return &webhookLogStore{client: client}
}

func (s *webhookLogStore) collection() *firestore.CollectionRef {
	return s.client.Collection("webhook_logs")
}

func (s *webhookLogStore) Create(ctx context.Context, l *models.WebhookLog) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	_, err := s.collection().Doc(l.LogID).Create(ctx, l)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create webhook log", err)
	}
	return nil
}

func (s *webhookLogStore) ListByBank(ctx context.Context, bankID string, limit int) ([]*models.WebhookLog, error) {
	if limit <= 0 {
		limit = defaultOrderLimit
	}
	docs, err := s.collection().
		Where("bankId", "==", bankID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list webhook logs", err)
	}
	logs := make([]*models.WebhookLog, 0, len(docs))
	for _, d := range docs {
		var l models.WebhookLog
		if err := d.DataTo(&l); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse webhook log data", err)
		}
		logs = append(logs, &l)
	}
	return logs, nil
}

// outboxStore drives the durable webhook queue. Events are appended inside
// the acceptance transaction (see offerStore.Accept); this store handles
// the worker side.
type outboxStore struct {
	client *firestore.Client
}

func NewOutboxStore(client *firestore.Client) *outboxStore {
	return &outboxStore{client: client}
}

func (s *outboxStore) collection() *firestore.CollectionRef {
	return s.client.Collection("webhook_outbox")
}

// ListDue returns pending events whose next attempt is due, oldest first.
func (s *outboxStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.OutboxEvent, error) {
	if limit <= 0 {
		limit = defaultOrderLimit
	}
	docs, err := s.collection().
		Where("status", "==", models.OutboxPending).
		Where("nextAttemptAt", "<=", now).
		OrderBy("nextAttemptAt", firestore.Asc).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list due outbox events", err)
	}
	events := make([]*models.OutboxEvent, 0, len(docs))
	for _, d := range docs {
		var e models.OutboxEvent
		if err := d.DataTo(&e); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse outbox event data", err)
		}
		events = append(events, &e)
	}
	return events, nil
}

func (s *outboxStore) MarkDelivered(ctx context.Context, eventID string, attempts int) error {
	return s.update(ctx, eventID, []firestore.Update{
		{Path: "status", Value: models.OutboxDelivered},
		{Path: "attempts", Value: attempts},
		{Path: "lastError", Value: ""},
		{Path: "updatedAt", Value: time.Now()},
	})
}

func (s *outboxStore) Reschedule(ctx context.Context, eventID string, attempts int, lastError string, nextAttemptAt time.Time) error {
	return s.update(ctx, eventID, []firestore.Update{
		{Path: "attempts", Value: attempts},
		{Path: "lastError", Value: lastError},
		{Path: "nextAttemptAt", Value: nextAttemptAt},
		{Path: "updatedAt", Value: time.Now()},
	})
}

func (s *outboxStore) MarkDead(ctx context.Context, eventID string, attempts int, lastError string) error {
	return s.update(ctx, eventID, []firestore.Update{
		{Path: "status", Value: models.OutboxDead},
		{Path: "attempts", Value: attempts},
		{Path: "lastError", Value: lastError},
		{Path: "updatedAt", Value: time.Now()},
	})
}

func (s *outboxStore) update(ctx context.Context, eventID string, updates []firestore.Update) error {
	_, err := s.collection().Doc(eventID).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("outbox event not found")
		}
		return errs.NewDatabaseError("update", "failed to update outbox event", err)
	}
	return nil
}
