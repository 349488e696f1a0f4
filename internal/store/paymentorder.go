package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

const (
	defaultOrderLimit = 50
	maxOrderLimit     = 200
)

type paymentOrderStore struct {
	client *firestore.Client
}

func NewPaymentOrderStore(client *firestore.Client) *paymentOrderStore {
	return &paymentOrderStore{client: client}
}

func (s *paymentOrderStore) collection() *firestore.CollectionRef {
	return s.client.Collection("payment_orders")
}

func (s *paymentOrderStore) Get(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	doc, err := s.collection().Doc(orderID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("payment order not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get payment order", err)
	}
	return docToOrder(doc)
}

func (s *paymentOrderStore) List(ctx context.Context, q dto.OrderQuery) ([]*models.PaymentOrder, error) {
	query := s.collection().Query
	if q.Status != "" {
		query = query.Where("status", "==", q.Status)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultOrderLimit
	}
	if limit > maxOrderLimit {
		limit = maxOrderLimit
	}
	query = query.OrderBy("createdAt", firestore.Desc).Offset(q.Offset).Limit(limit)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list payment orders", err)
	}
	orders := make([]*models.PaymentOrder, 0, len(docs))
	for _, d := range docs {
		o, err := docToOrder(d)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (s *paymentOrderStore) Stats(ctx context.Context) (*dto.OrderStats, error) {
	docs, err := s.collection().Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read payment orders", err)
	}
	stats := &dto.OrderStats{}
	for _, d := range docs {
		o, err := docToOrder(d)
		if err != nil {
			return nil, err
		}
		stats.Total++
		stats.TotalAmount += o.Amount
		switch o.Status {
		case models.OrderPending:
			stats.Pending++
		case models.OrderProcessing:
			stats.Processing++
		case models.OrderCompleted:
			stats.Completed++
			stats.CompletedAmount += o.Amount
		case models.OrderFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

// Process moves pending → processing and records the bank reference.
func (s *paymentOrderStore) Process(ctx context.Context, orderID, bankReference string) (*models.PaymentOrder, error) {
	return s.transition(ctx, orderID, func(o *models.PaymentOrder, now time.Time) ([]firestore.Update, error) {
		if o.Status != models.OrderPending {
			return nil, errs.NewConflictError("payment order is not pending")
		}
		o.Status = models.OrderProcessing
		o.BankReference = bankReference
		o.ProcessedAt = &now
		return []firestore.Update{
			{Path: "status", Value: models.OrderProcessing},
			{Path: "bankReference", Value: bankReference},
			{Path: "processedAt", Value: now},
		}, nil
	})
}

// Fail moves pending or processing → failed with the operator's reason.
func (s *paymentOrderStore) Fail(ctx context.Context, orderID, reason string) (*models.PaymentOrder, error) {
	return s.transition(ctx, orderID, func(o *models.PaymentOrder, now time.Time) ([]firestore.Update, error) {
		if o.Status != models.OrderPending && o.Status != models.OrderProcessing {
			return nil, errs.NewConflictError("payment order is already terminal")
		}
		o.Status = models.OrderFailed
		o.BankAPIResponse = reason
		return []firestore.Update{
			{Path: "status", Value: models.OrderFailed},
			{Path: "bankApiResponse", Value: reason},
		}, nil
	})
}

func (s *paymentOrderStore) transition(ctx context.Context, orderID string, apply func(*models.PaymentOrder, time.Time) ([]firestore.Update, error)) (*models.PaymentOrder, error) {
	var updated *models.PaymentOrder
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := s.collection().Doc(orderID)
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("payment order not found")
			}
			return err
		}
		order, err := docToOrder(doc)
		if err != nil {
			return err
		}
		now := time.Now()
		updates, err := apply(order, now)
		if err != nil {
			return err
		}
		if err := tx.Update(ref, updates); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, storeErr("update", "payment order transition failed", err)
	}
	return updated, nil
}

// Complete moves processing → completed. For a final order the parent trade
// is marked completada and the listing completo in the same transaction;
// the returned trade is nil for provisional orders.
func (s *paymentOrderStore) Complete(ctx context.Context, orderID, bankResponse string) (*models.PaymentOrder, *models.Trade, error) {
	var (
		updated *models.PaymentOrder
		trade   *models.Trade
	)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		updated, trade = nil, nil

		ref := s.collection().Doc(orderID)
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("payment order not found")
			}
			return err
		}
		order, err := docToOrder(doc)
		if err != nil {
			return err
		}
		if order.Status != models.OrderProcessing {
			return errs.NewConflictError("payment order is not processing")
		}

		var tradeRef *firestore.DocumentRef
		var listingRef *firestore.DocumentRef
		if order.OrderType == models.OrderTypeFinal {
			tradeRef = s.client.Collection("trades").Doc(order.TradeID)
			tradeDoc, err := tx.Get(tradeRef)
			if err != nil {
				if status.Code(err) == codes.NotFound {
					return errs.NewNotFoundError("trade not found")
				}
				return err
			}
			var t models.Trade
			if err := tradeDoc.DataTo(&t); err != nil {
				return errs.NewDatabaseError("read", "failed to parse trade data", err)
			}
			trade = &t
			listingRef = s.client.Collection("listings").Doc(t.ListingID)
		}

		now := time.Now()
		if err := tx.Update(ref, []firestore.Update{
			{Path: "status", Value: models.OrderCompleted},
			{Path: "bankApiResponse", Value: bankResponse},
			{Path: "completedAt", Value: now},
		}); err != nil {
			return err
		}

		if order.OrderType == models.OrderTypeFinal {
			if err := tx.Update(tradeRef, []firestore.Update{
				{Path: "status", Value: models.TradeCompleted},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
			if err := tx.Update(listingRef, []firestore.Update{
				{Path: "status", Value: models.ListingSold},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
			trade.Status = models.TradeCompleted
		}

		order.Status = models.OrderCompleted
		order.BankAPIResponse = bankResponse
		order.CompletedAt = &now
		updated = order
		return nil
	})
	if err != nil {
		return nil, nil, storeErr("update", "payment order completion failed", err)
	}
	return updated, trade, nil
}

func docToOrder(doc *firestore.DocumentSnapshot) (*models.PaymentOrder, error) {
	var o models.PaymentOrder
	if err := doc.DataTo(&o); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse payment order data", err)
	}
	return &o, nil
}
