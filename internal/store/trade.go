package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

// Trades are created inside the offer acceptance transaction; this store
// only reads them and serves party-scoped listings.
type tradeStore struct {
	client *firestore.Client
}

func NewTradeStore(client *firestore.Client) *tradeStore {
	return &tradeStore{client: client}
}

func (s *tradeStore) collection() *firestore.CollectionRef {
	return s.client.Collection("trades")
}

func (s *tradeStore) Get(ctx context.Context, tradeID string) (*models.Trade, error) {
	doc, err := s.collection().Doc(tradeID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("trade not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get trade", err)
	}
	var t models.Trade
	if err := doc.DataTo(&t); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse trade data", err)
	}
	return &t, nil
}

func (s *tradeStore) ListByParty(ctx context.Context, uid string, asSeller bool) ([]*models.Trade, error) {
	field := "buyerId"
	if asSeller {
		field = "sellerId"
	}
	docs, err := s.collection().
		Where(field, "==", uid).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list trades", err)
	}
	trades := make([]*models.Trade, 0, len(docs))
	for _, d := range docs {
		var t models.Trade
		if err := d.DataTo(&t); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse trade data", err)
		}
		trades = append(trades, &t)
	}
	return trades, nil
}
