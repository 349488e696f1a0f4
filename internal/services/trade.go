package services

import (
	"context"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

type tradeTSStore interface {
	Get(ctx context.Context, tradeID string) (*models.Trade, error)
	ListByParty(ctx context.Context, uid string, asSeller bool) ([]*models.Trade, error)
}

// tradeService is read-only: trades are created by offer acceptance and
// closed by final payment completion.
type tradeService struct {
	trades tradeTSStore
}

func NewTradeService(trades tradeTSStore) *tradeService {
	return &tradeService{trades: trades}
}

func (s *tradeService) ListMine(ctx context.Context, actor *models.User) ([]*models.Trade, error) {
	switch actor.Role {
	case models.RoleBuyer:
		return s.trades.ListByParty(ctx, actor.UID, false)
	case models.RoleSeller:
		return s.trades.ListByParty(ctx, actor.UID, true)
	default:
		return nil, errs.NewValidationError("only trading parties have trades")
	}
}

func (s *tradeService) GetForActor(ctx context.Context, actor *models.User, tradeID string) (*models.Trade, error) {
	trade, err := s.trades.Get(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.BuyerID != actor.UID && trade.SellerID != actor.UID && actor.Role != models.RoleBank {
		return nil, errs.NewForbiddenError("trade belongs to other parties")
	}
	return trade, nil
}
