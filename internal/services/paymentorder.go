package services

import (
	"context"
	"fmt"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/pkg/logger"
)

type orderPOStore interface {
	Get(ctx context.Context, orderID string) (*models.PaymentOrder, error)
	List(ctx context.Context, q dto.OrderQuery) ([]*models.PaymentOrder, error)
	Stats(ctx context.Context) (*dto.OrderStats, error)
	Process(ctx context.Context, orderID, bankReference string) (*models.PaymentOrder, error)
	Complete(ctx context.Context, orderID, bankResponse string) (*models.PaymentOrder, *models.Trade, error)
	Fail(ctx context.Context, orderID, reason string) (*models.PaymentOrder, error)
}

// paymentOrderService is the bank-operator-facing state machine over
// payment orders. Mutations require the banco role; reads also admit the
// order's own buyer or seller. Any bank operator may act on any order.
type paymentOrderService struct {
	orders   orderPOStore
	notifier notifierSE
}

func NewPaymentOrderService(orders orderPOStore, notifier notifierSE) *paymentOrderService {
	return &paymentOrderService{orders: orders, notifier: notifier}
}

func (s *paymentOrderService) List(ctx context.Context, actor *models.User, q dto.OrderQuery) ([]*models.PaymentOrder, error) {
	if err := requireBank(actor); err != nil {
		return nil, err
	}
	if q.Status != "" && !validOrderStatus(q.Status) {
		return nil, errs.NewValidationError("unknown payment order status")
	}
	return s.orders.List(ctx, q)
}

func (s *paymentOrderService) ListPending(ctx context.Context, actor *models.User) ([]*models.PaymentOrder, error) {
	if err := requireBank(actor); err != nil {
		return nil, err
	}
	return s.orders.List(ctx, dto.OrderQuery{Status: models.OrderPending})
}

func (s *paymentOrderService) Get(ctx context.Context, actor *models.User, orderID string) (*models.PaymentOrder, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleBank && order.BuyerID != actor.UID && order.SellerID != actor.UID {
		return nil, errs.NewForbiddenError("payment order belongs to other parties")
	}
	return order, nil
}

func (s *paymentOrderService) Stats(ctx context.Context, actor *models.User) (*dto.OrderStats, error) {
	if err := requireBank(actor); err != nil {
		return nil, err
	}
	return s.orders.Stats(ctx)
}

// Process moves the order to processing under the operator's bank
// reference.
func (s *paymentOrderService) Process(ctx context.Context, actor *models.User, orderID string, in dto.ProcessOrderInput) (*models.PaymentOrder, error) {
	if err := requireBank(actor); err != nil {
		return nil, err
	}
	if in.BankReference == "" {
		return nil, errs.NewValidationError("a bank reference is required")
	}
	order, err := s.orders.Process(ctx, orderID, in.BankReference)
	if err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("The bank started processing a payment of %.2f.", order.Amount)
	s.notifier.Push(ctx, order.BuyerID, models.NotifPaymentProcessed, "Payment in process", msg,
		map[string]any{"orderId": order.OrderID})
	s.notifier.Push(ctx, order.SellerID, models.NotifPaymentProcessed, "Payment in process", msg,
		map[string]any{"orderId": order.OrderID})

	log := logger.FromContext(ctx)
	log.Info("payment order processing", "order_id", order.OrderID, "bank_reference", in.BankReference)
	return order, nil
}

// Complete finishes the order. Completing a provisional order only tells
// the parties the advance was approved; completing a final order also
// closes the trade and marks the listing sold (done atomically in the
// store), then announces completion.
func (s *paymentOrderService) Complete(ctx context.Context, actor *models.User, orderID string, in dto.CompleteOrderInput) (*models.PaymentOrder, error) {
	if err := requireBank(actor); err != nil {
		return nil, err
	}
	if in.BankAPIResponse == "" {
		return nil, errs.NewValidationError("a bank response is required")
	}
	order, trade, err := s.orders.Complete(ctx, orderID, in.BankAPIResponse)
	if err != nil {
		return nil, err
	}

	switch order.OrderType {
	case models.OrderTypeProvisional:
		msg := fmt.Sprintf("The advance payment of %.2f was approved by the bank.", order.Amount)
		s.notifier.Push(ctx, order.BuyerID, models.NotifPaymentCompleted, "Advance payment approved", msg,
			map[string]any{"orderId": order.OrderID})
		s.notifier.Push(ctx, order.SellerID, models.NotifPaymentCompleted, "Advance payment approved", msg,
			map[string]any{"orderId": order.OrderID})
	case models.OrderTypeFinal:
		msg := fmt.Sprintf("The final payment of %.2f was completed.", order.Amount)
		s.notifier.Push(ctx, order.BuyerID, models.NotifPaymentCompleted, "Final payment completed", msg,
			map[string]any{"orderId": order.OrderID})
		s.notifier.Push(ctx, order.SellerID, models.NotifPaymentCompleted, "Final payment completed", msg,
			map[string]any{"orderId": order.OrderID})
		if trade != nil {
			done := "The trade is complete."
			s.notifier.Push(ctx, trade.BuyerID, models.NotifTradeCompleted, "Trade completed", done,
				map[string]any{"tradeId": trade.TradeID})
			s.notifier.Push(ctx, trade.SellerID, models.NotifTradeCompleted, "Trade completed", done,
				map[string]any{"tradeId": trade.TradeID})
		}
	}

	log := logger.FromContext(ctx)
	log.Info("payment order completed", "order_id", order.OrderID, "order_type", order.OrderType)
	return order, nil
}

// Fail terminates the order with the operator's reason.
func (s *paymentOrderService) Fail(ctx context.Context, actor *models.User, orderID string, in dto.FailOrderInput) (*models.PaymentOrder, error) {
	if err := requireBank(actor); err != nil {
		return nil, err
	}
	if in.Reason == "" {
		return nil, errs.NewValidationError("a failure reason is required")
	}
	order, err := s.orders.Fail(ctx, orderID, in.Reason)
	if err != nil {
		return nil, err
	}

	msg := "A payment order for your trade failed at the bank."
	s.notifier.Push(ctx, order.BuyerID, models.NotifPaymentFailed, "Payment failed", msg,
		map[string]any{"orderId": order.OrderID, "reason": in.Reason})
	s.notifier.Push(ctx, order.SellerID, models.NotifPaymentFailed, "Payment failed", msg,
		map[string]any{"orderId": order.OrderID, "reason": in.Reason})

	log := logger.FromContext(ctx)
	log.Warn("payment order failed", "order_id", order.OrderID, "reason", in.Reason)
	return order, nil
}

// ListForBank serves the bank pull API. The caller was authenticated by
// API key; the bank back office sees every order, per the fleet-wide
// access model.
func (s *paymentOrderService) ListForBank(ctx context.Context, q dto.OrderQuery) ([]*models.PaymentOrder, error) {
	if q.Status != "" && !validOrderStatus(q.Status) {
		return nil, errs.NewValidationError("unknown payment order status")
	}
	return s.orders.List(ctx, q)
}

func (s *paymentOrderService) GetForBank(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	return s.orders.Get(ctx, orderID)
}

func requireBank(actor *models.User) error {
	if actor.Role != models.RoleBank {
		return errs.NewForbiddenError("bank role required")
	}
	return nil
}

func validOrderStatus(status string) bool {
	switch status {
	case models.OrderPending, models.OrderProcessing, models.OrderCompleted, models.OrderFailed:
		return true
	}
	return false
}
