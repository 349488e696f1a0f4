package services

import (
	"context"
	"testing"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

type orderFakeStore struct {
	order *models.PaymentOrder
	trade *models.Trade
	list  []*models.PaymentOrder
	stats *dto.OrderStats
	err   error

	lastQuery     dto.OrderQuery
	processedRef  string
	completedResp string
	failedReason  string
}

func (f *orderFakeStore) Get(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func (f *orderFakeStore) List(ctx context.Context, q dto.OrderQuery) ([]*models.PaymentOrder, error) {
	f.lastQuery = q
	return f.list, f.err
}

func (f *orderFakeStore) Stats(ctx context.Context) (*dto.OrderStats, error) {
	return f.stats, f.err
}

func (f *orderFakeStore) Process(ctx context.Context, orderID, bankReference string) (*models.PaymentOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.processedRef = bankReference
	f.order.Status = models.OrderProcessing
	f.order.BankReference = bankReference
	return f.order, nil
}

func (f *orderFakeStore) Complete(ctx context.Context, orderID, bankResponse string) (*models.PaymentOrder, *models.Trade, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.completedResp = bankResponse
	f.order.Status = models.OrderCompleted
	return f.order, f.trade, nil
}

func (f *orderFakeStore) Fail(ctx context.Context, orderID, reason string) (*models.PaymentOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.failedReason = reason
	f.order.Status = models.OrderFailed
	return f.order, nil
}

func bankOperator() *models.User {
	return &models.User{UID: "op-1", Role: models.RoleBank, BankID: "bank-1"}
}

func testOrder(orderType string) *models.PaymentOrder {
	return &models.PaymentOrder{
		OrderID:   "order-1",
		TradeID:   "trade-1",
		BuyerID:   "buyer-1",
		SellerID:  "seller-1",
		Amount:    12750,
		OrderType: orderType,
		Status:    models.OrderPending,
	}
}

func TestOrderMutationsRequireBankRole(t *testing.T) {
	store := &orderFakeStore{order: testOrder(models.OrderTypeProvisional)}
	svc := NewPaymentOrderService(store, &fakeNotifier{})

	for name, call := range map[string]func() error{
		"List": func() error {
			_, err := svc.List(testCtx(), buyer(), dto.OrderQuery{})
			return err
		},
		"Stats": func() error {
			_, err := svc.Stats(testCtx(), buyer())
			return err
		},
		"Process": func() error {
			_, err := svc.Process(testCtx(), buyer(), "order-1", dto.ProcessOrderInput{BankReference: "ref"})
			return err
		},
		"Complete": func() error {
			_, err := svc.Complete(testCtx(), buyer(), "order-1", dto.CompleteOrderInput{BankAPIResponse: "ok"})
			return err
		},
		"Fail": func() error {
			_, err := svc.Fail(testCtx(), buyer(), "order-1", dto.FailOrderInput{Reason: "no funds"})
			return err
		},
	} {
		if err := call(); err == nil {
			t.Fatalf("%s: expected ForbiddenError for non-bank actor", name)
		} else if _, ok := err.(*errs.ForbiddenError); !ok {
			t.Fatalf("%s: expected ForbiddenError, got %v", name, err)
		}
	}
}

func TestOrderListValidatesStatus(t *testing.T) {
	svc := NewPaymentOrderService(&orderFakeStore{}, &fakeNotifier{})

	_, err := svc.List(testCtx(), bankOperator(), dto.OrderQuery{Status: "paid"})
	if _, ok := err.(*errs.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestOrderListPendingFiltersPending(t *testing.T) {
	store := &orderFakeStore{}
	svc := NewPaymentOrderService(store, &fakeNotifier{})

	if _, err := svc.ListPending(testCtx(), bankOperator()); err != nil {
		t.Fatalf("ListPending returned error: %v", err)
	}
	if store.lastQuery.Status != models.OrderPending {
		t.Fatalf("query status = %q, want pending", store.lastQuery.Status)
	}
}

func TestOrderGetAdmitsPartiesAndBank(t *testing.T) {
	store := &orderFakeStore{order: testOrder(models.OrderTypeProvisional)}
	svc := NewPaymentOrderService(store, &fakeNotifier{})

	for _, actor := range []*models.User{
		bankOperator(),
		{UID: "buyer-1", Role: models.RoleBuyer},
		{UID: "seller-1", Role: models.RoleSeller},
	} {
		if _, err := svc.Get(testCtx(), actor, "order-1"); err != nil {
			t.Fatalf("actor %s should see the order: %v", actor.UID, err)
		}
	}

	stranger := &models.User{UID: "stranger", Role: models.RoleBuyer}
	_, err := svc.Get(testCtx(), stranger, "order-1")
	if _, ok := err.(*errs.ForbiddenError); !ok {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
}

func TestOrderProcessRequiresReferenceAndNotifies(t *testing.T) {
	store := &orderFakeStore{order: testOrder(models.OrderTypeProvisional)}
	notifier := &fakeNotifier{}
	svc := NewPaymentOrderService(store, notifier)

	_, err := svc.Process(testCtx(), bankOperator(), "order-1", dto.ProcessOrderInput{})
	if _, ok := err.(*errs.ValidationError); !ok {
		t.Fatalf("expected ValidationError for a missing reference, got %v", err)
	}

	order, err := svc.Process(testCtx(), bankOperator(), "order-1", dto.ProcessOrderInput{BankReference: "MP-42"})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if order.Status != models.OrderProcessing || store.processedRef != "MP-42" {
		t.Fatalf("order not transitioned: %q / %q", order.Status, store.processedRef)
	}
	if len(notifier.pushed) != 2 {
		t.Fatalf("expected buyer and seller notifications, got %d", len(notifier.pushed))
	}
	for _, p := range notifier.pushed {
		if p.ntype != models.NotifPaymentProcessed {
			t.Fatalf("unexpected notification type %q", p.ntype)
		}
	}
}

func TestOrderCompleteProvisional(t *testing.T) {
	store := &orderFakeStore{order: testOrder(models.OrderTypeProvisional)}
	store.order.Status = models.OrderProcessing
	notifier := &fakeNotifier{}
	svc := NewPaymentOrderService(store, notifier)

	order, err := svc.Complete(testCtx(), bankOperator(), "order-1", dto.CompleteOrderInput{BankAPIResponse: `{"ok":true}`})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if order.Status != models.OrderCompleted {
		t.Fatalf("status = %q, want completed", order.Status)
	}
	// provisional completion only announces the advance
	if len(notifier.pushed) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifier.pushed))
	}
	for _, p := range notifier.pushed {
		if p.ntype != models.NotifPaymentCompleted {
			t.Fatalf("unexpected notification type %q", p.ntype)
		}
	}
}

func TestOrderCompleteFinalClosesTrade(t *testing.T) {
	store := &orderFakeStore{
		order: testOrder(models.OrderTypeFinal),
		trade: &models.Trade{TradeID: "trade-1", BuyerID: "buyer-1", SellerID: "seller-1", Status: models.TradeCompleted},
	}
	store.order.Status = models.OrderProcessing
	notifier := &fakeNotifier{}
	svc := NewPaymentOrderService(store, notifier)

	if _, err := svc.Complete(testCtx(), bankOperator(), "order-1", dto.CompleteOrderInput{BankAPIResponse: "ok"}); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	var completed, tradeDone int
	for _, p := range notifier.pushed {
		switch p.ntype {
		case models.NotifPaymentCompleted:
			completed++
		case models.NotifTradeCompleted:
			tradeDone++
		}
	}
	if completed != 2 || tradeDone != 2 {
		t.Fatalf("notifications = %d completed / %d trade, want 2/2", completed, tradeDone)
	}
}

func TestOrderFailRequiresReason(t *testing.T) {
	store := &orderFakeStore{order: testOrder(models.OrderTypeProvisional)}
	notifier := &fakeNotifier{}
	svc := NewPaymentOrderService(store, notifier)

	_, err := svc.Fail(testCtx(), bankOperator(), "order-1", dto.FailOrderInput{})
	if _, ok := err.(*errs.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	order, err := svc.Fail(testCtx(), bankOperator(), "order-1", dto.FailOrderInput{Reason: "insufficient funds"})
	if err != nil {
		t.Fatalf("Fail returned error: %v", err)
	}
	if order.Status != models.OrderFailed || store.failedReason != "insufficient funds" {
		t.Fatalf("order not failed: %q / %q", order.Status, store.failedReason)
	}
	if len(notifier.pushed) != 2 {
		t.Fatalf("expected buyer and seller notifications, got %d", len(notifier.pushed))
	}
}

func TestOrderPullAPIValidatesStatus(t *testing.T) {
	store := &orderFakeStore{}
	svc := NewPaymentOrderService(store, &fakeNotifier{})

	if _, err := svc.ListForBank(testCtx(), dto.OrderQuery{Status: "bogus"}); err == nil {
		t.Fatalf("expected ValidationError for a bad status")
	}
	if _, err := svc.ListForBank(testCtx(), dto.OrderQuery{Status: models.OrderPending, Limit: 10}); err != nil {
		t.Fatalf("ListForBank returned error: %v", err)
	}
	if store.lastQuery.Limit != 10 {
		t.Fatalf("limit not forwarded: %d", store.lastQuery.Limit)
	}
}
