package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/store"
	"github.com/felipeboubee/agro-marketplace-sub001/pkg/helpers"
	"github.com/felipeboubee/agro-marketplace-sub001/pkg/logger"
)

// ProvisionalRatio is the fixed advance-payment share of the estimated
// total. The remaining share plus any weight adjustment is settled by the
// final order once actual weight is confirmed.
const ProvisionalRatio = 0.85

// CommissionSplit is the fee taken out of a payment order amount.
type CommissionSplit struct {
	Platform float64
	Bank     float64
}

// CommissionPolicy computes the commission split for an order. Inputs are
// the order amount, the payment term and the payment method type.
type CommissionPolicy func(amount float64, term, method string) CommissionSplit

// ZeroCommission is the current pricing policy: no commission is taken
// until a pricing module defines one.
func ZeroCommission(amount float64, term, method string) CommissionSplit {
	return CommissionSplit{}
}

type bankAccountSEStore interface {
	GetDefault(ctx context.Context, userID string) (*models.BankAccount, error)
}

type paymentMethodSEStore interface {
	Get(ctx context.Context, methodID string) (*models.PaymentMethod, error)
}

type integrationSEStore interface {
	GetByBankID(ctx context.Context, bankID string) (*models.BankIntegration, error)
}

type notifierSE interface {
	Push(ctx context.Context, userID, ntype, title, message string, data map[string]any)
}

type settlementService struct {
	accounts     bankAccountSEStore
	methods      paymentMethodSEStore
	integrations integrationSEStore
	notifier     notifierSE
	commission   CommissionPolicy
	clockNow     func() time.Time
}

func NewSettlementService(accounts bankAccountSEStore, methods paymentMethodSEStore, integrations integrationSEStore, notifier notifierSE, commission CommissionPolicy) *settlementService {
	if commission == nil {
		commission = ZeroCommission
	}
	return &settlementService{
		accounts:     accounts,
		methods:      methods,
		integrations: integrations,
		notifier:     notifier,
		commission:   commission,
		clockNow:     time.Now,
	}
}

// AcceptancePlan is what an acceptance needs beyond the offer row: the
// transactional builder plus the bank to notify afterwards, if any.
type AcceptancePlan struct {
	Build  store.AcceptBuild
	BankID string
}

// PrepareAcceptance resolves the best-effort context an acceptance needs
// (seller payout account, the bank behind the buyer's payment method) and
// returns the pure builder that the offer store runs inside its
// transaction. A missing payout account or bank integration never blocks
// the trade.
func (s *settlementService) PrepareAcceptance(ctx context.Context, offer *models.Offer) (*AcceptancePlan, error) {
	log := logger.FromContext(ctx)

	sellerAccount := ""
	if acc, err := s.accounts.GetDefault(ctx, offer.SellerID); err != nil {
		log.Warn("failed to resolve seller bank account", "seller_id", offer.SellerID, "error", err)
	} else if acc != nil {
		sellerAccount = acc.CBU
	}

	bankID := ""
	if offer.PaymentMethodRef != "" {
		method, err := s.methods.Get(ctx, offer.PaymentMethodRef)
		if err != nil {
			log.Warn("failed to resolve payment method", "method_id", offer.PaymentMethodRef, "error", err)
		} else {
			bankID = method.BankID
		}
	}
	notifyBank := false
	if bankID != "" {
		bi, err := s.integrations.GetByBankID(ctx, bankID)
		if err != nil {
			log.Warn("failed to resolve bank integration", "bank_id", bankID, "error", err)
		} else {
			notifyBank = bi.IsActive
		}
	}

	plan := &AcceptancePlan{
		Build: s.buildAcceptance(sellerAccount, bankID, notifyBank),
	}
	if notifyBank {
		plan.BankID = bankID
	}
	return plan, nil
}

func (s *settlementService) buildAcceptance(sellerAccount, bankID string, notifyBank bool) store.AcceptBuild {
	return func(offer *models.Offer, listing *models.Listing) (*models.Trade, *models.PaymentOrder, *models.OutboxEvent, error) {
		if listing.Quantity <= 0 || listing.AverageWeight <= 0 {
			return nil, nil, nil, fmt.Errorf("listing %s has malformed quantity/weight data", listing.ListingID)
		}

		now := s.clockNow()
		estimatedWeight := float64(listing.Quantity) * listing.AverageWeight
		estimatedTotal := round2(offer.OfferedPrice * estimatedWeight)

		trade := &models.Trade{
			TradeID:          uuid.NewString(),
			OfferID:          offer.OfferID,
			BuyerID:          offer.BuyerID,
			SellerID:         offer.SellerID,
			ListingID:        offer.ListingID,
			AgreedPricePerKg: offer.OfferedPrice,
			EstimatedWeight:  estimatedWeight,
			EstimatedTotal:   estimatedTotal,
			Quantity:         listing.Quantity,
			NegotiationDate:  now,
			PaymentTerm:      offer.PaymentTerm,
			Status:           models.TradeInProgress,
		}

		amount := round2(ProvisionalRatio * estimatedTotal)
		split := s.commission(amount, offer.PaymentTerm, offer.PaymentMethod)

		var dueDate *time.Time
		if days, ok := models.DeferredDays(offer.PaymentTerm); ok {
			dueDate = helpers.Ptr(now.AddDate(0, 0, days))
		}

		order := &models.PaymentOrder{
			OrderID:            uuid.NewString(),
			TradeID:            trade.TradeID,
			BuyerID:            offer.BuyerID,
			SellerID:           offer.SellerID,
			Amount:             amount,
			OrderType:          models.OrderTypeProvisional,
			PaymentTerm:        offer.PaymentTerm,
			PaymentMethod:      offer.PaymentMethod,
			PaymentMethodRef:   offer.PaymentMethodRef,
			SellerBankAccount:  sellerAccount,
			PlatformCommission: split.Platform,
			BankCommission:     split.Bank,
			SellerNetAmount:    round2(amount - split.Platform - split.Bank),
			Status:             models.OrderPending,
			NegotiationDate:    now,
			DueDate:            dueDate,
		}

		var outbox *models.OutboxEvent
		if notifyBank {
			outbox = &models.OutboxEvent{
				EventID:   uuid.NewString(),
				BankID:    bankID,
				EventType: models.EventPaymentOrderCreated,
				Payload: map[string]any{
					"orderId":   order.OrderID,
					"tradeId":   trade.TradeID,
					"orderType": order.OrderType,
					"amount":    order.Amount,
					"buyerId":   order.BuyerID,
					"sellerId":  order.SellerID,
				},
				Status:        models.OutboxPending,
				NextAttemptAt: now,
			}
		}

		return trade, order, outbox, nil
	}
}

// FinishAcceptance runs the post-commit side effects. Everything here is
// best effort: the trade is already committed and must not be affected.
func (s *settlementService) FinishAcceptance(ctx context.Context, result *dto.AcceptResult, bankID string) {
	offer := result.Offer
	order := result.PaymentOrder

	s.notifier.Push(ctx, offer.BuyerID, models.NotifOfferAccepted,
		"Offer accepted",
		fmt.Sprintf("Your offer of %.2f per kg was accepted. Advance payment order for %.2f was created.", offer.OfferedPrice, order.Amount),
		map[string]any{"offerId": offer.OfferID, "tradeId": result.Trade.TradeID, "orderId": order.OrderID})

	s.notifier.Push(ctx, offer.SellerID, models.NotifOrderCreated,
		"Trade created",
		fmt.Sprintf("The trade was created and an advance payment order for %.2f was issued.", order.Amount),
		map[string]any{"tradeId": result.Trade.TradeID, "orderId": order.OrderID})

	if bankID != "" {
		s.notifier.Push(ctx, bankID, models.NotifOrderCreated,
			"New payment order",
			fmt.Sprintf("A provisional payment order for %.2f is awaiting processing.", order.Amount),
			map[string]any{"orderId": order.OrderID})
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
