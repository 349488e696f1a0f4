package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/store"
	"github.com/felipeboubee/agro-marketplace-sub001/pkg/logger"
)

type offerOEStore interface {
	Create(ctx context.Context, offer *models.Offer) error
	Get(ctx context.Context, offerID string) (*models.Offer, error)
	Accept(ctx context.Context, offerID string, build store.AcceptBuild) (*dto.AcceptResult, error)
	CreateCounter(ctx context.Context, parentID string, counter *models.Offer) error
	UpdateStatus(ctx context.Context, offerID, newStatus string) (*models.Offer, error)
	RejectCounterPair(ctx context.Context, counterID, parentID string) (*models.Offer, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]*models.Offer, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*models.Offer, error)
}

type listingOEStore interface {
	Get(ctx context.Context, listingID string) (*models.Listing, error)
}

type paymentMethodOEStore interface {
	Get(ctx context.Context, methodID string) (*models.PaymentMethod, error)
}

type certificationOEStore interface {
	HasActiveForBuyer(ctx context.Context, buyerID string) (bool, error)
}

type settlementOE interface {
	PrepareAcceptance(ctx context.Context, offer *models.Offer) (*AcceptancePlan, error)
	FinishAcceptance(ctx context.Context, result *dto.AcceptResult, bankID string)
}

type offerService struct {
	offers     offerOEStore
	listings   listingOEStore
	methods    paymentMethodOEStore
	certs      certificationOEStore
	settlement settlementOE
	notifier   notifierSE
}

func NewOfferService(offers offerOEStore, listings listingOEStore, methods paymentMethodOEStore, certs certificationOEStore, settlement settlementOE, notifier notifierSE) *offerService {
	return &offerService{
		offers:     offers,
		listings:   listings,
		methods:    methods,
		certs:      certs,
		settlement: settlement,
		notifier:   notifier,
	}
}

// Create validates and places a buyer's offer against a listing, then
// notifies the seller.
func (s *offerService) Create(ctx context.Context, actor *models.User, listingID string, in dto.CreateOfferInput) (*models.Offer, error) {
	if actor.Role != models.RoleBuyer {
		return nil, errs.NewValidationError("only buyers can place offers")
	}
	if in.OfferedPrice <= 0 {
		return nil, errs.NewValidationError("offered price must be positive")
	}
	if !models.ValidTerm(in.PaymentTerm) {
		return nil, errs.NewValidationError("invalid payment term")
	}
	if in.PaymentMethodID == "" {
		return nil, errs.NewValidationError("a payment method reference is required")
	}

	method, err := s.methods.Get(ctx, in.PaymentMethodID)
	if err != nil {
		if _, ok := err.(*errs.NotFoundError); ok {
			return nil, errs.NewValidationError("payment method not found")
		}
		return nil, err
	}
	if method.UserID != actor.UID {
		return nil, errs.NewValidationError("payment method belongs to another user")
	}
	if _, deferred := models.DeferredDays(in.PaymentTerm); deferred && method.Type != models.MethodDeferredCheque {
		return nil, errs.NewValidationError("deferred terms require a deferred cheque payment method")
	}

	listing, err := s.listings.Get(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.Offerable() {
		return nil, errs.NewValidationError("listing is not open for offers")
	}
	if listing.SellerID == actor.UID {
		return nil, errs.NewValidationError("cannot place an offer on your own listing")
	}

	hasCert := false
	if ok, err := s.certs.HasActiveForBuyer(ctx, actor.UID); err != nil {
		log := logger.FromContext(ctx)
		log.Warn("failed to check buyer certification", "buyer_id", actor.UID, "error", err)
	} else {
		hasCert = ok
	}

	offer := &models.Offer{
		OfferID:               uuid.NewString(),
		BuyerID:               actor.UID,
		SellerID:              listing.SellerID,
		ListingID:             listing.ListingID,
		OfferedPrice:          in.OfferedPrice,
		OriginalPrice:         listing.PricePerKg,
		PaymentTerm:           in.PaymentTerm,
		PaymentMethod:         method.Type,
		PaymentMethodRef:      method.MethodID,
		HasBuyerCertification: hasCert,
		Status:                models.OfferPending,
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.notifier.Push(ctx, offer.SellerID, models.NotifOfferReceived,
		"New offer received",
		fmt.Sprintf("You received an offer of %.2f per kg on %q.", offer.OfferedPrice, listing.Title),
		map[string]any{"offerId": offer.OfferID, "listingId": listing.ListingID})

	return offer, nil
}

// Respond is the seller's accept/reject on an original offer.
func (s *offerService) Respond(ctx context.Context, actor *models.User, offerID string, in dto.OfferStatusInput) (*dto.AcceptResult, error) {
	offer, err := s.offers.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.IsCounterOffer {
		return nil, errs.NewValidationError("counter-offers are answered by the buyer")
	}
	if offer.SellerID != actor.UID {
		return nil, errs.NewForbiddenError("offer belongs to another seller")
	}

	switch in.Status {
	case models.OfferAccepted:
		return s.accept(ctx, offer)
	case models.OfferRejected:
		rejected, err := s.offers.UpdateStatus(ctx, offerID, models.OfferRejected)
		if err != nil {
			return nil, err
		}
		s.notifier.Push(ctx, rejected.BuyerID, models.NotifOfferRejected,
			"Offer rejected",
			"The seller rejected your offer.",
			map[string]any{"offerId": rejected.OfferID})
		return &dto.AcceptResult{Offer: rejected}, nil
	default:
		return nil, errs.NewValidationError("status must be aceptada or rechazada")
	}
}

// Counter spawns the seller's counter-offer. One level deep only: a
// counter-offer is never itself counter-offered.
func (s *offerService) Counter(ctx context.Context, actor *models.User, offerID string, in dto.CounterOfferInput) (*models.Offer, error) {
	if in.CounterPrice <= 0 {
		return nil, errs.NewValidationError("counter price must be positive")
	}
	offer, err := s.offers.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.SellerID != actor.UID {
		return nil, errs.NewForbiddenError("offer belongs to another seller")
	}
	if offer.IsCounterOffer {
		return nil, errs.NewValidationError("a counter-offer cannot be countered")
	}
	if offer.Status != models.OfferPending {
		return nil, errs.NewConflictError("offer is no longer pending")
	}

	counter := &models.Offer{
		OfferID:               uuid.NewString(),
		BuyerID:               offer.BuyerID,
		SellerID:              offer.SellerID,
		ListingID:             offer.ListingID,
		OfferedPrice:          in.CounterPrice,
		OriginalPrice:         offer.OriginalPrice,
		PaymentTerm:           offer.PaymentTerm,
		PaymentMethod:         offer.PaymentMethod,
		PaymentMethodRef:      offer.PaymentMethodRef,
		HasBuyerCertification: offer.HasBuyerCertification,
		Status:                models.OfferPending,
		IsCounterOffer:        true,
		ParentOfferID:         offer.OfferID,
		CounterOfferPrice:     in.CounterPrice,
	}
	if err := s.offers.CreateCounter(ctx, offer.OfferID, counter); err != nil {
		return nil, err
	}

	s.notifier.Push(ctx, counter.BuyerID, models.NotifCounterReceived,
		"Counter-offer received",
		fmt.Sprintf("The seller proposed %.2f per kg instead.", counter.CounterOfferPrice),
		map[string]any{"offerId": counter.OfferID, "parentOfferId": offer.OfferID})

	return counter, nil
}

// RespondToCounter is the buyer's accept/reject on a counter-offer.
// Accepting it settles exactly like accepting an original offer, keyed off
// the counter row; rejecting it terminates the whole negotiation thread.
func (s *offerService) RespondToCounter(ctx context.Context, actor *models.User, offerID string, in dto.CounterResponseInput) (*dto.AcceptResult, error) {
	offer, err := s.offers.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !offer.IsCounterOffer {
		return nil, errs.NewValidationError("offer is not a counter-offer")
	}
	if offer.BuyerID != actor.UID {
		return nil, errs.NewForbiddenError("counter-offer belongs to another buyer")
	}

	if in.Accept {
		return s.accept(ctx, offer)
	}

	rejected, err := s.offers.RejectCounterPair(ctx, offer.OfferID, offer.ParentOfferID)
	if err != nil {
		return nil, err
	}
	s.notifier.Push(ctx, rejected.SellerID, models.NotifOfferRejected,
		"Counter-offer rejected",
		"The buyer rejected your counter-offer.",
		map[string]any{"offerId": rejected.OfferID})
	return &dto.AcceptResult{Offer: rejected}, nil
}

// Cancel is the buyer withdrawing a still-pending offer. The row stays, as
// cancelada, so the negotiation history survives.
func (s *offerService) Cancel(ctx context.Context, actor *models.User, offerID string) error {
	offer, err := s.offers.Get(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.BuyerID != actor.UID {
		return errs.NewForbiddenError("offer belongs to another buyer")
	}
	_, err = s.offers.UpdateStatus(ctx, offerID, models.OfferCancelled)
	return err
}

func (s *offerService) ListMine(ctx context.Context, actor *models.User) ([]*models.Offer, error) {
	switch actor.Role {
	case models.RoleBuyer:
		return s.offers.ListByBuyer(ctx, actor.UID)
	case models.RoleSeller:
		return s.offers.ListBySeller(ctx, actor.UID)
	default:
		return nil, errs.NewValidationError("only trading parties have offers")
	}
}

func (s *offerService) GetForActor(ctx context.Context, actor *models.User, offerID string) (*models.Offer, error) {
	offer, err := s.offers.Get(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.BuyerID != actor.UID && offer.SellerID != actor.UID {
		return nil, errs.NewForbiddenError("offer belongs to other parties")
	}
	return offer, nil
}

// accept drives the acceptance unit: settlement planning, the atomic
// commit (status flip, cascade-reject, trade, provisional order, outbox),
// then post-commit notifications. Notification failures never surface.
func (s *offerService) accept(ctx context.Context, offer *models.Offer) (*dto.AcceptResult, error) {
	plan, err := s.settlement.PrepareAcceptance(ctx, offer)
	if err != nil {
		return nil, err
	}

	result, err := s.offers.Accept(ctx, offer.OfferID, plan.Build)
	if err != nil {
		return nil, err
	}

	s.settlement.FinishAcceptance(ctx, result, plan.BankID)
	for _, loser := range result.RejectedOffers {
		s.notifier.Push(ctx, loser.BuyerID, models.NotifOfferRejected,
			"Offer rejected",
			"Another offer on this listing was accepted.",
			map[string]any{"offerId": loser.OfferID, "listingId": loser.ListingID})
	}

	log := logger.FromContext(ctx)
	log.Info("offer accepted",
		"offer_id", result.Offer.OfferID,
		"trade_id", result.Trade.TradeID,
		"order_id", result.PaymentOrder.OrderID,
		"rejected_count", len(result.RejectedOffers))

	return result, nil
}
