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

// AcceptBuild computes the documents an acceptance must commit alongside the
// status writes: the trade, the provisional payment order and, when the
// buyer's payment method maps to an integrated bank, the outbox event. It
// runs inside the Firestore transaction and must stay free of side effects.
type AcceptBuild func(offer *models.Offer, listing *models.Listing) (*models.Trade, *models.PaymentOrder, *models.OutboxEvent, error)

type offerStore struct {
	client *firestore.Client
}

func NewOfferStore(client *firestore.Client) *offerStore {
	return &offerStore{client: client}
}

func (s *offerStore) collection() *firestore.CollectionRef {
	return s.client.Collection("offers")
}

func (s *offerStore) Create(ctx context.Context, offer *models.Offer) error {
	now := time.Now()
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = now
	}
	offer.UpdatedAt = now
	_, err := s.collection().Doc(offer.OfferID).Create(ctx, offer)
	if err != nil {
		return errs.NewDatabaseError("create", "failed to create offer", err)
	}
	return nil
}

func (s *offerStore) Get(ctx context.Context, offerID string) (*models.Offer, error) {
	doc, err := s.collection().Doc(offerID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("offer not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get offer", err)
	}
	return docToOffer(doc)
}

func (s *offerStore) ListByBuyer(ctx context.Context, buyerID string) ([]*models.Offer, error) {
	return s.list(ctx, s.collection().Where("buyerId", "==", buyerID))
}

func (s *offerStore) ListBySeller(ctx context.Context, sellerID string) ([]*models.Offer, error) {
	return s.list(ctx, s.collection().Where("sellerId", "==", sellerID))
}

func (s *offerStore) list(ctx context.Context, q firestore.Query) ([]*models.Offer, error) {
	docs, err := q.OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list offers", err)
	}
	offers := make([]*models.Offer, 0, len(docs))
	for _, d := range docs {
		o, err := docToOffer(d)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, nil
}

// Accept commits the full acceptance unit atomically: the winning offer is
// marked aceptada, the listing moves to reservado, every other pending offer
// on the same listing is marked rechazada, and the trade, payment order and
// outbox documents returned by build are created. On contention Firestore
// aborts and retries the transaction; a competing acceptance that commits
// first makes this one observe a non-pending offer or a reserved listing and
// fail with ConflictError.
func (s *offerStore) Accept(ctx context.Context, offerID string, build AcceptBuild) (*dto.AcceptResult, error) {
	var result *dto.AcceptResult

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		offerRef := s.collection().Doc(offerID)
		doc, err := tx.Get(offerRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("offer not found")
			}
			return err
		}
		offer, err := docToOffer(doc)
		if err != nil {
			return err
		}
		if offer.Status != models.OfferPending {
			return errs.NewConflictError("offer is no longer pending")
		}

		listingDoc, err := tx.Get(s.client.Collection("listings").Doc(offer.ListingID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("listing not found")
			}
			return err
		}
		var listing models.Listing
		if err := listingDoc.DataTo(&listing); err != nil {
			return errs.NewDatabaseError("read", "failed to parse listing data", err)
		}
		if !listing.Offerable() {
			return errs.NewConflictError("listing is no longer open to offers")
		}

		siblingDocs, err := tx.Documents(s.collection().
			Where("listingId", "==", offer.ListingID).
			Where("status", "==", models.OfferPending)).GetAll()
		if err != nil {
			return err
		}

		trade, order, outbox, err := build(offer, &listing)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Update(offerRef, []firestore.Update{
			{Path: "status", Value: models.OfferAccepted},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}

		// Reserving the listing closes it to new offers and blocks a later
		// acceptance from producing a second winner.
		if err := tx.Update(listingDoc.Ref, []firestore.Update{
			{Path: "status", Value: models.ListingReserved},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}

		rejected := make([]*models.Offer, 0, len(siblingDocs))
		for _, sd := range siblingDocs {
			if sd.Ref.ID == offerID {
				continue
			}
			sibling, err := docToOffer(sd)
			if err != nil {
				return err
			}
			if err := tx.Update(sd.Ref, []firestore.Update{
				{Path: "status", Value: models.OfferRejected},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
			sibling.Status = models.OfferRejected
			rejected = append(rejected, sibling)
		}

		trade.CreatedAt = now
		trade.UpdatedAt = now
		if err := tx.Create(s.client.Collection("trades").Doc(trade.TradeID), trade); err != nil {
			return err
		}
		order.CreatedAt = now
		if err := tx.Create(s.client.Collection("payment_orders").Doc(order.OrderID), order); err != nil {
			return err
		}
		if outbox != nil {
			outbox.CreatedAt = now
			outbox.UpdatedAt = now
			if err := tx.Create(s.client.Collection("webhook_outbox").Doc(outbox.EventID), outbox); err != nil {
				return err
			}
		}

		offer.Status = models.OfferAccepted
		offer.UpdatedAt = now
		result = &dto.AcceptResult{
			Offer:          offer,
			Trade:          trade,
			PaymentOrder:   order,
			RejectedOffers: rejected,
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("accept", "offer acceptance failed", err)
	}
	return result, nil
}

// CreateCounter flips the parent to counter_offered and creates the child
// offer in one transaction. Fails with ConflictError when the parent is no
// longer pending.
func (s *offerStore) CreateCounter(ctx context.Context, parentID string, counter *models.Offer) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		parentRef := s.collection().Doc(parentID)
		doc, err := tx.Get(parentRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("offer not found")
			}
			return err
		}
		parent, err := docToOffer(doc)
		if err != nil {
			return err
		}
		if parent.Status != models.OfferPending {
			return errs.NewConflictError("offer is no longer pending")
		}

		now := time.Now()
		if err := tx.Update(parentRef, []firestore.Update{
			{Path: "status", Value: models.OfferCountered},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		counter.CreatedAt = now
		counter.UpdatedAt = now
		return tx.Create(s.collection().Doc(counter.OfferID), counter)
	})
	if err != nil {
		return storeErr("counter", "counter-offer creation failed", err)
	}
	return nil
}

// UpdateStatus moves a pending offer to a terminal status. Used for seller
// rejection and for the buyer's soft cancel.
func (s *offerStore) UpdateStatus(ctx context.Context, offerID, newStatus string) (*models.Offer, error) {
	var updated *models.Offer
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref := s.collection().Doc(offerID)
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("offer not found")
			}
			return err
		}
		offer, err := docToOffer(doc)
		if err != nil {
			return err
		}
		if offer.Status != models.OfferPending {
			return errs.NewConflictError("offer is no longer pending")
		}
		now := time.Now()
		if err := tx.Update(ref, []firestore.Update{
			{Path: "status", Value: newStatus},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		offer.Status = newStatus
		offer.UpdatedAt = now
		updated = offer
		return nil
	})
	if err != nil {
		return nil, storeErr("update", "offer status update failed", err)
	}
	return updated, nil
}

// RejectCounterPair terminates a rejected counter-offer and its parent in
// one transaction, so the negotiation thread ends with both rows rechazada.
func (s *offerStore) RejectCounterPair(ctx context.Context, counterID, parentID string) (*models.Offer, error) {
	var counter *models.Offer
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		counterRef := s.collection().Doc(counterID)
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errs.NewNotFoundError("offer not found")
			}
			return err
		}
		c, err := docToOffer(doc)
		if err != nil {
			return err
		}
		if c.Status != models.OfferPending {
			return errs.NewConflictError("counter-offer is no longer pending")
		}

		now := time.Now()
		if err := tx.Update(counterRef, []firestore.Update{
			{Path: "status", Value: models.OfferRejected},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		if parentID != "" {
			if err := tx.Update(s.collection().Doc(parentID), []firestore.Update{
				{Path: "status", Value: models.OfferRejected},
				{Path: "updatedAt", Value: now},
			}); err != nil {
				return err
			}
		}
		c.Status = models.OfferRejected
		c.UpdatedAt = now
		counter = c
		return nil
	})
	if err != nil {
		return nil, storeErr("update", "counter-offer rejection failed", err)
	}
	return counter, nil
}

func docToOffer(doc *firestore.DocumentSnapshot) (*models.Offer, error) {
	var o models.Offer
	if err := doc.DataTo(&o); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse offer data", err)
	}
	return &o, nil
}

// storeErr passes typed domain errors through untouched and wraps everything
// else as a DatabaseError.
func storeErr(operation, message string, err error) error {
	switch err.(type) {
	case *errs.NotFoundError, *errs.ConflictError, *errs.ValidationError,
		*errs.ForbiddenError, *errs.AuthError, *errs.DatabaseError:
		return err
	}
	return errs.NewDatabaseError(operation, message, err)
}
