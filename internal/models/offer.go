package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	OfferPending   = "pending"
	OfferAccepted  = "aceptada"
	OfferRejected  = "rechazada"
	OfferCountered = "counter_offered"
	OfferCancelled = "cancelada"
)

// Payment terms: immediate settlement or an N-day deferred instrument,
// encoded "{N}_dias".
const (
	TermImmediate      = "inmediato"
	deferredTermSuffix = "_dias"
)

// Payment method types. Deferred terms are only valid against a deferred
// cheque.
const (
	MethodTransfer       = "transferencia"
	MethodCheque         = "cheque"
	MethodDeferredCheque = "cheque_diferido"
)

type Offer struct {
	OfferID               string    `firestore:"offerId" json:"offerId"`
	BuyerID               string    `firestore:"buyerId" json:"buyerId"`
	SellerID              string    `firestore:"sellerId" json:"sellerId"`
	ListingID             string    `firestore:"listingId" json:"listingId"`
	OfferedPrice          float64   `firestore:"offeredPrice" json:"offeredPrice"` // per kg
	OriginalPrice         float64   `firestore:"originalPrice" json:"originalPrice"`
	PaymentTerm           string    `firestore:"paymentTerm" json:"paymentTerm"`
	PaymentMethod         string    `firestore:"paymentMethod" json:"paymentMethod"`
	PaymentMethodRef      string    `firestore:"paymentMethodRef" json:"paymentMethodRef"`
	HasBuyerCertification bool      `firestore:"hasBuyerCertification" json:"hasBuyerCertification"`
	Status                string    `firestore:"status" json:"status"`
	IsCounterOffer        bool      `firestore:"isCounterOffer" json:"isCounterOffer"`
	ParentOfferID         string    `firestore:"parentOfferId" json:"parentOfferId,omitempty"`
	CounterOfferPrice     float64   `firestore:"counterOfferPrice" json:"counterOfferPrice,omitempty"`
	CreatedAt             time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// DeferredDays parses a "{N}_dias" payment term. ok is false for the
// immediate term or an unparseable value.
func DeferredDays(term string) (int, bool) {
	if term == TermImmediate || !strings.HasSuffix(term, deferredTermSuffix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(term, deferredTermSuffix))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ValidTerm reports whether the term is the immediate term or a well-formed
// deferred term.
func ValidTerm(term string) bool {
	if term == TermImmediate {
		return true
	}
	_, ok := DeferredDays(term)
	return ok
}

// DeferredTerm builds the encoded term for an N-day deferral.
func DeferredTerm(days int) string {
	return fmt.Sprintf("%d%s", days, deferredTermSuffix)
}
