package models

import (
	"time"
)

const (
	TradeInProgress = "en_proceso"
	TradeCompleted  = "completada"
)

// Trade is the binding agreement created when an offer is accepted. Price
// terms are immutable after creation; weight and status move later through
// the delivery flow.
type Trade struct {
	TradeID            string    `firestore:"tradeId" json:"tradeId"`
	OfferID            string    `firestore:"offerId" json:"offerId"`
	BuyerID            string    `firestore:"buyerId" json:"buyerId"`
	SellerID           string    `firestore:"sellerId" json:"sellerId"`
	ListingID          string    `firestore:"listingId" json:"listingId"`
	AgreedPricePerKg   float64   `firestore:"agreedPricePerKg" json:"agreedPricePerKg"`
	EstimatedWeight    float64   `firestore:"estimatedWeight" json:"estimatedWeight"`
	EstimatedTotal     float64   `firestore:"estimatedTotal" json:"estimatedTotal"`
	Quantity           int       `firestore:"quantity" json:"quantity"`
	NegotiationDate    time.Time `firestore:"negotiationDate" json:"negotiationDate"`
	PaymentTerm        string    `firestore:"paymentTerm" json:"paymentTerm"`
	Status             string    `firestore:"status" json:"status"`
	CreatedAt          time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `firestore:"updatedAt" json:"updatedAt"`
}
