package dto

import (
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

type CreateOfferInput struct {
	OfferedPrice    float64 `json:"offeredPrice"`
	PaymentTerm     string  `json:"paymentTerm"`
	PaymentMethodID string  `json:"paymentMethodId"`
}

type OfferStatusInput struct {
	Status string `json:"status"` // "aceptada" | "rechazada"
}

type CounterOfferInput struct {
	CounterPrice float64 `json:"counterPrice"`
}

type CounterResponseInput struct {
	Accept bool `json:"accept"`
}

// AcceptResult is everything the acceptance transaction committed, plus the
// sibling offers it cascade-rejected so their buyers can be notified.
type AcceptResult struct {
	Offer          *models.Offer        `json:"offer"`
	Trade          *models.Trade        `json:"trade"`
	PaymentOrder   *models.PaymentOrder `json:"paymentOrder"`
	RejectedOffers []*models.Offer      `json:"-"`
}
