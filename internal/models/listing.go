package models

import (
	"time"
)

const (
	ListingActive   = "activo"
	ListingReserved = "reservado" // an offer was accepted, awaiting settlement
	ListingSold     = "completo"
	ListingPaused   = "pausado"
)

// Listing is a published batch of livestock. Only the attributes the
// settlement flow reads are modeled here; listing CRUD lives elsewhere.
type Listing struct {
	ListingID     string    `firestore:"listingId" json:"listingId"`
	SellerID      string    `firestore:"sellerId" json:"sellerId"`
	Title         string    `firestore:"title" json:"title"`
	Status        string    `firestore:"status" json:"status"`
	Quantity      int       `firestore:"quantity" json:"quantity"`
	AverageWeight float64   `firestore:"averageWeight" json:"averageWeight"` // kg per head
	PricePerKg    float64   `firestore:"pricePerKg" json:"pricePerKg"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Offerable reports whether new offers may be placed against the listing.
func (l *Listing) Offerable() bool {
	return l.Status == ListingActive
}
