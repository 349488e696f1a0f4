package models

import (
	"time"
)

// PaymentMethod is a buyer's registered payment instrument. Ref holds the
// masked instrument identifier (card data is tokenized upstream). BankID
// links the instrument to its issuing bank when known; settlement uses it
// to decide which bank to notify. At most one row per user is the default.
type PaymentMethod struct {
	MethodID  string    `firestore:"methodId" json:"methodId"`
	UserID    string    `firestore:"userId" json:"userId"`
	Type      string    `firestore:"type" json:"type"`
	Ref       string    `firestore:"ref" json:"ref"`
	BankID    string    `firestore:"bankId" json:"bankId,omitempty"`
	IsDefault bool      `firestore:"isDefault" json:"isDefault"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
