package models

import (
	"time"
)

const (
	CertificationActive  = "vigente"
	CertificationExpired = "vencida"
	CertificationRevoked = "revocada"
)

// Certification is a bank-issued credit guarantee for a buyer. Offers
// snapshot whether the buyer held an active certification at creation time.
type Certification struct {
	CertificationID string     `firestore:"certificationId" json:"certificationId"`
	BuyerID         string     `firestore:"buyerId" json:"buyerId"`
	BankID          string     `firestore:"bankId" json:"bankId"`
	Status          string     `firestore:"status" json:"status"`
	CreditLimit     float64    `firestore:"creditLimit" json:"creditLimit"`
	IssuedAt        time.Time  `firestore:"issuedAt" json:"issuedAt"`
	ExpiresAt       *time.Time `firestore:"expiresAt" json:"expiresAt,omitempty"`
	CreatedAt       time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `firestore:"updatedAt" json:"updatedAt"`
}
