package models

import (
	"time"
)

// Platform roles. Bank operators carry the bank they belong to.
const (
	RoleBuyer  = "comprador"
	RoleSeller = "vendedor"
	RoleBank   = "banco"
)

type User struct {
	UID       string    `firestore:"uid" json:"uid"`
	Email     string    `firestore:"email" json:"email"`
	FirstName string    `firestore:"firstName" json:"firstName"`
	LastName  string    `firestore:"lastName" json:"lastName"`
	Role      string    `firestore:"role" json:"role"`
	BankID    string    `firestore:"bankId" json:"bankId,omitempty"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
