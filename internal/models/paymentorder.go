package models

import (
	"time"
)

const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderFailed     = "failed"
)

const (
	OrderTypeProvisional = "provisional"
	OrderTypeFinal       = "final"
)

// PaymentOrder is an instruction to a bank to move funds for a trade.
// Provisional orders carry the advance; the final order reconciles the
// remainder once actual weight is confirmed.
type PaymentOrder struct {
	OrderID            string     `firestore:"orderId" json:"orderId"`
	TradeID            string     `firestore:"tradeId" json:"tradeId"`
	BuyerID            string     `firestore:"buyerId" json:"buyerId"`
	SellerID           string     `firestore:"sellerId" json:"sellerId"`
	Amount             float64    `firestore:"amount" json:"amount"`
	OrderType          string     `firestore:"orderType" json:"orderType"`
	PaymentTerm        string     `firestore:"paymentTerm" json:"paymentTerm"`
	PaymentMethod      string     `firestore:"paymentMethod" json:"paymentMethod"`
	PaymentMethodRef   string     `firestore:"paymentMethodRef" json:"paymentMethodRef"`
	SellerBankAccount  string     `firestore:"sellerBankAccount" json:"sellerBankAccount,omitempty"`
	PlatformCommission float64    `firestore:"platformCommission" json:"platformCommission"`
	BankCommission     float64    `firestore:"bankCommission" json:"bankCommission"`
	SellerNetAmount    float64    `firestore:"sellerNetAmount" json:"sellerNetAmount"`
	Status             string     `firestore:"status" json:"status"`
	BankReference      string     `firestore:"bankReference" json:"bankReference,omitempty"`
	BankAPIResponse    string     `firestore:"bankApiResponse" json:"bankApiResponse,omitempty"`
	NegotiationDate    time.Time  `firestore:"negotiationDate" json:"negotiationDate"`
	DueDate            *time.Time `firestore:"dueDate" json:"dueDate,omitempty"`
	CreatedAt          time.Time  `firestore:"createdAt" json:"createdAt"`
	ProcessedAt        *time.Time `firestore:"processedAt" json:"processedAt,omitempty"`
	CompletedAt        *time.Time `firestore:"completedAt" json:"completedAt,omitempty"`
}
