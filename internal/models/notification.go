package models

import (
	"time"
)

// In-app notification types.
const (
	NotifOfferReceived    = "offer_received"
	NotifOfferAccepted    = "offer_accepted"
	NotifOfferRejected    = "offer_rejected"
	NotifCounterReceived  = "counter_offer_received"
	NotifOrderCreated     = "payment_order_created"
	NotifPaymentProcessed = "payment_processed"
	NotifPaymentCompleted = "payment_completed"
	NotifPaymentFailed    = "payment_failed"
	NotifTradeCompleted   = "trade_completed"
)

// Notification is append-only except for the read flag.
type Notification struct {
	NotificationID string         `firestore:"notificationId" json:"notificationId"`
	UserID         string         `firestore:"userId" json:"userId"`
	Type           string         `firestore:"type" json:"type"`
	Title          string         `firestore:"title" json:"title"`
	Message        string         `firestore:"message" json:"message"`
	Data           map[string]any `firestore:"data" json:"data,omitempty"`
	IsRead         bool           `firestore:"isRead" json:"isRead"`
	ReadAt         *time.Time     `firestore:"readAt" json:"readAt,omitempty"`
	CreatedAt      time.Time      `firestore:"createdAt" json:"createdAt"`
}
