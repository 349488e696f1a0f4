package models

import (
	"time"
)

// Webhook event types sent to banks.
const (
	EventPaymentOrderCreated  = "payment_order.created"
	EventCertificationCreated = "certification.created"
	EventTest                 = "test"
)

// Outbox event states.
const (
	OutboxPending   = "pending"
	OutboxDelivered = "delivered"
	OutboxDead      = "dead"
)

// WebhookLog records one delivery attempt. Append-only.
type WebhookLog struct {
	LogID          string         `firestore:"logId" json:"logId"`
	BankID         string         `firestore:"bankId" json:"bankId"`
	EventType      string         `firestore:"eventType" json:"eventType"`
	Payload        map[string]any `firestore:"payload" json:"payload"`
	ResponseStatus int            `firestore:"responseStatus" json:"responseStatus"`
	ResponseBody   string         `firestore:"responseBody" json:"responseBody,omitempty"`
	ErrorMessage   string         `firestore:"errorMessage" json:"errorMessage,omitempty"`
	CreatedAt      time.Time      `firestore:"createdAt" json:"createdAt"`
}

// OutboxEvent is a durable, to-be-delivered webhook. The append happens in
// the same Firestore transaction as the state change that produced it, so
// delivery is at-least-once without coupling request latency to the bank.
type OutboxEvent struct {
	EventID       string         `firestore:"eventId" json:"eventId"`
	BankID        string         `firestore:"bankId" json:"bankId"`
	EventType     string         `firestore:"eventType" json:"eventType"`
	Payload       map[string]any `firestore:"payload" json:"payload"`
	Status        string         `firestore:"status" json:"status"`
	Attempts      int            `firestore:"attempts" json:"attempts"`
	NextAttemptAt time.Time      `firestore:"nextAttemptAt" json:"nextAttemptAt"`
	LastError     string         `firestore:"lastError" json:"lastError,omitempty"`
	CreatedAt     time.Time      `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `firestore:"updatedAt" json:"updatedAt"`
}
