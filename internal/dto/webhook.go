package dto

import (
	"time"
)

// WebhookEnvelope is the wire format POSTed to a bank's registered endpoint.
type WebhookEnvelope struct {
	Event     string         `json:"event"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// DeliveryResult summarizes one delivery attempt for the caller; the
// authoritative record is the WebhookLog row.
type DeliveryResult struct {
	Delivered      bool   `json:"delivered"`
	Skipped        bool   `json:"skipped,omitempty"`
	ResponseStatus int    `json:"responseStatus,omitempty"`
	Error          string `json:"error,omitempty"`
}
