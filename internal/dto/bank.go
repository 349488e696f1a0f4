package dto

import (
	"time"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

// Credentials carries plaintext secrets. It is returned exactly once, at
// issuance or rotation, and never persisted in this form.
type Credentials struct {
	APIKey        string `json:"apiKey"`
	APISecret     string `json:"apiSecret"`
	WebhookSecret string `json:"webhookSecret,omitempty"`
}

type IntegrationView struct {
	BankID      string       `json:"bankId"`
	APIKey      string       `json:"apiKey"`
	WebhookURL  string       `json:"webhookUrl,omitempty"`
	IsActive    bool         `json:"isActive"`
	LastUsedAt  *time.Time   `json:"lastUsedAt,omitempty"`
	Credentials *Credentials `json:"credentials,omitempty"`
}

type UpdateWebhookInput struct {
	WebhookURL string `json:"webhookUrl"`
}

type ToggleInput struct {
	Active bool `json:"active"`
}

// CertQuery narrows bank pull-API certification reads.
type CertQuery struct {
	Status string
	Limit  int
	Offset int
}

func NewIntegrationView(bi *models.BankIntegration, creds *Credentials) *IntegrationView {
	return &IntegrationView{
		BankID:      bi.BankID,
		APIKey:      bi.APIKey,
		WebhookURL:  bi.WebhookURL,
		IsActive:    bi.IsActive,
		LastUsedAt:  bi.LastUsedAt,
		Credentials: creds,
	}
}
