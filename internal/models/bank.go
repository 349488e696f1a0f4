package models

import (
	"time"
)

// BankIntegration holds a bank's issued credentials and webhook
// configuration. The API secret is stored KMS-encrypted; the webhook
// signing secret lives in Secret Manager and only its resource name is
// recorded here. Regeneration replaces every credential field in one write.
type BankIntegration struct {
	IntegrationID     string     `firestore:"integrationId" json:"integrationId"`
	BankID            string     `firestore:"bankId" json:"bankId"`
	APIKey            string     `firestore:"apiKey" json:"apiKey"`
	APISecretCipher   string     `firestore:"apiSecretCipher" json:"-"`
	WebhookURL        string     `firestore:"webhookUrl" json:"webhookUrl,omitempty"`
	WebhookSecretName string     `firestore:"webhookSecretName" json:"-"`
	IsActive          bool       `firestore:"isActive" json:"isActive"`
	LastUsedAt        *time.Time `firestore:"lastUsedAt" json:"lastUsedAt,omitempty"`
	CreatedAt         time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time  `firestore:"updatedAt" json:"updatedAt"`
}

// BankAccount is a seller's payout destination. At most one row per user is
// the default.
type BankAccount struct {
	AccountID string    `firestore:"accountId" json:"accountId"`
	UserID    string    `firestore:"userId" json:"userId"`
	BankName  string    `firestore:"bankName" json:"bankName"`
	CBU       string    `firestore:"cbu" json:"cbu"`
	Alias     string    `firestore:"alias" json:"alias,omitempty"`
	IsDefault bool      `firestore:"isDefault" json:"isDefault"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
