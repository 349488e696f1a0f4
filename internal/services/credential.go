package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/pkg/logger"
)

const (
	apiKeyPrefix        = "agk_"
	webhookSecretPrefix = "whsec_"
)

type integrationCVStore interface {
	Upsert(ctx context.Context, bi *models.BankIntegration) error
	GetByBankID(ctx context.Context, bankID string) (*models.BankIntegration, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*models.BankIntegration, error)
	SetActive(ctx context.Context, bankID string, active bool) error
	SetWebhook(ctx context.Context, bankID, url, secretName string) error
}

type secretCVStore interface {
	Store(ctx context.Context, bankID, secret string) error
	SecretName(bankID string) string
}

type encrypter interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
}

// credentialService issues and rotates per-bank API credentials. The API
// secret is KMS-encrypted into Firestore; the webhook signing secret goes
// to Secret Manager. Plaintext leaves this service exactly once, in the
// returned Credentials.
type credentialService struct {
	integrations integrationCVStore
	secrets      secretCVStore
	kms          encrypter
	randHex      func(n int) (string, error)
}

func NewCredentialService(integrations integrationCVStore, secrets secretCVStore, kms encrypter) *credentialService {
	return &credentialService{
		integrations: integrations,
		secrets:      secrets,
		kms:          kms,
		randHex:      randomHex,
	}
}

// GetOrCreate returns the bank's integration, lazily issuing credentials on
// the first configuration view.
func (s *credentialService) GetOrCreate(ctx context.Context, bankID string) (*dto.IntegrationView, error) {
	bi, err := s.integrations.GetByBankID(ctx, bankID)
	if err == nil {
		return dto.NewIntegrationView(bi, nil), nil
	}
	if _, ok := err.(*errs.NotFoundError); !ok {
		return nil, err
	}
	return s.issue(ctx, bankID, "", nil)
}

// Regenerate rotates every credential for the bank. The previous API key
// stops authenticating the moment the upsert commits.
func (s *credentialService) Regenerate(ctx context.Context, bankID string) (*dto.IntegrationView, error) {
	existing, err := s.integrations.GetByBankID(ctx, bankID)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, bankID, existing.WebhookURL, existing)
}

func (s *credentialService) issue(ctx context.Context, bankID, webhookURL string, existing *models.BankIntegration) (*dto.IntegrationView, error) {
	apiKeyRand, err := s.randHex(16)
	if err != nil {
		return nil, errs.NewDatabaseError("issue", "failed to generate api key", err)
	}
	apiSecret, err := s.randHex(24)
	if err != nil {
		return nil, errs.NewDatabaseError("issue", "failed to generate api secret", err)
	}
	cipher, err := s.kms.Encrypt(ctx, apiSecret)
	if err != nil {
		return nil, errs.NewExternalServiceError("kms", "failed to encrypt api secret", false, err)
	}

	creds := &dto.Credentials{
		APIKey:    apiKeyPrefix + apiKeyRand,
		APISecret: apiSecret,
	}

	bi := &models.BankIntegration{
		IntegrationID:   uuid.NewString(),
		BankID:          bankID,
		APIKey:          creds.APIKey,
		APISecretCipher: cipher,
		WebhookURL:      webhookURL,
		IsActive:        true,
	}
	if existing != nil {
		bi.IntegrationID = existing.IntegrationID
		bi.IsActive = existing.IsActive
		bi.CreatedAt = existing.CreatedAt
	}

	if webhookURL != "" {
		whRand, err := s.randHex(16)
		if err != nil {
			return nil, errs.NewDatabaseError("issue", "failed to generate webhook secret", err)
		}
		creds.WebhookSecret = webhookSecretPrefix + whRand
		if err := s.secrets.Store(ctx, bankID, creds.WebhookSecret); err != nil {
			return nil, err
		}
		bi.WebhookSecretName = s.secrets.SecretName(bankID)
	}

	if err := s.integrations.Upsert(ctx, bi); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info("bank credentials issued", "bank_id", bankID, "rotated", existing != nil)
	return dto.NewIntegrationView(bi, creds), nil
}

// UpdateWebhook sets the delivery endpoint. A changed URL rotates the
// signing secret; the plaintext comes back once.
func (s *credentialService) UpdateWebhook(ctx context.Context, bankID string, in dto.UpdateWebhookInput) (*dto.Credentials, error) {
	if !strings.HasPrefix(in.WebhookURL, "https://") {
		return nil, errs.NewValidationError("webhook url must use https")
	}
	bi, err := s.integrations.GetByBankID(ctx, bankID)
	if err != nil {
		return nil, err
	}
	if bi.WebhookURL == in.WebhookURL && bi.WebhookSecretName != "" {
		return &dto.Credentials{}, nil
	}

	whRand, err := s.randHex(16)
	if err != nil {
		return nil, errs.NewDatabaseError("issue", "failed to generate webhook secret", err)
	}
	secret := webhookSecretPrefix + whRand
	if err := s.secrets.Store(ctx, bankID, secret); err != nil {
		return nil, err
	}
	if err := s.integrations.SetWebhook(ctx, bankID, in.WebhookURL, s.secrets.SecretName(bankID)); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info("webhook endpoint updated", "bank_id", bankID)
	return &dto.Credentials{WebhookSecret: secret}, nil
}

// Toggle soft-enables or disables the integration without touching
// credentials.
func (s *credentialService) Toggle(ctx context.Context, bankID string, active bool) error {
	return s.integrations.SetActive(ctx, bankID, active)
}

// Authenticate resolves an inbound pull-API request to its bank.
func (s *credentialService) Authenticate(ctx context.Context, apiKey string) (*models.BankIntegration, error) {
	if apiKey == "" {
		return nil, errs.NewAuthError("missing api key")
	}
	return s.integrations.GetByAPIKey(ctx, apiKey)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
