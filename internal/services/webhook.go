package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/pkg/logger"
)

// responseBodyCap bounds what a bank's endpoint can make us persist.
const responseBodyCap = 2048

type integrationWDStore interface {
	GetByBankID(ctx context.Context, bankID string) (*models.BankIntegration, error)
}

type secretWDStore interface {
	Get(ctx context.Context, bankID string) (string, error)
}

type webhookLogWDStore interface {
	Create(ctx context.Context, l *models.WebhookLog) error
	ListByBank(ctx context.Context, bankID string, limit int) ([]*models.WebhookLog, error)
}

// webhookService delivers event envelopes to a bank's registered endpoint,
// authenticated with the bank's shared webhook secret. One attempt per call,
// one log row per attempt; retrying is the outbox worker's job.
type webhookService struct {
	integrations integrationWDStore
	secrets      secretWDStore
	logs         webhookLogWDStore
	client       *http.Client
	clockNow     func() time.Time
}

func NewWebhookService(integrations integrationWDStore, secrets secretWDStore, logs webhookLogWDStore, timeout time.Duration) *webhookService {
	return &webhookService{
		integrations: integrations,
		secrets:      secrets,
		logs:         logs,
		client:       &http.Client{Timeout: timeout},
		clockNow:     time.Now,
	}
}

// Deliver POSTs the envelope to the bank. A bank without an active webhook
// is a silent no-op; everything else writes exactly one WebhookLog row.
func (s *webhookService) Deliver(ctx context.Context, bankID, eventType string, payload map[string]any) (*dto.DeliveryResult, error) {
	bi, err := s.integrations.GetByBankID(ctx, bankID)
	if err != nil {
		if _, ok := err.(*errs.NotFoundError); ok {
			return &dto.DeliveryResult{Skipped: true}, nil
		}
		return nil, err
	}
	if !bi.IsActive || bi.WebhookURL == "" {
		return &dto.DeliveryResult{Skipped: true}, nil
	}

	result := &dto.DeliveryResult{}
	logRow := &models.WebhookLog{
		LogID:     uuid.NewString(),
		BankID:    bankID,
		EventType: eventType,
		Payload:   payload,
	}

	secret, err := s.secrets.Get(ctx, bankID)
	if err != nil {
		result.Error = "webhook secret unavailable"
		logRow.ErrorMessage = result.Error
		s.writeLog(ctx, logRow)
		return result, nil
	}

	envelope := dto.WebhookEnvelope{
		Event:     eventType,
		Timestamp: s.clockNow().UTC(),
		Data:      payload,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		result.Error = err.Error()
		logRow.ErrorMessage = result.Error
		s.writeLog(ctx, logRow)
		return result, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, bi.WebhookURL, bytes.NewReader(body))
	if err != nil {
		result.Error = err.Error()
		logRow.ErrorMessage = result.Error
		s.writeLog(ctx, logRow)
		return result, nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Secret", secret)

	resp, err := s.client.Do(req)
	if err != nil {
		result.Error = err.Error()
		logRow.ErrorMessage = result.Error
		s.writeLog(ctx, logRow)
		return result, nil
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyCap))
	result.ResponseStatus = resp.StatusCode
	result.Delivered = resp.StatusCode >= 200 && resp.StatusCode < 300
	logRow.ResponseStatus = resp.StatusCode
	logRow.ResponseBody = string(respBody)
	if !result.Delivered {
		result.Error = "endpoint returned non-2xx status"
		logRow.ErrorMessage = result.Error
	}
	s.writeLog(ctx, logRow)

	return result, nil
}

// SendTest fires a synchronous test event so a bank can verify its
// endpoint from the configuration screen.
func (s *webhookService) SendTest(ctx context.Context, bankID string) (*dto.DeliveryResult, error) {
	bi, err := s.integrations.GetByBankID(ctx, bankID)
	if err != nil {
		return nil, err
	}
	if bi.WebhookURL == "" {
		return nil, errs.NewValidationError("no webhook endpoint configured")
	}
	return s.Deliver(ctx, bankID, models.EventTest, map[string]any{
		"message": "webhook configuration test",
	})
}

// RecentLogs returns the bank's latest delivery attempts, newest first, so
// operators can debug their endpoint from the configuration screen.
func (s *webhookService) RecentLogs(ctx context.Context, bankID string, limit int) ([]*models.WebhookLog, error) {
	return s.logs.ListByBank(ctx, bankID, limit)
}

func (s *webhookService) writeLog(ctx context.Context, row *models.WebhookLog) {
	if err := s.logs.Create(ctx, row); err != nil {
		log := logger.FromContext(ctx)
		log.Error("failed to persist webhook log",
			"bank_id", row.BankID,
			"event_type", row.EventType,
			"error", err)
	}
}
