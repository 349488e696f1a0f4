package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

type webhookFakeIntegrationStore struct {
	integration *models.BankIntegration
	err         error
}

func (f *webhookFakeIntegrationStore) GetByBankID(ctx context.Context, bankID string) (*models.BankIntegration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.integration, nil
}

type webhookFakeSecretStore struct {
	secret string
	err    error
}

func (f *webhookFakeSecretStore) Get(ctx context.Context, bankID string) (string, error) {
	return f.secret, f.err
}

type webhookFakeLogStore struct {
	rows []*models.WebhookLog
}

func (f *webhookFakeLogStore) Create(ctx context.Context, l *models.WebhookLog) error {
	f.rows = append(f.rows, l)
	return nil
}

func (f *webhookFakeLogStore) ListByBank(ctx context.Context, bankID string, limit int) ([]*models.WebhookLog, error) {
	out := make([]*models.WebhookLog, 0, len(f.rows))
	for _, row := range f.rows {
		if row.BankID == bankID {
			out = append(out, row)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func activeIntegration(url string) *models.BankIntegration {
	return &models.BankIntegration{BankID: "bank-1", IsActive: true, WebhookURL: url}
}

func TestDeliverPostsEnvelopeWithSecret(t *testing.T) {
	var gotSecret string
	var gotEnvelope dto.WebhookEnvelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Webhook-Secret")
		if err := json.NewDecoder(r.Body).Decode(&gotEnvelope); err != nil {
			t.Errorf("failed to decode envelope: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	logs := &webhookFakeLogStore{}
	svc := NewWebhookService(
		&webhookFakeIntegrationStore{integration: activeIntegration(srv.URL)},
		&webhookFakeSecretStore{secret: "whsec_test"},
		logs, 5*time.Second)

	result, err := svc.Deliver(testCtx(), "bank-1", models.EventPaymentOrderCreated, map[string]any{"orderId": "order-1"})
	if err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if !result.Delivered || result.ResponseStatus != http.StatusOK {
		t.Fatalf("result = %+v, want delivered 200", result)
	}

	if gotSecret != "whsec_test" {
		t.Fatalf("X-Webhook-Secret = %q, want whsec_test", gotSecret)
	}
	if gotEnvelope.Event != models.EventPaymentOrderCreated {
		t.Fatalf("envelope event = %q", gotEnvelope.Event)
	}
	if gotEnvelope.Timestamp.IsZero() {
		t.Fatalf("envelope timestamp missing")
	}
	if gotEnvelope.Data["orderId"] != "order-1" {
		t.Fatalf("envelope data = %v", gotEnvelope.Data)
	}

	if len(logs.rows) != 1 {
		t.Fatalf("expected exactly one log row, got %d", len(logs.rows))
	}
	row := logs.rows[0]
	if row.BankID != "bank-1" || row.EventType != models.EventPaymentOrderCreated || row.ResponseStatus != http.StatusOK {
		t.Fatalf("unexpected log row: %+v", row)
	}
	if row.ErrorMessage != "" {
		t.Fatalf("successful delivery logged error %q", row.ErrorMessage)
	}
}

func TestDeliverNon2xxIsLoggedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	logs := &webhookFakeLogStore{}
	svc := NewWebhookService(
		&webhookFakeIntegrationStore{integration: activeIntegration(srv.URL)},
		&webhookFakeSecretStore{secret: "whsec_test"},
		logs, 5*time.Second)

	result, err := svc.Deliver(testCtx(), "bank-1", models.EventTest, nil)
	if err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if result.Delivered {
		t.Fatalf("non-2xx must not count as delivered")
	}
	if result.ResponseStatus != http.StatusServiceUnavailable {
		t.Fatalf("ResponseStatus = %d", result.ResponseStatus)
	}
	if len(logs.rows) != 1 || logs.rows[0].ErrorMessage == "" {
		t.Fatalf("expected one log row with an error, got %+v", logs.rows)
	}
}

func TestDeliverConnectionErrorIsLogged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	logs := &webhookFakeLogStore{}
	svc := NewWebhookService(
		&webhookFakeIntegrationStore{integration: activeIntegration(srv.URL)},
		&webhookFakeSecretStore{secret: "whsec_test"},
		logs, time.Second)

	result, err := svc.Deliver(testCtx(), "bank-1", models.EventTest, nil)
	if err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if result.Delivered || result.Error == "" {
		t.Fatalf("result = %+v, want undelivered with error", result)
	}
	if len(logs.rows) != 1 || logs.rows[0].ErrorMessage == "" {
		t.Fatalf("expected one log row with an error, got %+v", logs.rows)
	}
}

func TestDeliverSkipsUnconfiguredBank(t *testing.T) {
	logs := &webhookFakeLogStore{}

	cases := map[string]*webhookFakeIntegrationStore{
		"no integration": {err: errs.NewNotFoundError("bank integration not found")},
		"inactive":       {integration: &models.BankIntegration{BankID: "bank-1", IsActive: false, WebhookURL: "https://x"}},
		"no url":         {integration: &models.BankIntegration{BankID: "bank-1", IsActive: true}},
	}
	for name, integrations := range cases {
		t.Run(name, func(t *testing.T) {
			svc := NewWebhookService(integrations, &webhookFakeSecretStore{}, logs, time.Second)
			result, err := svc.Deliver(testCtx(), "bank-1", models.EventTest, nil)
			if err != nil {
				t.Fatalf("Deliver returned error: %v", err)
			}
			if !result.Skipped || result.Delivered {
				t.Fatalf("result = %+v, want skipped", result)
			}
		})
	}
	if len(logs.rows) != 0 {
		t.Fatalf("skipped deliveries must not log, got %d rows", len(logs.rows))
	}
}

func TestSendTestRequiresEndpoint(t *testing.T) {
	svc := NewWebhookService(
		&webhookFakeIntegrationStore{integration: &models.BankIntegration{BankID: "bank-1", IsActive: true}},
		&webhookFakeSecretStore{}, &webhookFakeLogStore{}, time.Second)

	_, err := svc.SendTest(testCtx(), "bank-1")
	if _, ok := err.(*errs.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSendTestDelivers(t *testing.T) {
	var gotEvent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var env dto.WebhookEnvelope
		json.NewDecoder(r.Body).Decode(&env)
		gotEvent = env.Event
	}))
	defer srv.Close()

	svc := NewWebhookService(
		&webhookFakeIntegrationStore{integration: activeIntegration(srv.URL)},
		&webhookFakeSecretStore{secret: "whsec_test"},
		&webhookFakeLogStore{}, 5*time.Second)

	result, err := svc.SendTest(testCtx(), "bank-1")
	if err != nil {
		t.Fatalf("SendTest returned error: %v", err)
	}
	if !result.Delivered {
		t.Fatalf("result = %+v, want delivered", result)
	}
	if gotEvent != models.EventTest {
		t.Fatalf("event = %q, want test", gotEvent)
	}
}

func TestRecentLogsScopedToBank(t *testing.T) {
	logs := &webhookFakeLogStore{rows: []*models.WebhookLog{
		{LogID: "wl-1", BankID: "bank-1", EventType: models.EventPaymentOrderCreated},
		{LogID: "wl-2", BankID: "bank-2", EventType: models.EventTest},
	}}
	svc := NewWebhookService(&webhookFakeIntegrationStore{}, &webhookFakeSecretStore{}, logs, time.Second)

	got, err := svc.RecentLogs(testCtx(), "bank-1", 10)
	if err != nil {
		t.Fatalf("RecentLogs returned error: %v", err)
	}
	if len(got) != 1 || got[0].LogID != "wl-1" {
		t.Fatalf("unexpected rows: %+v", got)
	}
}
