package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

// --- Stub services ---

type stubCredentialService struct {
	view       *dto.IntegrationView
	viewErr    error
	creds      *dto.Credentials
	credsErr   error
	toggleErr  error
	lastBankID string
	lastHook   dto.UpdateWebhookInput
	lastActive bool
}

func (s *stubCredentialService) GetOrCreate(_ context.Context, bankID string) (*dto.IntegrationView, error) {
	s.lastBankID = bankID
	return s.view, s.viewErr
}

func (s *stubCredentialService) Regenerate(_ context.Context, bankID string) (*dto.IntegrationView, error) {
	s.lastBankID = bankID
	return s.view, s.viewErr
}

func (s *stubCredentialService) UpdateWebhook(_ context.Context, bankID string, in dto.UpdateWebhookInput) (*dto.Credentials, error) {
	s.lastBankID = bankID
	s.lastHook = in
	return s.creds, s.credsErr
}

func (s *stubCredentialService) Toggle(_ context.Context, bankID string, active bool) error {
	s.lastBankID = bankID
	s.lastActive = active
	return s.toggleErr
}

func (s *stubCredentialService) Authenticate(_ context.Context, apiKey string) (*models.BankIntegration, error) {
	return nil, errors.New("not used in handler tests")
}

type stubWebhookService struct {
	result     *dto.DeliveryResult
	logs       []*models.WebhookLog
	err        error
	lastBankID string
	lastLimit  int
}

func (s *stubWebhookService) SendTest(_ context.Context, bankID string) (*dto.DeliveryResult, error) {
	s.lastBankID = bankID
	return s.result, s.err
}

func (s *stubWebhookService) RecentLogs(_ context.Context, bankID string, limit int) ([]*models.WebhookLog, error) {
	s.lastBankID = bankID
	s.lastLimit = limit
	return s.logs, s.err
}

func bankActor() *models.User {
	return &models.User{UID: "op-1", Role: models.RoleBank, BankID: "bank-1"}
}

// --- Tests ---

func TestGetCredentials_OK(t *testing.T) {
	svc := &stubCredentialService{view: &dto.IntegrationView{BankID: "bank-1", APIKey: "agk_abc"}}
	resp := &stubResponseHandler{}
	h := NewBankIntegrationHandlers(&Deps{ResponseHandler: resp, CredentialSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/bank-integration", nil)
	req = withActor(req, bankActor())
	rr := httptest.NewRecorder()
	h.GetCredentials(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
	if svc.lastBankID != "bank-1" {
		t.Errorf("expected bankId=bank-1, got %s", svc.lastBankID)
	}
}

func TestGetCredentials_NoBankBinding(t *testing.T) {
	svc := &stubCredentialService{}
	resp := &stubResponseHandler{}
	h := NewBankIntegrationHandlers(&Deps{ResponseHandler: resp, CredentialSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/bank-integration", nil)
	req = withActor(req, &models.User{UID: "op-1", Role: models.RoleBank})
	rr := httptest.NewRecorder()
	h.GetCredentials(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError for a banco user without a bank binding")
	}
	var forbidden *errs.ForbiddenError
	if !errors.As(resp.handleError, &forbidden) {
		t.Fatalf("expected ForbiddenError, got %v", resp.handleError)
	}
	if svc.lastBankID != "" {
		t.Error("service should not be called")
	}
}

func TestRegenerateCredentials_OK(t *testing.T) {
	svc := &stubCredentialService{view: &dto.IntegrationView{
		BankID:      "bank-1",
		APIKey:      "agk_new",
		Credentials: &dto.Credentials{APIKey: "agk_new", APISecret: "secret"},
	}}
	resp := &stubResponseHandler{}
	h := NewBankIntegrationHandlers(&Deps{ResponseHandler: resp, CredentialSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/bank-integration/regenerate", nil)
	req = withActor(req, bankActor())
	rr := httptest.NewRecorder()
	h.RegenerateCredentials(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
	view, ok := resp.writeSuccessData.(*dto.IntegrationView)
	if !ok || view.Credentials == nil {
		t.Fatalf("expected a view with plaintext credentials, got %#v", resp.writeSuccessData)
	}
}

func TestUpdateWebhook_OK(t *testing.T) {
	svc := &stubCredentialService{creds: &dto.Credentials{WebhookSecret: "whsec_new"}}
	resp := &stubResponseHandler{}
	h := NewBankIntegrationHandlers(&Deps{ResponseHandler: resp, CredentialSvc: svc})

	body := `{"webhookUrl":"https://bank.example.com/hooks"}`
	req := httptest.NewRequest(http.MethodPut, "/bank-integration/webhook", strings.NewReader(body))
	req = withActor(req, bankActor())
	rr := httptest.NewRecorder()
	h.UpdateWebhook(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
	if svc.lastHook.WebhookURL != "https://bank.example.com/hooks" {
		t.Errorf("unexpected webhook URL passed to service: %s", svc.lastHook.WebhookURL)
	}
}

func TestUpdateWebhook_InvalidJSON(t *testing.T) {
	svc := &stubCredentialService{}
	resp := &stubResponseHandler{}
	h := NewBankIntegrationHandlers(&Deps{ResponseHandler: resp, CredentialSvc: svc})

	req := httptest.NewRequest(http.MethodPut, "/bank-integration/webhook", strings.NewReader("not-json"))
	req = withActor(req, bankActor())
	rr := httptest.NewRecorder()
	h.UpdateWebhook(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on invalid JSON")
	}
}

func TestTestWebhook_OK(t *testing.T) {
	whsvc := &stubWebhookService{result: &dto.DeliveryResult{Delivered: true, ResponseStatus: 200}}
	resp := &stubResponseHandler{}
	h := NewBankIntegrationHandlers(&Deps{ResponseHandler: resp, WebhookSvc: whsvc})

	req := httptest.NewRequest(http.MethodPost, "/bank-integration/test", nil)
	req = withActor(req, bankActor())
	rr := httptest.NewRecorder()
	h.TestWebhook(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatal("expected WriteSuccess")
	}
	if whsvc.lastBankID != "bank-1" {
		t.Errorf("expected bankId=bank-1, got %s", whsvc.lastBankID)
	}
}

func TestTestWebhook_NoEndpoint(t *testing.T) {
	whsvc := &stubWebhookService{err: errs.NewValidationError("no webhook endpoint configured")}
	resp := &stubResponseHandler{}
	h := NewBankIntegrationHandlers(&Deps{ResponseHandler: resp, WebhookSvc: whsvc})

	req := httptest.NewRequest(http.MethodPost, "/bank-integration/test", nil)
	req = withActor(req, bankActor())
	rr := httptest.NewRecorder()
	h.TestWebhook(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError when no endpoint is configured")
	}
}

func TestToggleIntegration_OK(t *testing.T) {
	svc := &stubCredentialService{}
	resp := &stubResponseHandler{}
	h := NewBankIntegrationHandlers(&Deps{ResponseHandler: resp, CredentialSvc: svc})

	body := `{"active":false}`
	req := httptest.NewRequest(http.MethodPut, "/bank-integration/toggle", strings.NewReader(body))
	req = withActor(req, bankActor())
	rr := httptest.NewRecorder()
	h.ToggleIntegration(rr, req)

	if !resp.writeSuccessCalled {
		t.Fatal("expected WriteSuccess")
	}
	if svc.lastBankID != "bank-1" || svc.lastActive {
		t.Errorf("expected Toggle(bank-1, false), got (%s, %v)", svc.lastBankID, svc.lastActive)
	}
}

func TestListWebhookLogs_OK(t *testing.T) {
	whsvc := &stubWebhookService{logs: []*models.WebhookLog{
		{LogID: "wl-1", BankID: "bank-1", EventType: models.EventPaymentOrderCreated, ResponseStatus: 200},
	}}
	resp := &stubResponseHandler{}
	h := NewBankIntegrationHandlers(&Deps{ResponseHandler: resp, WebhookSvc: whsvc})

	req := httptest.NewRequest(http.MethodGet, "/bank-integration/logs?limit=25", nil)
	req = withActor(req, bankActor())
	rr := httptest.NewRecorder()
	h.ListWebhookLogs(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200")
	}
	if whsvc.lastBankID != "bank-1" || whsvc.lastLimit != 25 {
		t.Errorf("expected RecentLogs(bank-1, 25), got (%s, %d)", whsvc.lastBankID, whsvc.lastLimit)
	}
	logs, ok := resp.writeSuccessData.([]*models.WebhookLog)
	if !ok || len(logs) != 1 || logs[0].LogID != "wl-1" {
		t.Fatalf("unexpected response data: %#v", resp.writeSuccessData)
	}
}
