package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/middleware"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/response"
)

type CredentialService interface {
	GetOrCreate(ctx context.Context, bankID string) (*dto.IntegrationView, error)
	Regenerate(ctx context.Context, bankID string) (*dto.IntegrationView, error)
	UpdateWebhook(ctx context.Context, bankID string, in dto.UpdateWebhookInput) (*dto.Credentials, error)
	Toggle(ctx context.Context, bankID string, active bool) error

	// Authenticate backs the pull API key middleware.
	Authenticate(ctx context.Context, apiKey string) (*models.BankIntegration, error)
}

type WebhookService interface {
	SendTest(ctx context.Context, bankID string) (*dto.DeliveryResult, error)
	RecentLogs(ctx context.Context, bankID string, limit int) ([]*models.WebhookLog, error)
}

type bankIntegrationHandlers struct {
	ResponseHandler response.ResponseHandler
	CredentialSvc   CredentialService
	WebhookSvc      WebhookService
}

func NewBankIntegrationHandlers(deps *Deps) *bankIntegrationHandlers {
	return &bankIntegrationHandlers{
		ResponseHandler: deps.ResponseHandler,
		CredentialSvc:   deps.CredentialSvc,
		WebhookSvc:      deps.WebhookSvc,
	}
}

func (h *bankIntegrationHandlers) BankIntegrationRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetCredentials)
	r.Post("/regenerate", h.RegenerateCredentials)
	r.Put("/webhook", h.UpdateWebhook)
	r.Post("/test", h.TestWebhook)
	r.Put("/toggle", h.ToggleIntegration)
	r.Get("/logs", h.ListWebhookLogs)
	return r
}

// bankID resolves the integration the actor manages. Routes are already
// gated on the banco role, but a banco user without a bank binding is a
// data problem worth rejecting explicitly.
func bankID(r *http.Request) (string, error) {
	actor := middleware.Actor(r.Context())
	if actor == nil || actor.Role != models.RoleBank || actor.BankID == "" {
		return "", errs.NewForbiddenError("bank integration routes require banco users")
	}
	return actor.BankID, nil
}

func (h *bankIntegrationHandlers) GetCredentials(w http.ResponseWriter, r *http.Request) {
	id, err := bankID(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	view, err := h.CredentialSvc.GetOrCreate(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, view)
}

func (h *bankIntegrationHandlers) RegenerateCredentials(w http.ResponseWriter, r *http.Request) {
	id, err := bankID(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	view, err := h.CredentialSvc.Regenerate(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, view)
}

func (h *bankIntegrationHandlers) UpdateWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := bankID(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	var body dto.UpdateWebhookInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	creds, err := h.CredentialSvc.UpdateWebhook(r.Context(), id, body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, creds)
}

func (h *bankIntegrationHandlers) TestWebhook(w http.ResponseWriter, r *http.Request) {
	id, err := bankID(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	result, err := h.WebhookSvc.SendTest(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *bankIntegrationHandlers) ListWebhookLogs(w http.ResponseWriter, r *http.Request) {
	id, err := bankID(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	logs, err := h.WebhookSvc.RecentLogs(r.Context(), id, limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, logs)
}

func (h *bankIntegrationHandlers) ToggleIntegration(w http.ResponseWriter, r *http.Request) {
	id, err := bankID(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	var body dto.ToggleInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	if err := h.CredentialSvc.Toggle(r.Context(), id, body.Active); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
