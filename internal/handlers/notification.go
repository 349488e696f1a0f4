package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/middleware"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/response"
)

type NotificationService interface {
	List(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

type notificationHandlers struct {
	ResponseHandler response.ResponseHandler
	NotificationSvc NotificationService
}

func NewNotificationHandlers(deps *Deps) *notificationHandlers {
	return &notificationHandlers{
		ResponseHandler: deps.ResponseHandler,
		NotificationSvc: deps.NotificationSvc,
	}
}

func (h *notificationHandlers) NotificationRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListNotifications)
	r.Put("/{notificationId}/read", h.MarkRead)
	return r
}

// notificationTarget picks the inbox to read. Bank users share one inbox
// per bank so any operator sees settlement events for their institution.
func notificationTarget(r *http.Request) string {
	actor := middleware.Actor(r.Context())
	if actor.Role == models.RoleBank && actor.BankID != "" {
		return actor.BankID
	}
	return actor.UID
}

func (h *notificationHandlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	notifications, err := h.NotificationSvc.List(r.Context(), notificationTarget(r), limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, notifications)
}

func (h *notificationHandlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	err := h.NotificationSvc.MarkRead(r.Context(), notificationTarget(r), chi.URLParam(r, "notificationId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
