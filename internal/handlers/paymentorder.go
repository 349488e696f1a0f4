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

type PaymentOrderService interface {
	List(ctx context.Context, actor *models.User, q dto.OrderQuery) ([]*models.PaymentOrder, error)
	ListPending(ctx context.Context, actor *models.User) ([]*models.PaymentOrder, error)
	Get(ctx context.Context, actor *models.User, orderID string) (*models.PaymentOrder, error)
	Stats(ctx context.Context, actor *models.User) (*dto.OrderStats, error)
	Process(ctx context.Context, actor *models.User, orderID string, in dto.ProcessOrderInput) (*models.PaymentOrder, error)
	Complete(ctx context.Context, actor *models.User, orderID string, in dto.CompleteOrderInput) (*models.PaymentOrder, error)
	Fail(ctx context.Context, actor *models.User, orderID string, in dto.FailOrderInput) (*models.PaymentOrder, error)

	// Pull API reads, authenticated by API key rather than a Firebase actor.
	ListForBank(ctx context.Context, q dto.OrderQuery) ([]*models.PaymentOrder, error)
	GetForBank(ctx context.Context, orderID string) (*models.PaymentOrder, error)
}

type paymentOrderHandlers struct {
	ResponseHandler response.ResponseHandler
	OrderSvc        PaymentOrderService
}

func NewPaymentOrderHandlers(deps *Deps) *paymentOrderHandlers {
	return &paymentOrderHandlers{
		ResponseHandler: deps.ResponseHandler,
		OrderSvc:        deps.OrderSvc,
	}
}

func (h *paymentOrderHandlers) PaymentOrderRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListOrders)
	r.Get("/pending", h.ListPendingOrders) // must be before /{orderId}
	r.Get("/statistics", h.GetStats)
	r.Get("/{orderId}", h.GetOrder)
	r.Put("/{orderId}/process", h.ProcessOrder)
	r.Put("/{orderId}/complete", h.CompleteOrder)
	r.Put("/{orderId}/fail", h.FailOrder)
	return r
}

func orderQueryFromRequest(r *http.Request) dto.OrderQuery {
	q := dto.OrderQuery{Status: r.URL.Query().Get("status")}
	if v := r.URL.Query().Get("limit"); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		q.Offset, _ = strconv.Atoi(v)
	}
	return q
}

func (h *paymentOrderHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r.Context())
	orders, err := h.OrderSvc.List(r.Context(), actor, orderQueryFromRequest(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, orders)
}

func (h *paymentOrderHandlers) ListPendingOrders(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r.Context())
	orders, err := h.OrderSvc.ListPending(r.Context(), actor)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, orders)
}

func (h *paymentOrderHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r.Context())
	stats, err := h.OrderSvc.Stats(r.Context(), actor)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}

func (h *paymentOrderHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r.Context())
	order, err := h.OrderSvc.Get(r.Context(), actor, chi.URLParam(r, "orderId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, order)
}

func (h *paymentOrderHandlers) ProcessOrder(w http.ResponseWriter, r *http.Request) {
	var body dto.ProcessOrderInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	actor := middleware.Actor(r.Context())
	order, err := h.OrderSvc.Process(r.Context(), actor, chi.URLParam(r, "orderId"), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, order)
}

func (h *paymentOrderHandlers) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	var body dto.CompleteOrderInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	actor := middleware.Actor(r.Context())
	order, err := h.OrderSvc.Complete(r.Context(), actor, chi.URLParam(r, "orderId"), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, order)
}

func (h *paymentOrderHandlers) FailOrder(w http.ResponseWriter, r *http.Request) {
	var body dto.FailOrderInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	actor := middleware.Actor(r.Context())
	order, err := h.OrderSvc.Fail(r.Context(), actor, chi.URLParam(r, "orderId"), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, order)
}
