package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/middleware"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/response"
)

type CertificationService interface {
	ListForBank(ctx context.Context, bankID string, q dto.CertQuery) ([]*models.Certification, error)
	GetForBank(ctx context.Context, bankID, certID string) (*models.Certification, error)
}

// bankAPIHandlers serves the pull API that bank systems poll with their
// issued API key. Certifications are scoped to the issuing bank; payment
// orders are fleet-wide.
type bankAPIHandlers struct {
	ResponseHandler  response.ResponseHandler
	OrderSvc         PaymentOrderService
	CertificationSvc CertificationService
}

func NewBankAPIHandlers(deps *Deps) *bankAPIHandlers {
	return &bankAPIHandlers{
		ResponseHandler:  deps.ResponseHandler,
		OrderSvc:         deps.OrderSvc,
		CertificationSvc: deps.CertificationSvc,
	}
}

func (h *bankAPIHandlers) BankAPIRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/payment-orders", h.PullOrders)
	r.Get("/payment-orders/{orderId}", h.PullOrder)
	r.Get("/certifications", h.PullCertifications)
	r.Get("/certifications/{certId}", h.PullCertification)
	return r
}

func (h *bankAPIHandlers) PullOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.OrderSvc.ListForBank(r.Context(), orderQueryFromRequest(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, orders)
}

func (h *bankAPIHandlers) PullOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.OrderSvc.GetForBank(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, order)
}

func (h *bankAPIHandlers) PullCertifications(w http.ResponseWriter, r *http.Request) {
	bi := middleware.Bank(r.Context())

	q := dto.CertQuery{Status: r.URL.Query().Get("status")}
	if v := r.URL.Query().Get("limit"); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		q.Offset, _ = strconv.Atoi(v)
	}

	certs, err := h.CertificationSvc.ListForBank(r.Context(), bi.BankID, q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, certs)
}

func (h *bankAPIHandlers) PullCertification(w http.ResponseWriter, r *http.Request) {
	bi := middleware.Bank(r.Context())

	cert, err := h.CertificationSvc.GetForBank(r.Context(), bi.BankID, chi.URLParam(r, "certId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, cert)
}
