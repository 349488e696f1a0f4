package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/dto"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/errs"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/middleware"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/response"
)

type OfferService interface {
	Create(ctx context.Context, actor *models.User, listingID string, in dto.CreateOfferInput) (*models.Offer, error)
	Respond(ctx context.Context, actor *models.User, offerID string, in dto.OfferStatusInput) (*dto.AcceptResult, error)
	Counter(ctx context.Context, actor *models.User, offerID string, in dto.CounterOfferInput) (*models.Offer, error)
	RespondToCounter(ctx context.Context, actor *models.User, offerID string, in dto.CounterResponseInput) (*dto.AcceptResult, error)
	Cancel(ctx context.Context, actor *models.User, offerID string) error
	ListMine(ctx context.Context, actor *models.User) ([]*models.Offer, error)
	GetForActor(ctx context.Context, actor *models.User, offerID string) (*models.Offer, error)
}

type offerHandlers struct {
	ResponseHandler response.ResponseHandler
	OfferSvc        OfferService
}

func NewOfferHandlers(deps *Deps) *offerHandlers {
	return &offerHandlers{
		ResponseHandler: deps.ResponseHandler,
		OfferSvc:        deps.OfferSvc,
	}
}

func (h *offerHandlers) OfferRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListOffers)
	r.Post("/{listingId}", h.CreateOffer)
	r.Get("/{offerId}", h.GetOffer)
	r.Put("/{offerId}/status", h.RespondToOffer)
	r.Post("/{offerId}/counter", h.CounterOffer)
	r.Post("/{offerId}/counter-response", h.RespondToCounter)
	r.Delete("/{offerId}", h.CancelOffer)
	return r
}

func (h *offerHandlers) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateOfferInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	actor := middleware.Actor(r.Context())
	offer, err := h.OfferSvc.Create(r.Context(), actor, chi.URLParam(r, "listingId"), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, offer)
}

func (h *offerHandlers) ListOffers(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r.Context())
	offers, err := h.OfferSvc.ListMine(r.Context(), actor)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, offers)
}

func (h *offerHandlers) GetOffer(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r.Context())
	offer, err := h.OfferSvc.GetForActor(r.Context(), actor, chi.URLParam(r, "offerId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, offer)
}

func (h *offerHandlers) RespondToOffer(w http.ResponseWriter, r *http.Request) {
	var body dto.OfferStatusInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	actor := middleware.Actor(r.Context())
	result, err := h.OfferSvc.Respond(r.Context(), actor, chi.URLParam(r, "offerId"), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *offerHandlers) CounterOffer(w http.ResponseWriter, r *http.Request) {
	var body dto.CounterOfferInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	actor := middleware.Actor(r.Context())
	counter, err := h.OfferSvc.Counter(r.Context(), actor, chi.URLParam(r, "offerId"), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, counter)
}

func (h *offerHandlers) RespondToCounter(w http.ResponseWriter, r *http.Request) {
	var body dto.CounterResponseInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	actor := middleware.Actor(r.Context())
	result, err := h.OfferSvc.RespondToCounter(r.Context(), actor, chi.URLParam(r, "offerId"), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *offerHandlers) CancelOffer(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r.Context())
	if err := h.OfferSvc.Cancel(r.Context(), actor, chi.URLParam(r, "offerId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
