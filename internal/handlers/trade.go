package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/middleware"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/response"
)

type TradeService interface {
	ListMine(ctx context.Context, actor *models.User) ([]*models.Trade, error)
	GetForActor(ctx context.Context, actor *models.User, tradeID string) (*models.Trade, error)
}

type tradeHandlers struct {
	ResponseHandler response.ResponseHandler
	TradeSvc        TradeService
}

func NewTradeHandlers(deps *Deps) *tradeHandlers {
	return &tradeHandlers{
		ResponseHandler: deps.ResponseHandler,
		TradeSvc:        deps.TradeSvc,
	}
}

func (h *tradeHandlers) TradeRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTrades)
	r.Get("/{tradeId}", h.GetTrade)
	return r
}

func (h *tradeHandlers) ListTrades(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r.Context())
	trades, err := h.TradeSvc.ListMine(r.Context(), actor)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, trades)
}

func (h *tradeHandlers) GetTrade(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r.Context())
	trade, err := h.TradeSvc.GetForActor(r.Context(), actor, chi.URLParam(r, "tradeId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, trade)
}
