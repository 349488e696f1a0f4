package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/handlers"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/middleware"
	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	authmw := middleware.NewMiddleware(deps.Firebase)
	actormw := middleware.NewActorMiddleware(deps.UserSvc)
	apikeymw := middleware.NewAPIKeyMiddleware(deps.CredentialSvc)

	ush := handlers.NewUserHandlers(deps)
	ofh := handlers.NewOfferHandlers(deps)
	trh := handlers.NewTradeHandlers(deps)
	poh := handlers.NewPaymentOrderHandlers(deps)
	bih := handlers.NewBankIntegrationHandlers(deps)
	nth := handlers.NewNotificationHandlers(deps)
	bah := handlers.NewBankAPIHandlers(deps)

	// register runs before a profile exists, so no actor resolution
	r.Group(func(r chi.Router) {
		r.Use(authmw.FirebaseAuth)
		r.Mount("/users", ush.UserRoutes())
	})

	r.Group(func(r chi.Router) {
		r.Use(authmw.FirebaseAuth)
		r.Use(actormw.LoadActor)

		r.Mount("/offers", ofh.OfferRoutes())
		r.Mount("/trades", trh.TradeRoutes())
		r.Mount("/payment-orders", poh.PaymentOrderRoutes())
		r.Mount("/notifications", nth.NotificationRoutes())

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleBank))
			r.Mount("/bank-integration", bih.BankIntegrationRoutes())
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(apikeymw.APIKeyAuth)
		r.Mount("/bank", bah.BankAPIRoutes())
	})

	return r
}
