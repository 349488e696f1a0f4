package middleware

import (
	"context"
	"net/http"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/pkg/logger"
)

const BankKey contextKey = "bank"

type apiKeyAuthenticator interface {
	Authenticate(ctx context.Context, apiKey string) (*models.BankIntegration, error)
}

type apiKeyMiddleware struct {
	vault apiKeyAuthenticator
}

func NewAPIKeyMiddleware(vault apiKeyAuthenticator) *apiKeyMiddleware {
	return &apiKeyMiddleware{vault: vault}
}

// APIKeyAuth authenticates the bank pull API via the X-API-Key header and
// attaches the resolved integration to the context.
func (m *apiKeyMiddleware) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")

		bi, err := m.vault.Authenticate(r.Context(), apiKey)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Warn("api key authentication failed", "error", err)
			http.Error(w, "invalid api key", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), BankKey, bi)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Bank returns the authenticated integration, or nil outside the pull API.
func Bank(ctx context.Context) *models.BankIntegration {
	bi, _ := ctx.Value(BankKey).(*models.BankIntegration)
	return bi
}
