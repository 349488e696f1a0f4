package middleware

import (
	"context"
	"net/http"

	"github.com/felipeboubee/agro-marketplace-sub001/internal/models"
	"github.com/felipeboubee/agro-marketplace-sub001/pkg/logger"
)

const ActorKey contextKey = "actor"

type userLookup interface {
	Get(ctx context.Context, uid string) (*models.User, error)
}

type actorMiddleware struct {
	users userLookup
}

func NewActorMiddleware(users userLookup) *actorMiddleware {
	return &actorMiddleware{users: users}
}

// LoadActor resolves the authenticated UID to the platform user and its
// role. Must run after FirebaseAuth.
func (m *actorMiddleware) LoadActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := UID(r.Context())
		if uid == "" {
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}

		user, err := m.users.Get(r.Context(), uid)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Warn("failed to load actor", "error", err)
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ActorKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects callers whose resolved role differs.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := Actor(r.Context())
			if actor == nil || actor.Role != role {
				http.Error(w, "insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Actor returns the resolved user, or nil outside the actor chain.
func Actor(ctx context.Context) *models.User {
	actor, _ := ctx.Value(ActorKey).(*models.User)
	return actor
}
