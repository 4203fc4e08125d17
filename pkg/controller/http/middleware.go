package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/eventworks/taskflow/pkg/domain/model"
)

// ActorResolver maps an authentication token to the acting person and
// event. It stands in for the platform's full authentication service.
type ActorResolver interface {
	Resolve(ctx context.Context, token string) (model.Actor, error)
}

// actorMiddleware authenticates requests and stores the actor in the
// request context
func actorMiddleware(resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver == nil {
				http.Error(w, "Authentication is not configured", http.StatusUnauthorized)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			actor, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				http.Error(w, "Invalid authentication token", http.StatusUnauthorized)
				return
			}

			ctx := model.ContextWithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
