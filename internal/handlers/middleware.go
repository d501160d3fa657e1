package handlers

import (
	"context"
	"net/http"
	"strings"

	"gitlab.com/fcv-2025.net/codearena/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
	"gitlab.com/fcv-2025.net/codearena/internal/handlers/response"
	"gitlab.com/fcv-2025.net/codearena/internal/static/errs"
)

type actorKey struct{}

type MiddlewareProvider struct {
	jwtService primary.JWTService
	logger     primary.Logger
}

func New(jwtService primary.JWTService, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		jwtService: jwtService,
		logger:     logger,
	}
}

// JWTMiddleware rejects requests without a valid bearer token and stores the
// caller as a domain.Actor on the request context.
func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.WriteAppError(w, m.logger, errs.MissingToken)
			return
		}

		// Extract token from "Bearer <token>"
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			response.WriteAppError(w, m.logger, errs.InvalidToken)
			return
		}

		payload, err := m.jwtService.ParseTokenHMAC(r.Context(), tokenString)
		if err != nil {
			m.logger.Debug("Rejected token", "error", err)
			response.WriteAppError(w, m.logger, errs.InvalidToken)
			return
		}

		actor, err := payload.Actor()
		if err != nil {
			response.WriteAppError(w, m.logger, errs.InvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the caller set by JWTMiddleware.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}
