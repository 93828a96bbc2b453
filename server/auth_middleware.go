package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/jrsteele09/go-portfolio-client/token/jwt"
	"github.com/jrsteele09/go-portfolio-client/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyClaims stores the verified access token claims
	ContextKeyClaims ContextKey = "claims"
)

// RequireSession rejects requests without a valid accessToken cookie using
// the configured session-expired status, which is what prompts clients to
// call the refresh endpoint.
func (s *Server) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.Verify(cookieValue(r, model.AccessTokenCookie))
		if err != nil {
			s.log.Debug().Err(err).Str("path", r.URL.Path).Msg("session rejected")
			writeFailure(w, s.config.GetSessionExpiredStatus(), "Access denied")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyClaims, claims)))
	}
}

// RequireAdmin must run after RequireSession.
func (s *Server) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok || !claims.HasRole(string(users.RoleAdmin)) {
			writeFailure(w, http.StatusForbidden, "Admin role required")
			return
		}
		next(w, r)
	}
}

// ClaimsFromContext returns the claims RequireSession stored on the request.
func ClaimsFromContext(ctx context.Context) (*jwt.AccessClaims, bool) {
	claims, ok := ctx.Value(ContextKeyClaims).(*jwt.AccessClaims)
	return claims, ok
}
