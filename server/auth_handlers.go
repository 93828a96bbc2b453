package server

import (
	"net/http"

	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
	"github.com/jrsteele09/go-portfolio-client/model"
)

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, s.log, err)
			return
		}
		tokens, user, err := s.auth.Authenticate(req)
		s.metrics.logins.WithLabelValues(result(err)).Inc()
		if err != nil {
			s.log.Info().Str("email", req.Email).Err(err).Msg("login failed")
			writeError(w, s.log, err)
			return
		}
		s.setAccessCookie(w, r, tokens.AccessToken)
		s.setRefreshCookie(w, r, tokens.RefreshToken)
		s.log.Info().Str("email", user.Email).Msg("logged in")
		writeJSON(w, http.StatusOK, model.AuthResponse{Token: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
	}
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, s.log, err)
			return
		}
		tokens, _, err := s.auth.Register(req)
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		s.setAccessCookie(w, r, tokens.AccessToken)
		s.setRefreshCookie(w, r, tokens.RefreshToken)
		writeJSON(w, http.StatusOK, model.AuthResponse{Token: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
	}
}

// RefreshHandler issues a new access cookie. A missing or unusable refresh
// cookie answers 403 with no body.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		access, err := s.auth.Refresh(cookieValue(r, model.RefreshTokenCookie))
		s.metrics.refreshes.WithLabelValues(result(err)).Inc()
		if err != nil {
			s.log.Debug().Err(err).Msg("refresh rejected")
			w.WriteHeader(http.StatusForbidden)
			return
		}
		s.setAccessCookie(w, r, access)
		writeJSON(w, http.StatusOK, model.AuthResponse{Token: access})
	}
}

// LogoutHandler always clears both cookies, whatever state they were in.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.auth.Logout(cookieValue(r, model.AccessTokenCookie), cookieValue(r, model.RefreshTokenCookie))
		s.clearSessionCookies(w, r)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeFailure(w, s.config.GetSessionExpiredStatus(), "Access denied")
			return
		}
		user, err := s.users.GetByID(claims.Subject)
		if err != nil {
			writeError(w, s.log, perrors.Wrapf(perrors.ErrUserNotFound, "%v", err))
			return
		}
		writeJSON(w, http.StatusOK, model.CurrentUser{
			Email:    user.Email,
			Username: user.Username(),
			Roles:    user.RoleNames(),
		})
	}
}
