package server

import (
	"encoding/json"
	"io"
	"net/http"

	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/rs/zerolog"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeSuccess wraps data in a SUCCESS envelope.
func writeSuccess(w http.ResponseWriter, message string, data any) {
	env, err := model.Success(message, data)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.Failure(message))
}

// writeError maps a service error onto a status and an ERROR envelope.
func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	writeFailure(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case perrors.Is(err, perrors.ErrNotFound), perrors.Is(err, perrors.ErrUserNotFound):
		return http.StatusNotFound
	case perrors.Is(err, perrors.ErrInvalidRequest):
		return http.StatusBadRequest
	case perrors.Is(err, perrors.ErrConflict):
		return http.StatusConflict
	case perrors.Is(err, perrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case perrors.Is(err, perrors.ErrUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return perrors.Wrapf(perrors.ErrInvalidRequest, "reading body: %v", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return perrors.Wrapf(perrors.ErrInvalidRequest, "decoding body: %v", err)
	}
	return nil
}
