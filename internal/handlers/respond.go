package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/welltechai/thinksync-service/internal/models"
	"github.com/welltechai/thinksync-service/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// writeServiceError maps the service error taxonomy to HTTP statuses with
// stable JSON error strings. Anything unknown becomes a generic 500; the
// detail stays in the server log.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation *services.ValidationError

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, services.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrAccountLocked):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrAccountNotActive):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Error().Err(err).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func requestOrigin(r *http.Request) models.Origin {
	return models.Origin{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
