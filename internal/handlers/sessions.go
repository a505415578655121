package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/welltechai/thinksync-service/internal/middleware"
	"github.com/welltechai/thinksync-service/internal/models"
	"github.com/welltechai/thinksync-service/internal/services"
)

// SessionsHandler serves therapy session submission and listing
type SessionsHandler struct {
	notes *services.NotesService
}

// NewSessionsHandler creates a new sessions handler
func NewSessionsHandler(notes *services.NotesService) *SessionsHandler {
	return &SessionsHandler{notes: notes}
}

// CreateSession submits a session record and returns its generated summary
func (h *SessionsHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.notes.CreateSession(r.Context(), claims.UserID, req, requestOrigin(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"session_id": result.Session.ID,
		"message":    "Session processed successfully",
		"document":   result.Document,
	})
}

// ListSessions returns the caller's session records
func (h *SessionsHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	sessions, err := h.notes.ListSessions(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"sessions": sessions,
		"total":    len(sessions),
	})
}
