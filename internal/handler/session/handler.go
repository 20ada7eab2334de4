package session

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/volleykb/assistant/backend/internal/log"
	sessionstore "github.com/volleykb/assistant/backend/internal/session"
	"github.com/volleykb/assistant/backend/pkg/utils"
)

// Handler exposes session history lookup and deletion.
type Handler struct {
	sessions *sessionstore.Manager
	logger   log.Logger
}

// New creates the session handler.
func New(sessions *sessionstore.Manager, logger log.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

// RegisterRoutes registers session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions/{sessionID}", h.handleGet)
	r.Delete("/sessions/{sessionID}", h.handleDelete)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.sessions.Store().Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		h.logger.Error("failed to load session", "session_id", sessionID, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	utils.RespondJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	deleted, err := h.sessions.Store().Delete(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to delete session", "session_id", sessionID, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	if !deleted {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "session deleted successfully"})
}
