package health

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/volleykb/assistant/backend/internal/index"
	"github.com/volleykb/assistant/backend/internal/log"
	sessionstore "github.com/volleykb/assistant/backend/internal/session"
	"github.com/volleykb/assistant/backend/pkg/utils"
)

// Handler serves liveness and readiness probes.
type Handler struct {
	loader   *index.Loader
	sessions *sessionstore.Manager
	logger   log.Logger
}

// New creates the health handler.
func New(loader *index.Loader, sessions *sessionstore.Manager, logger log.Logger) *Handler {
	return &Handler{loader: loader, sessions: sessions, logger: logger}
}

// RegisterRoutes registers both probes: /api/health is a shallow liveness
// check, /health additionally verifies the knowledge base and reports the
// Redis connection state.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/health", h.handleLiveness)
	r.Get("/health", h.handleReadiness)
}

type healthResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	RedisStatus string `json:"redis_status,omitempty"`
	Timestamp   string `json:"timestamp"`
}

func (h *Handler) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Message:   "volleyball assistant API is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReadiness attempts an index load and a durable-backend ping. An
// unloadable knowledge base makes the service not ready; a missing Redis
// backend is only reported, since sessions degrade to memory.
func (h *Handler) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if _, err := h.loader.Load(); err != nil {
		h.logger.Error("health check failed", "error", err)
		utils.RespondError(w, http.StatusServiceUnavailable, fmt.Sprintf("system not ready: %v", err))
		return
	}

	redisStatus := "not configured (using in-memory)"
	if h.sessions.DurableConfigured() {
		if err := h.sessions.PingDurable(r.Context()); err != nil {
			redisStatus = fmt.Sprintf("disconnected: %v (using fallback)", err)
		} else {
			redisStatus = "connected"
		}
	}

	utils.RespondJSON(w, http.StatusOK, healthResponse{
		Status:      "healthy",
		Message:     fmt.Sprintf("system is operational, knowledge base loaded, redis: %s", redisStatus),
		RedisStatus: redisStatus,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}
