package answer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/volleykb/assistant/backend/internal/log"
	"github.com/volleykb/assistant/backend/internal/model/kb"
	sessionmodel "github.com/volleykb/assistant/backend/internal/model/session"
	answersvc "github.com/volleykb/assistant/backend/internal/service/answer"
	sessionstore "github.com/volleykb/assistant/backend/internal/session"
	"github.com/volleykb/assistant/backend/pkg/utils"
)

// maxQuestionLength bounds accepted questions, matching the public API
// contract.
const maxQuestionLength = 1000

// Handler serves the main question-answering endpoint. It ties a question
// to a session, runs the pipeline and appends the finished turn. Turn
// append order across concurrent requests on one session follows
// completion order, not submission order.
type Handler struct {
	pipeline *answersvc.Service
	sessions *sessionstore.Manager
	logger   log.Logger
}

// New creates the answer handler.
func New(pipeline *answersvc.Service, sessions *sessionstore.Manager, logger log.Logger) *Handler {
	return &Handler{pipeline: pipeline, sessions: sessions, logger: logger}
}

// RegisterRoutes registers the ask endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/ask", h.handleAsk)
}

type askRequest struct {
	UserID    string `json:"user_id,omitempty"`
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

type askResponse struct {
	Answer     string         `json:"answer"`
	SessionID  string         `json:"session_id"`
	Sources    []kb.SourceRef `json:"sources"`
	Confidence float64        `json:"confidence"`
	Timestamp  string         `json:"timestamp"`
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var payload askRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Question) == "" {
		// Rejected before the pipeline is ever invoked.
		utils.RespondError(w, http.StatusBadRequest, "question cannot be empty")
		return
	}
	if len([]rune(payload.Question)) > maxQuestionLength {
		utils.RespondError(w, http.StatusBadRequest, "question too long")
		return
	}

	ctx := r.Context()
	sessionID := h.sessions.ResolveOrCreate(ctx, payload.SessionID)

	h.logger.Info("processing question", "session_id", sessionID, "user_id", payload.UserID)
	result := h.pipeline.Answer(ctx, payload.Question)

	h.appendTurn(ctx, sessionID, payload.Question, result.Answer)

	utils.RespondJSON(w, http.StatusOK, askResponse{
		Answer:     result.Answer,
		SessionID:  sessionID,
		Sources:    result.Sources,
		Confidence: result.Confidence,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

// appendTurn records the finished exchange. The session is re-read rather
// than cached across the pipeline call so a TTL expiry mid-request just
// recreates an empty history instead of failing the response.
func (h *Handler) appendTurn(ctx context.Context, sessionID, question, answerText string) {
	store := h.sessions.Store()

	sess, err := store.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, sessionstore.ErrNotFound) {
			h.logger.Error("failed to read session for append", "session_id", sessionID, "error", err)
		}
		sess = sessionmodel.New(sessionID)
	}

	sess.Append(question, answerText)
	if err := store.Put(ctx, sessionID, sess); err != nil {
		h.logger.Error("failed to store session turn", "session_id", sessionID, "error", err)
	}
}
