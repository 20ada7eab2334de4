package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	answerhandler "github.com/volleykb/assistant/backend/internal/handler/answer"
	healthhandler "github.com/volleykb/assistant/backend/internal/handler/health"
	sessionhandler "github.com/volleykb/assistant/backend/internal/handler/session"
	"github.com/volleykb/assistant/backend/internal/index"
	"github.com/volleykb/assistant/backend/internal/log"
	middlewarePkg "github.com/volleykb/assistant/backend/internal/middleware"
	answersvc "github.com/volleykb/assistant/backend/internal/service/answer"
	sessionstore "github.com/volleykb/assistant/backend/internal/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(pipeline *answersvc.Service, sessions *sessionstore.Manager, loader *index.Loader, logger log.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	answerhandler.New(pipeline, sessions, logger).RegisterRoutes(r)
	sessionhandler.New(sessions, logger).RegisterRoutes(r)
	healthhandler.New(loader, sessions, logger).RegisterRoutes(r)

	return r
}
