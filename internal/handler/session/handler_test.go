package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/volleykb/assistant/backend/internal/log"
	sessionmodel "github.com/volleykb/assistant/backend/internal/model/session"
	sessionstore "github.com/volleykb/assistant/backend/internal/session"
)

func setupRouter(t *testing.T) (*chi.Mux, *sessionstore.Manager) {
	t.Helper()
	sessions := sessionstore.NewManagerWithStore(sessionstore.NewMemoryStore(), log.NewNop())
	r := chi.NewRouter()
	New(sessions, log.NewNop()).RegisterRoutes(r)
	return r, sessions
}

func TestGetSession(t *testing.T) {
	r, sessions := setupRouter(t)

	sess := sessionmodel.New("abc")
	sess.Append("question", "answer")
	if err := sessions.Store().Put(context.Background(), "abc", sess); err != nil {
		t.Fatalf("Put err: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/sessions/abc", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got sessionmodel.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if got.ID != "abc" || len(got.Turns) != 1 {
		t.Fatalf("unexpected session payload: %+v", got)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/sessions/missing", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	r, sessions := setupRouter(t)

	if err := sessions.Store().Put(context.Background(), "abc", sessionmodel.New("abc")); err != nil {
		t.Fatalf("Put err: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/sessions/abc", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/sessions/abc", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", resp.Code)
	}
}
