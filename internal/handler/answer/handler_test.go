package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/volleykb/assistant/backend/internal/config"
	"github.com/volleykb/assistant/backend/internal/index"
	"github.com/volleykb/assistant/backend/internal/log"
	"github.com/volleykb/assistant/backend/internal/model/kb"
	answersvc "github.com/volleykb/assistant/backend/internal/service/answer"
	sessionstore "github.com/volleykb/assistant/backend/internal/session"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(context.Context, string) ([]float64, error) {
	return []float64{1, 0}, nil
}

func (stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = []float64{1, 0}
	}
	return vectors, nil
}

type stubGenerator struct{ reply string }

func (stubGenerator) Name() string { return "stub" }

func (g stubGenerator) Generate(context.Context, string) (string, error) {
	return g.reply, nil
}

func setupRouter(t *testing.T) (*chi.Mux, *sessionstore.Manager) {
	t.Helper()

	ix := &index.Index{}
	for i := 0; i < 3; i++ {
		if err := ix.Add(kb.Chunk{Text: "rotation rules"}, []float64{1, float64(i) * 0.01}); err != nil {
			t.Fatalf("Add err: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "index.gob")
	if err := ix.WriteFile(path); err != nil {
		t.Fatalf("WriteFile err: %v", err)
	}

	loader := index.NewLoader(path, log.NewNop())
	pipeline := answersvc.NewService(
		config.RAGConfig{TopK: 3, IndexFile: path},
		loader,
		stubEmbedder{},
		stubGenerator{reply: "Rotate clockwise after winning the serve."},
		log.NewNop(),
	)
	sessions := sessionstore.NewManagerWithStore(sessionstore.NewMemoryStore(), log.NewNop())

	r := chi.NewRouter()
	New(pipeline, sessions, log.NewNop()).RegisterRoutes(r)
	return r, sessions
}

func postAsk(t *testing.T, r http.Handler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestAskReturnsAnswerAndSession(t *testing.T) {
	r, _ := setupRouter(t)

	resp := postAsk(t, r, map[string]string{"question": "How does rotation work?"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result askResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if result.Answer != "Rotate clockwise after winning the serve." {
		t.Fatalf("unexpected answer: %q", result.Answer)
	}
	if result.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if result.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %f", result.Confidence)
	}
	if len(result.Sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(result.Sources))
	}
}

func TestAskAppendsTurn(t *testing.T) {
	r, sessions := setupRouter(t)

	resp := postAsk(t, r, map[string]string{"question": "First question?"})
	var first askResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &first)

	resp = postAsk(t, r, map[string]string{
		"question":   "Second question?",
		"session_id": first.SessionID,
	})
	var second askResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &second)

	if second.SessionID != first.SessionID {
		t.Fatalf("expected session continuity, got %q then %q", first.SessionID, second.SessionID)
	}

	sess, err := sessions.Store().Get(context.Background(), first.SessionID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if len(sess.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(sess.Turns))
	}
	if sess.Turns[0].Question != "First question?" || sess.Turns[1].Question != "Second question?" {
		t.Fatalf("turn order wrong: %v", sess.Turns)
	}
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	r, _ := setupRouter(t)

	for _, question := range []string{"", "   "} {
		resp := postAsk(t, r, map[string]string{"question": question})
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", question, resp.Code)
		}
	}
}

func TestAskRejectsInvalidBody(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader([]byte("{not json")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestAskUnknownSessionGetsFreshOne(t *testing.T) {
	r, _ := setupRouter(t)

	resp := postAsk(t, r, map[string]string{
		"question":   "Question?",
		"session_id": "expired-or-bogus",
	})

	var result askResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &result)
	if result.SessionID == "expired-or-bogus" || result.SessionID == "" {
		t.Fatalf("expected minted session id, got %q", result.SessionID)
	}
}
