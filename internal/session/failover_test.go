package session

import (
	"context"
	"errors"
	"testing"

	"github.com/volleykb/assistant/backend/internal/log"
	"github.com/volleykb/assistant/backend/internal/model/session"
)

// flakyStore fails every operation with the configured error.
type flakyStore struct {
	err   error
	calls int
}

func (s *flakyStore) Get(context.Context, string) (*session.Session, error) {
	s.calls++
	return nil, s.err
}

func (s *flakyStore) Put(context.Context, string, *session.Session) error {
	s.calls++
	return s.err
}

func (s *flakyStore) Delete(context.Context, string) (bool, error) {
	s.calls++
	return false, s.err
}

func TestFailoverFallsBackOnBackendFailure(t *testing.T) {
	primary := &flakyStore{err: ErrBackendUnavailable}
	fallback := NewMemoryStore()
	store := NewFailoverStore(primary, fallback, log.NewNop())
	ctx := context.Background()

	sess := session.New("abc")
	sess.Append("q", "a")

	if err := store.Put(ctx, "abc", sess); err != nil {
		t.Fatalf("Put should fall back, got err: %v", err)
	}

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get should fall back, got err: %v", err)
	}
	if len(got.Turns) != 1 {
		t.Fatalf("fallback lost content: %+v", got)
	}

	deleted, err := store.Delete(ctx, "abc")
	if err != nil || !deleted {
		t.Fatalf("Delete should fall back, got %v err=%v", deleted, err)
	}
}

func TestFailoverTriesPrimaryEveryCall(t *testing.T) {
	primary := &flakyStore{err: ErrBackendUnavailable}
	store := NewFailoverStore(primary, NewMemoryStore(), log.NewNop())
	ctx := context.Background()

	// Demotion is per operation, not permanent: each call hits the
	// primary again.
	_ = store.Put(ctx, "a", session.New("a"))
	_, _ = store.Get(ctx, "a")
	_, _ = store.Delete(ctx, "a")

	if primary.calls != 3 {
		t.Fatalf("expected primary attempted on every call, got %d", primary.calls)
	}
}

func TestFailoverDoesNotMaskNotFound(t *testing.T) {
	primary := &flakyStore{err: ErrNotFound}
	fallback := NewMemoryStore()
	_ = fallback.Put(context.Background(), "abc", session.New("abc"))

	store := NewFailoverStore(primary, fallback, log.NewNop())

	// ErrNotFound from a healthy primary is an answer, not an outage:
	// the fallback copy must not resurrect the session.
	if _, err := store.Get(context.Background(), "abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound to pass through, got %v", err)
	}
}

func TestFailoverDoesNotMaskOtherErrors(t *testing.T) {
	wantErr := errors.New("corrupt payload")
	primary := &flakyStore{err: wantErr}
	store := NewFailoverStore(primary, NewMemoryStore(), log.NewNop())

	if _, err := store.Get(context.Background(), "abc"); !errors.Is(err, wantErr) {
		t.Fatalf("expected unrelated error to pass through, got %v", err)
	}
}
