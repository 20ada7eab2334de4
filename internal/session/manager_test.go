package session

import (
	"context"
	"testing"

	"github.com/volleykb/assistant/backend/internal/config"
	"github.com/volleykb/assistant/backend/internal/log"
	"github.com/volleykb/assistant/backend/internal/model/session"
)

func TestResolveOrCreateEchoesExistingID(t *testing.T) {
	mgr := NewManagerWithStore(NewMemoryStore(), log.NewNop())
	ctx := context.Background()

	if err := mgr.Store().Put(ctx, "existing", session.New("existing")); err != nil {
		t.Fatalf("Put err: %v", err)
	}

	if got := mgr.ResolveOrCreate(ctx, "existing"); got != "existing" {
		t.Fatalf("expected idempotent join, got %q", got)
	}
}

func TestResolveOrCreateMintsNewID(t *testing.T) {
	mgr := NewManagerWithStore(NewMemoryStore(), log.NewNop())
	ctx := context.Background()

	fromEmpty := mgr.ResolveOrCreate(ctx, "")
	if fromEmpty == "" {
		t.Fatal("expected minted identifier for empty id")
	}

	fromUnknown := mgr.ResolveOrCreate(ctx, "never-stored")
	if fromUnknown == "" || fromUnknown == "never-stored" {
		t.Fatalf("expected fresh identifier for unknown id, got %q", fromUnknown)
	}

	// The minted session must exist with an empty history and a creation
	// timestamp.
	sess, err := mgr.Store().Get(ctx, fromEmpty)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if len(sess.Turns) != 0 {
		t.Fatalf("expected empty turn history, got %d turns", len(sess.Turns))
	}
	if sess.CreatedAt.IsZero() {
		t.Fatal("expected creation timestamp")
	}
}

func TestManagerMemoryOnlyWhenRedisUnconfigured(t *testing.T) {
	mgr := NewManager(config.RedisConfig{}, log.NewNop())

	if mgr.DurableConfigured() {
		t.Fatal("expected memory-only manager without redis host")
	}

	ctx := context.Background()
	id := mgr.ResolveOrCreate(ctx, "")
	if _, err := mgr.Store().Get(ctx, id); err != nil {
		t.Fatalf("memory-only round trip failed: %v", err)
	}
}
