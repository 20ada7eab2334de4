// Package session stores conversation histories behind a single Store
// capability with two interchangeable backends: Redis with a 24h TTL and a
// process-local map. Backend failures never cross the package boundary;
// they degrade to memory semantics and are logged.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/volleykb/assistant/backend/internal/model/session"
)

// TTL is how long a session survives in the durable backend. Every write
// refreshes it. The memory backend never expires entries.
const TTL = 86400 * time.Second

var (
	// ErrNotFound reports an absent session. It is an absence signal,
	// not a backend failure, and never triggers failover.
	ErrNotFound = errors.New("session not found")

	// ErrBackendUnavailable reports that one operation against the
	// durable backend failed. The failover store catches exactly this.
	ErrBackendUnavailable = errors.New("session backend unavailable")
)

// Store is the capability set shared by both backends.
type Store interface {
	// Get returns the session for id or ErrNotFound.
	Get(ctx context.Context, id string) (*session.Session, error)
	// Put stores the session under id, overwriting any previous value.
	Put(ctx context.Context, id string, s *session.Session) error
	// Delete removes the session and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}
