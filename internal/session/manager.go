package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/volleykb/assistant/backend/internal/config"
	"github.com/volleykb/assistant/backend/internal/log"
	"github.com/volleykb/assistant/backend/internal/model/session"
)

// Manager owns the configured store stack and the session lifecycle
// operations the HTTP layer calls.
type Manager struct {
	store  Store
	redis  *RedisStore
	logger log.Logger
}

// NewManager builds the store stack from configuration: Redis behind the
// failover decorator when configured, plain memory otherwise.
func NewManager(cfg config.RedisConfig, logger log.Logger) *Manager {
	memory := NewMemoryStore()
	if !cfg.Configured() {
		logger.Info("redis not configured, sessions held in memory only")
		return &Manager{store: memory, logger: logger}
	}

	rs := NewRedisStore(cfg, logger)
	return &Manager{
		store:  NewFailoverStore(rs, memory, logger),
		redis:  rs,
		logger: logger,
	}
}

// NewManagerWithStore wraps an explicit store. Used by tests.
func NewManagerWithStore(store Store, logger log.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Store exposes the configured store stack.
func (m *Manager) Store() Store { return m.store }

// ResolveOrCreate returns id unchanged when a session exists for it,
// otherwise mints a new identifier backed by a freshly stored empty
// session. It never fails: absence of the durable backend degrades
// silently to memory semantics.
func (m *Manager) ResolveOrCreate(ctx context.Context, id string) string {
	if id != "" {
		if _, err := m.store.Get(ctx, id); err == nil {
			return id
		}
	}

	newID := uuid.NewString()
	if err := m.store.Put(ctx, newID, session.New(newID)); err != nil {
		m.logger.Error("failed to store new session", "session_id", newID, "error", err)
	}
	return newID
}

// PingDurable probes the Redis backend for health reporting.
// Returns ErrBackendUnavailable when Redis is not configured.
func (m *Manager) PingDurable(ctx context.Context) error {
	if m.redis == nil {
		return ErrBackendUnavailable
	}
	return m.redis.Ping(ctx)
}

// DurableConfigured reports whether a Redis backend was configured at all.
func (m *Manager) DurableConfigured() bool { return m.redis != nil }
