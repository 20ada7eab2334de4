package session

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/volleykb/assistant/backend/internal/config"
	"github.com/volleykb/assistant/backend/internal/log"
	"github.com/volleykb/assistant/backend/internal/model/session"
)

const keyPrefix = "session:"

// RedisStore is the durable backend. Sessions are stored as JSON under
// "session:<id>" and every write refreshes the 24h TTL.
//
// The connection is established lazily on first use and the outcome is
// cached: a failed first connect permanently disables the backend for the
// process lifetime. There is deliberately no reconnect logic; adding one
// would change observable failover behavior.
type RedisStore struct {
	cfg    config.RedisConfig
	logger log.Logger

	once   sync.Once
	client *redis.Client
	preset *redis.Client
}

// NewRedisStore creates a store that dials cfg on first use.
func NewRedisStore(cfg config.RedisConfig, logger log.Logger) *RedisStore {
	return &RedisStore{cfg: cfg, logger: logger}
}

// NewRedisStoreWithClient wraps an already-connected client. Used by tests.
func NewRedisStoreWithClient(client *redis.Client, logger log.Logger) *RedisStore {
	return &RedisStore{preset: client, logger: logger}
}

// conn returns the cached client, dialing once on first call. A nil return
// means the backend is disabled for the rest of the process lifetime.
func (s *RedisStore) conn(ctx context.Context) *redis.Client {
	s.once.Do(func() {
		if s.preset != nil {
			s.client = s.preset
			return
		}

		opts := &redis.Options{
			Addr:         s.cfg.Addr(),
			Password:     s.cfg.Password,
			DB:           s.cfg.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
		if s.cfg.TLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}

		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			s.logger.Warn("redis connection failed, durable sessions disabled", "addr", s.cfg.Addr(), "error", err)
			_ = client.Close()
			return
		}
		s.logger.Info("connected to redis", "addr", s.cfg.Addr())
		s.client = client
	})
	return s.client
}

func (s *RedisStore) Get(ctx context.Context, id string) (*session.Session, error) {
	client := s.conn(ctx)
	if client == nil {
		return nil, ErrBackendUnavailable
	}

	data, err := client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrBackendUnavailable, id, err)
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupt payload, not a backend outage; do not trigger failover.
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &sess, nil
}

func (s *RedisStore) Put(ctx context.Context, id string, sess *session.Session) error {
	client := s.conn(ctx)
	if client == nil {
		return ErrBackendUnavailable
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}

	if err := client.Set(ctx, keyPrefix+id, data, TTL).Err(); err != nil {
		return fmt.Errorf("%w: put %s: %v", ErrBackendUnavailable, id, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	client := s.conn(ctx)
	if client == nil {
		return false, ErrBackendUnavailable
	}

	deleted, err := client.Del(ctx, keyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("%w: delete %s: %v", ErrBackendUnavailable, id, err)
	}
	return deleted > 0, nil
}

// Ping probes the durable backend for the health endpoint. It reuses the
// cached connection decision and never re-dials after a failed connect.
func (s *RedisStore) Ping(ctx context.Context) error {
	client := s.conn(ctx)
	if client == nil {
		return ErrBackendUnavailable
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrBackendUnavailable, err)
	}
	return nil
}
