package session

import (
	"context"
	"errors"

	"github.com/volleykb/assistant/backend/internal/log"
	"github.com/volleykb/assistant/backend/internal/model/session"
)

// FailoverStore tries the durable backend first and retries the single
// failed operation against memory. The demotion is per call: the next call
// goes to the durable backend again. Only ErrBackendUnavailable triggers
// failover; absence and corrupt payloads pass through untouched.
type FailoverStore struct {
	primary  Store
	fallback Store
	logger   log.Logger
}

// NewFailoverStore wires the durable backend in front of the memory one.
func NewFailoverStore(primary, fallback Store, logger log.Logger) *FailoverStore {
	return &FailoverStore{primary: primary, fallback: fallback, logger: logger}
}

func (s *FailoverStore) Get(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.primary.Get(ctx, id)
	if err == nil || !errors.Is(err, ErrBackendUnavailable) {
		return sess, err
	}
	s.demoted("get", id, err)
	return s.fallback.Get(ctx, id)
}

func (s *FailoverStore) Put(ctx context.Context, id string, sess *session.Session) error {
	err := s.primary.Put(ctx, id, sess)
	if err == nil || !errors.Is(err, ErrBackendUnavailable) {
		return err
	}
	s.demoted("put", id, err)
	return s.fallback.Put(ctx, id, sess)
}

func (s *FailoverStore) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := s.primary.Delete(ctx, id)
	if err == nil || !errors.Is(err, ErrBackendUnavailable) {
		return deleted, err
	}
	s.demoted("delete", id, err)
	return s.fallback.Delete(ctx, id)
}

func (s *FailoverStore) demoted(op, id string, err error) {
	s.logger.Warn("durable session backend unavailable, using memory fallback",
		"op", op, "session_id", id, "error", err)
}
