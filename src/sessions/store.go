// Package sessions keeps server-side login sessions. The browser only holds
// a random session id; the account id lives in the store.
package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	redis_utils "finance/src/utils/redis"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	// Create starts a session for accountID and returns its id.
	Create(ctx context.Context, accountID int64, ttl time.Duration) (string, error)
	// Get returns the account id of a live session or ErrNotFound.
	Get(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

const redisKeyPrefix = "session:"

type redisStore struct {
	handler *redis_utils.RedisHandler
}

func NewRedisStore(handler *redis_utils.RedisHandler) Store {
	return &redisStore{handler: handler}
}

type sessionData struct {
	AccountID int64 `json:"account_id"`
}

func (s *redisStore) Create(ctx context.Context, accountID int64, ttl time.Duration) (string, error) {
	id := uuid.NewString()
	if err := s.handler.Set(ctx, redisKeyPrefix+id, sessionData{AccountID: accountID}, ttl); err != nil {
		return "", err
	}
	return id, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (int64, error) {
	var data sessionData
	err := s.handler.Get(ctx, redisKeyPrefix+id, &data)
	if errors.Is(err, redis_utils.ErrKeyNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return data.AccountID, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.handler.Delete(ctx, redisKeyPrefix+id)
}

type memorySession struct {
	accountID int64
	expires   time.Time
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

// NewMemoryStore returns a process-local store. Sessions do not survive a
// restart and are not shared between instances.
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (s *memoryStore) Create(_ context.Context, accountID int64, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	session := memorySession{accountID: accountID}
	if ttl > 0 {
		session.expires = s.now().Add(ttl)
	}
	s.sessions[id] = session
	return id, nil
}

func (s *memoryStore) Get(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return 0, ErrNotFound
	}
	if !session.expires.IsZero() && s.now().After(session.expires) {
		delete(s.sessions, id)
		return 0, ErrNotFound
	}
	return session.accountID, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}
