package callRepository

import (
	"context"
	"sync"
	"time"

	"CallAgent/internal/api/call"
	"CallAgent/internal/entity"

	"github.com/patrickmn/go-cache"
)

type memorySessionStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewMemorySessionStore keeps sessions in process. Sessions idle for longer
// than ttl are dropped, which covers calls whose disconnect was never seen.
func NewMemorySessionStore(ttl time.Duration) SessionStore {
	return &memorySessionStore{
		cache: cache.New(ttl, ttl/2),
	}
}

func (s *memorySessionStore) Put(_ context.Context, session entity.CallSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Set(session.CallID, session.Clone(), cache.DefaultExpiration)
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, callID string) (entity.CallSession, error) {
	v, ok := s.cache.Get(callID)
	if !ok {
		return entity.CallSession{}, call.ErrSessionNotFound
	}
	return v.(entity.CallSession).Clone(), nil
}

func (s *memorySessionStore) AppendTurns(_ context.Context, callID, sessionID string, turns ...entity.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(callID)
	if !ok {
		return call.ErrSessionNotFound
	}

	session := v.(entity.CallSession).Clone()
	if session.SessionID != sessionID {
		return call.ErrSessionNotFound
	}

	session.Turns = append(session.Turns, turns...)
	session.UpdatedAt = time.Now()
	s.cache.Set(callID, session, cache.DefaultExpiration)
	return nil
}

func (s *memorySessionStore) Remove(_ context.Context, callID, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(callID)
	if !ok || v.(entity.CallSession).SessionID != sessionID {
		return false, nil
	}
	s.cache.Delete(callID)
	return true, nil
}
