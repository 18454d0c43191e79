package session

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheBackend keeps every session in process memory. Sessions expire after ttl
// without access.
type CacheBackend struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewCacheBackend creates an in-memory backend that purges expired sessions every
// ten minutes.
func NewCacheBackend(ttl time.Duration) *CacheBackend {
	return &CacheBackend{cache: cache.New(ttl, 10*time.Minute)}
}

// Open returns the store of one session. Opening never fails; an unknown id is an
// empty session.
func (b *CacheBackend) Open(sessionID string) Store {
	return &cacheStore{backend: b, id: sessionID}
}

// values returns the session map and pushes its expiry forward. Callers hold b.mu.
func (b *CacheBackend) values(id string) map[string]string {
	m := map[string]string{}
	if x, found := b.cache.Get(id); found {
		m = x.(map[string]string)
	}
	b.cache.Set(id, m, cache.DefaultExpiration)
	return m
}

type cacheStore struct {
	backend *CacheBackend
	id      string
}

func (s *cacheStore) Get(_ context.Context, key string) (string, bool, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	v, ok := s.backend.values(s.id)[key]
	return v, ok, nil
}

func (s *cacheStore) Set(_ context.Context, key, value string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	m := cloneValues(s.backend.values(s.id))
	m[key] = value
	s.backend.cache.Set(s.id, m, cache.DefaultExpiration)
	return nil
}

func (s *cacheStore) Remove(_ context.Context, key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	m := cloneValues(s.backend.values(s.id))
	delete(m, key)
	s.backend.cache.Set(s.id, m, cache.DefaultExpiration)
	return nil
}

func (s *cacheStore) Keys(_ context.Context) ([]string, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	return sortedKeys(s.backend.values(s.id)), nil
}
