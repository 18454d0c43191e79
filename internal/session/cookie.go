package session

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gorilla/sessions"
)

// cookieValuePrefix keeps wizard values apart from other data in the gorilla session.
const cookieValuePrefix = "kv."

// CookieStore keeps values in a gorilla session, so the whole context travels in
// the signed cookie of the browser. The caller persists the session once the
// request is done; Modified reports whether that is needed.
type CookieStore struct {
	mu       sync.Mutex
	sess     *sessions.Session
	modified bool
}

// NewCookieStore wraps the gorilla session of the current request.
func NewCookieStore(sess *sessions.Session) *CookieStore {
	return &CookieStore{sess: sess}
}

func (s *CookieStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sess.Values[cookieValuePrefix+key].(string)
	return v, ok, nil
}

func (s *CookieStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess.Values[cookieValuePrefix+key] = value
	s.modified = true
	return nil
}

func (s *CookieStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sess.Values[cookieValuePrefix+key]; ok {
		delete(s.sess.Values, cookieValuePrefix+key)
		s.modified = true
	}
	return nil
}

func (s *CookieStore) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.sess.Values {
		name, ok := k.(string)
		if !ok || !strings.HasPrefix(name, cookieValuePrefix) {
			continue
		}
		keys = append(keys, strings.TrimPrefix(name, cookieValuePrefix))
	}
	sort.Strings(keys)
	return keys, nil
}

// Modified reports whether any value changed since the store was created.
func (s *CookieStore) Modified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modified
}
