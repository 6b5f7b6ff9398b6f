package state

import (
	"sync"
	"time"

	"github.com/stackit/interaction/internal/domain"
)

// DefaultSessionTTL is the idle lifetime of a session when none is
// configured.
const DefaultSessionTTL = 24 * time.Hour

// Store holds the live sessions keyed by bearer token. Sessions are
// independent copies of interaction state; they are never shared and may
// diverge. Consistency between them exists only through the upstream
// service.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time

	anonOnce sync.Once
	anon     *Session
}

// StoreConfig configures a session store.
type StoreConfig struct {
	// TTL is the idle lifetime after which a session is evicted.
	// Zero means DefaultSessionTTL.
	TTL time.Duration
}

// NewStore creates an empty session store.
func NewStore(cfg StoreConfig) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a session for the given token, replacing any previous
// session under the same token.
func (st *Store) Create(token string, user *domain.User) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	session := NewSession(token, user)
	session.lastSeen = st.now()
	st.sessions[token] = session
	st.evictExpiredLocked()

	return session
}

// Get returns the session for a token, or nil when the token is unknown
// or the session has idled out.
func (st *Store) Get(token string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[token]
	if !ok {
		return nil
	}

	if st.now().Sub(session.lastSeen) > st.ttl {
		delete(st.sessions, token)
		return nil
	}

	session.lastSeen = st.now()

	return session
}

// Anonymous returns the shared anonymous session used by requests that
// carry no credential. It has no user and no token, never expires, and
// is not tracked in the session map.
func (st *Store) Anonymous() *Session {
	st.anonOnce.Do(func() {
		st.anon = NewSession("", nil)
	})

	return st.anon
}

// Delete removes a session, ending it locally. The upstream credential
// is untouched.
func (st *Store) Delete(token string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	delete(st.sessions, token)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return len(st.sessions)
}

// evictExpiredLocked drops idled-out sessions. Must be called with the
// lock held.
func (st *Store) evictExpiredLocked() {
	cutoff := st.now().Add(-st.ttl)

	for token, session := range st.sessions {
		if session.lastSeen.Before(cutoff) {
			delete(st.sessions, token)
		}
	}
}
