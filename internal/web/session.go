package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/state"
)

// SessionCookie names the cookie carrying the visitor's session id.
const SessionCookie = "setlist_session"

const sessionTTL = 12 * time.Hour

// session is one visitor's browser tab worth of state.
type session struct {
	mu       sync.Mutex
	state    *state.State
	inflight state.Inflight
	lastSeen time.Time
}

// sessionStore keeps sessions in memory; a restart behaves like a page reload.
type sessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*session
	adminCode string
	now       func() time.Time
}

func newSessionStore(adminCode string) *sessionStore {
	return &sessionStore{
		sessions:  make(map[string]*session),
		adminCode: adminCode,
		now:       time.Now,
	}
}

// acquire returns the session named by the request cookie, creating one (and setting the cookie) when needed.
func (s *sessionStore) acquire(w http.ResponseWriter, r *http.Request) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if c, err := r.Cookie(SessionCookie); err == nil {
		if sess, ok := s.sessions[c.Value]; ok {
			sess.lastSeen = now
			return sess
		}
	}

	s.prune(now)

	id := shared.GenerateID()
	sess := &session{state: state.New(s.adminCode), lastSeen: now}
	s.sessions[id] = sess

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// prune drops sessions idle for longer than sessionTTL. Callers hold s.mu.
func (s *sessionStore) prune(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > sessionTTL {
			delete(s.sessions, id)
		}
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
