package memory

import (
	"errors"
	"sync"
	"time"

	uuid "github.com/google/uuid"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/core/port"
)

// ErrInvalidSession indicates the session to create is missing a user name.
var ErrInvalidSession = errors.New("memory: session user name is required")

// SessionStore keeps active sessions in a username-keyed map guarded by a
// single coarse lock. Session volume is operationally small, so full scans
// on lookup and eviction are acceptable.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.UserSession
}

// NewSessionStore constructs an empty in-memory session store. The store
// owns its map for the process lifetime; callers inject it rather than
// reaching for a package-level singleton.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string][]domain.UserSession),
	}
}

// CreateSession assigns a unique id, stores the session, and returns the id.
func (s *SessionStore) CreateSession(session domain.UserSession) (string, error) {
	if session.UserName == "" {
		return "", ErrInvalidSession
	}

	session.UniqueID = uuid.NewString()
	if session.CreationTime.IsZero() {
		session.CreationTime = time.Now().UTC()
	}

	s.mu.Lock()
	s.sessions[session.UserName] = append(s.sessions[session.UserName], session)
	s.mu.Unlock()

	return session.UniqueID, nil
}

// ReadSession returns a copy of the session with the given id, or nil.
func (s *SessionStore) ReadSession(sessionID string) *domain.UserSession {
	if sessionID == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, list := range s.sessions {
		for _, item := range list {
			if item.UniqueID == sessionID {
				found := item
				return &found
			}
		}
	}

	return nil
}

// ReadSessions returns the sessions of a user, optionally restricted to
// those created after startedAfter.
func (s *SessionStore) ReadSessions(userName string, startedAfter *time.Time) []domain.UserSession {
	result := make([]domain.UserSession, 0)
	if userName == "" {
		return result
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.sessions[userName] {
		if startedAfter != nil && !item.CreationTime.After(*startedAfter) {
			continue
		}
		result = append(result, item)
	}

	return result
}

// DeleteSession removes the session with the given id, if present.
func (s *SessionStore) DeleteSession(sessionID string) {
	if sessionID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for userName, list := range s.sessions {
		for i, item := range list {
			if item.UniqueID == sessionID {
				s.sessions[userName] = append(list[:i], list[i+1:]...)
				if len(s.sessions[userName]) == 0 {
					delete(s.sessions, userName)
				}
				return
			}
		}
	}
}

// DeleteSessions removes all sessions. Safe to call repeatedly.
func (s *SessionStore) DeleteSessions() {
	s.mu.Lock()
	s.sessions = make(map[string][]domain.UserSession)
	s.mu.Unlock()
}

// ExpiredSessions snapshots the ids of sessions created before the cutoff so
// the eviction sweep can delete without holding the lock across iteration.
func (s *SessionStore) ExpiredSessions(cutoff time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expired := make([]string, 0)
	for _, list := range s.sessions {
		for _, item := range list {
			if item.IsOlderThan(cutoff) {
				expired = append(expired, item.UniqueID)
			}
		}
	}

	return expired
}

var _ port.SessionStore = (*SessionStore)(nil)
