package port

import (
	"time"

	"github.com/FocusFish/USM/internal/core/domain"
)

// SessionStore tracks active user sessions. Implementations must be safe
// for concurrent use by request threads and the eviction sweep.
type SessionStore interface {
	// CreateSession stores the session and returns its assigned unique id.
	CreateSession(session domain.UserSession) (string, error)

	// ReadSession returns the session with the given id, or nil.
	ReadSession(sessionID string) *domain.UserSession

	// ReadSessions returns the sessions of a user, optionally restricted
	// to those created after startedAfter.
	ReadSessions(userName string, startedAfter *time.Time) []domain.UserSession

	// DeleteSession removes the session with the given id, if present.
	DeleteSession(sessionID string)

	// DeleteSessions removes all sessions. Idempotent.
	DeleteSessions()

	// ExpiredSessions returns the ids of sessions created before the
	// cutoff, snapshotted so callers may delete while iterating.
	ExpiredSessions(cutoff time.Time) []string
}
