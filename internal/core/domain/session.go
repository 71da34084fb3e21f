package domain

import "time"

// UserSession tracks an active login session. Sessions are immutable after
// creation; they are only ever deleted (explicitly or by the eviction sweep).
type UserSession struct {
	UniqueID     string    `json:"sessionId"`
	UserName     string    `json:"userName"`
	UserSite     string    `json:"userSite"`
	CreationTime time.Time `json:"creationTime"`
}

// IsOlderThan reports whether the session was created before the cutoff,
// making it eligible for eviction.
func (s UserSession) IsOlderThan(cutoff time.Time) bool {
	return s.CreationTime.Before(cutoff)
}
