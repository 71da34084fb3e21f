package domain

import "time"

// LoginEvent captures the outcome of an authentication attempt for the
// audit log.
type LoginEvent struct {
	EventID    string
	UserName   string
	Succeeded  bool
	StatusCode int
	Locked     bool
	At         time.Time
	Metadata   map[string]any
}

// SessionEvent captures session lifecycle changes for the audit log.
type SessionEvent struct {
	EventID   string
	SessionID string
	UserName  string
	Kind      string
	At        time.Time
}

// AdministrationEvent captures administrative cache operations.
type AdministrationEvent struct {
	EventID   string
	Operation string
	At        time.Time
}
