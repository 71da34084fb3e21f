package domain

import "time"

// AccountStatus enumerates possible user account states.
type AccountStatus string

const (
	AccountStatusEnabled  AccountStatus = "E"
	AccountStatusDisabled AccountStatus = "D"
	AccountStatusLocked   AccountStatus = "L"
)

// UserAccount mirrors the persisted representation in the users table.
// Failure-count and lockout fields are mutated only by the authentication
// engine, inside the same transaction as the login decision.
type UserAccount struct {
	ID             int64
	UserName       string
	PasswordHash   string
	Status         AccountStatus
	LogonFailures  int
	LockoutReason  *string
	LockoutExpiry  *time.Time
	PasswordExpiry *time.Time
	LastLogon      *time.Time
}

// IsLockoutExpired reports whether a locked account's lockout window has
// elapsed at the supplied moment.
func (a UserAccount) IsLockoutExpired(at time.Time) bool {
	if a.Status != AccountStatusLocked {
		return false
	}
	if a.LockoutExpiry == nil {
		return false
	}
	return !a.LockoutExpiry.After(at)
}

// ChallengeResponse is a stored security-question credential for a user.
// Response is empty when the record is used as a question-only projection.
type ChallengeResponse struct {
	UserName  string `json:"userName"`
	Challenge string `json:"challenge"`
	Response  string `json:"response,omitempty"`
}
