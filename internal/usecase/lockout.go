package usecase

import "time"

// Policy subject and property keys for account behaviour.
const (
	PolicySubjectAccount  = "Account"
	PolicySubjectPassword = "Password"

	PolicyKeyMaxLoginFailures   = "account.maxLoginFailures"
	PolicyKeyLockoutDuration    = "account.lockoutDuration"
	PolicyKeyMaxSessionDuration = "account.maxSessionDuration"
	PolicyKeyPasswordWarning    = "password.warningDays"
)

// Lockout policy defaults, used when the property is absent or malformed.
const (
	defaultMaxLoginFailures   = 5
	defaultLockoutDurationSec = 900
	defaultWarningDays        = 7
)

// LockoutPolicy holds the thresholds governing consecutive login failures.
// It is a pure value derived from the Account policy bag.
type LockoutPolicy struct {
	MaxFailures     int
	LockoutDuration time.Duration
}

// LockoutPolicyFrom derives a LockoutPolicy from Account policy properties.
func LockoutPolicyFrom(props map[string]string) LockoutPolicy {
	seconds := IntProperty(props, PolicyKeyLockoutDuration, defaultLockoutDurationSec)
	if seconds <= 0 {
		seconds = defaultLockoutDurationSec
	}

	maxFailures := IntProperty(props, PolicyKeyMaxLoginFailures, defaultMaxLoginFailures)
	if maxFailures <= 0 {
		maxFailures = defaultMaxLoginFailures
	}

	return LockoutPolicy{
		MaxFailures:     maxFailures,
		LockoutDuration: time.Duration(seconds) * time.Second,
	}
}

// SessionTTLFrom derives the maximum session duration from Account policy
// properties. Zero disables eviction.
func SessionTTLFrom(props map[string]string) time.Duration {
	seconds := IntProperty(props, PolicyKeyMaxSessionDuration, 0)
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// PasswordWarningFrom derives the pre-expiry warning window from Password
// policy properties.
func PasswordWarningFrom(props map[string]string) time.Duration {
	days := IntProperty(props, PolicyKeyPasswordWarning, defaultWarningDays)
	if days <= 0 {
		days = defaultWarningDays
	}
	return time.Duration(days) * 24 * time.Hour
}
