package domain

import "time"

// Authentication outcome codes reported to login callers. Normal failed
// logins are outcomes, not errors; only malformed input and storage faults
// surface as Go errors.
const (
	AuthSuccess            = 0
	AuthOther              = 1
	AuthInvalidCredentials = 2
	AuthAccountDisabled    = 3
	AuthAccountLocked      = 4
	AuthInvalidTime        = 5
	AuthInternalError      = 6
)

// Password expiry signals carried on the extStatus response header.
const (
	PasswordStatusOK            = 0
	PasswordStatusExpired       = 701
	PasswordStatusAboutToExpire = 773
)

// AuthenticationRequest carries password-login credentials.
type AuthenticationRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// AuthenticationResponse is the transient result of a login attempt.
type AuthenticationResponse struct {
	Authenticated bool       `json:"authenticated"`
	StatusCode    int        `json:"statusCode"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
}

// StatusMessage maps the outcome code to its wire message.
func (r AuthenticationResponse) StatusMessage() string {
	switch r.StatusCode {
	case AuthSuccess:
		return "Authentication successful"
	case AuthInvalidCredentials:
		return "Invalid credentials"
	case AuthAccountDisabled:
		return "Account disabled"
	case AuthAccountLocked:
		return "Account locked"
	case AuthInvalidTime:
		return "Invalid time"
	case AuthInternalError:
		return "Internal error"
	default:
		return "Authentication failed"
	}
}
