package port

import (
	"context"
	"time"

	"github.com/FocusFish/USM/internal/core/domain"
)

// AccountRepository provides access to persisted user accounts and the
// login bookkeeping mutations performed by the authentication engine.
type AccountRepository interface {
	// GetByUserName retrieves the account, or repository.ErrNotFound.
	GetByUserName(ctx context.Context, userName string) (*domain.UserAccount, error)

	// GetByUserNameForUpdate retrieves the account holding a row-level
	// lock for the remainder of the enclosing transaction.
	GetByUserNameForUpdate(ctx context.Context, userName string) (*domain.UserAccount, error)

	// RecordLoginSuccess stamps the last logon and clears failure counter,
	// lockout reason, and lockout expiry in a single statement.
	RecordLoginSuccess(ctx context.Context, userName string, at time.Time) error

	// RecordLoginFailure increments the consecutive failure counter.
	RecordLoginFailure(ctx context.Context, userName string) error

	// Lock transitions an enabled account to locked with the supplied
	// reason and lockout expiry.
	Lock(ctx context.Context, userName, reason string, lockoutExpiry time.Time) error

	// Unlock clears the locked status and lockout fields of an account
	// whose lockout window has elapsed.
	Unlock(ctx context.Context, userName string) error

	// GetPasswordExpiry returns the password expiry timestamp, nil when
	// the password never expires.
	GetPasswordExpiry(ctx context.Context, userName string) (*time.Time, error)
}

// AccountTxRunner executes fn with an account repository bound to a single
// transaction. Callers serialize the account row inside fn with
// GetByUserNameForUpdate.
type AccountTxRunner interface {
	WithAccountLock(ctx context.Context, fn func(ctx context.Context, accounts AccountRepository) error) error
}
