package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/core/port"
	"github.com/FocusFish/USM/internal/repository"
)

// AccountRepository implements port.AccountRepository using PostgreSQL.
type AccountRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccountRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewAccountRepository(exec pgExecutor) *AccountRepository {
	return &AccountRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *AccountRepository) WithTx(tx pgx.Tx) *AccountRepository {
	if tx == nil {
		return r
	}
	return &AccountRepository{
		exec:    tx,
		builder: r.builder,
	}
}

const accountColumns = "user_id, user_name, password_hash, status, logon_failure, lockout_reason, lockout_to, password_expiry, last_logon"

// GetByUserName retrieves an account by its unique user name.
func (r *AccountRepository) GetByUserName(ctx context.Context, userName string) (*domain.UserAccount, error) {
	stmt, args, err := r.builder.
		Select(
			"user_id",
			"user_name",
			"password_hash",
			"status",
			"logon_failure",
			"lockout_reason",
			"lockout_to",
			"password_expiry",
			"last_logon",
		).
		From("usm.users").
		Where(squirrel.Eq{"user_name": userName}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	return scanAccount(row)
}

// GetByUserNameForUpdate retrieves an account acquiring a row-level lock so
// concurrent login attempts for the same user serialize on the database row.
func (r *AccountRepository) GetByUserNameForUpdate(ctx context.Context, userName string) (*domain.UserAccount, error) {
	stmt := fmt.Sprintf("SELECT %s FROM usm.users WHERE user_name = $1 FOR UPDATE", accountColumns)

	row := r.exec.QueryRow(ctx, stmt, userName)
	return scanAccount(row)
}

func scanAccount(row pgx.Row) (*domain.UserAccount, error) {
	var (
		account       domain.UserAccount
		failures      sql.NullInt32
		lockoutReason sql.NullString
		lockoutTo     *time.Time
		pwdExpiry     *time.Time
		lastLogon     *time.Time
	)

	if err := row.Scan(
		&account.ID,
		&account.UserName,
		&account.PasswordHash,
		&account.Status,
		&failures,
		&lockoutReason,
		&lockoutTo,
		&pwdExpiry,
		&lastLogon,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	if failures.Valid {
		account.LogonFailures = int(failures.Int32)
	}
	if lockoutReason.Valid {
		val := lockoutReason.String
		account.LockoutReason = &val
	}
	account.LockoutExpiry = lockoutTo
	account.PasswordExpiry = pwdExpiry
	account.LastLogon = lastLogon

	return &account, nil
}

// RecordLoginSuccess stamps the last logon and clears all failure state.
func (r *AccountRepository) RecordLoginSuccess(ctx context.Context, userName string, at time.Time) error {
	stmt, args, err := r.builder.Update("usm.users").
		Set("last_logon", at).
		Set("logon_failure", 0).
		Set("lockout_reason", nil).
		Set("lockout_to", nil).
		Where(squirrel.Eq{"user_name": userName}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build record login success sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("record login success: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// RecordLoginFailure increments the consecutive failure counter.
func (r *AccountRepository) RecordLoginFailure(ctx context.Context, userName string) error {
	stmt := "UPDATE usm.users SET logon_failure = 1 + COALESCE(logon_failure, 0) WHERE user_name = $1"

	ct, err := r.exec.Exec(ctx, stmt, userName)
	if err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Lock transitions an enabled account to locked. Accounts already disabled
// or locked are left untouched.
func (r *AccountRepository) Lock(ctx context.Context, userName, reason string, lockoutExpiry time.Time) error {
	stmt, args, err := r.builder.Update("usm.users").
		Set("status", domain.AccountStatusLocked).
		Set("lockout_to", lockoutExpiry).
		Set("lockout_reason", reason).
		Where(squirrel.Eq{"user_name": userName, "status": domain.AccountStatusEnabled}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build lock account sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("lock account: %w", err)
	}

	return nil
}

// Unlock re-enables a locked account and clears its lockout fields.
func (r *AccountRepository) Unlock(ctx context.Context, userName string) error {
	stmt, args, err := r.builder.Update("usm.users").
		Set("status", domain.AccountStatusEnabled).
		Set("logon_failure", 0).
		Set("lockout_reason", nil).
		Set("lockout_to", nil).
		Where(squirrel.Eq{"user_name": userName, "status": domain.AccountStatusLocked}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build unlock account sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("unlock account: %w", err)
	}

	return nil
}

// GetPasswordExpiry returns the password expiry timestamp for a user.
func (r *AccountRepository) GetPasswordExpiry(ctx context.Context, userName string) (*time.Time, error) {
	stmt, args, err := r.builder.
		Select("password_expiry").
		From("usm.users").
		Where(squirrel.Eq{"user_name": userName}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select password expiry sql: %w", err)
	}

	var expiry *time.Time
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&expiry); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan password expiry: %w", err)
	}

	return expiry, nil
}

var _ port.AccountRepository = (*AccountRepository)(nil)
