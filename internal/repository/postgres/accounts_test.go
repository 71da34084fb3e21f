package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/repository"
)

func TestAccountRepository_GetByUserName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	lastLogon := time.Now().UTC().Add(-time.Hour)
	reason := "Consecutive login failures"

	rows := pgxmock.NewRows([]string{
		"user_id", "user_name", "password_hash", "status", "logon_failure", "lockout_reason", "lockout_to", "password_expiry", "last_logon",
	}).AddRow(
		int64(7), "vms_admin", "c2FsdA==:aGFzaA==", domain.AccountStatusEnabled, int32(2), reason, nil, nil, &lastLogon,
	)

	mock.ExpectQuery(`SELECT .*FROM usm\.users`).WithArgs("vms_admin").WillReturnRows(rows)

	account, err := repo.GetByUserName(context.Background(), "vms_admin")
	if err != nil {
		t.Fatalf("GetByUserName returned error: %v", err)
	}
	if account.ID != 7 || account.UserName != "vms_admin" {
		t.Fatalf("unexpected account %+v", account)
	}
	if account.LogonFailures != 2 {
		t.Fatalf("logon failures = %d, want 2", account.LogonFailures)
	}
	if account.LockoutReason == nil || *account.LockoutReason != reason {
		t.Fatal("expected lockout reason populated")
	}
	if account.LastLogon == nil || !account.LastLogon.Equal(lastLogon) {
		t.Fatal("expected last logon populated")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_GetByUserNameNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	rows := pgxmock.NewRows([]string{
		"user_id", "user_name", "password_hash", "status", "logon_failure", "lockout_reason", "lockout_to", "password_expiry", "last_logon",
	})

	mock.ExpectQuery(`SELECT .*FROM usm\.users`).WithArgs("ghost").WillReturnRows(rows)

	if _, err := repo.GetByUserName(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_GetByUserNameForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	rows := pgxmock.NewRows([]string{
		"user_id", "user_name", "password_hash", "status", "logon_failure", "lockout_reason", "lockout_to", "password_expiry", "last_logon",
	}).AddRow(
		int64(7), "vms_admin", "c2FsdA==:aGFzaA==", domain.AccountStatusEnabled, int32(0), nil, nil, nil, nil,
	)

	mock.ExpectQuery(`SELECT .*FROM usm\.users WHERE user_name = \$1 FOR UPDATE`).
		WithArgs("vms_admin").
		WillReturnRows(rows)

	account, err := repo.GetByUserNameForUpdate(context.Background(), "vms_admin")
	if err != nil {
		t.Fatalf("GetByUserNameForUpdate returned error: %v", err)
	}
	if account.UserName != "vms_admin" {
		t.Fatalf("unexpected account %+v", account)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_RecordLoginSuccess(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	at := time.Now().UTC()

	mock.ExpectExec(`UPDATE usm\.users SET last_logon = \$1, logon_failure = \$2, lockout_reason = \$3, lockout_to = \$4`).
		WithArgs(at, 0, nil, nil, "vms_admin").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.RecordLoginSuccess(context.Background(), "vms_admin", at); err != nil {
		t.Fatalf("RecordLoginSuccess returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_RecordLoginFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	mock.ExpectExec(`UPDATE usm\.users SET logon_failure = 1 \+ COALESCE\(logon_failure, 0\)`).
		WithArgs("vms_admin").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.RecordLoginFailure(context.Background(), "vms_admin"); err != nil {
		t.Fatalf("RecordLoginFailure returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_RecordLoginFailureUnknownUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	mock.ExpectExec(`UPDATE usm\.users SET logon_failure`).
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.RecordLoginFailure(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_Lock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	expiry := time.Now().UTC().Add(15 * time.Minute)

	mock.ExpectExec(`UPDATE usm\.users SET status = \$1, lockout_to = \$2, lockout_reason = \$3`).
		WithArgs(domain.AccountStatusLocked, expiry, "Consecutive login failures", domain.AccountStatusEnabled, "vms_admin").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.Lock(context.Background(), "vms_admin", "Consecutive login failures", expiry); err != nil {
		t.Fatalf("Lock returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_Unlock(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	mock.ExpectExec(`UPDATE usm\.users SET status = \$1, logon_failure = \$2, lockout_reason = \$3, lockout_to = \$4`).
		WithArgs(domain.AccountStatusEnabled, 0, nil, nil, domain.AccountStatusLocked, "vms_admin").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.Unlock(context.Background(), "vms_admin"); err != nil {
		t.Fatalf("Unlock returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAccountRepository_GetPasswordExpiry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAccountRepository(mock)

	expiry := time.Now().UTC().Add(72 * time.Hour)

	rows := pgxmock.NewRows([]string{"password_expiry"}).AddRow(&expiry)

	mock.ExpectQuery(`SELECT password_expiry FROM usm\.users`).
		WithArgs("vms_admin").
		WillReturnRows(rows)

	got, err := repo.GetPasswordExpiry(context.Background(), "vms_admin")
	if err != nil {
		t.Fatalf("GetPasswordExpiry returned error: %v", err)
	}
	if got == nil || !got.Equal(expiry) {
		t.Fatalf("expiry = %v, want %v", got, expiry)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
