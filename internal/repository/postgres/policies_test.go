package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
)

func TestPolicyRepository_GetBySubject(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewPolicyRepository(mock)

	rows := pgxmock.NewRows([]string{"name", "value"}).
		AddRow("account.lockoutDuration", "900").
		AddRow("account.maxLoginFailures", "5")

	mock.ExpectQuery(`SELECT name, value FROM usm\.policies`).
		WithArgs("Account").
		WillReturnRows(rows)

	policy, err := repo.GetBySubject(context.Background(), "Account")
	if err != nil {
		t.Fatalf("GetBySubject returned error: %v", err)
	}
	if policy.Subject != "Account" {
		t.Fatalf("subject = %q, want Account", policy.Subject)
	}
	if policy.Properties["account.maxLoginFailures"] != "5" {
		t.Fatalf("unexpected properties %+v", policy.Properties)
	}
	if policy.Properties["account.lockoutDuration"] != "900" {
		t.Fatalf("unexpected properties %+v", policy.Properties)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPolicyRepository_GetBySubjectUnknown(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewPolicyRepository(mock)

	mock.ExpectQuery(`SELECT name, value FROM usm\.policies`).
		WithArgs("Unknown").
		WillReturnRows(pgxmock.NewRows([]string{"name", "value"}))

	policy, err := repo.GetBySubject(context.Background(), "Unknown")
	if err != nil {
		t.Fatalf("GetBySubject returned error: %v", err)
	}
	if len(policy.Properties) != 0 {
		t.Fatalf("expected empty property bag, got %+v", policy.Properties)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
