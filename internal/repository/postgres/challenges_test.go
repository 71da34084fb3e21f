package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/FocusFish/USM/internal/core/domain"
)

func TestChallengeRepository_ListByUserName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewChallengeRepository(mock)

	rows := pgxmock.NewRows([]string{"user_name", "challenge"}).
		AddRow("vms_admin", "Name of first pet").
		AddRow("vms_admin", "City of birth")

	mock.ExpectQuery(`SELECT u\.user_name, c\.challenge FROM usm\.challenges c JOIN usm\.users u`).
		WithArgs(domain.AccountStatusEnabled, "vms_admin").
		WillReturnRows(rows)

	challenges, err := repo.ListByUserName(context.Background(), "vms_admin")
	if err != nil {
		t.Fatalf("ListByUserName returned error: %v", err)
	}
	if len(challenges) != 2 {
		t.Fatalf("expected two challenges, got %d", len(challenges))
	}
	if challenges[0].Challenge != "Name of first pet" {
		t.Fatalf("unexpected challenge order: %+v", challenges)
	}
	for _, challenge := range challenges {
		if challenge.Response != "" {
			t.Fatal("stored response must not be projected")
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestChallengeRepository_ListByUserNameEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewChallengeRepository(mock)

	mock.ExpectQuery(`SELECT u\.user_name, c\.challenge FROM usm\.challenges c`).
		WithArgs(domain.AccountStatusEnabled, "ghost").
		WillReturnRows(pgxmock.NewRows([]string{"user_name", "challenge"}))

	challenges, err := repo.ListByUserName(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("ListByUserName returned error: %v", err)
	}
	if len(challenges) != 0 {
		t.Fatalf("expected no challenges, got %d", len(challenges))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestChallengeRepository_Verify(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewChallengeRepository(mock)

	request := domain.ChallengeResponse{
		UserName:  "vms_admin",
		Challenge: "Name of first pet",
		Response:  "rex",
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM usm\.challenges c JOIN usm\.users u`).
		WithArgs(request.Challenge, request.Response, domain.AccountStatusEnabled, request.UserName).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	ok, err := repo.Verify(context.Background(), request)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected matching challenge to verify")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestChallengeRepository_VerifyMismatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewChallengeRepository(mock)

	request := domain.ChallengeResponse{
		UserName:  "vms_admin",
		Challenge: "Name of first pet",
		Response:  "wrong",
	}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM usm\.challenges c JOIN usm\.users u`).
		WithArgs(request.Challenge, request.Response, domain.AccountStatusEnabled, request.UserName).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	ok, err := repo.Verify(context.Background(), request)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched response to fail verification")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
