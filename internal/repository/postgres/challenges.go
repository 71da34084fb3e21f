package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/core/port"
)

// ChallengeRepository implements port.ChallengeRepository using PostgreSQL.
type ChallengeRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewChallengeRepository constructs a challenge repository.
func NewChallengeRepository(exec pgExecutor) *ChallengeRepository {
	return &ChallengeRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// ListByUserName returns the challenges defined for an enabled user,
// question only. The stored response never leaves the repository.
func (r *ChallengeRepository) ListByUserName(ctx context.Context, userName string) ([]domain.ChallengeResponse, error) {
	stmt, args, err := r.builder.
		Select("u.user_name", "c.challenge").
		From("usm.challenges c").
		Join("usm.users u ON c.user_id = u.user_id").
		Where(squirrel.Eq{"u.user_name": userName, "u.status": domain.AccountStatusEnabled}).
		OrderBy("c.challenge DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select challenges sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query challenges: %w", err)
	}
	defer rows.Close()

	challenges := make([]domain.ChallengeResponse, 0)
	for rows.Next() {
		var item domain.ChallengeResponse
		if err := rows.Scan(&item.UserName, &item.Challenge); err != nil {
			return nil, fmt.Errorf("scan challenge: %w", err)
		}
		challenges = append(challenges, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate challenges: %w", err)
	}

	return challenges, nil
}

// Verify reports whether the challenge/response pair matches a stored
// credential of an enabled user.
func (r *ChallengeRepository) Verify(ctx context.Context, request domain.ChallengeResponse) (bool, error) {
	stmt, args, err := r.builder.
		Select("COUNT(*)").
		From("usm.challenges c").
		Join("usm.users u ON c.user_id = u.user_id").
		Where(squirrel.Eq{
			"u.user_name": request.UserName,
			"u.status":    domain.AccountStatusEnabled,
			"c.challenge": request.Challenge,
			"c.response":  request.Response,
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build verify challenge sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("scan challenge count: %w", err)
	}

	return count > 0, nil
}

var _ port.ChallengeRepository = (*ChallengeRepository)(nil)
