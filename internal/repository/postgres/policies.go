package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/core/port"
)

// PolicyRepository implements port.PolicyRepository using PostgreSQL.
type PolicyRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPolicyRepository constructs a policy repository.
func NewPolicyRepository(exec pgExecutor) *PolicyRepository {
	return &PolicyRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetBySubject loads the property bag for a policy subject. Unknown subjects
// yield an empty bag.
func (r *PolicyRepository) GetBySubject(ctx context.Context, subject string) (domain.Policy, error) {
	stmt, args, err := r.builder.
		Select("name", "value").
		From("usm.policies").
		Where(squirrel.Eq{"subject": subject}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return domain.Policy{}, fmt.Errorf("build select policy sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return domain.Policy{}, fmt.Errorf("query policy: %w", err)
	}
	defer rows.Close()

	policy := domain.Policy{
		Subject:    subject,
		Properties: make(map[string]string),
	}

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return domain.Policy{}, fmt.Errorf("scan policy property: %w", err)
		}
		policy.Properties[name] = value
	}

	if err := rows.Err(); err != nil {
		return domain.Policy{}, fmt.Errorf("iterate policy properties: %w", err)
	}

	return policy, nil
}

var _ port.PolicyRepository = (*PolicyRepository)(nil)
