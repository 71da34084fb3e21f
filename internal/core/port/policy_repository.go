package port

import (
	"context"

	"github.com/FocusFish/USM/internal/core/domain"
)

// PolicyRepository loads named policy definitions from persistent storage.
type PolicyRepository interface {
	// GetBySubject returns the property bag for a policy subject. Unknown
	// subjects yield an empty bag, not an error.
	GetBySubject(ctx context.Context, subject string) (domain.Policy, error)
}
