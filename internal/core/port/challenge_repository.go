package port

import (
	"context"

	"github.com/FocusFish/USM/internal/core/domain"
)

// ChallengeRepository reads the stored challenge/response reference data.
type ChallengeRepository interface {
	// ListByUserName returns the challenges defined for an active user,
	// question only, ordered as stored.
	ListByUserName(ctx context.Context, userName string) ([]domain.ChallengeResponse, error)

	// Verify reports whether the supplied challenge/response pair matches
	// a stored credential of an active user.
	Verify(ctx context.Context, request domain.ChallengeResponse) (bool, error)
}
