package port

import (
	"context"

	"github.com/FocusFish/USM/internal/core/domain"
)

// EventPublisher emits audit events for authentication and administration
// activity. Publishing is best-effort; failures must not fail the request.
type EventPublisher interface {
	PublishLogin(ctx context.Context, event domain.LoginEvent) error
	PublishSession(ctx context.Context, event domain.SessionEvent) error
	PublishAdministration(ctx context.Context, event domain.AdministrationEvent) error
}
