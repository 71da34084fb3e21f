package usecase

import (
	"context"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/core/port"
)

// Administration operation names recorded on audit events.
const (
	adminOpUserSessionsCleared = "userSessionsCleared"
	adminOpPolicyCacheCleared  = "policyCacheCleared"
)

// AdminService exposes the administrative cache-clearing operations.
type AdminService struct {
	sessions *SessionService
	policies *PolicyProvider
	events   port.EventPublisher
	logger   *zap.Logger
}

// NewAdminService constructs an administration service.
func NewAdminService(sessions *SessionService, policies *PolicyProvider, events port.EventPublisher, logger *zap.Logger) *AdminService {
	return &AdminService{
		sessions: sessions,
		policies: policies,
		events:   events,
		logger:   logger,
	}
}

// ClearUserSessions drops every tracked session. Idempotent.
func (s *AdminService) ClearUserSessions(ctx context.Context) {
	s.sessions.DeleteSessions(ctx)
	s.publish(ctx, adminOpUserSessionsCleared)
}

// ClearPolicyCache invalidates the whole policy cache. Idempotent.
func (s *AdminService) ClearPolicyCache(ctx context.Context) {
	s.policies.Reset()
	s.publish(ctx, adminOpPolicyCacheCleared)
}

func (s *AdminService) publish(ctx context.Context, operation string) {
	if s.events == nil {
		return
	}

	event := domain.AdministrationEvent{
		EventID:   uuid.NewString(),
		Operation: operation,
		At:        time.Now().UTC(),
	}

	if err := s.events.PublishAdministration(ctx, event); err != nil {
		s.logger.Warn("publish administration event failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
}
