package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userName string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("user_name", userName),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishLogin logs usm.authentication.login events.
func (p *StubPublisher) PublishLogin(_ context.Context, event domain.LoginEvent) error {
	payload := map[string]any{
		"user_name":   event.UserName,
		"succeeded":   event.Succeeded,
		"status_code": event.StatusCode,
		"locked":      event.Locked,
		"at":          event.At,
		"metadata":    event.Metadata,
	}
	p.logEvent("usm.authentication.login", event.UserName, event.At, payload)
	return nil
}

// PublishSession logs usm.session lifecycle events.
func (p *StubPublisher) PublishSession(_ context.Context, event domain.SessionEvent) error {
	payload := map[string]any{
		"session_id": event.SessionID,
		"user_name":  event.UserName,
		"kind":       event.Kind,
		"at":         event.At,
	}
	p.logEvent("usm.session."+event.Kind, event.UserName, event.At, payload)
	return nil
}

// PublishAdministration logs usm.administration events.
func (p *StubPublisher) PublishAdministration(_ context.Context, event domain.AdministrationEvent) error {
	payload := map[string]any{
		"operation": event.Operation,
		"at":        event.At,
	}
	p.logEvent("usm.administration."+event.Operation, "", event.At, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
