package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/core/port"
)

// ErrSessionNotFound indicates the requested session id is unknown.
var ErrSessionNotFound = errors.New("session not found")

// Session audit event kinds.
const (
	sessionEventCreated = "created"
	sessionEventDeleted = "deleted"
	sessionEventEvicted = "evicted"
	sessionEventCleared = "cleared"
)

// defaultSweepInterval matches the original five minute eviction timer.
const defaultSweepInterval = 5 * time.Minute

// SessionService tracks user sessions and evicts them once they outlive the
// policy-driven maximum session duration.
type SessionService struct {
	store    port.SessionStore
	policies *PolicyProvider
	events   port.EventPublisher
	logger   *zap.Logger
}

// NewSessionService constructs a session service.
func NewSessionService(store port.SessionStore, policies *PolicyProvider, events port.EventPublisher, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:    store,
		policies: policies,
		events:   events,
		logger:   logger,
	}
}

// CreateSession registers a new session and returns its id.
func (s *SessionService) CreateSession(ctx context.Context, session domain.UserSession) (string, error) {
	if session.UserName == "" {
		return "", ErrUserNameRequired
	}

	id, err := s.store.CreateSession(session)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	s.publishSession(ctx, id, session.UserName, sessionEventCreated)

	return id, nil
}

// ReadSession returns the session with the given id.
func (s *SessionService) ReadSession(sessionID string) (*domain.UserSession, error) {
	session := s.store.ReadSession(sessionID)
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// ReadSessions returns the sessions of a user, optionally restricted to
// those created after startedAfter.
func (s *SessionService) ReadSessions(userName string, startedAfter *time.Time) []domain.UserSession {
	return s.store.ReadSessions(userName, startedAfter)
}

// DeleteSession removes one session. Unknown ids are a no-op.
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) {
	session := s.store.ReadSession(sessionID)
	s.store.DeleteSession(sessionID)

	if session != nil {
		s.publishSession(ctx, sessionID, session.UserName, sessionEventDeleted)
	}
}

// DeleteSessions removes every session. Idempotent.
func (s *SessionService) DeleteSessions(ctx context.Context) {
	s.store.DeleteSessions()
	s.publishSession(ctx, "", "", sessionEventCleared)
}

// SessionTTL resolves the maximum session duration from policy. Zero means
// eviction is disabled.
func (s *SessionService) SessionTTL(ctx context.Context) (time.Duration, error) {
	props, err := s.policies.GetProperties(ctx, PolicySubjectAccount)
	if err != nil {
		return 0, fmt.Errorf("load session policy: %w", err)
	}
	return SessionTTLFrom(props), nil
}

// EvictExpired deletes sessions older than the policy TTL and returns how
// many were removed.
func (s *SessionService) EvictExpired(ctx context.Context) (int, error) {
	ttl, err := s.SessionTTL(ctx)
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().Add(-ttl)
	expired := s.store.ExpiredSessions(cutoff)

	for _, id := range expired {
		session := s.store.ReadSession(id)
		s.store.DeleteSession(id)
		if session != nil {
			s.publishSession(ctx, id, session.UserName, sessionEventEvicted)
		}
	}

	return len(expired), nil
}

// StartSweeper launches the background eviction loop. It stops when ctx is
// cancelled; the returned channel closes once the loop has exited.
func (s *SessionService) StartSweeper(ctx context.Context, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				evicted, err := s.EvictExpired(ctx)
				if err != nil {
					s.logger.Warn("session sweep failed", zap.Error(err))
					continue
				}
				if evicted > 0 {
					s.logger.Info("evicted expired sessions", zap.Int("count", evicted))
				}
			}
		}
	}()

	return done
}

func (s *SessionService) publishSession(ctx context.Context, sessionID, userName, kind string) {
	if s.events == nil {
		return
	}

	event := domain.SessionEvent{
		EventID:   uuid.NewString(),
		SessionID: sessionID,
		UserName:  userName,
		Kind:      kind,
		At:        time.Now().UTC(),
	}

	if err := s.events.PublishSession(ctx, event); err != nil {
		s.logger.Warn("publish session event failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}
