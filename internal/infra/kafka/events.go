package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/core/port"
	"github.com/FocusFish/USM/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserName  string           `json:"user_name,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userName string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserName:  userName,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishLogin publishes usm.authentication.login events.
func (p *EventPublisher) PublishLogin(ctx context.Context, event domain.LoginEvent) error {
	payload := struct {
		UserName   string         `json:"user_name"`
		Succeeded  bool           `json:"succeeded"`
		StatusCode int            `json:"status_code"`
		Locked     bool           `json:"locked"`
		At         time.Time      `json:"at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		UserName:   event.UserName,
		Succeeded:  event.Succeeded,
		StatusCode: event.StatusCode,
		Locked:     event.Locked,
		At:         event.At.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "usm.authentication.login", event.UserName, event.At, payload)
}

// PublishSession publishes usm.session lifecycle events.
func (p *EventPublisher) PublishSession(ctx context.Context, event domain.SessionEvent) error {
	payload := struct {
		SessionID string    `json:"session_id"`
		UserName  string    `json:"user_name"`
		Kind      string    `json:"kind"`
		At        time.Time `json:"at"`
	}{
		SessionID: event.SessionID,
		UserName:  event.UserName,
		Kind:      event.Kind,
		At:        event.At.UTC(),
	}

	return p.publish(ctx, event.EventID, "usm.session."+event.Kind, event.UserName, event.At, payload)
}

// PublishAdministration publishes usm.administration events.
func (p *EventPublisher) PublishAdministration(ctx context.Context, event domain.AdministrationEvent) error {
	payload := struct {
		Operation string    `json:"operation"`
		At        time.Time `json:"at"`
	}{
		Operation: event.Operation,
		At:        event.At.UTC(),
	}

	return p.publish(ctx, event.EventID, "usm.administration."+event.Operation, "", event.At, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
