package events

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// localOnly events carry secrets and never leave the process.
var localOnly = map[EventType]bool{
	EventPasswordResetRequested: true,
}

// natsBridge mirrors published events to "<prefix>.<event_type>" after local delivery.
type natsBridge struct {
	Dispatcher
	conn   *nats.Conn
	prefix string
	logger *zap.Logger
}

// WithNATS decorates a dispatcher so events also reach other services over NATS.
// A nil connection returns the dispatcher unchanged.
func WithNATS(inner Dispatcher, conn *nats.Conn, prefix string, logger *zap.Logger) Dispatcher {
	if conn == nil {
		return inner
	}
	if prefix == "" {
		prefix = "events"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &natsBridge{Dispatcher: inner, conn: conn, prefix: prefix, logger: logger}
}

// Subject returns the NATS subject an event type is mirrored to.
func Subject(prefix string, eventType EventType) string {
	return prefix + "." + string(eventType)
}

func (b *natsBridge) Publish(ctx context.Context, event Event) error {
	if err := b.Dispatcher.Publish(ctx, event); err != nil {
		return err
	}
	raw, ok, err := brokerMessage(event)
	if err != nil {
		b.logger.Warn("encode event for nats", zap.String("event_id", event.ID), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	if err := b.conn.Publish(Subject(b.prefix, event.Type), raw); err != nil {
		b.logger.Warn("publish event to nats",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}

// brokerMessage encodes event for the broker. ok is false for local-only events.
func brokerMessage(event Event) (raw []byte, ok bool, err error) {
	if localOnly[event.Type] {
		return nil, false, nil
	}
	raw, err = json.Marshal(event)
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}
