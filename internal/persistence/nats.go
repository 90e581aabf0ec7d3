package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/config"
)

// NATS wraps the broker connection used for matching requests and event fan-out.
type NATS struct {
	Conn *nats.Conn
}

// NewNATS connects when a URL is configured; otherwise it returns a NATS with a nil Conn.
func NewNATS(cfg config.NATSConfig, logger *zap.Logger) (*NATS, error) {
	if cfg.URL == "" {
		logger.Warn("NATS_URL not provided; messaging disabled")
		return &NATS{}, nil
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name("coaching-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	logger.Info("connected to nats", zap.String("url", conn.ConnectedUrl()))
	return &NATS{Conn: conn}, nil
}

// Handle returns the connection or nil.
func (n *NATS) Handle() *nats.Conn {
	if n == nil {
		return nil
	}
	return n.Conn
}

// Ping flushes the connection to confirm the server is reachable.
func (n *NATS) Ping(ctx context.Context) error {
	if n == nil || n.Conn == nil {
		return ErrNotConfigured
	}
	return n.Conn.FlushWithContext(ctx)
}

// Close drains subscriptions and closes the connection.
func (n *NATS) Close() {
	if n != nil && n.Conn != nil {
		_ = n.Conn.Drain()
	}
}
