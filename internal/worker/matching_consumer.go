package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/cache"
	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/matching"
	"github.com/spec-kit/coaching-service/internal/service"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

const (
	matchingQueue   = "coaching-matching"
	matchingTimeout = 10 * time.Second
)

// MatchingResponse is published when a brokered search succeeds.
type MatchingResponse struct {
	RequestID        string              `json:"request_id"`
	Matches          []cache.CachedMatch `json:"matches"`
	AlgorithmVersion string              `json:"algorithm_version"`
	ProcessingTimeMs int64               `json:"processing_time_ms"`
}

// MatchingError is published when a brokered search fails.
type MatchingError struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// MatchingConsumer answers search requests arriving over NATS.
type MatchingConsumer struct {
	conn     *nats.Conn
	matching *service.MatchingService
	cfg      config.NATSConfig
	logger   *zap.Logger
	sub      *nats.Subscription
	now      func() time.Time
}

// NewMatchingConsumer builds a consumer; Start is a no-op without a connection.
func NewMatchingConsumer(conn *nats.Conn, matchingService *service.MatchingService, cfg config.NATSConfig, logger *zap.Logger) *MatchingConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchingConsumer{conn: conn, matching: matchingService, cfg: cfg, logger: logger, now: time.Now}
}

// Start joins the queue group on the request subject.
func (c *MatchingConsumer) Start() error {
	if c.conn == nil {
		return nil
	}
	sub, err := c.conn.QueueSubscribe(c.cfg.RequestSubject, matchingQueue, c.onMessage)
	if err != nil {
		return err
	}
	c.sub = sub
	c.logger.Info("matching consumer started", zap.String("subject", c.cfg.RequestSubject))
	return nil
}

// Stop leaves the queue group.
func (c *MatchingConsumer) Stop() {
	if c.sub != nil {
		_ = c.sub.Unsubscribe()
		c.sub = nil
	}
}

func (c *MatchingConsumer) onMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), matchingTimeout)
	defer cancel()

	subject, body := c.Process(ctx, msg.Data)
	if err := c.conn.Publish(subject, body); err != nil {
		c.logger.Warn("publish matching reply", zap.String("subject", subject), zap.Error(err))
	}
	if msg.Reply != "" {
		if err := msg.Respond(body); err != nil {
			c.logger.Warn("respond to matching request", zap.Error(err))
		}
	}
}

// Process runs one search and returns the subject and payload to publish.
func (c *MatchingConsumer) Process(ctx context.Context, data []byte) (string, []byte) {
	var req matching.SearchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return c.failure("", apperrors.NewValidationError("malformed matching request", nil))
	}

	result, err := c.matching.Search(ctx, req)
	if err != nil {
		return c.failure(req.RequestID, err)
	}

	cached := service.ToCachedResult(req.RequestID, result, c.now().UTC())
	body, err := json.Marshal(MatchingResponse{
		RequestID:        req.RequestID,
		Matches:          cached.Matches,
		AlgorithmVersion: cached.AlgorithmVersion,
		ProcessingTimeMs: cached.ProcessingTimeMs,
	})
	if err != nil {
		return c.failure(req.RequestID, apperrors.NewInternalError(err))
	}
	return c.cfg.ResponseSubject, body
}

func (c *MatchingConsumer) failure(requestID string, err error) (string, []byte) {
	de := apperrors.ToDomainError(err)
	c.logger.Warn("matching request failed", zap.String("request_id", requestID), zap.String("code", de.Code), zap.Error(err))
	body, _ := json.Marshal(MatchingError{RequestID: requestID, Code: de.Code, Message: de.Message})
	return c.cfg.ErrorSubject, body
}
