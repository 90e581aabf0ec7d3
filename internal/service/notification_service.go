package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/events"
)

// Notification is one outbound message to session participants or account holders.
type Notification struct {
	Kind       string    `json:"kind"`
	SubjectID  string    `json:"subject_id"`
	Recipients []string  `json:"recipients"`
	Subject    string    `json:"subject"`
	Payload    any       `json:"payload"`
	SentAt     time.Time `json:"sent_at"`
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// WebhookNotifier posts notifications as JSON to a configured endpoint.
type WebhookNotifier struct {
	url     string
	timeout time.Duration
}

// NewWebhookNotifier returns a notifier for url.
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{url: url, timeout: timeout}
}

// Notify posts n and fails on transport errors or non-2xx responses.
func (w *WebhookNotifier) Notify(ctx context.Context, n Notification) error {
	timeout := w.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	agent := fiber.Post(w.url)
	agent.Timeout(timeout)
	agent.ContentType(fiber.MIMEApplicationJSON)
	agent.Body(body)
	if err := agent.Parse(); err != nil {
		return err
	}

	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("webhook delivery failed: %w", errs[0])
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("webhook responded with status %d", status)
	}
	return nil
}

// LogNotifier records notifications in the log as the email stand-in.
type LogNotifier struct {
	from   string
	logger *zap.Logger
}

// NewLogNotifier builds a notifier that only logs.
func NewLogNotifier(from string, logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{from: from, logger: logger}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.logger.Info("notification",
		zap.String("from", l.from),
		zap.String("kind", n.Kind),
		zap.String("subject_id", n.SubjectID),
		zap.Strings("recipients", n.Recipients))
	return nil
}

// NewNotifier picks the webhook notifier when a URL is configured and the log notifier otherwise.
func NewNotifier(cfg config.NotificationConfig, logger *zap.Logger) Notifier {
	if strings.TrimSpace(cfg.WebhookURL) != "" {
		return NewWebhookNotifier(cfg.WebhookURL, cfg.WebhookTimeout())
	}
	return NewLogNotifier(cfg.EmailFrom, logger)
}

// NotificationService turns domain events into notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier Notifier, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSessionScheduled, n.handleSessionEvent("session_scheduled", "New coaching session scheduled"))
	n.dispatcher.Subscribe(events.EventSessionRescheduled, n.handleSessionEvent("session_rescheduled", "Coaching session rescheduled"))
	n.dispatcher.Subscribe(events.EventSessionCancelled, n.handleSessionEvent("session_cancelled", "Coaching session cancelled"))
	n.dispatcher.Subscribe(events.EventMatchesGenerated, n.handleMatchesGenerated)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordReset)
}

// Send delivers a notification and returns the delivery error, if any.
func (n *NotificationService) Send(ctx context.Context, notification Notification) error {
	if n == nil || n.notifier == nil {
		return nil
	}
	if notification.SentAt.IsZero() {
		notification.SentAt = n.now().UTC()
	}
	return n.notifier.Notify(ctx, notification)
}

func (n *NotificationService) handleSessionEvent(kind, subject string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.SessionPayload)
		if !ok {
			return fmt.Errorf("unexpected payload for %s", event.Type)
		}
		if payload.Notified {
			return nil
		}
		n.logger.Info(kind, zap.String("session_id", payload.SessionID), zap.String("coach_id", payload.CoachID))
		return n.Send(ctx, Notification{
			Kind:       kind,
			SubjectID:  payload.SessionID,
			Recipients: payload.Participants,
			Subject:    subject,
			Payload:    payload,
		})
	}
}

func (n *NotificationService) handleMatchesGenerated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MatchesGeneratedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	n.logger.Info("matches_generated", zap.String("request_id", event.SubjectID), zap.Int("matches", len(payload.CoachIDs)))
	return nil
}

func (n *NotificationService) handlePasswordReset(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	return n.Send(ctx, Notification{
		Kind:       "password_reset",
		SubjectID:  event.SubjectID,
		Recipients: []string{payload.Email},
		Subject:    "Reset your password",
		Payload:    payload,
	})
}
