package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/service"
)

// StartNotificationWorker subscribes the notification service to domain events.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// RetryNotifier retries failed deliveries with doubling backoff. The last error is
// returned once attempts run out or the context ends.
type RetryNotifier struct {
	next     service.Notifier
	attempts int
	backoff  time.Duration
	logger   *zap.Logger
}

// NewRetryNotifier wraps next. attempts below one means a single try.
func NewRetryNotifier(next service.Notifier, attempts int, backoff time.Duration, logger *zap.Logger) *RetryNotifier {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryNotifier{next: next, attempts: attempts, backoff: backoff, logger: logger}
}

// Notify implements service.Notifier.
func (r *RetryNotifier) Notify(ctx context.Context, n service.Notification) error {
	wait := r.backoff
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err = r.next.Notify(ctx, n); err == nil {
			return nil
		}
		r.logger.Warn("notification delivery failed",
			zap.String("kind", n.Kind),
			zap.String("subject_id", n.SubjectID),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt == r.attempts {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
	return err
}
