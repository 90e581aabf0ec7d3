package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/repository"
)

// CachedCoachRepository is a read-through cache in front of a CoachRepository.
// Writes go to the inner repository first and then drop the cached entry.
type CachedCoachRepository struct {
	inner  repository.CoachRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedCoachRepository wraps inner. A nil client disables caching.
func NewCachedCoachRepository(inner repository.CoachRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedCoachRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCoachRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func coachKey(id string) string {
	return PrefixCoach + id
}

func (r *CachedCoachRepository) Create(ctx context.Context, coach *domain.Coach) error {
	if err := r.inner.Create(ctx, coach); err != nil {
		return err
	}
	r.invalidate(ctx, coach.ID)
	return nil
}

func (r *CachedCoachRepository) Update(ctx context.Context, coach *domain.Coach) error {
	if err := r.inner.Update(ctx, coach); err != nil {
		return err
	}
	r.invalidate(ctx, coach.ID)
	return nil
}

func (r *CachedCoachRepository) RecordSessionOutcome(ctx context.Context, coachID string, completed bool, rating *float64) error {
	if err := r.inner.RecordSessionOutcome(ctx, coachID, completed, rating); err != nil {
		return err
	}
	r.invalidate(ctx, coachID)
	return nil
}

func (r *CachedCoachRepository) GetByID(ctx context.Context, id string) (*domain.Coach, error) {
	var cached domain.Coach
	err := getJSON(ctx, r.client, coachKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("coach cache read failed", zap.String("coach_id", id), zap.Error(err))
	}

	coach, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := setJSON(ctx, r.client, coachKey(id), coach, r.ttl); err != nil {
		r.logger.Warn("coach cache write failed", zap.String("coach_id", id), zap.Error(err))
	}
	return coach, nil
}

func (r *CachedCoachRepository) GetByUserID(ctx context.Context, userID string) (*domain.Coach, error) {
	return r.inner.GetByUserID(ctx, userID)
}

func (r *CachedCoachRepository) List(ctx context.Context, filter repository.CoachFilter) ([]domain.Coach, error) {
	return r.inner.List(ctx, filter)
}

func (r *CachedCoachRepository) invalidate(ctx context.Context, id string) {
	if r.client == nil {
		return
	}
	if err := r.client.Del(ctx, coachKey(id)).Err(); err != nil {
		r.logger.Warn("coach cache invalidation failed", zap.String("coach_id", id), zap.Error(err))
	}
}

var _ repository.CoachRepository = (*CachedCoachRepository)(nil)
