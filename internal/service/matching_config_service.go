package service

import (
	"context"

	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/matching"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// MatchingConfigService reads and updates the scoring weights.
type MatchingConfigService struct {
	repo     repository.MatchingConfigRepository
	defaults domain.MatchingConfiguration
}

// MatchingConfigUpdate is a partial update; nil fields keep their current value.
type MatchingConfigUpdate struct {
	Weights             *domain.MatchingWeights
	ConfidenceThreshold *float64
	MaxResults          *int
}

// NewMatchingConfigService builds the service with env-provided defaults.
func NewMatchingConfigService(repo repository.MatchingConfigRepository, cfg config.MatchingConfig) *MatchingConfigService {
	defaults := domain.MatchingConfiguration{
		Weights: domain.MatchingWeights{
			SkillMatch:   cfg.SkillWeight,
			Experience:   cfg.ExperienceWeight,
			Rating:       cfg.RatingWeight,
			Availability: cfg.AvailabilityWeight,
			Price:        cfg.PriceWeight,
		},
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		MaxResults:          cfg.MaxResults,
	}
	return &MatchingConfigService{repo: repo, defaults: matching.NormalizeConfiguration(defaults)}
}

// Get returns the stored configuration, or the defaults when none was saved.
func (s *MatchingConfigService) Get(ctx context.Context) (*domain.MatchingConfiguration, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if apperrors.IsNotFound(err) {
			cfg := s.defaults
			return &cfg, nil
		}
		return nil, apperrors.MapError(err)
	}
	cfg := matching.NormalizeConfiguration(*stored)
	return &cfg, nil
}

// Update validates, normalizes the weights to sum to 100 and persists.
func (s *MatchingConfigService) Update(ctx context.Context, actor Actor, update MatchingConfigUpdate) (*domain.MatchingConfiguration, error) {
	if !actor.Is(domain.RolePlatformAdmin) {
		return nil, apperrors.NewForbidden("platform admin required")
	}

	var fields []apperrors.FieldError
	if t := update.ConfidenceThreshold; t != nil && (*t < 0 || *t > 100) {
		fields = append(fields, apperrors.FieldError{Field: "confidenceThreshold", Message: "confidenceThreshold must be between 0 and 100"})
	}
	if m := update.MaxResults; m != nil && (*m < 1 || *m > matching.MaxResultsCap) {
		fields = append(fields, apperrors.FieldError{Field: "maxResults", Message: "maxResults must be between 1 and 100"})
	}
	if w := update.Weights; w != nil {
		for name, v := range map[string]int{
			"weights.skillMatch":   w.SkillMatch,
			"weights.experience":   w.Experience,
			"weights.rating":       w.Rating,
			"weights.availability": w.Availability,
			"weights.price":        w.Price,
		} {
			if v < 0 {
				fields = append(fields, apperrors.FieldError{Field: name, Message: name + " must not be negative"})
			}
		}
		if w.Sum() == 0 {
			fields = append(fields, apperrors.FieldError{Field: "weights", Message: "at least one weight must be positive"})
		}
	}
	if len(fields) > 0 {
		return nil, apperrors.NewFieldValidationError(sortFields(fields))
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	next := *current
	if update.Weights != nil {
		next.Weights = *update.Weights
	}
	if update.ConfidenceThreshold != nil {
		next.ConfidenceThreshold = *update.ConfidenceThreshold
	}
	if update.MaxResults != nil {
		next.MaxResults = *update.MaxResults
	}
	next = matching.NormalizeConfiguration(next)
	updatedBy := actor.UserID
	next.UpdatedBy = &updatedBy

	if err := s.repo.Save(ctx, &next); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &next, nil
}
