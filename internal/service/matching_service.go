package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/cache"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/matching"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// MatchingService runs mentor searches against the current configuration.
type MatchingService struct {
	engine  *matching.Engine
	coaches repository.CoachRepository
	config  *MatchingConfigService
	results *cache.MatchResultCache
	stats   *cache.ProcessingStats
	logger  *zap.Logger
	now     func() time.Time
}

// MatchingDependencies bundles collaborators for the matching service.
type MatchingDependencies struct {
	Engine      *matching.Engine
	CoachRepo   repository.CoachRepository
	Config      *MatchingConfigService
	ResultCache *cache.MatchResultCache
	Stats       *cache.ProcessingStats
	Logger      *zap.Logger
}

// NewMatchingService constructs the service.
func NewMatchingService(deps MatchingDependencies) *MatchingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := deps.Engine
	if engine == nil {
		engine = matching.NewEngine("")
	}
	return &MatchingService{
		engine:  engine,
		coaches: deps.CoachRepo,
		config:  deps.Config,
		results: deps.ResultCache,
		stats:   deps.Stats,
		logger:  logger,
		now:     time.Now,
	}
}

// Search ranks active coaches for req. Bad input is a validation error; anything else
// surfaces as the generic matching failure. Ad-hoc searches only feed the processing
// stats; the per-request result cache is written by StoreResult.
func (s *MatchingService) Search(ctx context.Context, req matching.SearchRequest) (matching.Result, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return matching.Result{}, apperrors.NewMatchingFailed(err)
	}
	coaches, err := s.coaches.List(ctx, repository.CoachFilter{Statuses: []domain.CoachStatus{domain.CoachStatusActive}})
	if err != nil {
		s.logger.Error("matching failed to load coaches", zap.Error(err))
		return matching.Result{}, apperrors.NewMatchingFailed(err)
	}

	result, err := s.engine.Rank(coaches, req, *cfg)
	if err != nil {
		if errors.Is(err, matching.ErrInvalidSearch) {
			return matching.Result{}, apperrors.NewValidationError(err.Error(), nil)
		}
		s.logger.Error("matching failed", zap.Error(err))
		return matching.Result{}, apperrors.NewMatchingFailed(err)
	}

	s.record(ctx, req.RequestID, result)
	return result, nil
}

// StoreResult caches the ranking produced for a coaching request the caller has
// already authorized.
func (s *MatchingService) StoreResult(ctx context.Context, requestID string, result matching.Result) {
	if s.results == nil || requestID == "" {
		return
	}
	if err := s.results.Store(ctx, ToCachedResult(requestID, result, s.now().UTC())); err != nil {
		s.logger.Warn("failed to cache match result", zap.String("request_id", requestID), zap.Error(err))
	}
}

// Stats summarizes recent matching runs.
func (s *MatchingService) Stats(ctx context.Context, recent int) (cache.StatsSummary, error) {
	if s.stats == nil {
		return cache.StatsSummary{}, nil
	}
	summary, err := s.stats.Summary(ctx, recent)
	if err != nil {
		return cache.StatsSummary{}, apperrors.MapError(err)
	}
	return summary, nil
}

// CachedResult returns the last cached ranking for a coaching request.
func (s *MatchingService) CachedResult(ctx context.Context, requestID string) (*cache.MatchResult, error) {
	if s.results == nil {
		return nil, cache.ErrCacheMiss
	}
	return s.results.Load(ctx, requestID)
}

// Version returns the algorithm version stamped on results.
func (s *MatchingService) Version() string {
	return s.engine.Version()
}

func (s *MatchingService) record(ctx context.Context, requestID string, result matching.Result) {
	if s.stats == nil {
		return
	}
	stat := cache.ProcessingStat{
		RequestID:        requestID,
		CoachesEvaluated: result.CoachesEvaluated,
		MatchesFound:     len(result.Matches),
		ProcessingTimeMs: result.ProcessingTime.Milliseconds(),
		RecordedAt:       s.now().UTC(),
	}
	if err := s.stats.Record(ctx, stat); err != nil {
		s.logger.Warn("failed to record matching stats", zap.Error(err))
	}
}

// ToCachedResult flattens an engine result into its cached form.
func ToCachedResult(requestID string, result matching.Result, at time.Time) cache.MatchResult {
	matches := make([]cache.CachedMatch, 0, len(result.Matches))
	for _, m := range result.Matches {
		matches = append(matches, cache.CachedMatch{
			CoachID:        m.Coach.ID,
			CoachName:      m.Coach.FullName(),
			MatchScore:     m.MatchScore,
			Confidence:     m.Confidence,
			Strengths:      m.Strengths,
			MatchReasons:   m.MatchReasons,
			MatchingSkills: m.MatchingSkills,
			MissingSkills:  m.MissingSkills,
		})
	}
	return cache.MatchResult{
		RequestID:        requestID,
		Matches:          matches,
		AlgorithmVersion: result.AlgorithmVersion,
		ProcessingTimeMs: result.ProcessingTime.Milliseconds(),
		GeneratedAt:      at,
	}
}
