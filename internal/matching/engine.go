package matching

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spec-kit/coaching-service/internal/domain"
)

const (
	DefaultMaxResults = 10
	MaxResultsCap     = 100
)

var ErrInvalidSearch = errors.New("invalid search request")

// Result is a ranked match set plus processing statistics.
type Result struct {
	Matches          []domain.MentorMatch
	CoachesEvaluated int
	CoachesFiltered  int
	ProcessingTime   time.Duration
	AlgorithmVersion string
}

// Engine ranks coaches for a search request.
type Engine struct {
	version string
	now     func() time.Time
}

func NewEngine(version string) *Engine {
	if version == "" {
		version = "1.0.0"
	}
	return &Engine{version: version, now: time.Now}
}

func (e *Engine) Version() string {
	return e.version
}

// Rank filters, scores and orders candidates. Matches scoring under the configured
// confidence threshold are dropped. Equal scores are ordered by coach ID.
func (e *Engine) Rank(candidates []domain.Coach, req SearchRequest, cfg domain.MatchingConfiguration) (Result, error) {
	started := e.now()
	if err := validateSearch(req); err != nil {
		return Result{}, err
	}
	cfg = NormalizeConfiguration(cfg)

	pool := make([]domain.Coach, 0, len(candidates))
	for i := range candidates {
		if candidates[i].Matchable() {
			pool = append(pool, candidates[i])
		}
	}
	filtered := Filter(pool, req.Filters)

	matches := make([]domain.MentorMatch, 0, len(filtered))
	for _, c := range filtered {
		m := Score(c, req, cfg.Weights)
		if m.MatchScore < cfg.ConfidenceThreshold {
			continue
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchScore != matches[j].MatchScore {
			return matches[i].MatchScore > matches[j].MatchScore
		}
		return matches[i].Coach.ID < matches[j].Coach.ID
	})

	limit := cfg.MaxResults
	if req.Limit > 0 && req.Limit < limit {
		limit = req.Limit
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return Result{
		Matches:          matches,
		CoachesEvaluated: len(pool),
		CoachesFiltered:  len(filtered),
		ProcessingTime:   e.now().Sub(started),
		AlgorithmVersion: e.version,
	}, nil
}

func validateSearch(req SearchRequest) error {
	if req.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidSearch)
	}
	if d := req.Filters.DayOfWeek; d != nil && (*d < 0 || *d > 6) {
		return fmt.Errorf("%w: day_of_week %d out of range", ErrInvalidSearch, *d)
	}
	for _, d := range req.PreferredDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: preferred day %d out of range", ErrInvalidSearch, d)
		}
	}
	if r := req.Filters.MinRating; r != nil && (*r < 0 || *r > 5) {
		return fmt.Errorf("%w: min_rating must be between 0 and 5", ErrInvalidSearch)
	}
	if req.RequiredLevel != "" && req.RequiredLevel.Rank() == 0 {
		return fmt.Errorf("%w: unknown required level %q", ErrInvalidSearch, req.RequiredLevel)
	}
	if req.BudgetMax != nil && *req.BudgetMax < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrInvalidSearch)
	}
	return nil
}
