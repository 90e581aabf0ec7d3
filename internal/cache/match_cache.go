package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedMatch is the cached form of one ranked match.
type CachedMatch struct {
	CoachID        string   `json:"coach_id"`
	CoachName      string   `json:"coach_name"`
	MatchScore     float64  `json:"match_score"`
	Confidence     float64  `json:"confidence"`
	Strengths      []string `json:"strengths"`
	MatchReasons   []string `json:"match_reasons"`
	MatchingSkills []string `json:"matching_skills"`
	MissingSkills  []string `json:"missing_skills"`
}

// MatchResult is the cached outcome of matching one coaching request.
type MatchResult struct {
	RequestID        string        `json:"request_id"`
	Matches          []CachedMatch `json:"matches"`
	AlgorithmVersion string        `json:"algorithm_version"`
	ProcessingTimeMs int64         `json:"processing_time_ms"`
	GeneratedAt      time.Time     `json:"generated_at"`
}

// MatchResultCache stores the latest match result per request under match_result:{id}.
type MatchResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMatchResultCache(client *redis.Client, ttl time.Duration) *MatchResultCache {
	return &MatchResultCache{client: client, ttl: ttl}
}

func (c *MatchResultCache) Store(ctx context.Context, result MatchResult) error {
	return setJSON(ctx, c.client, PrefixMatchResult+result.RequestID, result, c.ttl)
}

// Load returns ErrCacheMiss when nothing is cached for requestID.
func (c *MatchResultCache) Load(ctx context.Context, requestID string) (*MatchResult, error) {
	var result MatchResult
	if err := getJSON(ctx, c.client, PrefixMatchResult+requestID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
