package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ProcessingStat records one matching run.
type ProcessingStat struct {
	RequestID        string    `json:"request_id"`
	CoachesEvaluated int       `json:"coaches_evaluated"`
	MatchesFound     int       `json:"matches_found"`
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	RecordedAt       time.Time `json:"recorded_at"`
}

// StatsSummary aggregates the retained processing stats.
type StatsSummary struct {
	Runs                 int              `json:"runs"`
	AverageMatches       float64          `json:"average_matches"`
	AverageProcessingMs  float64          `json:"average_processing_ms"`
	TotalCoachesReviewed int              `json:"total_coaches_evaluated"`
	Recent               []ProcessingStat `json:"recent"`
}

// ProcessingStats keeps the latest runs in a sorted set scored by time, capped at 1000 entries.
type ProcessingStats struct {
	client *redis.Client
}

func NewProcessingStats(client *redis.Client) *ProcessingStats {
	return &ProcessingStats{client: client}
}

func (s *ProcessingStats) Record(ctx context.Context, stat ProcessingStat) error {
	if s.client == nil {
		return nil
	}
	raw, err := json.Marshal(stat)
	if err != nil {
		return fmt.Errorf("encode processing stat: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, KeyProcessingStats, redis.Z{
		Score:  float64(stat.RecordedAt.UnixNano()),
		Member: raw,
	})
	pipe.ZRemRangeByRank(ctx, KeyProcessingStats, 0, -maxProcessingStats-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Summary returns aggregates over every retained run plus the most recent `recent` entries.
func (s *ProcessingStats) Summary(ctx context.Context, recent int) (StatsSummary, error) {
	summary := StatsSummary{Recent: []ProcessingStat{}}
	if s.client == nil {
		return summary, nil
	}
	members, err := s.client.ZRevRange(ctx, KeyProcessingStats, 0, -1).Result()
	if err != nil {
		return summary, err
	}

	var matches, millis float64
	for i, m := range members {
		var stat ProcessingStat
		if err := json.Unmarshal([]byte(m), &stat); err != nil {
			continue
		}
		summary.Runs++
		matches += float64(stat.MatchesFound)
		millis += float64(stat.ProcessingTimeMs)
		summary.TotalCoachesReviewed += stat.CoachesEvaluated
		if i < recent {
			summary.Recent = append(summary.Recent, stat)
		}
	}
	if summary.Runs > 0 {
		summary.AverageMatches = matches / float64(summary.Runs)
		summary.AverageProcessingMs = millis / float64(summary.Runs)
	}
	return summary, nil
}
