package matching

import (
	"sort"

	"github.com/spec-kit/coaching-service/internal/domain"
)

const weightTotal = 100

// NormalizeWeights rescales w so the five weights sum to exactly 100.
// Negative weights count as zero and an all-zero vector falls back to the defaults.
// Rounding uses the largest remainder method; ties go to the earlier field.
func NormalizeWeights(w domain.MatchingWeights) domain.MatchingWeights {
	raw := []int{w.SkillMatch, w.Experience, w.Rating, w.Availability, w.Price}
	sum := 0
	for i, v := range raw {
		if v < 0 {
			raw[i] = 0
			v = 0
		}
		sum += v
	}
	if sum == 0 {
		return domain.DefaultMatchingWeights()
	}

	out := make([]int, len(raw))
	rem := make([]int, len(raw))
	assigned := 0
	for i, v := range raw {
		out[i] = v * weightTotal / sum
		rem[i] = v * weightTotal % sum
		assigned += out[i]
	}

	order := []int{0, 1, 2, 3, 4}
	sort.SliceStable(order, func(a, b int) bool {
		return rem[order[a]] > rem[order[b]]
	})
	for i := 0; i < weightTotal-assigned; i++ {
		out[order[i%len(order)]]++
	}

	return domain.MatchingWeights{
		SkillMatch:   out[0],
		Experience:   out[1],
		Rating:       out[2],
		Availability: out[3],
		Price:        out[4],
	}
}

// NormalizeConfiguration returns cfg with normalized weights and bounded limits.
func NormalizeConfiguration(cfg domain.MatchingConfiguration) domain.MatchingConfiguration {
	cfg.Weights = NormalizeWeights(cfg.Weights)
	if cfg.ConfidenceThreshold < 0 {
		cfg.ConfidenceThreshold = 0
	}
	if cfg.ConfidenceThreshold > 100 {
		cfg.ConfidenceThreshold = 100
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.MaxResults > MaxResultsCap {
		cfg.MaxResults = MaxResultsCap
	}
	return cfg
}
