package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// MatchingConfigRepository stores the single platform-wide matching configuration.
// Get returns pgx.ErrNoRows until an admin saves one.
type MatchingConfigRepository interface {
	Get(ctx context.Context) (*domain.MatchingConfiguration, error)
	Save(ctx context.Context, cfg *domain.MatchingConfiguration) error
}

type matchingConfigRepository struct {
	pool *pgxpool.Pool
}

// NewMatchingConfigRepository constructs repository.
func NewMatchingConfigRepository(pool *pgxpool.Pool) MatchingConfigRepository {
	return &matchingConfigRepository{pool: pool}
}

func (r *matchingConfigRepository) Get(ctx context.Context) (*domain.MatchingConfiguration, error) {
	const query = `
        SELECT skill_match_weight, experience_weight, rating_weight, availability_weight, price_weight,
               confidence_threshold, max_results, updated_by, updated_at
        FROM matching_configuration WHERE id=1`
	var cfg domain.MatchingConfiguration
	if err := r.pool.QueryRow(ctx, query).Scan(
		&cfg.Weights.SkillMatch,
		&cfg.Weights.Experience,
		&cfg.Weights.Rating,
		&cfg.Weights.Availability,
		&cfg.Weights.Price,
		&cfg.ConfidenceThreshold,
		&cfg.MaxResults,
		&cfg.UpdatedBy,
		&cfg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *matchingConfigRepository) Save(ctx context.Context, cfg *domain.MatchingConfiguration) error {
	const query = `
        INSERT INTO matching_configuration (id, skill_match_weight, experience_weight, rating_weight,
            availability_weight, price_weight, confidence_threshold, max_results, updated_by, updated_at)
        VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8,NOW())
        ON CONFLICT (id) DO UPDATE SET
            skill_match_weight=EXCLUDED.skill_match_weight,
            experience_weight=EXCLUDED.experience_weight,
            rating_weight=EXCLUDED.rating_weight,
            availability_weight=EXCLUDED.availability_weight,
            price_weight=EXCLUDED.price_weight,
            confidence_threshold=EXCLUDED.confidence_threshold,
            max_results=EXCLUDED.max_results,
            updated_by=EXCLUDED.updated_by,
            updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		cfg.Weights.SkillMatch,
		cfg.Weights.Experience,
		cfg.Weights.Rating,
		cfg.Weights.Availability,
		cfg.Weights.Price,
		cfg.ConfidenceThreshold,
		cfg.MaxResults,
		cfg.UpdatedBy,
	).Scan(&cfg.UpdatedAt)
}
