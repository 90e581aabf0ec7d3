package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// MatchRepository persists the latest match set for each coaching request.
type MatchRepository interface {
	ReplaceForRequest(ctx context.Context, requestID string, records []domain.MatchRecord) error
	ListByRequest(ctx context.Context, requestID string) ([]domain.MatchRecord, error)
}

type matchRepository struct {
	pool *pgxpool.Pool
}

// NewMatchRepository constructs repository.
func NewMatchRepository(pool *pgxpool.Pool) MatchRepository {
	return &matchRepository{pool: pool}
}

func (r *matchRepository) ReplaceForRequest(ctx context.Context, requestID string, records []domain.MatchRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM coach_matches WHERE request_id=$1`, requestID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
            INSERT INTO coach_matches (request_id, coach_id, match_score, confidence, reasons)
            VALUES ($1,$2,$3,$4,$5)`,
			requestID, rec.CoachID, rec.MatchScore, rec.Confidence, rec.Reasons)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *matchRepository) ListByRequest(ctx context.Context, requestID string) ([]domain.MatchRecord, error) {
	const query = `
        SELECT id, request_id, coach_id, match_score, confidence, reasons, created_at
        FROM coach_matches WHERE request_id=$1 ORDER BY match_score DESC, coach_id ASC`
	rows, err := r.pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MatchRecord
	for rows.Next() {
		var rec domain.MatchRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.RequestID,
			&rec.CoachID,
			&rec.MatchScore,
			&rec.Confidence,
			&rec.Reasons,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}
