package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// CoachFilter narrows coach listings at the storage level. Matching filters run in memory.
type CoachFilter struct {
	Statuses []domain.CoachStatus
	Limit    int
	Offset   int
}

// CoachRepository persists coach profiles.
type CoachRepository interface {
	Create(ctx context.Context, coach *domain.Coach) error
	Update(ctx context.Context, coach *domain.Coach) error
	GetByID(ctx context.Context, id string) (*domain.Coach, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Coach, error)
	List(ctx context.Context, filter CoachFilter) ([]domain.Coach, error)
	// RecordSessionOutcome folds a completed or no-show session into the metrics in one
	// atomic write. Update leaves the metrics columns alone.
	RecordSessionOutcome(ctx context.Context, coachID string, completed bool, rating *float64) error
}

type coachRepository struct {
	pool *pgxpool.Pool
}

// NewCoachRepository returns a Postgres-backed implementation.
func NewCoachRepository(pool *pgxpool.Pool) CoachRepository {
	return &coachRepository{pool: pool}
}

const coachColumns = `id, user_id, first_name, last_name, email, title, company, bio, expertise, availability,
               hourly_rate, currency, average_rating, success_rate, response_time_hours, completion_rate,
               total_sessions, rated_sessions, languages, status, created_at, updated_at`

func (r *coachRepository) Create(ctx context.Context, coach *domain.Coach) error {
	const query = `
        INSERT INTO coaches (id, user_id, first_name, last_name, email, title, company, bio, expertise, availability,
            hourly_rate, currency, average_rating, success_rate, response_time_hours, completion_rate,
            total_sessions, rated_sessions, languages, status)
        VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text),$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		coach.ID,
		coach.UserID,
		coach.FirstName,
		coach.LastName,
		coach.Email,
		coach.Title,
		coach.Company,
		coach.Bio,
		coach.Expertise,
		coach.Availability,
		coach.HourlyRate,
		coach.Currency,
		coach.Metrics.AverageRating,
		coach.Metrics.SuccessRate,
		coach.Metrics.ResponseTime,
		coach.Metrics.CompletionRate,
		coach.Metrics.TotalSessions,
		coach.Metrics.RatedSessions,
		coach.Languages,
		coach.Status,
	).Scan(&coach.ID, &coach.CreatedAt, &coach.UpdatedAt)
}

func (r *coachRepository) Update(ctx context.Context, coach *domain.Coach) error {
	const query = `
        UPDATE coaches SET first_name=$1, last_name=$2, email=$3, title=$4, company=$5, bio=$6,
            expertise=$7, availability=$8, hourly_rate=$9, currency=$10, languages=$11, status=$12,
            updated_at=NOW()
        WHERE id=$13
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		coach.FirstName,
		coach.LastName,
		coach.Email,
		coach.Title,
		coach.Company,
		coach.Bio,
		coach.Expertise,
		coach.Availability,
		coach.HourlyRate,
		coach.Currency,
		coach.Languages,
		coach.Status,
		coach.ID,
	).Scan(&coach.UpdatedAt)
}

// RecordSessionOutcome relies on the row lock taken by UPDATE: concurrent outcomes for one
// coach apply one after the other, each reading the previous committed counters.
func (r *coachRepository) RecordSessionOutcome(ctx context.Context, coachID string, completed bool, rating *float64) error {
	const query = `
        UPDATE coaches c SET
            total_sessions = c.total_sessions + CASE WHEN $2 THEN 1 ELSE 0 END,
            rated_sessions = c.rated_sessions + CASE WHEN $2 AND $3::float8 IS NOT NULL THEN 1 ELSE 0 END,
            average_rating = CASE WHEN $2 AND $3::float8 IS NOT NULL
                THEN (c.average_rating * c.rated_sessions + $3::float8) / (c.rated_sessions + 1)
                ELSE c.average_rating END,
            completion_rate = COALESCE((
                SELECT COUNT(*) FILTER (WHERE s.status = 'completed')::float8 / NULLIF(COUNT(*), 0)
                FROM sessions s
                WHERE s.coach_id = c.id AND s.status IN ('completed', 'no_show')
            ), c.completion_rate),
            updated_at = NOW()
        WHERE c.id = $1`
	cmd, err := r.pool.Exec(ctx, query, coachID, completed, rating)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *coachRepository) GetByID(ctx context.Context, id string) (*domain.Coach, error) {
	query := `SELECT ` + coachColumns + ` FROM coaches WHERE id=$1`
	return scanCoach(r.pool.QueryRow(ctx, query, id))
}

func (r *coachRepository) GetByUserID(ctx context.Context, userID string) (*domain.Coach, error) {
	query := `SELECT ` + coachColumns + ` FROM coaches WHERE user_id=$1`
	return scanCoach(r.pool.QueryRow(ctx, query, userID))
}

func (r *coachRepository) List(ctx context.Context, filter CoachFilter) ([]domain.Coach, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM coaches WHERE %s ORDER BY id LIMIT %d OFFSET %d`,
		coachColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Coach
	for rows.Next() {
		coach, err := scanCoach(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *coach)
	}
	return result, rows.Err()
}

func scanCoach(row pgx.Row) (*domain.Coach, error) {
	var coach domain.Coach
	if err := row.Scan(
		&coach.ID,
		&coach.UserID,
		&coach.FirstName,
		&coach.LastName,
		&coach.Email,
		&coach.Title,
		&coach.Company,
		&coach.Bio,
		&coach.Expertise,
		&coach.Availability,
		&coach.HourlyRate,
		&coach.Currency,
		&coach.Metrics.AverageRating,
		&coach.Metrics.SuccessRate,
		&coach.Metrics.ResponseTime,
		&coach.Metrics.CompletionRate,
		&coach.Metrics.TotalSessions,
		&coach.Metrics.RatedSessions,
		&coach.Languages,
		&coach.Status,
		&coach.CreatedAt,
		&coach.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &coach, nil
}
