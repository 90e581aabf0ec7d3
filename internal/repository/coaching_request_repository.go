package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// CoachingRequestFilter captures listing parameters.
type CoachingRequestFilter struct {
	CompanyID *string
	Statuses  []domain.RequestStatus
	Limit     int
	Offset    int
}

// CoachingRequestRepository persists company coaching requests.
type CoachingRequestRepository interface {
	Create(ctx context.Context, req *domain.CoachingRequest) error
	Update(ctx context.Context, req *domain.CoachingRequest) error
	GetByID(ctx context.Context, id string) (*domain.CoachingRequest, error)
	List(ctx context.Context, filter CoachingRequestFilter) ([]domain.CoachingRequest, error)
}

type coachingRequestRepository struct {
	pool *pgxpool.Pool
}

// NewCoachingRequestRepository builds the repository.
func NewCoachingRequestRepository(pool *pgxpool.Pool) CoachingRequestRepository {
	return &coachingRequestRepository{pool: pool}
}

const coachingRequestColumns = `id, company_id, created_by, title, description, goals, required_skills, languages,
               team_members, start_date, end_date, session_frequency, budget_min, budget_max, budget_currency,
               status, created_at, updated_at`

func (r *coachingRequestRepository) Create(ctx context.Context, req *domain.CoachingRequest) error {
	const query = `
        INSERT INTO coaching_requests (company_id, created_by, title, description, goals, required_skills, languages,
            team_members, start_date, end_date, session_frequency, budget_min, budget_max, budget_currency, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		req.CompanyID,
		req.CreatedBy,
		req.Title,
		req.Description,
		req.Goals,
		req.RequiredSkills,
		req.Languages,
		req.TeamMembers,
		req.Timeline.StartDate,
		req.Timeline.EndDate,
		req.Timeline.SessionFrequency,
		req.Budget.Min,
		req.Budget.Max,
		req.Budget.Currency,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *coachingRequestRepository) Update(ctx context.Context, req *domain.CoachingRequest) error {
	const query = `
        UPDATE coaching_requests SET title=$1, description=$2, goals=$3, required_skills=$4, languages=$5,
            team_members=$6, start_date=$7, end_date=$8, session_frequency=$9, budget_min=$10, budget_max=$11,
            budget_currency=$12, status=$13, updated_at=NOW()
        WHERE id=$14`
	cmd, err := r.pool.Exec(ctx, query,
		req.Title,
		req.Description,
		req.Goals,
		req.RequiredSkills,
		req.Languages,
		req.TeamMembers,
		req.Timeline.StartDate,
		req.Timeline.EndDate,
		req.Timeline.SessionFrequency,
		req.Budget.Min,
		req.Budget.Max,
		req.Budget.Currency,
		req.Status,
		req.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *coachingRequestRepository) GetByID(ctx context.Context, id string) (*domain.CoachingRequest, error) {
	query := `SELECT ` + coachingRequestColumns + ` FROM coaching_requests WHERE id::text=$1`
	return scanCoachingRequest(r.pool.QueryRow(ctx, query, id))
}

func (r *coachingRequestRepository) List(ctx context.Context, filter CoachingRequestFilter) ([]domain.CoachingRequest, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CompanyID != nil {
		args = append(args, *filter.CompanyID)
		clauses = append(clauses, fmt.Sprintf("company_id=$%d", len(args)))
	}
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
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM coaching_requests WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		coachingRequestColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CoachingRequest
	for rows.Next() {
		req, err := scanCoachingRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	return result, rows.Err()
}

func scanCoachingRequest(row pgx.Row) (*domain.CoachingRequest, error) {
	var req domain.CoachingRequest
	if err := row.Scan(
		&req.ID,
		&req.CompanyID,
		&req.CreatedBy,
		&req.Title,
		&req.Description,
		&req.Goals,
		&req.RequiredSkills,
		&req.Languages,
		&req.TeamMembers,
		&req.Timeline.StartDate,
		&req.Timeline.EndDate,
		&req.Timeline.SessionFrequency,
		&req.Budget.Min,
		&req.Budget.Max,
		&req.Budget.Currency,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}
