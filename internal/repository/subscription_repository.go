package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// SubscriptionRepository persists company subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	Update(ctx context.Context, sub *domain.Subscription) error
	GetActiveByCompany(ctx context.Context, companyID string) (*domain.Subscription, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository constructs repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        INSERT INTO subscriptions (company_id, tier, seats, status, current_period_start, current_period_end)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		sub.CompanyID,
		sub.Tier,
		sub.Seats,
		sub.Status,
		sub.CurrentPeriodStart,
		sub.CurrentPeriodEnd,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	return mapWriteError(err)
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        UPDATE subscriptions SET tier=$1, seats=$2, status=$3, current_period_start=$4,
            current_period_end=$5, cancelled_at=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		sub.Tier,
		sub.Seats,
		sub.Status,
		sub.CurrentPeriodStart,
		sub.CurrentPeriodEnd,
		sub.CancelledAt,
		sub.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subscriptionRepository) GetActiveByCompany(ctx context.Context, companyID string) (*domain.Subscription, error) {
	const query = `
        SELECT id, company_id, tier, seats, status, current_period_start, current_period_end,
               cancelled_at, created_at, updated_at
        FROM subscriptions WHERE company_id=$1 AND status <> 'cancelled'
        ORDER BY created_at DESC LIMIT 1`
	var sub domain.Subscription
	if err := r.pool.QueryRow(ctx, query, companyID).Scan(
		&sub.ID,
		&sub.CompanyID,
		&sub.Tier,
		&sub.Seats,
		&sub.Status,
		&sub.CurrentPeriodStart,
		&sub.CurrentPeriodEnd,
		&sub.CancelledAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}
