package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

var tierCatalog = []domain.TierPlan{
	{Tier: domain.TierStarter, Name: "Starter", PricePerSeat: 49, Currency: "USD", MaxSeats: 10, SessionsPerMonth: 4},
	{Tier: domain.TierGrowth, Name: "Growth", PricePerSeat: 99, Currency: "USD", MaxSeats: 50, SessionsPerMonth: 12},
	{Tier: domain.TierEnterprise, Name: "Enterprise", PricePerSeat: 199, Currency: "USD", MaxSeats: 1000, SessionsPerMonth: 40, CustomMatchWeights: true},
}

// SubscriptionService manages company plans. Billing happens outside this service.
type SubscriptionService struct {
	subs   repository.SubscriptionRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewSubscriptionService constructs the service.
func NewSubscriptionService(subs repository.SubscriptionRepository, logger *zap.Logger) *SubscriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionService{subs: subs, logger: logger, now: time.Now}
}

// Tiers lists the plan catalog.
func (s *SubscriptionService) Tiers() []domain.TierPlan {
	return append([]domain.TierPlan{}, tierCatalog...)
}

// Plan returns the catalog entry for tier.
func (s *SubscriptionService) Plan(tier domain.SubscriptionTier) (domain.TierPlan, bool) {
	for _, p := range tierCatalog {
		if p.Tier == tier {
			return p, true
		}
	}
	return domain.TierPlan{}, false
}

// Current returns the company's active subscription.
func (s *SubscriptionService) Current(ctx context.Context, actor Actor) (*domain.Subscription, error) {
	if err := requireCompany(actor); err != nil {
		return nil, err
	}
	sub, err := s.subs.GetActiveByCompany(ctx, actor.CompanyID)
	if err != nil {
		return nil, lookupError(err, "subscription", actor.CompanyID)
	}
	return sub, nil
}

// Subscribe starts a plan. A company holds at most one active subscription.
func (s *SubscriptionService) Subscribe(ctx context.Context, actor Actor, tier domain.SubscriptionTier, seats int) (*domain.Subscription, error) {
	if err := requireCompany(actor); err != nil {
		return nil, err
	}
	plan, ok := s.Plan(tier)
	if !ok {
		return nil, fieldError("tier", "tier must be one of starter, growth, enterprise")
	}
	if err := checkSeats(plan, seats); err != nil {
		return nil, err
	}
	if _, err := s.subs.GetActiveByCompany(ctx, actor.CompanyID); err == nil {
		return nil, apperrors.NewConflict("company already has an active subscription", nil)
	} else if !apperrors.IsNotFound(err) {
		return nil, apperrors.MapError(err)
	}

	start := s.now().UTC()
	sub := &domain.Subscription{
		CompanyID:          actor.CompanyID,
		Tier:               tier,
		Seats:              seats,
		Status:             domain.SubscriptionActive,
		CurrentPeriodStart: start,
		CurrentPeriodEnd:   start.AddDate(0, 1, 0),
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("subscription started", zap.String("company_id", sub.CompanyID), zap.String("tier", string(tier)))
	return sub, nil
}

// ChangeSeats adjusts the seat count within the plan limit.
func (s *SubscriptionService) ChangeSeats(ctx context.Context, actor Actor, seats int) (*domain.Subscription, error) {
	sub, err := s.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	plan, _ := s.Plan(sub.Tier)
	if err := checkSeats(plan, seats); err != nil {
		return nil, err
	}
	sub.Seats = seats
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, lookupError(err, "subscription", sub.ID)
	}
	return sub, nil
}

// Cancel stops renewal. The current period end is kept.
func (s *SubscriptionService) Cancel(ctx context.Context, actor Actor) (*domain.Subscription, error) {
	sub, err := s.Current(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sub.Status = domain.SubscriptionCancelled
	sub.CancelledAt = &now
	if err := s.subs.Update(ctx, sub); err != nil {
		return nil, lookupError(err, "subscription", sub.ID)
	}
	return sub, nil
}

func requireCompany(actor Actor) error {
	if !actor.Is(domain.RoleCompanyAdmin) || actor.CompanyID == "" {
		return apperrors.NewForbidden("company admin required")
	}
	return nil
}

func checkSeats(plan domain.TierPlan, seats int) error {
	if seats < 1 || (plan.MaxSeats > 0 && seats > plan.MaxSeats) {
		return apperrors.NewFieldValidationError([]apperrors.FieldError{{
			Field:   "seats",
			Message: "seats must be between 1 and the plan maximum",
		}})
	}
	return nil
}
