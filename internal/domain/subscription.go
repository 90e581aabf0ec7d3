package domain

import "time"

// SubscriptionTier names a billing plan.
type SubscriptionTier string

const (
	TierStarter    SubscriptionTier = "starter"
	TierGrowth     SubscriptionTier = "growth"
	TierEnterprise SubscriptionTier = "enterprise"
)

// SubscriptionStatus tracks billing state.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPastDue   SubscriptionStatus = "past_due"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// TierPlan describes what a tier includes.
type TierPlan struct {
	Tier               SubscriptionTier
	Name               string
	PricePerSeat       float64
	Currency           string
	MaxSeats           int
	SessionsPerMonth   int
	CustomMatchWeights bool
}

// Subscription is a company's plan.
type Subscription struct {
	ID                 string
	CompanyID          string
	Tier               SubscriptionTier
	Seats              int
	Status             SubscriptionStatus
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// MonthlyAmount returns the recurring charge for the subscription.
func (s *Subscription) MonthlyAmount(plan TierPlan) float64 {
	return plan.PricePerSeat * float64(s.Seats)
}
