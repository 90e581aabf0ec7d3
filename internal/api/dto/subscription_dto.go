package dto

import "time"

// SubscribeRequest starts a company subscription.
type SubscribeRequest struct {
	Tier  string `json:"tier" validate:"required,oneof=starter growth enterprise"`
	Seats int    `json:"seats" validate:"required,gte=1"`
}

// ChangeSeatsRequest resizes the active subscription.
type ChangeSeatsRequest struct {
	Seats int `json:"seats" validate:"required,gte=1"`
}

// TierResponse describes a plan in the catalog.
type TierResponse struct {
	Tier               string  `json:"tier"`
	Name               string  `json:"name"`
	PricePerSeat       float64 `json:"pricePerSeat"`
	Currency           string  `json:"currency"`
	MaxSeats           int     `json:"maxSeats"`
	SessionsPerMonth   int     `json:"sessionsPerMonth"`
	CustomMatchWeights bool    `json:"customMatchWeights"`
}

// SubscriptionResponse is a company's plan.
type SubscriptionResponse struct {
	ID                 string     `json:"id"`
	CompanyID          string     `json:"companyId"`
	Tier               string     `json:"tier"`
	Seats              int        `json:"seats"`
	Status             string     `json:"status"`
	MonthlyAmount      float64    `json:"monthlyAmount"`
	Currency           string     `json:"currency"`
	CurrentPeriodStart time.Time  `json:"currentPeriodStart"`
	CurrentPeriodEnd   time.Time  `json:"currentPeriodEnd"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
}
