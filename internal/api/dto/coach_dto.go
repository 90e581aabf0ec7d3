package dto

import "time"

// ExpertiseInput is one skill area on a coach profile.
type ExpertiseInput struct {
	Category        string `json:"category" validate:"required,max=80"`
	Subcategory     string `json:"subcategory" validate:"omitempty,max=80"`
	YearsExperience int    `json:"yearsExperience" validate:"gte=0,lte=60"`
	Level           string `json:"level" validate:"required,oneof=beginner intermediate expert master"`
}

// AvailabilityInput is a weekly recurring window.
type AvailabilityInput struct {
	DayOfWeek int    `json:"dayOfWeek" validate:"gte=0,lte=6"`
	StartTime string `json:"startTime" validate:"required,len=5"`
	EndTime   string `json:"endTime" validate:"required,len=5"`
	Timezone  string `json:"timezone" validate:"required"`
}

// CoachRequest payload for onboarding and profile updates.
type CoachRequest struct {
	FirstName    string              `json:"firstName" validate:"required,max=80"`
	LastName     string              `json:"lastName" validate:"required,max=80"`
	Email        string              `json:"email" validate:"required,email"`
	Title        string              `json:"title" validate:"omitempty,max=120"`
	Company      string              `json:"company" validate:"omitempty,max=120"`
	Bio          string              `json:"bio" validate:"omitempty,max=4000"`
	Expertise    []ExpertiseInput    `json:"expertise" validate:"required,min=1,dive"`
	Availability []AvailabilityInput `json:"availability" validate:"omitempty,dive"`
	HourlyRate   float64             `json:"hourlyRate" validate:"gte=0"`
	Currency     string              `json:"currency" validate:"omitempty,len=3"`
	Languages    []string            `json:"languages" validate:"omitempty,dive,required"`
}

// CoachStatusRequest flips a coach's availability state.
type CoachStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive busy unavailable"`
}

// CoachMetricsResponse mirrors the coach's performance counters.
type CoachMetricsResponse struct {
	AverageRating  float64 `json:"averageRating"`
	SuccessRate    float64 `json:"successRate"`
	ResponseTime   float64 `json:"responseTime"`
	CompletionRate float64 `json:"completionRate"`
	TotalSessions  int     `json:"totalSessions"`
}

// CoachResponse is the public coach profile.
type CoachResponse struct {
	ID           string               `json:"id"`
	UserID       *string              `json:"userId,omitempty"`
	FirstName    string               `json:"firstName"`
	LastName     string               `json:"lastName"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Title        string               `json:"title"`
	Company      string               `json:"company"`
	Bio          string               `json:"bio"`
	Expertise    []ExpertiseInput     `json:"expertise"`
	Availability []AvailabilityInput  `json:"availability"`
	HourlyRate   float64              `json:"hourlyRate"`
	Currency     string               `json:"currency"`
	Metrics      CoachMetricsResponse `json:"metrics"`
	Languages    []string             `json:"languages"`
	Status       string               `json:"status"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}
