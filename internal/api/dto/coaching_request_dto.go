package dto

import "time"

// TeamMemberInput is a participant on the company side.
type TeamMemberInput struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role"`
}

// TimelineInput bounds the program. Dates are RFC 3339.
type TimelineInput struct {
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	SessionFrequency string     `json:"sessionFrequency" validate:"omitempty,oneof=weekly bi-weekly monthly"`
}

// BudgetInput is the spend range per coaching hour.
type BudgetInput struct {
	Min      float64 `json:"min" validate:"gte=0"`
	Max      float64 `json:"max" validate:"gte=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
}

// CoachingRequestRequest payload for creating or editing a draft request.
type CoachingRequestRequest struct {
	Title          string            `json:"title" validate:"required,max=200"`
	Description    string            `json:"description" validate:"omitempty,max=5000"`
	Goals          []string          `json:"goals" validate:"required,min=1,dive,required"`
	RequiredSkills []string          `json:"requiredSkills" validate:"omitempty,dive,required"`
	Languages      []string          `json:"languages" validate:"omitempty,dive,required"`
	TeamMembers    []TeamMemberInput `json:"teamMembers" validate:"omitempty,dive"`
	Timeline       TimelineInput     `json:"timeline"`
	Budget         BudgetInput       `json:"budget"`
}

// RequestStatusRequest moves a request through its lifecycle.
type RequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=submitted matched active completed cancelled"`
}

// CoachingRequestResponse is the full request view.
type CoachingRequestResponse struct {
	ID             string            `json:"id"`
	CompanyID      string            `json:"companyId"`
	CreatedBy      string            `json:"createdBy"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Goals          []string          `json:"goals"`
	RequiredSkills []string          `json:"requiredSkills"`
	Languages      []string          `json:"languages"`
	TeamMembers    []TeamMemberInput `json:"teamMembers"`
	Timeline       TimelineInput     `json:"timeline"`
	Budget         BudgetInput       `json:"budget"`
	Status         string            `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// FindMatchesResponse is returned after running matching for a request.
type FindMatchesResponse struct {
	Request CoachingRequestResponse `json:"request"`
	Result  MentorSearchResponse    `json:"result"`
}
