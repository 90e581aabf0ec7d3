package dto

import "time"

// SearchFiltersInput narrows the candidate pool. Every filter is optional.
type SearchFiltersInput struct {
	Expertise       []string `json:"expertise" validate:"omitempty,dive,required"`
	ExperienceLevel string   `json:"experienceLevel" validate:"omitempty,oneof=beginner intermediate expert master"`
	MinRating       *float64 `json:"minRating" validate:"omitempty,gte=0,lte=5"`
	MaxHourlyRate   *float64 `json:"maxHourlyRate" validate:"omitempty,gte=0"`
	Language        string   `json:"language"`
	DayOfWeek       *int     `json:"dayOfWeek" validate:"omitempty,gte=0,lte=6"`
}

// MentorSearchRequest payload for POST /api/mentors/search.
type MentorSearchRequest struct {
	RequestID      string             `json:"requestId" validate:"omitempty,max=64"`
	RequiredSkills []string           `json:"requiredSkills" validate:"omitempty,dive,required"`
	Goals          []string           `json:"goals"`
	Filters        SearchFiltersInput `json:"filters"`
	PreferredDays  []int              `json:"preferredDays" validate:"omitempty,dive,gte=0,lte=6"`
	BudgetMax      *float64           `json:"budgetMax" validate:"omitempty,gte=0"`
	Limit          int                `json:"limit" validate:"gte=0,lte=100"`
}

// MentorMatchResponse is one ranked candidate.
type MentorMatchResponse struct {
	Coach          CoachResponse      `json:"coach"`
	MatchScore     float64            `json:"matchScore"`
	Confidence     float64            `json:"confidence"`
	Scores         map[string]float64 `json:"scores"`
	Strengths      []string           `json:"strengths"`
	MatchReasons   []string           `json:"matchReasons"`
	MatchingSkills []string           `json:"matchingSkills"`
	MissingSkills  []string           `json:"missingSkills"`
}

// MentorSearchResponse wraps a ranked search result.
type MentorSearchResponse struct {
	Matches          []MentorMatchResponse `json:"matches"`
	CoachesEvaluated int                   `json:"coachesEvaluated"`
	CoachesFiltered  int                   `json:"coachesFiltered"`
	ProcessingTimeMs int64                 `json:"processingTimeMs"`
	AlgorithmVersion string                `json:"algorithmVersion"`
}

// WeightsInput is the admin weight vector. Values are rescaled to sum to 100.
type WeightsInput struct {
	SkillMatch   int `json:"skillMatch" validate:"gte=0,lte=100"`
	Experience   int `json:"experience" validate:"gte=0,lte=100"`
	Rating       int `json:"rating" validate:"gte=0,lte=100"`
	Availability int `json:"availability" validate:"gte=0,lte=100"`
	Price        int `json:"price" validate:"gte=0,lte=100"`
}

// MatchingConfigRequest payload for PUT /api/matching/config. Omitted fields keep their value.
type MatchingConfigRequest struct {
	Weights             *WeightsInput `json:"weights"`
	ConfidenceThreshold *float64      `json:"confidenceThreshold" validate:"omitempty,gte=0,lte=100"`
	MaxResults          *int          `json:"maxResults" validate:"omitempty,gte=1,lte=100"`
}

// MatchingConfigResponse is the effective configuration.
type MatchingConfigResponse struct {
	Weights             WeightsInput `json:"weights"`
	ConfidenceThreshold float64      `json:"confidenceThreshold"`
	MaxResults          int          `json:"maxResults"`
	AlgorithmVersion    string       `json:"algorithmVersion"`
	UpdatedBy           *string      `json:"updatedBy,omitempty"`
	UpdatedAt           *time.Time   `json:"updatedAt,omitempty"`
}

// MatchRecordResponse is a persisted match for a coaching request.
type MatchRecordResponse struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"requestId"`
	CoachID    string    `json:"coachId"`
	MatchScore float64   `json:"matchScore"`
	Confidence float64   `json:"confidence"`
	Reasons    []string  `json:"reasons"`
	CreatedAt  time.Time `json:"createdAt"`
}
