package domain

import "time"

// MatchingWeights is the admin-tunable weight vector. Normalized weights sum to 100.
type MatchingWeights struct {
	SkillMatch   int `json:"skillMatch"`
	Experience   int `json:"experience"`
	Rating       int `json:"rating"`
	Availability int `json:"availability"`
	Price        int `json:"price"`
}

// Sum adds the five weights.
func (w MatchingWeights) Sum() int {
	return w.SkillMatch + w.Experience + w.Rating + w.Availability + w.Price
}

// DefaultMatchingWeights mirrors the stock algorithm settings.
func DefaultMatchingWeights() MatchingWeights {
	return MatchingWeights{SkillMatch: 30, Experience: 25, Rating: 20, Availability: 15, Price: 10}
}

// MatchingConfiguration drives the scoring formula.
type MatchingConfiguration struct {
	Weights             MatchingWeights
	ConfidenceThreshold float64
	MaxResults          int
	UpdatedBy           *string
	UpdatedAt           time.Time
}

// SubScores are the five normalized factors, each in [0,1].
type SubScores struct {
	Skill        float64 `json:"skill"`
	Experience   float64 `json:"experience"`
	Rating       float64 `json:"rating"`
	Availability float64 `json:"availability"`
	Price        float64 `json:"price"`
}

// MentorMatch is one ranked candidate for a request.
type MentorMatch struct {
	Coach          Coach
	MatchScore     float64
	Scores         SubScores
	Confidence     float64
	Strengths      []string
	MatchReasons   []string
	MatchingSkills []string
	MissingSkills  []string
}

// MatchRecord is a persisted match outcome for a coaching request.
type MatchRecord struct {
	ID         string
	RequestID  string
	CoachID    string
	MatchScore float64
	Confidence float64
	Reasons    []string
	CreatedAt  time.Time
}

// AvailabilityTier buckets a slot by how free the coach is that day.
type AvailabilityTier string

const (
	AvailabilityHigh   AvailabilityTier = "high"
	AvailabilityMedium AvailabilityTier = "medium"
	AvailabilityLow    AvailabilityTier = "low"
)

// ProgramFitTier buckets a slot by how well it suits the program cadence.
type ProgramFitTier string

const (
	ProgramFitExcellent ProgramFitTier = "excellent"
	ProgramFitGood      ProgramFitTier = "good"
	ProgramFitFair      ProgramFitTier = "fair"
)

// Urgency shifts recommendations toward earlier slots.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// ScheduleRecommendation is a scored candidate time slot.
type ScheduleRecommendation struct {
	CoachID           string
	RequestID         string
	StartTime         time.Time
	EndTime           time.Time
	Score             float64
	CoachAvailability AvailabilityTier
	ProgramFit        ProgramFitTier
	SessionType       SessionType
	Reasoning         []string
}
