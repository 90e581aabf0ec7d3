package domain

import "time"

// RequestStatus tracks a coaching request through its lifecycle.
type RequestStatus string

const (
	RequestStatusDraft     RequestStatus = "draft"
	RequestStatusSubmitted RequestStatus = "submitted"
	RequestStatusMatched   RequestStatus = "matched"
	RequestStatusActive    RequestStatus = "active"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusCancelled RequestStatus = "cancelled"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusDraft:     {RequestStatusSubmitted, RequestStatusCancelled},
	RequestStatusSubmitted: {RequestStatusMatched, RequestStatusCancelled},
	RequestStatusMatched:   {RequestStatusActive, RequestStatusCancelled},
	RequestStatusActive:    {RequestStatusCompleted, RequestStatusCancelled},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SessionFrequency describes how often sessions of a program should occur.
type SessionFrequency string

const (
	FrequencyWeekly   SessionFrequency = "weekly"
	FrequencyBiweekly SessionFrequency = "bi-weekly"
	FrequencyMonthly  SessionFrequency = "monthly"
)

// IntervalDays returns the ideal gap between sessions.
func (f SessionFrequency) IntervalDays() int {
	switch f {
	case FrequencyBiweekly:
		return 14
	case FrequencyMonthly:
		return 30
	default:
		return 7
	}
}

// TeamMember is a participant on the company side.
type TeamMember struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Timeline bounds when a program runs.
type Timeline struct {
	StartDate        *time.Time
	EndDate          *time.Time
	SessionFrequency SessionFrequency
}

// Contains reports whether t falls inside the timeline. Open bounds always match.
func (tl Timeline) Contains(t time.Time) bool {
	if tl.StartDate != nil && t.Before(*tl.StartDate) {
		return false
	}
	if tl.EndDate != nil && t.After(*tl.EndDate) {
		return false
	}
	return true
}

// Budget is the company's spend range per coaching hour.
type Budget struct {
	Min      float64
	Max      float64
	Currency string
}

// CoachingRequest is a company-authored program request that drives matching.
type CoachingRequest struct {
	ID             string
	CompanyID      string
	CreatedBy      string
	Title          string
	Description    string
	Goals          []string
	RequiredSkills []string
	Languages      []string
	TeamMembers    []TeamMember
	Timeline       Timeline
	Budget         Budget
	Status         RequestStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
