package domain

import (
	"strings"
	"time"
)

// CoachStatus enumerates coach availability states.
type CoachStatus string

const (
	CoachStatusActive      CoachStatus = "active"
	CoachStatusInactive    CoachStatus = "inactive"
	CoachStatusBusy        CoachStatus = "busy"
	CoachStatusUnavailable CoachStatus = "unavailable"
)

// Valid reports whether s is a known status.
func (s CoachStatus) Valid() bool {
	switch s {
	case CoachStatusActive, CoachStatusInactive, CoachStatusBusy, CoachStatusUnavailable:
		return true
	}
	return false
}

// ExpertiseLevel is ordered beginner < intermediate < expert < master.
type ExpertiseLevel string

const (
	LevelBeginner     ExpertiseLevel = "beginner"
	LevelIntermediate ExpertiseLevel = "intermediate"
	LevelExpert       ExpertiseLevel = "expert"
	LevelMaster       ExpertiseLevel = "master"
)

// Rank returns 1..4 for known levels and 0 otherwise.
func (l ExpertiseLevel) Rank() int {
	switch ExpertiseLevel(strings.ToLower(string(l))) {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelExpert:
		return 3
	case LevelMaster:
		return 4
	}
	return 0
}

// Expertise is one skill area a coach covers.
type Expertise struct {
	Category        string         `json:"category"`
	Subcategory     string         `json:"subcategory"`
	YearsExperience int            `json:"yearsExperience"`
	Level           ExpertiseLevel `json:"level"`
}

// Availability is a weekly recurring window. DayOfWeek follows time.Weekday (0=Sunday).
type Availability struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Timezone  string `json:"timezone"`
}

// CoachMetrics are updated after sessions complete.
type CoachMetrics struct {
	AverageRating  float64 `json:"averageRating"`
	SuccessRate    float64 `json:"successRate"`
	ResponseTime   float64 `json:"responseTime"`
	CompletionRate float64 `json:"completionRate"`
	TotalSessions  int     `json:"totalSessions"`
	RatedSessions  int     `json:"ratedSessions"`
}

// Coach is a mentor offering sessions to companies.
type Coach struct {
	ID           string
	UserID       *string
	FirstName    string
	LastName     string
	Email        string
	Title        string
	Company      string
	Bio          string
	Expertise    []Expertise
	Availability []Availability
	HourlyRate   float64
	Currency     string
	Metrics      CoachMetrics
	Languages    []string
	Status       CoachStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name.
func (c *Coach) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HighestLevel returns the top expertise level across all skills.
func (c *Coach) HighestLevel() ExpertiseLevel {
	best := ExpertiseLevel("")
	for _, e := range c.Expertise {
		if e.Level.Rank() > best.Rank() {
			best = e.Level
		}
	}
	return best
}

// MaxYearsExperience returns the longest tenure in any skill.
func (c *Coach) MaxYearsExperience() int {
	years := 0
	for _, e := range c.Expertise {
		if e.YearsExperience > years {
			years = e.YearsExperience
		}
	}
	return years
}

// Matchable reports whether the coach can take new matches.
func (c *Coach) Matchable() bool {
	return c.Status == CoachStatusActive
}

// RecordSessionOutcome applies a finished session: completions go through
// RecordCompletedSession, no-shows only move the completion rate.
func (c *Coach) RecordSessionOutcome(completedNow bool, rating *float64, completed, closed int) {
	if completedNow {
		c.RecordCompletedSession(rating, completed, closed)
		return
	}
	if closed > 0 {
		c.Metrics.CompletionRate = float64(completed) / float64(closed)
	}
}

// RecordCompletedSession folds a completed session into the coach metrics.
// completed and closed count the coach's completed and finished (completed or no-show) sessions.
func (c *Coach) RecordCompletedSession(rating *float64, completed, closed int) {
	c.Metrics.TotalSessions++
	if rating != nil {
		total := c.Metrics.AverageRating * float64(c.Metrics.RatedSessions)
		c.Metrics.RatedSessions++
		c.Metrics.AverageRating = (total + *rating) / float64(c.Metrics.RatedSessions)
	}
	if closed > 0 {
		c.Metrics.CompletionRate = float64(completed) / float64(closed)
		if c.Metrics.CompletionRate > 1 {
			c.Metrics.CompletionRate = 1
		}
	}
}
