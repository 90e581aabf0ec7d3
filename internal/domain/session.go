package domain

import (
	"errors"
	"time"
)

// SessionStatus enumerates lifecycle states for sessions.
type SessionStatus string

const (
	SessionStatusScheduled  SessionStatus = "scheduled"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusCancelled  SessionStatus = "cancelled"
	SessionStatusNoShow     SessionStatus = "no_show"
)

var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionStatusScheduled:  {SessionStatusInProgress, SessionStatusCancelled, SessionStatusNoShow},
	SessionStatusInProgress: {SessionStatusCompleted, SessionStatusCancelled},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SessionType enumerates meeting formats.
type SessionType string

const (
	SessionTypeOneOnOne  SessionType = "one_on_one"
	SessionTypeGroup     SessionType = "group"
	SessionTypeWorkshop  SessionType = "workshop"
	SessionTypeMentoring SessionType = "mentoring"
)

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	switch t {
	case SessionTypeOneOnOne, SessionTypeGroup, SessionTypeWorkshop, SessionTypeMentoring:
		return true
	}
	return false
}

var (
	ErrSessionEndBeforeStart = errors.New("scheduled end time must be after start time")
	ErrSessionInPast         = errors.New("scheduled start time cannot be in the past")
)

// Session is a scheduled meeting between a coach and a company team.
type Session struct {
	ID                 string
	RequestID          string
	CoachID            string
	CompanyID          string
	Title              string
	Type               SessionType
	ScheduledStartTime time.Time
	ScheduledEndTime   time.Time
	Participants       []string
	Status             SessionStatus
	RescheduleCount    int
	Rating             *float64
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Duration returns the scheduled length.
func (s *Session) Duration() time.Duration {
	return s.ScheduledEndTime.Sub(s.ScheduledStartTime)
}

// Blocking reports whether the session still occupies the coach's calendar.
func (s *Session) Blocking() bool {
	return s.Status != SessionStatusCancelled
}

// ValidateSessionWindow enforces end > start and start not before now.
func ValidateSessionWindow(start, end, now time.Time) error {
	if !end.After(start) {
		return ErrSessionEndBeforeStart
	}
	if start.Before(now) {
		return ErrSessionInPast
	}
	return nil
}
