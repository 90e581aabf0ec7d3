package events

import (
	"time"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionScheduled       EventType = "session_scheduled"
	EventSessionRescheduled     EventType = "session_rescheduled"
	EventSessionCancelled       EventType = "session_cancelled"
	EventSessionCompleted       EventType = "session_completed"
	EventRequestStatusChanged   EventType = "coaching_request_status_changed"
	EventMatchesGenerated       EventType = "matches_generated"
	EventCoachStatusChanged     EventType = "coach_status_changed"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID string      `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// SessionPayload describes a session lifecycle event.
type SessionPayload struct {
	SessionID       string               `json:"session_id"`
	CoachID         string               `json:"coach_id"`
	RequestID       string               `json:"request_id,omitempty"`
	Title           string               `json:"title"`
	Participants    []string             `json:"participants"`
	Status          domain.SessionStatus `json:"status"`
	StartTime       time.Time            `json:"start_time"`
	EndTime         time.Time            `json:"end_time"`
	PreviousStart   *time.Time           `json:"previous_start,omitempty"`
	RescheduleCount int                  `json:"reschedule_count,omitempty"`
	Reason          string               `json:"reason,omitempty"`
	Notified        bool                 `json:"notified,omitempty"`
}

// RequestStatusChangedPayload payload.
type RequestStatusChangedPayload struct {
	CompanyID string               `json:"company_id"`
	OldStatus domain.RequestStatus `json:"old_status"`
	NewStatus domain.RequestStatus `json:"new_status"`
}

// MatchesGeneratedPayload payload.
type MatchesGeneratedPayload struct {
	CompanyID string   `json:"company_id"`
	CoachIDs  []string `json:"coach_ids"`
	TopScore  float64  `json:"top_score"`
}

// CoachStatusChangedPayload payload.
type CoachStatusChangedPayload struct {
	OldStatus domain.CoachStatus `json:"old_status"`
	NewStatus domain.CoachStatus `json:"new_status"`
}

// PasswordResetPayload carries the reset token to the notification channel.
type PasswordResetPayload struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
