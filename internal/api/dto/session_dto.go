package dto

import "time"

// ScheduleSessionRequest payload for POST /api/sessions.
type ScheduleSessionRequest struct {
	RequestID          string    `json:"requestId" validate:"required"`
	CoachID            string    `json:"coachId" validate:"required"`
	Title              string    `json:"title" validate:"omitempty,max=200"`
	Type               string    `json:"type" validate:"omitempty,oneof=one_on_one group workshop mentoring"`
	ScheduledStartTime time.Time `json:"scheduledStartTime" validate:"required"`
	ScheduledEndTime   time.Time `json:"scheduledEndTime" validate:"required,gtfield=ScheduledStartTime"`
	Participants       []string  `json:"participants" validate:"omitempty,dive,email"`
	Notes              string    `json:"notes" validate:"omitempty,max=2000"`
}

// BookRecommendationRequest books a recommended slot. SessionType echoes the
// recommendation and is used when Type is empty.
type BookRecommendationRequest struct {
	RequestID          string    `json:"requestId" validate:"required"`
	CoachID            string    `json:"coachId" validate:"required"`
	Title              string    `json:"title" validate:"omitempty,max=200"`
	Type               string    `json:"type" validate:"omitempty,oneof=one_on_one group workshop mentoring"`
	SessionType        string    `json:"sessionType" validate:"omitempty,oneof=one_on_one group workshop mentoring"`
	ScheduledStartTime time.Time `json:"scheduledStartTime" validate:"required"`
	ScheduledEndTime   time.Time `json:"scheduledEndTime" validate:"required,gtfield=ScheduledStartTime"`
	Participants       []string  `json:"participants" validate:"omitempty,dive,email"`
	Notes              string    `json:"notes" validate:"omitempty,max=2000"`
}

// RescheduleSessionRequest moves a session to a new window.
type RescheduleSessionRequest struct {
	ScheduledStartTime time.Time `json:"scheduledStartTime" validate:"required"`
	ScheduledEndTime   time.Time `json:"scheduledEndTime" validate:"required,gtfield=ScheduledStartTime"`
	Reason             string    `json:"reason" validate:"omitempty,max=500"`
}

// CancelSessionRequest carries an optional reason.
type CancelSessionRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// CompleteSessionRequest records the outcome of a session.
type CompleteSessionRequest struct {
	Rating *float64 `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Notes  string   `json:"notes" validate:"omitempty,max=2000"`
}

// RecommendationRequest asks for ranked open slots of a coach.
type RecommendationRequest struct {
	CoachID         string     `json:"coachId" validate:"required"`
	RequestID       string     `json:"requestId" validate:"required"`
	DurationMinutes int        `json:"durationMinutes" validate:"omitempty,gte=15,lte=480"`
	Urgency         string     `json:"urgency" validate:"omitempty,oneof=low medium high urgent"`
	SessionType     string     `json:"sessionType" validate:"omitempty,oneof=one_on_one group workshop mentoring"`
	WindowStart     *time.Time `json:"windowStart"`
	WindowEnd       *time.Time `json:"windowEnd"`
	Limit           int        `json:"limit" validate:"gte=0,lte=50"`
}

// SessionResponse is the session view.
type SessionResponse struct {
	ID                 string    `json:"id"`
	RequestID          string    `json:"requestId"`
	CoachID            string    `json:"coachId"`
	CompanyID          string    `json:"companyId"`
	Title              string    `json:"title"`
	Type               string    `json:"type"`
	ScheduledStartTime time.Time `json:"scheduledStartTime"`
	ScheduledEndTime   time.Time `json:"scheduledEndTime"`
	Participants       []string  `json:"participants"`
	Status             string    `json:"status"`
	RescheduleCount    int       `json:"rescheduleCount"`
	Rating             *float64  `json:"rating,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// RecommendationResponse is a scored candidate slot.
type RecommendationResponse struct {
	CoachID           string    `json:"coachId"`
	RequestID         string    `json:"requestId"`
	StartTime         time.Time `json:"startTime"`
	EndTime           time.Time `json:"endTime"`
	Score             float64   `json:"score"`
	CoachAvailability string    `json:"coachAvailability"`
	ProgramFit        string    `json:"programFit"`
	SessionType       string    `json:"sessionType"`
	Reasoning         []string  `json:"reasoning"`
}

// BookingResponse reports the booked session and whether the notification went out.
type BookingResponse struct {
	Session          SessionResponse `json:"session"`
	NotificationSent bool            `json:"notificationSent"`
}
