package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/repository"
	"github.com/spec-kit/coaching-service/internal/scheduling"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

const (
	defaultRecommendationWindow = 14 * 24 * time.Hour
	defaultSessionMinutes       = 60
	notificationTimeout         = 5 * time.Second
)

// RecommendationService suggests and books session slots.
type RecommendationService struct {
	coaches       repository.CoachRepository
	requests      repository.CoachingRequestRepository
	sessions      repository.SessionRepository
	sessionSvc    *SessionService
	notifications *NotificationService
	logger        *zap.Logger
	now           func() time.Time
}

// RecommendationDependencies bundles collaborators.
type RecommendationDependencies struct {
	CoachRepo     repository.CoachRepository
	RequestRepo   repository.CoachingRequestRepository
	SessionRepo   repository.SessionRepository
	Sessions      *SessionService
	Notifications *NotificationService
	Logger        *zap.Logger
}

// RecommendationInput asks for slots with one coach for one request.
type RecommendationInput struct {
	CoachID         string
	RequestID       string
	DurationMinutes int
	Urgency         domain.Urgency
	SessionType     domain.SessionType
	WindowStart     *time.Time
	WindowEnd       *time.Time
	Limit           int
}

// BookRecommendationInput books a recommended slot. SessionType is the format the slot
// was recommended for and fills in ScheduleInput.Type when that is empty.
type BookRecommendationInput struct {
	ScheduleInput
	SessionType domain.SessionType
}

// BookingResult is a booked session plus whether participants were told about it.
type BookingResult struct {
	Session          *domain.Session
	NotificationSent bool
}

// NewRecommendationService constructs the service.
func NewRecommendationService(deps RecommendationDependencies) *RecommendationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		coaches:       deps.CoachRepo,
		requests:      deps.RequestRepo,
		sessions:      deps.SessionRepo,
		sessionSvc:    deps.Sessions,
		notifications: deps.Notifications,
		logger:        logger,
		now:           time.Now,
	}
}

// Recommend returns ranked free slots for the coach inside the window.
func (s *RecommendationService) Recommend(ctx context.Context, actor Actor, input RecommendationInput) ([]domain.ScheduleRecommendation, error) {
	if !actor.Is(domain.RoleCompanyAdmin, domain.RolePlatformAdmin) {
		return nil, apperrors.NewForbidden("company admin required")
	}

	coach, err := s.coaches.GetByID(ctx, input.CoachID)
	if err != nil {
		return nil, lookupError(err, "coach", input.CoachID)
	}
	if coach.Status == domain.CoachStatusInactive {
		return nil, apperrors.NewConflict("coach is inactive", map[string]any{"coach_id": coach.ID})
	}

	var req *domain.CoachingRequest
	if input.RequestID != "" {
		req, err = s.requests.GetByID(ctx, input.RequestID)
		if err != nil {
			return nil, lookupError(err, "coaching request", input.RequestID)
		}
		if actor.Is(domain.RoleCompanyAdmin) && req.CompanyID != actor.CompanyID {
			return nil, apperrors.NewForbidden("access denied")
		}
	}

	now := s.now()
	start := now
	if input.WindowStart != nil {
		start = *input.WindowStart
	}
	end := start.Add(defaultRecommendationWindow)
	if input.WindowEnd != nil {
		end = *input.WindowEnd
	}
	sessionType := input.SessionType
	if sessionType == "" {
		sessionType = domain.SessionTypeOneOnOne
	}
	if !sessionType.Valid() {
		return nil, fieldError("sessionType", "unknown session type")
	}
	minutes := input.DurationMinutes
	if minutes == 0 {
		minutes = defaultMinutesFor(sessionType)
	}
	urgency := input.Urgency
	if urgency == "" {
		urgency = domain.UrgencyMedium
	}

	busy, err := s.sessions.ListForCoachInRange(ctx, coach.ID, start, end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	var last *time.Time
	if req != nil {
		last, err = s.sessions.LastStartForRequest(ctx, req.ID, start)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	recs, err := scheduling.Recommend(scheduling.Params{
		Coach:       *coach,
		Request:     req,
		Busy:        busy,
		LastSession: last,
		Duration:    time.Duration(minutes) * time.Minute,
		SessionType: sessionType,
		Urgency:     urgency,
		WindowStart: start,
		WindowEnd:   end,
		Now:         now,
		Limit:       input.Limit,
	})
	if err != nil {
		switch {
		case errors.Is(err, scheduling.ErrInvalidDuration):
			return nil, fieldError("durationMinutes", err.Error())
		case errors.Is(err, scheduling.ErrInvalidWindow), errors.Is(err, scheduling.ErrWindowTooLong):
			return nil, fieldError("windowEnd", err.Error())
		}
		return nil, apperrors.MapError(err)
	}
	return recs, nil
}

// defaultMinutesFor sizes a slot when the caller gives no duration.
func defaultMinutesFor(t domain.SessionType) int {
	switch t {
	case domain.SessionTypeWorkshop:
		return 2 * defaultSessionMinutes
	case domain.SessionTypeGroup:
		return 90
	default:
		return defaultSessionMinutes
	}
}

// Book schedules a recommended slot and then tries to notify participants. A failed
// notification never undoes the booking.
func (s *RecommendationService) Book(ctx context.Context, actor Actor, input BookRecommendationInput) (*BookingResult, error) {
	if !actor.Is(domain.RoleCompanyAdmin, domain.RolePlatformAdmin) {
		return nil, apperrors.NewForbidden("company admin required")
	}
	schedule := input.ScheduleInput
	if schedule.Type == "" {
		schedule.Type = input.SessionType
	}
	session, err := s.sessionSvc.schedule(ctx, actor, schedule)
	if err != nil {
		return nil, err
	}

	result := &BookingResult{Session: session, NotificationSent: true}
	notifyCtx, cancel := context.WithTimeout(ctx, notificationTimeout)
	defer cancel()
	if err := s.notifications.Send(notifyCtx, Notification{
		Kind:       "session_scheduled",
		SubjectID:  session.ID,
		Recipients: session.Participants,
		Subject:    "New coaching session scheduled",
		Payload: map[string]any{
			"session_id":   session.ID,
			"coach_id":     session.CoachID,
			"start_time":   session.ScheduledStartTime,
			"end_time":     session.ScheduledEndTime,
			"title":        session.Title,
			"session_type": session.Type,
		},
	}); err != nil {
		s.logger.Warn("session booked but notification failed",
			zap.String("session_id", session.ID),
			zap.Error(err))
		result.NotificationSent = false
	}

	s.sessionSvc.publishSession(ctx, actor, events.EventSessionScheduled, session, nil, "", true)
	return result, nil
}
