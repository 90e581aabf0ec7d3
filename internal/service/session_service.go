package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

const defaultMaxReschedules = 3

// SessionService coordinates the session lifecycle.
type SessionService struct {
	sessions       repository.SessionRepository
	coaches        repository.CoachRepository
	requests       repository.CoachingRequestRepository
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	maxReschedules int
	now            func() time.Time
}

// SessionDependencies bundles collaborators for the session service.
type SessionDependencies struct {
	SessionRepo    repository.SessionRepository
	CoachRepo      repository.CoachRepository
	RequestRepo    repository.CoachingRequestRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	MaxReschedules int
}

// ScheduleInput describes a new session.
type ScheduleInput struct {
	RequestID    string
	CoachID      string
	Title        string
	Type         domain.SessionType
	Start        time.Time
	End          time.Time
	Participants []string
	Notes        string
}

// SessionListInput filters sessions. Role scoping is applied on top.
type SessionListInput struct {
	CoachID   string
	RequestID string
	Statuses  []domain.SessionStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// NewSessionService constructs the service.
func NewSessionService(deps SessionDependencies) *SessionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxReschedules := deps.MaxReschedules
	if maxReschedules <= 0 {
		maxReschedules = defaultMaxReschedules
	}
	return &SessionService{
		sessions:       deps.SessionRepo,
		coaches:        deps.CoachRepo,
		requests:       deps.RequestRepo,
		dispatcher:     deps.Dispatcher,
		logger:         logger,
		maxReschedules: maxReschedules,
		now:            time.Now,
	}
}

// Schedule books a session after validating the window, the coach and the calendar.
func (s *SessionService) Schedule(ctx context.Context, actor Actor, input ScheduleInput) (*domain.Session, error) {
	session, err := s.schedule(ctx, actor, input)
	if err != nil {
		return nil, err
	}
	s.publishSession(ctx, actor, events.EventSessionScheduled, session, nil, "", false)
	return session, nil
}

func (s *SessionService) schedule(ctx context.Context, actor Actor, input ScheduleInput) (*domain.Session, error) {
	if input.Type == "" {
		input.Type = domain.SessionTypeOneOnOne
	}
	if !input.Type.Valid() {
		return nil, fieldError("type", "type must be one of one_on_one, group, workshop, mentoring")
	}
	if err := s.validateWindow(input.Start, input.End); err != nil {
		return nil, err
	}

	session := &domain.Session{
		RequestID:          strings.TrimSpace(input.RequestID),
		CoachID:            strings.TrimSpace(input.CoachID),
		Title:              strings.TrimSpace(input.Title),
		Type:               input.Type,
		ScheduledStartTime: input.Start.UTC(),
		ScheduledEndTime:   input.End.UTC(),
		Participants:       trimAll(input.Participants),
		Status:             domain.SessionStatusScheduled,
		Notes:              strings.TrimSpace(input.Notes),
	}

	switch actor.Role {
	case domain.RoleCompanyAdmin:
		session.CompanyID = actor.CompanyID
	case domain.RoleCoach:
		own, err := s.coachFor(ctx, actor)
		if err != nil {
			return nil, err
		}
		if session.CoachID != "" && session.CoachID != own.ID {
			return nil, apperrors.NewForbidden("coaches can only schedule their own sessions")
		}
		session.CoachID = own.ID
	case domain.RolePlatformAdmin:
	default:
		return nil, apperrors.NewForbidden("access denied")
	}

	if session.RequestID != "" {
		req, err := s.requests.GetByID(ctx, session.RequestID)
		if err != nil {
			return nil, lookupError(err, "coaching request", session.RequestID)
		}
		if actor.Role == domain.RoleCompanyAdmin && req.CompanyID != actor.CompanyID {
			return nil, apperrors.NewForbidden("access denied")
		}
		session.CompanyID = req.CompanyID
	}
	if session.CompanyID == "" {
		return nil, fieldError("requestId", "requestId is required")
	}
	if session.CoachID == "" {
		return nil, fieldError("coachId", "coachId is required")
	}

	coach, err := s.coaches.GetByID(ctx, session.CoachID)
	if err != nil {
		return nil, lookupError(err, "coach", session.CoachID)
	}
	if coach.Status == domain.CoachStatusInactive {
		return nil, apperrors.NewConflict("coach is inactive", map[string]any{"coach_id": coach.ID})
	}
	if err := s.sessions.CreateIfFree(ctx, session); err != nil {
		return nil, slotError(err, session)
	}
	s.logger.Info("session scheduled",
		zap.String("session_id", session.ID),
		zap.String("coach_id", session.CoachID),
		zap.Time("start", session.ScheduledStartTime))
	return session, nil
}

// Reschedule moves a scheduled session. Each session can be moved a limited number of times.
func (s *SessionService) Reschedule(ctx context.Context, actor Actor, id string, start, end time.Time, reason string) (*domain.Session, error) {
	session, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusScheduled {
		return nil, apperrors.NewConflict("only scheduled sessions can be rescheduled", map[string]any{"status": session.Status})
	}
	if session.RescheduleCount >= s.maxReschedules {
		return nil, apperrors.NewConflict("reschedule limit reached", map[string]any{"limit": s.maxReschedules})
	}
	if err := s.validateWindow(start, end); err != nil {
		return nil, err
	}
	previous := session.ScheduledStartTime
	session.ScheduledStartTime = start.UTC()
	session.ScheduledEndTime = end.UTC()
	session.RescheduleCount++
	if err := s.sessions.UpdateIfFree(ctx, session); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, slotError(err, session)
		}
		return nil, lookupError(err, "session", id)
	}
	s.publishSession(ctx, actor, events.EventSessionRescheduled, session, &previous, reason, false)
	return session, nil
}

// Cancel frees the coach's calendar.
func (s *SessionService) Cancel(ctx context.Context, actor Actor, id, reason string) (*domain.Session, error) {
	session, err := s.move(ctx, actor, id, domain.SessionStatusCancelled)
	if err != nil {
		return nil, err
	}
	s.publishSession(ctx, actor, events.EventSessionCancelled, session, nil, reason, false)
	return session, nil
}

// Start marks the session in progress.
func (s *SessionService) Start(ctx context.Context, actor Actor, id string) (*domain.Session, error) {
	return s.move(ctx, actor, id, domain.SessionStatusInProgress)
}

// Complete closes the session and folds it into the coach metrics.
func (s *SessionService) Complete(ctx context.Context, actor Actor, id string, rating *float64, notes string) (*domain.Session, error) {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, fieldError("rating", "rating must be between 1 and 5")
	}
	session, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !session.Status.CanTransitionTo(domain.SessionStatusCompleted) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{"from": session.Status, "to": domain.SessionStatusCompleted})
	}
	session.Status = domain.SessionStatusCompleted
	session.Rating = rating
	if notes = strings.TrimSpace(notes); notes != "" {
		session.Notes = notes
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, lookupError(err, "session", id)
	}

	s.updateCoachMetrics(ctx, session.CoachID, rating, true)
	s.publishSession(ctx, actor, events.EventSessionCompleted, session, nil, "", false)
	return session, nil
}

// MarkNoShow records that the company side did not attend.
func (s *SessionService) MarkNoShow(ctx context.Context, actor Actor, id string) (*domain.Session, error) {
	session, err := s.move(ctx, actor, id, domain.SessionStatusNoShow)
	if err != nil {
		return nil, err
	}
	s.updateCoachMetrics(ctx, session.CoachID, nil, false)
	return session, nil
}

// Get loads a session the actor participates in.
func (s *SessionService) Get(ctx context.Context, actor Actor, id string) (*domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "session", id)
	}
	if err := s.authorize(ctx, actor, session); err != nil {
		return nil, err
	}
	return session, nil
}

// List returns sessions visible to the actor.
func (s *SessionService) List(ctx context.Context, actor Actor, input SessionListInput) ([]domain.Session, error) {
	filter := repository.SessionFilter{
		Statuses: input.Statuses,
		From:     input.From,
		To:       input.To,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	if input.CoachID != "" {
		coachID := input.CoachID
		filter.CoachID = &coachID
	}
	if input.RequestID != "" {
		requestID := input.RequestID
		filter.RequestID = &requestID
	}

	switch actor.Role {
	case domain.RolePlatformAdmin:
	case domain.RoleCompanyAdmin:
		companyID := actor.CompanyID
		filter.CompanyID = &companyID
	case domain.RoleCoach:
		own, err := s.coachFor(ctx, actor)
		if err != nil {
			return nil, err
		}
		coachID := own.ID
		filter.CoachID = &coachID
	default:
		return nil, apperrors.NewForbidden("access denied")
	}

	sessions, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return sessions, nil
}

func (s *SessionService) move(ctx context.Context, actor Actor, id string, next domain.SessionStatus) (*domain.Session, error) {
	session, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !session.Status.CanTransitionTo(next) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{"from": session.Status, "to": next})
	}
	session.Status = next
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, lookupError(err, "session", id)
	}
	return session, nil
}

func (s *SessionService) validateWindow(start, end time.Time) error {
	err := domain.ValidateSessionWindow(start, end, s.now())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrSessionEndBeforeStart):
		return fieldError("scheduledEndTime", err.Error())
	default:
		return fieldError("scheduledStartTime", err.Error())
	}
}

func slotError(err error, session *domain.Session) error {
	if !errors.Is(err, repository.ErrSlotTaken) {
		return apperrors.MapError(err)
	}
	return apperrors.NewConflict("coach already has a session in this time slot", map[string]any{
		"coach_id": session.CoachID,
		"start":    session.ScheduledStartTime,
		"end":      session.ScheduledEndTime,
	})
}

func (s *SessionService) authorize(ctx context.Context, actor Actor, session *domain.Session) error {
	switch actor.Role {
	case domain.RolePlatformAdmin:
		return nil
	case domain.RoleCompanyAdmin:
		if actor.CompanyID != "" && session.CompanyID == actor.CompanyID {
			return nil
		}
	case domain.RoleCoach:
		own, err := s.coachFor(ctx, actor)
		if err != nil {
			return err
		}
		if own.ID == session.CoachID {
			return nil
		}
	}
	return apperrors.NewForbidden("access denied")
}

func (s *SessionService) coachFor(ctx context.Context, actor Actor) (*domain.Coach, error) {
	coach, err := s.coaches.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewForbidden("no coach profile for this account")
		}
		return nil, apperrors.MapError(err)
	}
	return coach, nil
}

func (s *SessionService) updateCoachMetrics(ctx context.Context, coachID string, rating *float64, completedNow bool) {
	if err := s.coaches.RecordSessionOutcome(ctx, coachID, completedNow, rating); err != nil {
		s.logger.Warn("coach metrics not updated", zap.String("coach_id", coachID), zap.Error(err))
	}
}

func (s *SessionService) publishSession(ctx context.Context, actor Actor, eventType events.EventType, session *domain.Session, previous *time.Time, reason string, notified bool) {
	publish(ctx, s.dispatcher, events.New(eventType, session.ID, actor.eventActor(), events.SessionPayload{
		SessionID:       session.ID,
		CoachID:         session.CoachID,
		RequestID:       session.RequestID,
		Title:           session.Title,
		Participants:    session.Participants,
		Status:          session.Status,
		StartTime:       session.ScheduledStartTime,
		EndTime:         session.ScheduledEndTime,
		PreviousStart:   previous,
		RescheduleCount: session.RescheduleCount,
		Reason:          reason,
		Notified:        notified,
	}))
}
