package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/matching"
	"github.com/spec-kit/coaching-service/internal/repository"
	"github.com/spec-kit/coaching-service/internal/scheduling"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// CoachService manages mentor profiles.
type CoachService struct {
	coaches    repository.CoachRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CoachDependencies bundles collaborators for the coach service.
type CoachDependencies struct {
	CoachRepo  repository.CoachRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// CoachInput is the editable part of a coach profile.
type CoachInput struct {
	FirstName    string
	LastName     string
	Email        string
	Title        string
	Company      string
	Bio          string
	Expertise    []domain.Expertise
	Availability []domain.Availability
	HourlyRate   float64
	Currency     string
	Languages    []string
}

// CoachListInput filters and pages the mentor directory.
type CoachListInput struct {
	Filters         matching.SearchFilters
	IncludeInactive bool
	Limit           int
	Offset          int
}

// NewCoachService constructs the service.
func NewCoachService(deps CoachDependencies) *CoachService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoachService{coaches: deps.CoachRepo, dispatcher: deps.Dispatcher, logger: logger}
}

// Onboard creates an active coach profile. Coaches onboard themselves once; platform
// admins may create unlinked profiles.
func (s *CoachService) Onboard(ctx context.Context, actor Actor, input CoachInput) (*domain.Coach, error) {
	if !actor.Is(domain.RoleCoach, domain.RolePlatformAdmin) {
		return nil, apperrors.NewForbidden("only coaches and platform admins can onboard mentors")
	}
	if err := validateCoachInput(input); err != nil {
		return nil, err
	}

	coach := &domain.Coach{Status: domain.CoachStatusActive}
	if actor.Role == domain.RoleCoach {
		if _, err := s.coaches.GetByUserID(ctx, actor.UserID); err == nil {
			return nil, apperrors.NewConflict("coach profile already exists", map[string]any{"user_id": actor.UserID})
		} else if !apperrors.IsNotFound(err) {
			return nil, apperrors.MapError(err)
		}
		userID := actor.UserID
		coach.UserID = &userID
	}
	applyCoachInput(coach, input)

	if err := s.coaches.Create(ctx, coach); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("coach onboarded", zap.String("coach_id", coach.ID))
	return coach, nil
}

// Update replaces the editable profile fields. Only the owning coach or a platform admin may edit.
func (s *CoachService) Update(ctx context.Context, actor Actor, id string, input CoachInput) (*domain.Coach, error) {
	coach, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canEditCoach(actor, coach) {
		return nil, apperrors.NewForbidden("cannot edit another coach's profile")
	}
	if err := validateCoachInput(input); err != nil {
		return nil, err
	}
	applyCoachInput(coach, input)
	if err := s.coaches.Update(ctx, coach); err != nil {
		return nil, lookupError(err, "coach", id)
	}
	return coach, nil
}

// UpdateStatus moves a coach between active, busy, unavailable and inactive.
func (s *CoachService) UpdateStatus(ctx context.Context, actor Actor, id string, status domain.CoachStatus) (*domain.Coach, error) {
	if !actor.Is(domain.RolePlatformAdmin) {
		return nil, apperrors.NewForbidden("platform admin required")
	}
	if !status.Valid() {
		return nil, fieldError("status", "status must be one of active, inactive, busy, unavailable")
	}
	coach, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	old := coach.Status
	if old == status {
		return coach, nil
	}
	coach.Status = status
	if err := s.coaches.Update(ctx, coach); err != nil {
		return nil, lookupError(err, "coach", id)
	}
	publish(ctx, s.dispatcher, events.New(events.EventCoachStatusChanged, coach.ID, actor.eventActor(),
		events.CoachStatusChangedPayload{OldStatus: old, NewStatus: status}))
	return coach, nil
}

// Deactivate hides a coach from matching. Profiles are never hard-deleted.
func (s *CoachService) Deactivate(ctx context.Context, actor Actor, id string) (*domain.Coach, error) {
	return s.UpdateStatus(ctx, actor, id, domain.CoachStatusInactive)
}

// Get loads one coach.
func (s *CoachService) Get(ctx context.Context, id string) (*domain.Coach, error) {
	coach, err := s.coaches.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "coach", id)
	}
	return coach, nil
}

// List returns coaches passing the search filters, active ones only unless asked otherwise.
func (s *CoachService) List(ctx context.Context, input CoachListInput) ([]domain.Coach, error) {
	filter := repository.CoachFilter{}
	if !input.IncludeInactive {
		filter.Statuses = []domain.CoachStatus{domain.CoachStatusActive}
	}
	coaches, err := s.coaches.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	filtered := matching.Filter(coaches, input.Filters)

	offset := input.Offset
	if offset < 0 || offset > len(filtered) {
		offset = len(filtered)
	}
	filtered = filtered[offset:]
	if input.Limit > 0 && len(filtered) > input.Limit {
		filtered = filtered[:input.Limit]
	}
	return filtered, nil
}

func canEditCoach(actor Actor, coach *domain.Coach) bool {
	if actor.Is(domain.RolePlatformAdmin) {
		return true
	}
	return actor.Is(domain.RoleCoach) && coach.UserID != nil && *coach.UserID == actor.UserID
}

func applyCoachInput(coach *domain.Coach, input CoachInput) {
	coach.FirstName = strings.TrimSpace(input.FirstName)
	coach.LastName = strings.TrimSpace(input.LastName)
	coach.Email = strings.ToLower(strings.TrimSpace(input.Email))
	coach.Title = strings.TrimSpace(input.Title)
	coach.Company = strings.TrimSpace(input.Company)
	coach.Bio = strings.TrimSpace(input.Bio)
	coach.Expertise = append([]domain.Expertise{}, input.Expertise...)
	coach.Availability = append([]domain.Availability{}, input.Availability...)
	coach.HourlyRate = input.HourlyRate
	coach.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	if coach.Currency == "" {
		coach.Currency = "USD"
	}
	coach.Languages = append([]string{}, input.Languages...)
}

// validateCoachInput checks what struct tags cannot: level names, clock ranges and timezones.
func validateCoachInput(input CoachInput) error {
	var fields []apperrors.FieldError
	if input.HourlyRate < 0 {
		fields = append(fields, apperrors.FieldError{Field: "hourlyRate", Message: "hourlyRate must not be negative"})
	}
	for i, e := range input.Expertise {
		if e.Level.Rank() == 0 {
			fields = append(fields, apperrors.FieldError{
				Field:   fmt.Sprintf("expertise[%d].level", i),
				Message: "level must be one of beginner, intermediate, expert, master",
			})
		}
	}
	for i, a := range input.Availability {
		if msg := availabilityProblem(a); msg != "" {
			fields = append(fields, apperrors.FieldError{Field: fmt.Sprintf("availability[%d]", i), Message: msg})
		}
	}
	if len(fields) > 0 {
		return apperrors.NewFieldValidationError(fields)
	}
	return nil
}

func availabilityProblem(a domain.Availability) string {
	if a.DayOfWeek < int(time.Sunday) || a.DayOfWeek > int(time.Saturday) {
		return "dayOfWeek must be between 0 and 6"
	}
	start, err := scheduling.ParseClock(a.StartTime)
	if err != nil {
		return "startTime must be HH:MM"
	}
	end, err := scheduling.ParseClock(a.EndTime)
	if err != nil {
		return "endTime must be HH:MM"
	}
	if end <= start {
		return "endTime must be after startTime"
	}
	if _, err := scheduling.ParseLocation(a.Timezone); err != nil {
		return "timezone is not recognized"
	}
	return ""
}
