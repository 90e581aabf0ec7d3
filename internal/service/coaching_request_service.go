package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/coaching-service/internal/cache"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/matching"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// CoachingRequestService manages company program requests and their matching.
type CoachingRequestService struct {
	requests   repository.CoachingRequestRepository
	matches    repository.MatchRepository
	matching   *MatchingService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CoachingRequestDependencies bundles collaborators.
type CoachingRequestDependencies struct {
	RequestRepo repository.CoachingRequestRepository
	MatchRepo   repository.MatchRepository
	Matching    *MatchingService
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// CoachingRequestInput is the editable part of a request.
type CoachingRequestInput struct {
	Title          string
	Description    string
	Goals          []string
	RequiredSkills []string
	Languages      []string
	TeamMembers    []domain.TeamMember
	Timeline       domain.Timeline
	Budget         domain.Budget
}

// MatchOutcome is the result of matching a request.
type MatchOutcome struct {
	Request *domain.CoachingRequest
	Result  matching.Result
}

// NewCoachingRequestService constructs the service.
func NewCoachingRequestService(deps CoachingRequestDependencies) *CoachingRequestService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoachingRequestService{
		requests:   deps.RequestRepo,
		matches:    deps.MatchRepo,
		matching:   deps.Matching,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create stores a draft request for the actor's company.
func (s *CoachingRequestService) Create(ctx context.Context, actor Actor, input CoachingRequestInput) (*domain.CoachingRequest, error) {
	if !actor.Is(domain.RoleCompanyAdmin) || actor.CompanyID == "" {
		return nil, apperrors.NewForbidden("company admin required")
	}
	if err := validateRequestInput(input); err != nil {
		return nil, err
	}
	req := &domain.CoachingRequest{
		CompanyID: actor.CompanyID,
		CreatedBy: actor.UserID,
		Status:    domain.RequestStatusDraft,
	}
	applyRequestInput(req, input)
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}
	return req, nil
}

// Update edits a request while it is still a draft.
func (s *CoachingRequestService) Update(ctx context.Context, actor Actor, id string, input CoachingRequestInput) (*domain.CoachingRequest, error) {
	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.Is(domain.RoleCompanyAdmin) {
		return nil, apperrors.NewForbidden("company admin required")
	}
	if req.Status != domain.RequestStatusDraft {
		return nil, apperrors.NewConflict("only draft requests can be edited", map[string]any{"status": req.Status})
	}
	if err := validateRequestInput(input); err != nil {
		return nil, err
	}
	applyRequestInput(req, input)
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, lookupError(err, "coaching request", id)
	}
	return req, nil
}

// Get loads a request visible to the actor.
func (s *CoachingRequestService) Get(ctx context.Context, actor Actor, id string) (*domain.CoachingRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "coaching request", id)
	}
	if actor.Is(domain.RolePlatformAdmin) {
		return req, nil
	}
	if actor.Is(domain.RoleCompanyAdmin) && req.CompanyID == actor.CompanyID {
		return req, nil
	}
	return nil, apperrors.NewForbidden("access denied")
}

// List returns the actor's company requests, optionally by status.
func (s *CoachingRequestService) List(ctx context.Context, actor Actor, statuses []domain.RequestStatus, limit, offset int) ([]domain.CoachingRequest, error) {
	filter := repository.CoachingRequestFilter{Statuses: statuses, Limit: limit, Offset: offset}
	switch {
	case actor.Is(domain.RolePlatformAdmin):
	case actor.Is(domain.RoleCompanyAdmin):
		companyID := actor.CompanyID
		filter.CompanyID = &companyID
	default:
		return nil, apperrors.NewForbidden("company admin required")
	}
	reqs, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reqs, nil
}

// ChangeStatus applies a lifecycle transition.
func (s *CoachingRequestService) ChangeStatus(ctx context.Context, actor Actor, id string, next domain.RequestStatus) (*domain.CoachingRequest, error) {
	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, actor, req, next); err != nil {
		return nil, err
	}
	return req, nil
}

// FindMatches ranks mentors for the request, caches and persists the ranking, and moves
// a submitted request to matched when anything was found.
func (s *CoachingRequestService) FindMatches(ctx context.Context, actor Actor, id string) (*MatchOutcome, error) {
	req, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case domain.RequestStatusSubmitted, domain.RequestStatusMatched, domain.RequestStatusActive:
	default:
		return nil, apperrors.NewConflict("request must be submitted before matching", map[string]any{"status": req.Status})
	}

	result, err := s.matching.Search(ctx, SearchRequestFor(req))
	if err != nil {
		return nil, err
	}
	s.matching.StoreResult(ctx, req.ID, result)

	records := make([]domain.MatchRecord, 0, len(result.Matches))
	coachIDs := make([]string, 0, len(result.Matches))
	for _, m := range result.Matches {
		records = append(records, domain.MatchRecord{
			RequestID:  req.ID,
			CoachID:    m.Coach.ID,
			MatchScore: m.MatchScore,
			Confidence: m.Confidence,
			Reasons:    m.MatchReasons,
		})
		coachIDs = append(coachIDs, m.Coach.ID)
	}
	if err := s.matches.ReplaceForRequest(ctx, req.ID, records); err != nil {
		s.logger.Error("failed to persist matches", zap.String("request_id", req.ID), zap.Error(err))
		return nil, apperrors.NewMatchingFailed(err)
	}

	payload := events.MatchesGeneratedPayload{CompanyID: req.CompanyID, CoachIDs: coachIDs}
	if len(result.Matches) > 0 {
		payload.TopScore = result.Matches[0].MatchScore
	}
	publish(ctx, s.dispatcher, events.New(events.EventMatchesGenerated, req.ID, actor.eventActor(), payload))

	if req.Status == domain.RequestStatusSubmitted && len(result.Matches) > 0 {
		if err := s.transition(ctx, actor, req, domain.RequestStatusMatched); err != nil {
			return nil, err
		}
	}
	return &MatchOutcome{Request: req, Result: result}, nil
}

// ListMatches returns the persisted ranking for a request.
func (s *CoachingRequestService) ListMatches(ctx context.Context, actor Actor, id string) ([]domain.MatchRecord, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	records, err := s.matches.ListByRequest(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// CachedMatches returns the cached ranking of a request the actor may read.
func (s *CoachingRequestService) CachedMatches(ctx context.Context, actor Actor, id string) (*cache.MatchResult, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	result, err := s.matching.CachedResult(ctx, id)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, apperrors.NewNotFound("match result", map[string]any{"request_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

func (s *CoachingRequestService) transition(ctx context.Context, actor Actor, req *domain.CoachingRequest, next domain.RequestStatus) error {
	old := req.Status
	if !old.CanTransitionTo(next) {
		return apperrors.NewConflict("invalid status transition", map[string]any{"from": old, "to": next})
	}
	req.Status = next
	if err := s.requests.Update(ctx, req); err != nil {
		req.Status = old
		return lookupError(err, "coaching request", req.ID)
	}
	publish(ctx, s.dispatcher, events.New(events.EventRequestStatusChanged, req.ID, actor.eventActor(),
		events.RequestStatusChangedPayload{CompanyID: req.CompanyID, OldStatus: old, NewStatus: next}))
	return nil
}

// largeTeamSize is the head count from which a program asks for expert-level coaches.
const largeTeamSize = 6

// SearchRequestFor derives the matching query from a coaching request. The first
// listed language becomes a hard filter and the budget ceiling drives the price score.
// Large teams raise the level skills are scored against, and a program shorter than a
// week prefers coaches available on the weekdays it covers.
func SearchRequestFor(req *domain.CoachingRequest) matching.SearchRequest {
	search := matching.SearchRequest{
		RequestID:      req.ID,
		RequiredSkills: req.RequiredSkills,
		Goals:          req.Goals,
		PreferredDays:  programDays(req.Timeline),
	}
	if len(req.TeamMembers) >= largeTeamSize {
		search.RequiredLevel = domain.LevelExpert
	}
	if len(req.Languages) > 0 {
		search.Filters.Language = req.Languages[0]
	}
	if req.Budget.Max > 0 {
		budget := req.Budget.Max
		search.BudgetMax = &budget
	}
	return search
}

// programDays lists the weekdays of a bounded timeline shorter than a week.
func programDays(tl domain.Timeline) []int {
	if tl.StartDate == nil || tl.EndDate == nil {
		return nil
	}
	start := tl.StartDate.UTC().Truncate(24 * time.Hour)
	end := tl.EndDate.UTC()
	if end.Sub(start) >= 7*24*time.Hour {
		return nil
	}
	var days []int
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, int(d.Weekday()))
	}
	return days
}

func applyRequestInput(req *domain.CoachingRequest, input CoachingRequestInput) {
	req.Title = strings.TrimSpace(input.Title)
	req.Description = strings.TrimSpace(input.Description)
	req.Goals = trimAll(input.Goals)
	req.RequiredSkills = trimAll(input.RequiredSkills)
	req.Languages = trimAll(input.Languages)
	req.TeamMembers = append([]domain.TeamMember{}, input.TeamMembers...)
	req.Timeline = input.Timeline
	if req.Timeline.SessionFrequency == "" {
		req.Timeline.SessionFrequency = domain.FrequencyWeekly
	}
	req.Budget = input.Budget
	if req.Budget.Currency == "" {
		req.Budget.Currency = "USD"
	}
}

func validateRequestInput(input CoachingRequestInput) error {
	var fields []apperrors.FieldError
	if input.Budget.Min < 0 || input.Budget.Max < 0 {
		fields = append(fields, apperrors.FieldError{Field: "budget", Message: "budget must not be negative"})
	} else if input.Budget.Max > 0 && input.Budget.Min > input.Budget.Max {
		fields = append(fields, apperrors.FieldError{Field: "budget.min", Message: "budget.min must not exceed budget.max"})
	}
	if tl := input.Timeline; tl.StartDate != nil && tl.EndDate != nil && !tl.EndDate.After(*tl.StartDate) {
		fields = append(fields, apperrors.FieldError{Field: "timeline.endDate", Message: "timeline.endDate must be after timeline.startDate"})
	}
	if len(fields) > 0 {
		return apperrors.NewFieldValidationError(fields)
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
