package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/coaching-service/internal/cache"
	"github.com/spec-kit/coaching-service/internal/config"
	"github.com/spec-kit/coaching-service/internal/domain"
	"github.com/spec-kit/coaching-service/internal/events"
	"github.com/spec-kit/coaching-service/internal/matching"
	"github.com/spec-kit/coaching-service/internal/repository"
	apperrors "github.com/spec-kit/coaching-service/pkg/util/errorutil"
)

// monday 2026-10-26 00:00 UTC
var base = time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)

var (
	companyAdmin  = Actor{UserID: "admin-1", Role: domain.RoleCompanyAdmin, CompanyID: "acme"}
	otherAdmin    = Actor{UserID: "admin-2", Role: domain.RoleCompanyAdmin, CompanyID: "globex"}
	platformAdmin = Actor{UserID: "root", Role: domain.RolePlatformAdmin}
)

type stubNotifier struct {
	mu   sync.Mutex
	err  error
	sent []Notification
}

func (s *stubNotifier) Notify(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.err
}

func (s *stubNotifier) kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, n := range s.sent {
		out = append(out, n.Kind)
	}
	return out
}

type harness struct {
	mem           *repository.Memory
	redis         *redis.Client
	notifier      *stubNotifier
	auth          *AuthService
	coaches       *CoachService
	config        *MatchingConfigService
	matching      *MatchingService
	requests      *CoachingRequestService
	sessions      *SessionService
	notifications *NotificationService
	recs          *RecommendationService
	subs          *SubscriptionService
}

func newHarness(t *testing.T, threshold float64) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zap.NewNop()
	mem := repository.NewMemory(domain.SeedCoaches())
	dispatcher := events.NewInMemoryDispatcher(logger)
	notifier := &stubNotifier{}
	notifications := NewNotificationService(dispatcher, notifier, logger)
	notifications.RegisterHandlers()

	coachRepo := cache.NewCachedCoachRepository(mem.Coaches(), client, time.Hour, logger)
	cfgSvc := NewMatchingConfigService(mem.MatchingConfig(), config.MatchingConfig{
		SkillWeight: 30, ExperienceWeight: 25, RatingWeight: 20, AvailabilityWeight: 15, PriceWeight: 10,
		ConfidenceThreshold: threshold,
		MaxResults:          10,
	})
	matchSvc := NewMatchingService(MatchingDependencies{
		Engine:      matching.NewEngine("1.0.0"),
		CoachRepo:   coachRepo,
		Config:      cfgSvc,
		ResultCache: cache.NewMatchResultCache(client, time.Hour),
		Stats:       cache.NewProcessingStats(client),
		Logger:      logger,
	})
	sessions := NewSessionService(SessionDependencies{
		SessionRepo: mem.Sessions(),
		CoachRepo:   coachRepo,
		RequestRepo: mem.CoachingRequests(),
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	sessions.now = func() time.Time { return base }
	recs := NewRecommendationService(RecommendationDependencies{
		CoachRepo:     coachRepo,
		RequestRepo:   mem.CoachingRequests(),
		SessionRepo:   mem.Sessions(),
		Sessions:      sessions,
		Notifications: notifications,
		Logger:        logger,
	})
	recs.now = func() time.Time { return base }

	return &harness{
		mem:      mem,
		redis:    client,
		notifier: notifier,
		auth: NewAuthService(config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   15,
			RefreshTokenTTLMinutes:  60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              bcrypt.MinCost,
		}, AuthDependencies{
			UserRepo:          mem.Users(),
			PasswordResetRepo: mem.PasswordResets(),
			Dispatcher:        dispatcher,
			Logger:            logger,
		}),
		coaches:  NewCoachService(CoachDependencies{CoachRepo: coachRepo, Dispatcher: dispatcher, Logger: logger}),
		config:   cfgSvc,
		matching: matchSvc,
		requests: NewCoachingRequestService(CoachingRequestDependencies{
			RequestRepo: mem.CoachingRequests(),
			MatchRepo:   mem.Matches(),
			Matching:    matchSvc,
			Dispatcher:  dispatcher,
			Logger:      logger,
		}),
		sessions:      sessions,
		notifications: notifications,
		recs:          recs,
		subs:          NewSubscriptionService(mem.Subscriptions(), logger),
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err).HTTPStatus
}

func (h *harness) submittedRequest(t *testing.T) *domain.CoachingRequest {
	t.Helper()
	ctx := context.Background()
	req, err := h.requests.Create(ctx, companyAdmin, CoachingRequestInput{
		Title:          "Frontend leadership",
		Goals:          []string{"Improve React architecture"},
		RequiredSkills: []string{"React"},
		Languages:      []string{"English"},
		Budget:         domain.Budget{Min: 100, Max: 200},
	})
	require.NoError(t, err)
	req, err = h.requests.ChangeStatus(ctx, companyAdmin, req.ID, domain.RequestStatusSubmitted)
	require.NoError(t, err)
	return req
}

func TestAuthRegisterLoginRefresh(t *testing.T) {
	h := newHarness(t, 60)
	ctx := context.Background()

	user, pair, err := h.auth.Register(ctx, RegisterInput{Name: "Ada", Email: "Ada@Acme.io", Password: "s3cret-pass", Role: domain.RoleCompanyAdmin})
	require.NoError(t, err)
	require.NotNil(t, user.CompanyID)
	assert.NotEmpty(t, *user.CompanyID)
	assert.Equal(t, "ada@acme.io", user.Email)
	assert.NotEmpty(t, pair.AccessToken)

	_, _, err = h.auth.Register(ctx, RegisterInput{Email: "ada@acme.io", Password: "x", Role: domain.RoleCoach})
	assert.Equal(t, 409, statusOf(t, err))

	_, _, err = h.auth.Register(ctx, RegisterInput{Email: "root@acme.io", Password: "x", Role: domain.RolePlatformAdmin})
	assert.Equal(t, 400, statusOf(t, err))

	_, _, err = h.auth.Login(ctx, "ada@acme.io", "wrong")
	assert.Equal(t, 401, statusOf(t, err))
	_, _, err = h.auth.Login(ctx, "nobody@acme.io", "s3cret-pass")
	assert.Equal(t, 401, statusOf(t, err))

	_, pair, err = h.auth.Login(ctx, "ADA@acme.io", "s3cret-pass")
	require.NoError(t, err)

	_, err = h.auth.Refresh(ctx, pair.AccessToken)
	assert.Equal(t, 401, statusOf(t, err))

	refreshed, err := h.auth.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.RefreshToken, refreshed.RefreshToken)
	claims, err := h.auth.TokenManager().ParseToken(refreshed.AccessToken, domain.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID())
}

func TestAuthPasswordResetAndChange(t *testing.T) {
	h := newHarness(t, 60)
	ctx := context.Background()
	user, _, err := h.auth.Register(ctx, RegisterInput{Email: "coach@example.com", Password: "old-password", Role: domain.RoleCoach})
	require.NoError(t, err)

	token, err := h.auth.RequestPasswordReset(ctx, "unknown@example.com")
	require.NoError(t, err)
	assert.Nil(t, token)

	token, err = h.auth.RequestPasswordReset(ctx, "coach@example.com")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, user.ID, token.UserID)
	assert.Contains(t, h.notifier.kinds(), "password_reset")

	require.NoError(t, h.auth.ConfirmPasswordReset(ctx, token.Token, "new-password"))
	assert.Equal(t, 400, statusOf(t, h.auth.ConfirmPasswordReset(ctx, token.Token, "again")))
	assert.Equal(t, 400, statusOf(t, h.auth.ConfirmPasswordReset(ctx, "bogus", "again")))

	_, _, err = h.auth.Login(ctx, "coach@example.com", "new-password")
	require.NoError(t, err)

	assert.Equal(t, 401, statusOf(t, h.auth.ChangePassword(ctx, user.ID, "wrong", "next-password")))
	require.NoError(t, h.auth.ChangePassword(ctx, user.ID, "new-password", "next-password"))
	_, _, err = h.auth.Login(ctx, "coach@example.com", "next-password")
	assert.NoError(t, err)
}

func TestAuthRejectsExpiredResetToken(t *testing.T) {
	h := newHarness(t, 60)
	ctx := context.Background()
	_, _, err := h.auth.Register(ctx, RegisterInput{Email: "late@example.com", Password: "pw", Role: domain.RoleCoach})
	require.NoError(t, err)
	token, err := h.auth.RequestPasswordReset(ctx, "late@example.com")
	require.NoError(t, err)

	h.auth.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 400, statusOf(t, h.auth.ConfirmPasswordReset(ctx, token.Token, "new")))
}

func sampleCoachInput() CoachInput {
	return CoachInput{
		FirstName: "Lin",
		LastName:  "Park",
		Email:     "Lin@Example.com",
		Title:     "Staff Engineer",
		Expertise: []domain.Expertise{{Category: "Go", YearsExperience: 8, Level: domain.LevelExpert}},
		Availability: []domain.Availability{
			{DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00", Timezone: "Europe/Berlin"},
		},
		HourlyRate: 110,
		Languages:  []string{"English", "Korean"},
	}
}

func TestCoachOnboardUpdateDeactivate(t *testing.T) {
	h := newHarness(t, 60)
	ctx := context.Background()
	coachActor := Actor{UserID: "coach-user", Role: domain.RoleCoach}

	_, err := h.coaches.Onboard(ctx, companyAdmin, sampleCoachInput())
	assert.Equal(t, 403, statusOf(t, err))

	coach, err := h.coaches.Onboard(ctx, coachActor, sampleCoachInput())
	require.NoError(t, err)
	assert.Equal(t, domain.CoachStatusActive, coach.Status)
	assert.Equal(t, "lin@example.com", coach.Email)
	assert.Equal(t, "USD", coach.Currency)

	_, err = h.coaches.Onboard(ctx, coachActor, sampleCoachInput())
	assert.Equal(t, 409, statusOf(t, err))

	input := sampleCoachInput()
	input.Bio = "Distributed systems"
	_, err = h.coaches.Update(ctx, Actor{UserID: "someone-else", Role: domain.RoleCoach}, coach.ID, input)
	assert.Equal(t, 403, statusOf(t, err))
	updated, err := h.coaches.Update(ctx, coachActor, coach.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Distributed systems", updated.Bio)

	_, err = h.coaches.Deactivate(ctx, coachActor, coach.ID)
	assert.Equal(t, 403, statusOf(t, err))
	deactivated, err := h.coaches.Deactivate(ctx, platformAdmin, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CoachStatusInactive, deactivated.Status)

	listed, err := h.coaches.List(ctx, CoachListInput{})
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	stored, err := h.coaches.Get(ctx, coach.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CoachStatusInactive, stored.Status)
}

func TestCoachValidation(t *testing.T) {
	h := newHarness(t, 60)
	input := sampleCoachInput()
	input.HourlyRate = -1
	input.Expertise[0].Level = "guru"
	input.Availability[0].EndTime = "08:00"

	_, err := h.coaches.Onboard(context.Background(), platformAdmin, input)
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Len(t, de.Fields, 3)

	_, err = h.coaches.Get(context.Background(), "missing")
	assert.Equal(t, 404, statusOf(t, err))
}

func TestCoachListFilters(t *testing.T) {
	h := newHarness(t, 60)
	minRating := 4.5
	coaches, err := h.coaches.List(context.Background(), CoachListInput{
		Filters: matching.SearchFilters{MinRating: &minRating, Expertise: []string{"React"}},
	})
	require.NoError(t, err)
	require.Len(t, coaches, 1)
	assert.Equal(t, "mentor_1", coaches[0].ID)

	paged, err := h.coaches.List(context.Background(), CoachListInput{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "mentor_3", paged[0].ID)
}

func TestMatchingConfigDefaultsAndUpdate(t *testing.T) {
	h := newHarness(t, 60)
	ctx := context.Background()

	cfg, err := h.config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMatchingWeights(), cfg.Weights)
	assert.Equal(t, 60.0, cfg.ConfidenceThreshold)

	weights := domain.MatchingWeights{SkillMatch: 40, Experience: 30, Rating: 20, Availability: 20, Price: 10}
	_, err = h.config.Update(ctx, companyAdmin, MatchingConfigUpdate{Weights: &weights})
	assert.Equal(t, 403, statusOf(t, err))

	updated, err := h.config.Update(ctx, platformAdmin, MatchingConfigUpdate{Weights: &weights})
	require.NoError(t, err)
	assert.Equal(t, domain.MatchingWeights{SkillMatch: 33, Experience: 25, Rating: 17, Availability: 17, Price: 8}, updated.Weights)
	assert.Equal(t, 100, updated.Weights.Sum())
	require.NotNil(t, updated.UpdatedBy)

	threshold := 150.0
	maxResults := 0
	_, err = h.config.Update(ctx, platformAdmin, MatchingConfigUpdate{ConfidenceThreshold: &threshold, MaxResults: &maxResults})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, 400, de.HTTPStatus)
	assert.Len(t, de.Fields, 2)

	stored, err := h.config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 33, stored.Weights.SkillMatch)
}

func TestMatchingSearchSeededMentors(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()
	minRating := 4.5

	result, err := h.matching.Search(ctx, matching.SearchRequest{
		RequestID: "adhoc",
		Filters:   matching.SearchFilters{MinRating: &minRating, Expertise: []string{"React"}},
	})
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "mentor_1", result.Matches[0].Coach.ID)
	assert.Equal(t, 3, result.CoachesEvaluated)
	for _, m := range result.Matches {
		assert.GreaterOrEqual(t, m.MatchScore, 0.0)
		assert.LessOrEqual(t, m.MatchScore, 100.0)
	}

	_, err = h.matching.CachedResult(ctx, "adhoc")
	assert.ErrorIs(t, err, cache.ErrCacheMiss, "ad-hoc searches must not populate the request result cache")

	stats, err := h.matching.Stats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Runs)

	badDay := 9
	_, err = h.matching.Search(ctx, matching.SearchRequest{Filters: matching.SearchFilters{DayOfWeek: &badDay}})
	assert.Equal(t, 400, statusOf(t, err))
}

type failingCoaches struct{ repository.CoachRepository }

func (failingCoaches) List(context.Context, repository.CoachFilter) ([]domain.Coach, error) {
	return nil, errors.New("connection reset")
}

func TestMatchingFailureIsGeneric(t *testing.T) {
	h := newHarness(t, 60)
	svc := NewMatchingService(MatchingDependencies{CoachRepo: failingCoaches{}, Config: h.config})

	_, err := svc.Search(context.Background(), matching.SearchRequest{})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "MATCHING_FAILED", de.Code)
	assert.Equal(t, "Failed to find mentor matches", de.Message)
}

func TestCoachingRequestLifecycleAndMatching(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	draft, err := h.requests.Create(ctx, companyAdmin, CoachingRequestInput{
		Title:          "Frontend leadership",
		RequiredSkills: []string{"React", " "},
		Languages:      []string{"English"},
		Budget:         domain.Budget{Min: 100, Max: 200},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusDraft, draft.Status)
	assert.Equal(t, []string{"React"}, draft.RequiredSkills)
	assert.Equal(t, domain.FrequencyWeekly, draft.Timeline.SessionFrequency)

	_, err = h.requests.FindMatches(ctx, companyAdmin, draft.ID)
	assert.Equal(t, 409, statusOf(t, err))

	_, err = h.requests.Get(ctx, otherAdmin, draft.ID)
	assert.Equal(t, 403, statusOf(t, err))

	_, err = h.requests.ChangeStatus(ctx, companyAdmin, draft.ID, domain.RequestStatusActive)
	assert.Equal(t, 409, statusOf(t, err))

	_, err = h.requests.ChangeStatus(ctx, companyAdmin, draft.ID, domain.RequestStatusSubmitted)
	require.NoError(t, err)

	_, err = h.requests.Update(ctx, companyAdmin, draft.ID, CoachingRequestInput{Title: "late edit"})
	assert.Equal(t, 409, statusOf(t, err))

	outcome, err := h.requests.FindMatches(ctx, companyAdmin, draft.ID)
	require.NoError(t, err)
	require.NotEmpty(t, outcome.Result.Matches)
	assert.Equal(t, "mentor_1", outcome.Result.Matches[0].Coach.ID)
	assert.Equal(t, domain.RequestStatusMatched, outcome.Request.Status)

	records, err := h.requests.ListMatches(ctx, companyAdmin, draft.ID)
	require.NoError(t, err)
	assert.Len(t, records, len(outcome.Result.Matches))

	cached, err := h.requests.CachedMatches(ctx, companyAdmin, draft.ID)
	require.NoError(t, err)
	require.NotEmpty(t, cached.Matches)
	assert.Equal(t, "Sarah Johnson", cached.Matches[0].CoachName)
	_, err = h.requests.CachedMatches(ctx, otherAdmin, draft.ID)
	assert.Equal(t, 403, statusOf(t, err))
	_, err = h.requests.CachedMatches(ctx, companyAdmin, "missing")
	assert.Equal(t, 404, statusOf(t, err))

	listed, err := h.requests.List(ctx, companyAdmin, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
	listed, err = h.requests.List(ctx, otherAdmin, nil, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSearchRequestForUsesTeamSizeAndTimeline(t *testing.T) {
	req := &domain.CoachingRequest{
		ID:             "req-1",
		RequiredSkills: []string{"React"},
		Languages:      []string{"English", "German"},
		Budget:         domain.Budget{Max: 180},
	}

	search := SearchRequestFor(req)
	assert.Equal(t, "English", search.Filters.Language)
	require.NotNil(t, search.BudgetMax)
	assert.Equal(t, 180.0, *search.BudgetMax)
	assert.Empty(t, search.RequiredLevel)
	assert.Empty(t, search.PreferredDays)

	for i := 0; i < largeTeamSize; i++ {
		req.TeamMembers = append(req.TeamMembers, domain.TeamMember{Email: fmt.Sprintf("dev%d@acme.io", i)})
	}
	start := base.Add(48 * time.Hour)
	end := start.Add(24*time.Hour + 12*time.Hour)
	req.Timeline = domain.Timeline{StartDate: &start, EndDate: &end}

	search = SearchRequestFor(req)
	assert.Equal(t, domain.LevelExpert, search.RequiredLevel)
	assert.Equal(t, []int{int(time.Wednesday), int(time.Thursday)}, search.PreferredDays)

	longEnd := start.Add(30 * 24 * time.Hour)
	req.Timeline.EndDate = &longEnd
	assert.Empty(t, SearchRequestFor(req).PreferredDays)
}

func TestFindMatchesPrefersCoachesFreeDuringShortProgram(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()
	start := base.Add(3 * 24 * time.Hour)
	end := start.Add(12 * time.Hour)

	draft, err := h.requests.Create(ctx, companyAdmin, CoachingRequestInput{
		Title:    "Thursday offsite",
		Goals:    []string{"Grow the sales pipeline"},
		Timeline: domain.Timeline{StartDate: &start, EndDate: &end},
	})
	require.NoError(t, err)
	_, err = h.requests.ChangeStatus(ctx, companyAdmin, draft.ID, domain.RequestStatusSubmitted)
	require.NoError(t, err)

	outcome, err := h.requests.FindMatches(ctx, companyAdmin, draft.ID)
	require.NoError(t, err)
	require.NotEmpty(t, outcome.Result.Matches)
	top := outcome.Result.Matches[0]
	assert.Equal(t, "mentor_3", top.Coach.ID)
	assert.Equal(t, 1.0, top.Scores.Availability)
}

func TestCoachingRequestValidation(t *testing.T) {
	h := newHarness(t, 60)
	start := base
	end := base.Add(-time.Hour)
	_, err := h.requests.Create(context.Background(), companyAdmin, CoachingRequestInput{
		Title:    "Bad",
		Budget:   domain.Budget{Min: 300, Max: 200},
		Timeline: domain.Timeline{StartDate: &start, EndDate: &end},
	})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Len(t, de.Fields, 2)

	_, err = h.requests.Create(context.Background(), Actor{UserID: "c", Role: domain.RoleCoach}, CoachingRequestInput{Title: "x"})
	assert.Equal(t, 403, statusOf(t, err))
}

func TestSubscriptionLifecycle(t *testing.T) {
	h := newHarness(t, 60)
	ctx := context.Background()

	assert.Len(t, h.subs.Tiers(), 3)

	_, err := h.subs.Current(ctx, companyAdmin)
	assert.Equal(t, 404, statusOf(t, err))

	_, err = h.subs.Subscribe(ctx, companyAdmin, "platinum", 5)
	assert.Equal(t, 400, statusOf(t, err))
	_, err = h.subs.Subscribe(ctx, companyAdmin, domain.TierGrowth, 51)
	assert.Equal(t, 400, statusOf(t, err))

	sub, err := h.subs.Subscribe(ctx, companyAdmin, domain.TierGrowth, 10)
	require.NoError(t, err)
	plan, _ := h.subs.Plan(domain.TierGrowth)
	assert.Equal(t, 990.0, sub.MonthlyAmount(plan))

	_, err = h.subs.Subscribe(ctx, companyAdmin, domain.TierStarter, 1)
	assert.Equal(t, 409, statusOf(t, err))

	sub, err = h.subs.ChangeSeats(ctx, companyAdmin, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, sub.Seats)

	cancelled, err := h.subs.Cancel(ctx, companyAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, sub.CurrentPeriodEnd, cancelled.CurrentPeriodEnd)

	_, err = h.subs.Current(ctx, companyAdmin)
	assert.Equal(t, 404, statusOf(t, err))
}
