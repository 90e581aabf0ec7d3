package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateSessionWindow(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	start := now.Add(24 * time.Hour)

	assert.NoError(t, ValidateSessionWindow(start, start.Add(time.Hour), now))
	assert.ErrorIs(t, ValidateSessionWindow(start, start, now), ErrSessionEndBeforeStart)
	assert.ErrorIs(t, ValidateSessionWindow(start, start.Add(-time.Minute), now), ErrSessionEndBeforeStart)
	assert.ErrorIs(t, ValidateSessionWindow(now.Add(-time.Hour), now.Add(time.Hour), now), ErrSessionInPast)
}

func TestRequestStatusTransitions(t *testing.T) {
	assert.True(t, RequestStatusDraft.CanTransitionTo(RequestStatusSubmitted))
	assert.True(t, RequestStatusSubmitted.CanTransitionTo(RequestStatusMatched))
	assert.True(t, RequestStatusMatched.CanTransitionTo(RequestStatusActive))
	assert.True(t, RequestStatusActive.CanTransitionTo(RequestStatusCompleted))
	assert.True(t, RequestStatusActive.CanTransitionTo(RequestStatusCancelled))

	assert.False(t, RequestStatusDraft.CanTransitionTo(RequestStatusActive))
	assert.False(t, RequestStatusCompleted.CanTransitionTo(RequestStatusCancelled))
	assert.False(t, RequestStatusCancelled.CanTransitionTo(RequestStatusDraft))
}

func TestSessionStatusTransitions(t *testing.T) {
	assert.True(t, SessionStatusScheduled.CanTransitionTo(SessionStatusInProgress))
	assert.True(t, SessionStatusInProgress.CanTransitionTo(SessionStatusCompleted))
	assert.True(t, SessionStatusScheduled.CanTransitionTo(SessionStatusNoShow))
	assert.False(t, SessionStatusScheduled.CanTransitionTo(SessionStatusCompleted))
	assert.False(t, SessionStatusCompleted.CanTransitionTo(SessionStatusCancelled))
}

func TestExpertiseLevelRankOrdering(t *testing.T) {
	assert.Less(t, LevelBeginner.Rank(), LevelIntermediate.Rank())
	assert.Less(t, LevelIntermediate.Rank(), LevelExpert.Rank())
	assert.Less(t, LevelExpert.Rank(), LevelMaster.Rank())
	assert.Equal(t, 3, ExpertiseLevel("Expert").Rank())
	assert.Equal(t, 0, ExpertiseLevel("guru").Rank())
}

func TestRecordCompletedSessionUpdatesMetrics(t *testing.T) {
	coach := Coach{Metrics: CoachMetrics{AverageRating: 4.0, RatedSessions: 1, TotalSessions: 1}}
	rating := 5.0

	coach.RecordCompletedSession(&rating, 2, 4)

	assert.Equal(t, 2, coach.Metrics.TotalSessions)
	assert.Equal(t, 2, coach.Metrics.RatedSessions)
	assert.InDelta(t, 4.5, coach.Metrics.AverageRating, 0.0001)
	assert.InDelta(t, 0.5, coach.Metrics.CompletionRate, 0.0001)

	coach.RecordCompletedSession(nil, 0, 0)
	assert.Equal(t, 3, coach.Metrics.TotalSessions)
	assert.InDelta(t, 4.5, coach.Metrics.AverageRating, 0.0001)
}

func TestTimelineContains(t *testing.T) {
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	tl := Timeline{StartDate: &start, EndDate: &end}

	assert.True(t, tl.Contains(start.Add(48*time.Hour)))
	assert.False(t, tl.Contains(start.Add(-time.Hour)))
	assert.False(t, tl.Contains(end.Add(time.Hour)))
	assert.True(t, Timeline{}.Contains(end))
}

func TestSeedCoachesAreMatchable(t *testing.T) {
	coaches := SeedCoaches()

	assert.Len(t, coaches, 3)
	for _, c := range coaches {
		assert.True(t, c.Matchable(), c.ID)
	}
	assert.Equal(t, "Sarah Johnson", coaches[0].FullName())
	assert.Equal(t, LevelMaster, coaches[2].HighestLevel())
	assert.Equal(t, 10, coaches[2].MaxYearsExperience())
}
