package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coaching-service/internal/domain"
)

var monday = time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)

func mondayCoach(tz string) domain.Coach {
	return domain.Coach{
		ID:     "coach-1",
		Status: domain.CoachStatusActive,
		Availability: []domain.Availability{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Timezone: tz},
		},
	}
}

func baseParams() Params {
	return Params{
		Coach:       mondayCoach("UTC"),
		Duration:    time.Hour,
		WindowStart: monday,
		WindowEnd:   monday.Add(24 * time.Hour),
		Now:         monday.Add(-24 * time.Hour),
	}
}

func TestParseLocation(t *testing.T) {
	cases := map[string]int{
		"":          0,
		"UTC":       0,
		"UTC-8":     -8 * 3600,
		"utc+2":     2 * 3600,
		"GMT+05:30": 5*3600 + 30*60,
	}
	for tz, want := range cases {
		loc, err := ParseLocation(tz)
		require.NoError(t, err, tz)
		_, offset := monday.In(loc).Zone()
		assert.Equal(t, want, offset, tz)
	}

	for _, bad := range []string{"UTC+15", "UTC+3:75", "UTC8", "UTC+-3", "UTC-+3", "GMT+ 3", "UTC+03:-5", "UTC+003", "Mars/Olympus_Mons"} {
		_, err := ParseLocation(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	_, err = ParseClock("9am")
	assert.Error(t, err)
}

func TestOverlaps(t *testing.T) {
	start := monday.Add(10 * time.Hour)
	end := start.Add(time.Hour)

	assert.True(t, Overlaps(start, end, start.Add(30*time.Minute), end.Add(time.Hour)))
	assert.True(t, Overlaps(start, end, start.Add(-time.Hour), end.Add(time.Hour)))
	assert.False(t, Overlaps(start, end, end, end.Add(time.Hour)))
	assert.False(t, Overlaps(start, end, start.Add(-time.Hour), start))
}

func TestFindConflictIgnoresCancelledAndExcluded(t *testing.T) {
	start := monday.Add(10 * time.Hour)
	sessions := []domain.Session{
		{ID: "cancelled", Status: domain.SessionStatusCancelled, ScheduledStartTime: start, ScheduledEndTime: start.Add(time.Hour)},
		{ID: "self", Status: domain.SessionStatusScheduled, ScheduledStartTime: start, ScheduledEndTime: start.Add(time.Hour)},
	}

	assert.Nil(t, FindConflict(sessions, start, start.Add(time.Hour), "self"))
	got := FindConflict(sessions, start.Add(30*time.Minute), start.Add(90*time.Minute), "")
	require.NotNil(t, got)
	assert.Equal(t, "self", got.ID)
}

func TestRecommendGeneratesStepSlots(t *testing.T) {
	recs, err := Recommend(baseParams())

	require.NoError(t, err)
	require.Len(t, recs, 5)
	for _, r := range recs {
		assert.Equal(t, time.Hour, r.EndTime.Sub(r.StartTime))
		assert.Equal(t, domain.AvailabilityHigh, r.CoachAvailability)
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 100.0)
	}
	assert.Equal(t, monday.Add(9*time.Hour), recs[0].StartTime)
}

func TestRecommendSkipsBusyAndPastSlots(t *testing.T) {
	p := baseParams()
	p.Busy = []domain.Session{{
		ID:                 "existing",
		Status:             domain.SessionStatusScheduled,
		ScheduledStartTime: monday.Add(10 * time.Hour),
		ScheduledEndTime:   monday.Add(11 * time.Hour),
	}}

	recs, err := Recommend(p)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, domain.AvailabilityMedium, r.CoachAvailability)
		assert.False(t, Overlaps(r.StartTime, r.EndTime, p.Busy[0].ScheduledStartTime, p.Busy[0].ScheduledEndTime))
	}

	p = baseParams()
	p.Now = monday.Add(9*time.Hour + 45*time.Minute)
	recs, err = Recommend(p)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestRecommendHonoursTimezone(t *testing.T) {
	p := baseParams()
	p.Coach.Availability = []domain.Availability{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", Timezone: "UTC-8"}}

	recs, err := Recommend(p)

	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, monday.Add(17*time.Hour), recs[0].StartTime)
}

func TestRecommendKeepsWallClockAcrossDSTChange(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	fallBack := time.Date(2026, 11, 1, 0, 0, 0, 0, la)

	p := baseParams()
	p.Coach.Availability = []domain.Availability{{DayOfWeek: 0, StartTime: "09:00", EndTime: "10:00", Timezone: "America/Los_Angeles"}}
	p.WindowStart = fallBack
	p.WindowEnd = fallBack.Add(24 * time.Hour)
	p.Now = fallBack.Add(-24 * time.Hour)

	recs, err := Recommend(p)

	require.NoError(t, err)
	require.Len(t, recs, 1)
	local := recs[0].StartTime.In(la)
	assert.Equal(t, 9, local.Hour())
	assert.Equal(t, 0, local.Minute())
	assert.Equal(t, time.Date(2026, 11, 1, 17, 0, 0, 0, time.UTC), recs[0].StartTime)
}

func TestRecommendUrgencyPrefersEarlierSlots(t *testing.T) {
	p := baseParams()
	p.Urgency = domain.UrgencyUrgent
	p.WindowStart = monday.Add(9 * time.Hour)
	p.WindowEnd = monday.Add(12 * time.Hour)

	recs, err := Recommend(p)

	require.NoError(t, err)
	for i := 1; i < len(recs); i++ {
		assert.True(t, recs[i-1].StartTime.Before(recs[i].StartTime))
	}
	assert.Contains(t, recs[0].Reasoning, "Early slot suits the request urgency")
}

func TestRecommendProgramFit(t *testing.T) {
	end := monday.Add(30 * 24 * time.Hour)
	req := &domain.CoachingRequest{
		ID:       "req-1",
		Timeline: domain.Timeline{EndDate: &end, SessionFrequency: domain.FrequencyWeekly},
	}

	p := baseParams()
	p.Request = req
	last := monday.Add(-7*24*time.Hour + 9*time.Hour)
	p.LastSession = &last
	recs, err := Recommend(p)
	require.NoError(t, err)
	assert.Equal(t, domain.ProgramFitExcellent, recs[0].ProgramFit)
	assert.Equal(t, "req-1", recs[0].RequestID)

	recent := monday.Add(-2 * 24 * time.Hour)
	p.LastSession = &recent
	recs, err = Recommend(p)
	require.NoError(t, err)
	assert.Equal(t, domain.ProgramFitFair, recs[0].ProgramFit)

	over := monday.Add(-time.Hour)
	p.Request = &domain.CoachingRequest{Timeline: domain.Timeline{EndDate: &over}}
	p.LastSession = nil
	recs, err = Recommend(p)
	require.NoError(t, err)
	assert.Equal(t, domain.ProgramFitFair, recs[0].ProgramFit)
	assert.Contains(t, recs[0].Reasoning, "Falls outside the program timeline")
}

func TestRecommendLimitAndErrors(t *testing.T) {
	p := baseParams()
	p.Limit = 2
	recs, err := Recommend(p)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	p = baseParams()
	p.Duration = 0
	_, err = Recommend(p)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	p = baseParams()
	p.WindowEnd = p.WindowStart
	_, err = Recommend(p)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	p = baseParams()
	p.WindowEnd = p.WindowStart.Add(90 * 24 * time.Hour)
	_, err = Recommend(p)
	assert.ErrorIs(t, err, ErrWindowTooLong)

	p = baseParams()
	p.Coach = mondayCoach("Nowhere/Special")
	_, err = Recommend(p)
	assert.Error(t, err)
}
