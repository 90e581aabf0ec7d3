package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/coaching-service/internal/domain"
)

func TestMemoryCoachesSeededAndIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory(domain.SeedCoaches()).Coaches()

	coaches, err := repo.List(ctx, CoachFilter{Statuses: []domain.CoachStatus{domain.CoachStatusActive}})
	require.NoError(t, err)
	require.Len(t, coaches, 3)
	assert.Equal(t, "mentor_1", coaches[0].ID)

	coaches[0].Languages[0] = "Klingon"
	again, err := repo.GetByID(ctx, "mentor_1")
	require.NoError(t, err)
	assert.Equal(t, "English", again.Languages[0])

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMemorySessionsConflictAndRange(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory(nil).Sessions()
	start := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)

	s := &domain.Session{CoachID: "c1", RequestID: "r1", Status: domain.SessionStatusScheduled, ScheduledStartTime: start, ScheduledEndTime: start.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, s))
	cancelled := &domain.Session{CoachID: "c1", Status: domain.SessionStatusCancelled, ScheduledStartTime: start.Add(2 * time.Hour), ScheduledEndTime: start.Add(3 * time.Hour)}
	require.NoError(t, repo.Create(ctx, cancelled))

	conflict, err := repo.HasConflict(ctx, "c1", start.Add(30*time.Minute), start.Add(90*time.Minute), "")
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = repo.HasConflict(ctx, "c1", start.Add(30*time.Minute), start.Add(90*time.Minute), s.ID)
	require.NoError(t, err)
	assert.False(t, conflict)

	conflict, err = repo.HasConflict(ctx, "c1", start.Add(2*time.Hour), start.Add(3*time.Hour), "")
	require.NoError(t, err)
	assert.False(t, conflict)

	inRange, err := repo.ListForCoachInRange(ctx, "c1", start.Add(-time.Hour), start.Add(4*time.Hour))
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, s.ID, inRange[0].ID)

	last, err := repo.LastStartForRequest(ctx, "r1", start.Add(24*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Equal(start))
}

func TestMemorySessionsCreateIfFree(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory(nil).Sessions()
	start := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)
	session := func(at time.Time) *domain.Session {
		return &domain.Session{CoachID: "c1", Status: domain.SessionStatusScheduled, ScheduledStartTime: at, ScheduledEndTime: at.Add(time.Hour)}
	}

	first := session(start)
	require.NoError(t, repo.CreateIfFree(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.ErrorIs(t, repo.CreateIfFree(ctx, session(start.Add(30*time.Minute))), ErrSlotTaken)

	second := session(start.Add(2 * time.Hour))
	require.NoError(t, repo.CreateIfFree(ctx, second))

	second.ScheduledStartTime = start.Add(15 * time.Minute)
	second.ScheduledEndTime = second.ScheduledStartTime.Add(time.Hour)
	assert.ErrorIs(t, repo.UpdateIfFree(ctx, second), ErrSlotTaken)

	first.ScheduledStartTime = start.Add(30 * time.Minute)
	first.ScheduledEndTime = first.ScheduledStartTime.Add(time.Hour)
	assert.NoError(t, repo.UpdateIfFree(ctx, first))

	assert.ErrorIs(t, repo.UpdateIfFree(ctx, &domain.Session{ID: "missing", CoachID: "c1"}), pgx.ErrNoRows)
}

func TestMemoryRecordSessionOutcome(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(domain.SeedCoaches())
	coaches := mem.Coaches()
	before, err := coaches.GetByID(ctx, "mentor_2")
	require.NoError(t, err)

	start := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)
	for i, status := range []domain.SessionStatus{domain.SessionStatusCompleted, domain.SessionStatusNoShow} {
		at := start.Add(time.Duration(i) * 2 * time.Hour)
		require.NoError(t, mem.Sessions().Create(ctx, &domain.Session{CoachID: "mentor_2", Status: status, ScheduledStartTime: at, ScheduledEndTime: at.Add(time.Hour)}))
	}

	rating := 5.0
	require.NoError(t, coaches.RecordSessionOutcome(ctx, "mentor_2", true, &rating))
	require.NoError(t, coaches.RecordSessionOutcome(ctx, "mentor_2", false, nil))

	after, err := coaches.GetByID(ctx, "mentor_2")
	require.NoError(t, err)
	assert.Equal(t, before.Metrics.TotalSessions+1, after.Metrics.TotalSessions)
	assert.Equal(t, before.Metrics.RatedSessions+1, after.Metrics.RatedSessions)
	assert.Equal(t, 0.5, after.Metrics.CompletionRate)

	after.Metrics.TotalSessions = 0
	require.NoError(t, coaches.Update(ctx, after))
	kept, err := coaches.GetByID(ctx, "mentor_2")
	require.NoError(t, err)
	assert.Equal(t, before.Metrics.TotalSessions+1, kept.Metrics.TotalSessions)

	assert.ErrorIs(t, coaches.RecordSessionOutcome(ctx, "missing", true, nil), pgx.ErrNoRows)
}

func TestMemoryUsersRejectDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory(nil).Users()

	require.NoError(t, repo.Create(ctx, &domain.User{Email: "Admin@Acme.io", Role: domain.RoleCompanyAdmin}))
	err := repo.Create(ctx, &domain.User{Email: "admin@acme.io"})
	assert.ErrorIs(t, err, ErrDuplicate)

	u, err := repo.GetByEmail(ctx, "ADMIN@acme.io")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCompanyAdmin, u.Role)
}

func TestMemoryMatchingConfigStartsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory(nil).MatchingConfig()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	require.NoError(t, repo.Save(ctx, &domain.MatchingConfiguration{Weights: domain.DefaultMatchingWeights(), MaxResults: 5}))
	cfg, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxResults)
}
