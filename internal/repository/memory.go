package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/coaching-service/internal/domain"
)

// Memory is an in-process store backing every repository interface. It is used when
// no Postgres DSN is configured and by service tests. Missing rows yield pgx.ErrNoRows
// so callers handle both backends the same way.
type Memory struct {
	mu            sync.RWMutex
	now           func() time.Time
	coaches       map[string]domain.Coach
	requests      map[string]domain.CoachingRequest
	sessions      map[string]domain.Session
	users         map[string]domain.User
	resets        map[string]PasswordResetToken
	matchConfig   *domain.MatchingConfiguration
	matches       map[string][]domain.MatchRecord
	subscriptions map[string]domain.Subscription
}

// NewMemory builds an empty store seeded with the given coaches.
func NewMemory(seed []domain.Coach) *Memory {
	m := &Memory{
		now:           time.Now,
		coaches:       make(map[string]domain.Coach),
		requests:      make(map[string]domain.CoachingRequest),
		sessions:      make(map[string]domain.Session),
		users:         make(map[string]domain.User),
		resets:        make(map[string]PasswordResetToken),
		matches:       make(map[string][]domain.MatchRecord),
		subscriptions: make(map[string]domain.Subscription),
	}
	for _, c := range seed {
		m.coaches[c.ID] = cloneCoach(c)
	}
	return m
}

func (m *Memory) Coaches() CoachRepository { return memCoaches{m} }
func (m *Memory) CoachingRequests() CoachingRequestRepository { return memRequests{m} }
func (m *Memory) Sessions() SessionRepository { return memSessions{m} }
func (m *Memory) Users() UserRepository { return memUsers{m} }
func (m *Memory) PasswordResets() PasswordResetRepository { return memResets{m} }
func (m *Memory) MatchingConfig() MatchingConfigRepository { return memMatchConfig{m} }
func (m *Memory) Matches() MatchRepository { return memMatches{m} }
func (m *Memory) Subscriptions() SubscriptionRepository { return memSubscriptions{m} }

func page[T any](items []T, limit, offset, defaultLimit int) []T {
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func cloneCoach(c domain.Coach) domain.Coach {
	c.Expertise = append([]domain.Expertise(nil), c.Expertise...)
	c.Availability = append([]domain.Availability(nil), c.Availability...)
	c.Languages = append([]string(nil), c.Languages...)
	return c
}

type memCoaches struct{ m *Memory }

func (r memCoaches) Create(_ context.Context, coach *domain.Coach) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if coach.ID == "" {
		coach.ID = uuid.NewString()
	}
	now := r.m.now()
	coach.CreatedAt, coach.UpdatedAt = now, now
	r.m.coaches[coach.ID] = cloneCoach(*coach)
	return nil
}

// Update keeps the stored metrics, matching the SQL repository.
func (r memCoaches) Update(_ context.Context, coach *domain.Coach) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.coaches[coach.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	coach.Metrics = stored.Metrics
	coach.UpdatedAt = r.m.now()
	r.m.coaches[coach.ID] = cloneCoach(*coach)
	return nil
}

func (r memCoaches) RecordSessionOutcome(_ context.Context, coachID string, completed bool, rating *float64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	coach, ok := r.m.coaches[coachID]
	if !ok {
		return pgx.ErrNoRows
	}
	done := r.m.countLocked(coachID, domain.SessionStatusCompleted)
	closed := r.m.countLocked(coachID, domain.SessionStatusCompleted, domain.SessionStatusNoShow)
	coach.RecordSessionOutcome(completed, rating, done, closed)
	coach.UpdatedAt = r.m.now()
	r.m.coaches[coachID] = coach
	return nil
}

func (r memCoaches) GetByID(_ context.Context, id string) (*domain.Coach, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	c, ok := r.m.coaches[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	c = cloneCoach(c)
	return &c, nil
}

func (r memCoaches) GetByUserID(_ context.Context, userID string) (*domain.Coach, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, c := range r.m.coaches {
		if c.UserID != nil && *c.UserID == userID {
			c = cloneCoach(c)
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r memCoaches) List(_ context.Context, filter CoachFilter) ([]domain.Coach, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]domain.Coach, 0, len(r.m.coaches))
	for _, c := range r.m.coaches {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, c.Status) {
			continue
		}
		out = append(out, cloneCoach(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, filter.Limit, filter.Offset, 500), nil
}

func containsStatus[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

type memRequests struct{ m *Memory }

func (r memRequests) Create(_ context.Context, req *domain.CoachingRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	req.ID = uuid.NewString()
	now := r.m.now()
	req.CreatedAt, req.UpdatedAt = now, now
	r.m.requests[req.ID] = *req
	return nil
}

func (r memRequests) Update(_ context.Context, req *domain.CoachingRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.requests[req.ID]; !ok {
		return pgx.ErrNoRows
	}
	req.UpdatedAt = r.m.now()
	r.m.requests[req.ID] = *req
	return nil
}

func (r memRequests) GetByID(_ context.Context, id string) (*domain.CoachingRequest, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	req, ok := r.m.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &req, nil
}

func (r memRequests) List(_ context.Context, filter CoachingRequestFilter) ([]domain.CoachingRequest, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]domain.CoachingRequest, 0)
	for _, req := range r.m.requests {
		if filter.CompanyID != nil && req.CompanyID != *filter.CompanyID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, req.Status) {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, filter.Limit, filter.Offset, 20), nil
}

type memSessions struct{ m *Memory }

func (r memSessions) Create(_ context.Context, session *domain.Session) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	session.ID = uuid.NewString()
	now := r.m.now()
	session.CreatedAt, session.UpdatedAt = now, now
	r.m.sessions[session.ID] = *session
	return nil
}

func (r memSessions) Update(_ context.Context, session *domain.Session) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.sessions[session.ID]; !ok {
		return pgx.ErrNoRows
	}
	session.UpdatedAt = r.m.now()
	r.m.sessions[session.ID] = *session
	return nil
}

func (r memSessions) GetByID(_ context.Context, id string) (*domain.Session, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	s, ok := r.m.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

func (r memSessions) List(_ context.Context, filter SessionFilter) ([]domain.Session, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]domain.Session, 0)
	for _, s := range r.m.sessions {
		switch {
		case filter.CoachID != nil && s.CoachID != *filter.CoachID,
			filter.RequestID != nil && s.RequestID != *filter.RequestID,
			filter.CompanyID != nil && s.CompanyID != *filter.CompanyID,
			len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, s.Status),
			filter.From != nil && s.ScheduledStartTime.Before(*filter.From),
			filter.To != nil && s.ScheduledStartTime.After(*filter.To):
			continue
		}
		out = append(out, s)
	}
	sortSessions(out)
	return page(out, filter.Limit, filter.Offset, 50), nil
}

func (r memSessions) CreateIfFree(_ context.Context, session *domain.Session) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.conflictLocked(session.CoachID, session.ScheduledStartTime, session.ScheduledEndTime, "") {
		return ErrSlotTaken
	}
	session.ID = uuid.NewString()
	now := r.m.now()
	session.CreatedAt, session.UpdatedAt = now, now
	r.m.sessions[session.ID] = *session
	return nil
}

func (r memSessions) UpdateIfFree(_ context.Context, session *domain.Session) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.sessions[session.ID]; !ok {
		return pgx.ErrNoRows
	}
	if r.m.conflictLocked(session.CoachID, session.ScheduledStartTime, session.ScheduledEndTime, session.ID) {
		return ErrSlotTaken
	}
	session.UpdatedAt = r.m.now()
	r.m.sessions[session.ID] = *session
	return nil
}

func (r memSessions) HasConflict(_ context.Context, coachID string, start, end time.Time, excludeID string) (bool, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return r.m.conflictLocked(coachID, start, end, excludeID), nil
}

// conflictLocked expects m.mu to be held.
func (m *Memory) conflictLocked(coachID string, start, end time.Time, excludeID string) bool {
	for _, s := range m.sessions {
		if s.CoachID != coachID || s.ID == excludeID || !s.Blocking() {
			continue
		}
		if s.ScheduledStartTime.Before(end) && start.Before(s.ScheduledEndTime) {
			return true
		}
	}
	return false
}

func (r memSessions) ListForCoachInRange(_ context.Context, coachID string, from, to time.Time) ([]domain.Session, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	out := make([]domain.Session, 0)
	for _, s := range r.m.sessions {
		if s.CoachID != coachID || !s.Blocking() {
			continue
		}
		if s.ScheduledStartTime.Before(to) && from.Before(s.ScheduledEndTime) {
			out = append(out, s)
		}
	}
	sortSessions(out)
	return out, nil
}

func (m *Memory) countLocked(coachID string, statuses ...domain.SessionStatus) int {
	count := 0
	for _, s := range m.sessions {
		if s.CoachID != coachID {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, s.Status) {
			continue
		}
		count++
	}
	return count
}

func (r memSessions) LastStartForRequest(_ context.Context, requestID string, before time.Time) (*time.Time, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var last *time.Time
	for _, s := range r.m.sessions {
		if s.RequestID != requestID || !s.Blocking() || !s.ScheduledStartTime.Before(before) {
			continue
		}
		if last == nil || s.ScheduledStartTime.After(*last) {
			start := s.ScheduledStartTime
			last = &start
		}
	}
	return last, nil
}

func sortSessions(out []domain.Session) {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledStartTime.Equal(out[j].ScheduledStartTime) {
			return out[i].ScheduledStartTime.Before(out[j].ScheduledStartTime)
		}
		return out[i].ID < out[j].ID
	})
}

type memUsers struct{ m *Memory }

func (r memUsers) Create(_ context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.m.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	user.ID = uuid.NewString()
	now := r.m.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.m.users[user.ID] = *user
	return nil
}

func (r memUsers) Update(_ context.Context, user *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.Email = strings.ToLower(user.Email)
	user.UpdatedAt = r.m.now()
	r.m.users[user.ID] = *user
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memResets struct{ m *Memory }

func (r memResets) Create(_ context.Context, token *PasswordResetToken) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	token.ID = uuid.NewString()
	token.CreatedAt = r.m.now()
	r.m.resets[token.Token] = *token
	return nil
}

func (r memResets) GetByToken(_ context.Context, token string) (*PasswordResetToken, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	t, ok := r.m.resets[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (r memResets) MarkUsed(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for key, t := range r.m.resets {
		if t.ID == id && t.UsedAt == nil {
			now := r.m.now()
			t.UsedAt = &now
			r.m.resets[key] = t
			return nil
		}
	}
	return pgx.ErrNoRows
}

type memMatchConfig struct{ m *Memory }

func (r memMatchConfig) Get(_ context.Context) (*domain.MatchingConfiguration, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if r.m.matchConfig == nil {
		return nil, pgx.ErrNoRows
	}
	cfg := *r.m.matchConfig
	return &cfg, nil
}

func (r memMatchConfig) Save(_ context.Context, cfg *domain.MatchingConfiguration) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cfg.UpdatedAt = r.m.now()
	stored := *cfg
	r.m.matchConfig = &stored
	return nil
}

type memMatches struct{ m *Memory }

func (r memMatches) ReplaceForRequest(_ context.Context, requestID string, records []domain.MatchRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	now := r.m.now()
	stored := make([]domain.MatchRecord, len(records))
	for i, rec := range records {
		rec.ID = uuid.NewString()
		rec.RequestID = requestID
		rec.CreatedAt = now
		stored[i] = rec
	}
	r.m.matches[requestID] = stored
	return nil
}

func (r memMatches) ListByRequest(_ context.Context, requestID string) ([]domain.MatchRecord, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return append([]domain.MatchRecord{}, r.m.matches[requestID]...), nil
}

type memSubscriptions struct{ m *Memory }

func (r memSubscriptions) Create(_ context.Context, sub *domain.Subscription) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	sub.ID = uuid.NewString()
	now := r.m.now()
	sub.CreatedAt, sub.UpdatedAt = now, now
	r.m.subscriptions[sub.ID] = *sub
	return nil
}

func (r memSubscriptions) Update(_ context.Context, sub *domain.Subscription) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.subscriptions[sub.ID]; !ok {
		return pgx.ErrNoRows
	}
	sub.UpdatedAt = r.m.now()
	r.m.subscriptions[sub.ID] = *sub
	return nil
}

func (r memSubscriptions) GetActiveByCompany(_ context.Context, companyID string) (*domain.Subscription, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var found *domain.Subscription
	for _, s := range r.m.subscriptions {
		if s.CompanyID != companyID || s.Status == domain.SubscriptionCancelled {
			continue
		}
		if found == nil || s.CreatedAt.After(found.CreatedAt) {
			sub := s
			found = &sub
		}
	}
	if found == nil {
		return nil, pgx.ErrNoRows
	}
	return found, nil
}
