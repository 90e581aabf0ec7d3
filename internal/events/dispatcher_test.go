package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToAllHandlers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var calls []string

	d.Subscribe(EventSessionScheduled, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.SubjectID)
		return errors.New("boom")
	})
	d.Subscribe(EventSessionScheduled, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.SubjectID)
		return nil
	})
	d.Subscribe(EventSessionCancelled, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), New(EventSessionScheduled, "s-1", Actor{}, nil))

	require.NoError(t, err)
	assert.Equal(t, []string{"first:s-1", "second:s-1"}, calls)
}

func TestNewEventFillsMetadata(t *testing.T) {
	e := New(EventMatchesGenerated, "req-1", Actor{UserID: "u-1"}, MatchesGeneratedPayload{TopScore: 80})

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "req-1", e.SubjectID)
}

func TestWithNATSWithoutConnectionReturnsInner(t *testing.T) {
	inner := NewInMemoryDispatcher(nil)
	assert.Same(t, inner, WithNATS(inner, nil, "events", nil))
	assert.Equal(t, "events.session_rescheduled", Subject("events", EventSessionRescheduled))
}

func TestBrokerMessageKeepsResetTokensLocal(t *testing.T) {
	reset := New(EventPasswordResetRequested, "u-1", Actor{UserID: "u-1"},
		PasswordResetPayload{Email: "admin@acme.io", Token: "secret-token", ExpiresAt: time.Now()})
	raw, ok, err := brokerMessage(reset)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, raw)

	scheduled := New(EventSessionScheduled, "s-1", Actor{}, SessionPayload{SessionID: "s-1", CoachID: "mentor_1"})
	raw, ok, err = brokerMessage(scheduled)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, string(raw), `"mentor_1"`)
}
