package mail_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/mail"
)

func messages(n int) []mail.Message {
	out := make([]mail.Message, n)
	for i := range out {
		out[i] = mail.Message{To: fmt.Sprintf("guest%d@example.com", i), Subject: "hi", HTML: "<p>hi</p>"}
	}
	return out
}

func TestDispatcher_AllSent(t *testing.T) {
	var calls atomic.Int32
	sender := mail.SenderFunc(func(_ context.Context, _ mail.Message) error {
		calls.Add(1)
		return nil
	})
	d := mail.NewDispatcher(sender, mail.DispatcherConfig{Concurrency: 3, Attempts: 1})

	report := d.Dispatch(context.Background(), messages(5))

	assert.True(t, report.OK())
	assert.Equal(t, 5, report.Total())
	assert.EqualValues(t, 5, calls.Load())
	assert.Equal(t, "guest0@example.com", report.Sent[0], "report keeps input order")
	assert.Equal(t, "guest4@example.com", report.Sent[4])
}

func TestDispatcher_PartialFailureDoesNotStopOthers(t *testing.T) {
	boom := errors.New("mailbox unavailable")
	sender := mail.SenderFunc(func(_ context.Context, msg mail.Message) error {
		if msg.To == "guest1@example.com" || msg.To == "guest3@example.com" {
			return boom
		}
		return nil
	})
	d := mail.NewDispatcher(sender, mail.DispatcherConfig{Concurrency: 2, Attempts: 1})

	report := d.Dispatch(context.Background(), messages(5))

	require.False(t, report.OK())
	assert.Equal(t, []string{"guest0@example.com", "guest2@example.com", "guest4@example.com"}, report.Sent)
	assert.Equal(t, []string{"guest1@example.com", "guest3@example.com"}, report.FailedRecipients())
	assert.ErrorIs(t, report.Err(), boom)
	assert.ErrorIs(t, report.Err(), domain.ErrDelivery)
}

func TestDispatcher_RespectsConcurrencyLimit(t *testing.T) {
	const limit = 2
	var (
		mu       sync.Mutex
		inFlight int
		peak     int
	)
	sender := mail.SenderFunc(func(_ context.Context, _ mail.Message) error {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil
	})
	d := mail.NewDispatcher(sender, mail.DispatcherConfig{Concurrency: limit, Attempts: 1})

	report := d.Dispatch(context.Background(), messages(8))

	assert.True(t, report.OK())
	assert.LessOrEqual(t, peak, limit)
}

func TestDispatcher_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	sender := mail.SenderFunc(func(_ context.Context, _ mail.Message) error {
		if calls.Add(1) < 3 {
			return errors.New("temporary failure")
		}
		return nil
	})
	d := mail.NewDispatcher(sender, mail.DispatcherConfig{Concurrency: 1, Attempts: 3, Delay: time.Millisecond})

	report := d.Dispatch(context.Background(), messages(1))

	assert.True(t, report.OK())
	assert.EqualValues(t, 3, calls.Load())
}

func TestDispatcher_StopsAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	permanent := errors.New("relay denied")
	sender := mail.SenderFunc(func(_ context.Context, _ mail.Message) error {
		calls.Add(1)
		return permanent
	})
	d := mail.NewDispatcher(sender, mail.DispatcherConfig{Concurrency: 1, Attempts: 2, Delay: time.Millisecond})

	report := d.Dispatch(context.Background(), messages(1))

	require.Len(t, report.Failed, 1)
	assert.ErrorIs(t, report.Failed[0].Err, permanent)
	assert.EqualValues(t, 2, calls.Load())
}

func TestDispatcher_CancelledContext(t *testing.T) {
	sender := mail.SenderFunc(func(_ context.Context, _ mail.Message) error {
		t.Error("sender must not be called with a cancelled context")
		return nil
	})
	d := mail.NewDispatcher(sender, mail.DispatcherConfig{Concurrency: 1, Attempts: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := d.Dispatch(ctx, messages(2))

	require.Len(t, report.Failed, 2)
	assert.ErrorIs(t, report.Failed[0].Err, context.Canceled)
}

func TestDispatcher_Empty(t *testing.T) {
	d := mail.NewDispatcher(mail.SenderFunc(func(context.Context, mail.Message) error { return nil }), mail.DispatcherConfig{})

	report := d.Dispatch(context.Background(), nil)

	assert.True(t, report.OK())
	assert.Zero(t, report.Total())
}
