package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/mail"
	"github.com/pkordes/planner/internal/notify"
)

// recordingDispatcher captures every message and reports them all as sent.
type recordingDispatcher struct {
	msgs   []mail.Message
	ctxErr error
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, msgs []mail.Message) domain.DeliveryReport {
	d.ctxErr = ctx.Err()
	d.msgs = append(d.msgs, msgs...)
	var r domain.DeliveryReport
	for _, m := range msgs {
		r.Sent = append(r.Sent, m.To)
	}
	return r
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:          uuid.MustParse("7b0e4b8e-2c1f-4d36-9b1c-0d2f4f1e3a11"),
		Destination: "Lisbon, Portugal",
		StartsAt:    time.Date(2030, 7, 10, 9, 0, 0, 0, time.UTC),
		EndsAt:      time.Date(2030, 7, 12, 18, 0, 0, 0, time.UTC),
	}
}

func TestNotifier_TripCreated(t *testing.T) {
	d := &recordingDispatcher{}
	n := notify.NewNotifier(d, "http://localhost:3333/")
	owner := domain.Participant{Name: "Ana", Email: "ana@example.com", IsOwner: true}

	report := n.TripCreated(context.Background(), tripFixture(), owner)

	assert.True(t, report.OK())
	require.Len(t, d.msgs, 1)
	msg := d.msgs[0]
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Equal(t, "Ana", msg.ToName)
	assert.Equal(t, "Confirm your trip to Lisbon, Portugal on July 10, 2030", msg.Subject)
	assert.Contains(t, msg.HTML, `href="http://localhost:3333/trips/7b0e4b8e-2c1f-4d36-9b1c-0d2f4f1e3a11/confirm"`)
	assert.Contains(t, msg.HTML, "Hi Ana,")
	assert.Contains(t, msg.HTML, "July 12, 2030")
}

func TestNotifier_ParticipantsInvited_OneMessageEach(t *testing.T) {
	d := &recordingDispatcher{}
	n := notify.NewNotifier(d, "http://api.example.com")
	guests := []domain.Participant{
		{ID: uuid.New(), Email: "bia@example.com"},
		{ID: uuid.New(), Email: "caio@example.com"},
	}

	report := n.ParticipantsInvited(context.Background(), tripFixture(), guests)

	assert.Equal(t, []string{"bia@example.com", "caio@example.com"}, report.Sent)
	require.Len(t, d.msgs, 2)
	for i, g := range guests {
		assert.Equal(t, g.Email, d.msgs[i].To)
		assert.Contains(t, d.msgs[i].HTML, "http://api.example.com/participants/"+g.ID.String()+"/confirm")
	}
}

func TestNotifier_EscapesDestination(t *testing.T) {
	d := &recordingDispatcher{}
	n := notify.NewNotifier(d, "http://localhost:3333")
	trip := tripFixture()
	trip.Destination = "<script>alert(1)</script>"

	n.TripCreated(context.Background(), trip, domain.Participant{Email: "ana@example.com"})

	require.Len(t, d.msgs, 1)
	assert.NotContains(t, d.msgs[0].HTML, "<script>")
}

func TestNotifier_SurvivesCancelledRequest(t *testing.T) {
	d := &recordingDispatcher{}
	n := notify.NewNotifier(d, "http://api.example.com")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n.ParticipantsInvited(ctx, tripFixture(), []domain.Participant{{ID: uuid.New(), Email: "bob@example.com"}})

	assert.NoError(t, d.ctxErr, "emails after a committed write must not inherit request cancellation")
	assert.Len(t, d.msgs, 1)
}
