// Package notify turns trip events into confirmation emails and hands them
// to the mail dispatcher.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// dateLayout renders dates in emails, e.g. "July 10, 2030".
const dateLayout = "January 2, 2006"

// Dispatcher is the part of mail.Dispatcher the notifier needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, msgs []mail.Message) domain.DeliveryReport
}

// Notifier renders and dispatches trip emails. Links point at the API, which
// confirms and then redirects the browser to the web app.
type Notifier struct {
	dispatcher Dispatcher
	apiBaseURL string
}

// NewNotifier returns a Notifier whose links are rooted at apiBaseURL.
func NewNotifier(d Dispatcher, apiBaseURL string) *Notifier {
	return &Notifier{dispatcher: d, apiBaseURL: strings.TrimRight(apiBaseURL, "/")}
}

type emailData struct {
	Name        string
	Destination string
	StartsAt    string
	EndsAt      string
	Link        string
}

// TripCreated emails the owner a link to confirm the trip.
func (n *Notifier) TripCreated(ctx context.Context, trip domain.Trip, owner domain.Participant) domain.DeliveryReport {
	ctx = detach(ctx)
	data := n.dataFor(trip)
	data.Name = owner.Name
	data.Link = fmt.Sprintf("%s/trips/%s/confirm", n.apiBaseURL, trip.ID)

	msg, err := render("trip_confirmation.html", data)
	if err != nil {
		return renderFailure(owner.Email, err)
	}
	msg.To = owner.Email
	msg.ToName = owner.Name
	msg.Subject = fmt.Sprintf("Confirm your trip to %s on %s", trip.Destination, data.StartsAt)

	return n.dispatcher.Dispatch(ctx, []mail.Message{msg})
}

// ParticipantsInvited emails every participant an individual confirmation link.
func (n *Notifier) ParticipantsInvited(ctx context.Context, trip domain.Trip, participants []domain.Participant) domain.DeliveryReport {
	ctx = detach(ctx)
	var (
		msgs   = make([]mail.Message, 0, len(participants))
		failed domain.DeliveryReport
	)
	for _, p := range participants {
		data := n.dataFor(trip)
		data.Name = p.Name
		data.Link = fmt.Sprintf("%s/participants/%s/confirm", n.apiBaseURL, p.ID)

		msg, err := render("participant_invitation.html", data)
		if err != nil {
			failed = failed.Merge(renderFailure(p.Email, err))
			continue
		}
		msg.To = p.Email
		msg.ToName = p.Name
		msg.Subject = fmt.Sprintf("Confirm your attendance on the trip to %s on %s", trip.Destination, data.StartsAt)
		msgs = append(msgs, msg)
	}
	return n.dispatcher.Dispatch(ctx, msgs).Merge(failed)
}

// detach keeps request values but drops cancellation: emails follow a write
// that is already committed, so a client hanging up must not abort them.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func (n *Notifier) dataFor(trip domain.Trip) emailData {
	return emailData{
		Destination: trip.Destination,
		StartsAt:    trip.StartsAt.Format(dateLayout),
		EndsAt:      trip.EndsAt.Format(dateLayout),
	}
}

func render(name string, data emailData) (mail.Message, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return mail.Message{}, fmt.Errorf("notify: render %s: %w", name, err)
	}
	return mail.Message{HTML: strings.TrimSpace(buf.String())}, nil
}

func renderFailure(recipient string, err error) domain.DeliveryReport {
	return domain.DeliveryReport{Failed: []domain.DeliveryFailure{{Recipient: recipient, Err: err}}}
}
