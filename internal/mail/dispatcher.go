package mail

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/planner/internal/domain"
	"github.com/pkordes/planner/internal/observability"
)

// DispatcherConfig bounds a Dispatcher.
type DispatcherConfig struct {
	// Concurrency is the maximum number of sends in flight. Values below 1 mean 1.
	Concurrency int
	// Attempts is the number of tries per message, first one included. Values below 1 mean 1.
	Attempts uint
	// Delay is the fixed pause between tries of the same message.
	Delay time.Duration
}

// Dispatcher sends batches of messages through a Sender.
type Dispatcher struct {
	sender Sender
	cfg    DispatcherConfig
}

// NewDispatcher returns a Dispatcher over sender.
func NewDispatcher(sender Sender, cfg DispatcherConfig) *Dispatcher {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &Dispatcher{sender: sender, cfg: cfg}
}

// Dispatch sends every message and returns one outcome per recipient, in
// input order. A failing recipient never stops the others; cancelling ctx
// stops retries and marks unsent messages as failed with the context error.
func (d *Dispatcher) Dispatch(ctx context.Context, msgs []Message) domain.DeliveryReport {
	errs := make([]error, len(msgs))

	var g errgroup.Group
	g.SetLimit(d.cfg.Concurrency)
	for i, msg := range msgs {
		g.Go(func() error {
			errs[i] = d.sendWithRetry(ctx, msg)
			return nil
		})
	}
	_ = g.Wait() // goroutines report through errs

	var report domain.DeliveryReport
	for i, msg := range msgs {
		if errs[i] != nil {
			report.Failed = append(report.Failed, domain.DeliveryFailure{Recipient: msg.To, Err: errs[i]})
			observability.MailDeliveries.WithLabelValues("failed").Inc()
			continue
		}
		report.Sent = append(report.Sent, msg.To)
		observability.MailDeliveries.WithLabelValues("sent").Inc()
	}
	return report
}

func (d *Dispatcher) sendWithRetry(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return retry.Do(
		func() error { return d.sender.Send(ctx, msg) },
		retry.Context(ctx),
		retry.Attempts(d.cfg.Attempts),
		retry.Delay(d.cfg.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}
