package domain

import (
	"errors"
	"fmt"
)

// DeliveryFailure records one recipient whose notification could not be sent.
type DeliveryFailure struct {
	Recipient string
	Err       error
}

// DeliveryReport is the per-recipient outcome of a notification fan-out.
// Sent and Failed keep the order in which recipients were submitted.
type DeliveryReport struct {
	Sent   []string
	Failed []DeliveryFailure
}

// Total is the number of recipients the report covers.
func (r DeliveryReport) Total() int {
	return len(r.Sent) + len(r.Failed)
}

// OK reports whether every recipient was notified.
func (r DeliveryReport) OK() bool {
	return len(r.Failed) == 0
}

// FailedRecipients returns the addresses that were not notified.
func (r DeliveryReport) FailedRecipients() []string {
	out := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		out[i] = f.Recipient
	}
	return out
}

// Err joins every failure into one error, or returns nil when all sends
// succeeded. Each joined error matches ErrDelivery.
func (r DeliveryReport) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = fmt.Errorf("%w: %s: %w", ErrDelivery, f.Recipient, f.Err)
	}
	return errors.Join(errs...)
}

// Merge appends other's outcomes after r's.
func (r DeliveryReport) Merge(other DeliveryReport) DeliveryReport {
	return DeliveryReport{
		Sent:   append(append([]string{}, r.Sent...), other.Sent...),
		Failed: append(append([]DeliveryFailure{}, r.Failed...), other.Failed...),
	}
}
