package notify

import (
	"context"
	"errors"
)

// MultiNotifier fans an event out to several notifiers. All notifiers
// receive the event; errors are joined rather than short-circuiting.
type MultiNotifier struct {
	Notifiers []Notifier
}

// NewMultiNotifier creates a fan-out notifier.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{Notifiers: notifiers}
}

// Notify implements Notifier.
func (m *MultiNotifier) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m.Notifiers {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
