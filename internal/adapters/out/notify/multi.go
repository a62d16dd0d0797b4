package notify

import (
	"context"
	"errors"

	"ridehail/internal/core/ports"
)

// MultiSink fans one snapshot out to several sinks. Every sink gets the
// snapshot even if an earlier one fails; the errors are joined.
type MultiSink []ports.NotificationSink

// Emit implements ports.NotificationSink.
func (m MultiSink) Emit(ctx context.Context, snapshot ports.OrderSnapshot) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Emit(ctx, snapshot); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
