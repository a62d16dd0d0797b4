package commands

import (
	"context"
	"log/slog"

	"ridehail/internal/core/ports"
)

// emitSnapshot delivers an order snapshot on a best-effort basis.
// Notification failures are logged and never fail the command, the state
// change is already committed by the time the snapshot goes out.
func emitSnapshot(ctx context.Context, notifier ports.NotificationSink, logger *slog.Logger, snapshot ports.OrderSnapshot) {
	if notifier == nil {
		return
	}

	if err := notifier.Emit(ctx, snapshot); err != nil && logger != nil {
		logger.WarnContext(ctx, "order notification emit failed",
			"orderId", snapshot.OrderID,
			"status", snapshot.Status,
			"error", err,
		)
	}
}
