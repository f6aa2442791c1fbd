package app

import (
	"context"
	"log/slog"
)

// LogSink reports load failures to the structured logger.
type LogSink struct{}

func (LogSink) Report(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "Error fetching sentiment data", "error", err)
}
