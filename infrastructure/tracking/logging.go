package tracking

import (
	"context"
	"log/slog"

	"github.com/helixml/curator/domain/approval"
)

// LoggingReporter implements Reporter by logging progress changes.
type LoggingReporter struct {
	logger *slog.Logger
}

// NewLoggingReporter creates a new LoggingReporter.
func NewLoggingReporter(logger *slog.Logger) *LoggingReporter {
	return &LoggingReporter{
		logger: logger,
	}
}

// OnChange logs the batch progress.
func (r *LoggingReporter) OnChange(_ context.Context, progress approval.Progress) error {
	attrs := []any{
		slog.String("batch_id", progress.ID()),
		slog.String("state", string(progress.State())),
		slog.Int("processed", progress.Processed()),
		slog.Int("total", progress.Total()),
		slog.Int("success", progress.Success()),
		slog.Int("failed", progress.Failed()),
		slog.Float64("completion_percent", progress.Percent()),
	}

	if progress.State().IsTerminal() && progress.Failed() > 0 {
		r.logger.Warn("batch approval", attrs...)
		return nil
	}
	r.logger.Info("batch approval", attrs...)
	return nil
}
