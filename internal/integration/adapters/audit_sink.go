// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"log/slog"

	"github.com/dealership/backoffice/internal/application/adapter"
)

// logAuditSink implements the adapter.AuditSink interface on top of slog.
// Records are emitted as structured log entries; a persistent trail can be
// layered on by swapping the sink without touching the use cases.
type logAuditSink struct {
	logger *slog.Logger
}

// NewLogAuditSink creates a new log-backed audit sink instance.
func NewLogAuditSink(logger *slog.Logger) adapter.AuditSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &logAuditSink{
		logger: logger,
	}
}

// Record emits the audit record as a structured log entry. It never fails the
// calling operation.
func (s *logAuditSink) Record(ctx context.Context, record adapter.AuditRecord) {
	s.logger.InfoContext(ctx, "audit",
		slog.String("action", record.Action),
		slog.String("table", record.Table),
		slog.String("record_id", record.RecordID),
		slog.Any("previous_data", record.PreviousData),
		slog.Any("new_data", record.NewData),
		slog.String("details", record.Details),
	)
}
