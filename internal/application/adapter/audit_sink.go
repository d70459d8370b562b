// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// AuditRecord carries structured before/after values for a mutation. The core
// only supplies the values; formatting and persistence belong to the sink.
type AuditRecord struct {
	Action       string
	Table        string
	RecordID     string
	PreviousData map[string]any
	NewData      map[string]any
	Details      string
}

// AuditSink receives audit records for every note/client mutation. Sinks must
// not fail the business operation; delivery problems are theirs to handle.
type AuditSink interface {
	Record(ctx context.Context, record AuditRecord)
}
