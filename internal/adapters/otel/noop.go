package otel

import "context"

// NoOpExporter is a metrics exporter that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordSync(ctx context.Context, days int) {}

func (e *NoOpExporter) RecordRejection(ctx context.Context, reason string) {}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
