package ports

import "context"

// MetricsExporter exports sync metrics to an external observability system.
type MetricsExporter interface {
	// RecordSync records a committed batch and the number of days it carried.
	RecordSync(ctx context.Context, days int)
	// RecordRejection records a refused or failed sync, labelled by reason.
	RecordRejection(ctx context.Context, reason string)
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
