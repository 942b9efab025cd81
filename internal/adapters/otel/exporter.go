package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "burphub"
	serviceVersion = "1.0.0"
)

// Exporter exports sync metrics to an OTEL Collector.
type Exporter struct {
	provider        *sdkmetric.MeterProvider
	batchesTotal    metric.Int64Counter
	daysTotal       metric.Int64Counter
	rejectionsTotal metric.Int64Counter
	batchDays       metric.Int64Histogram
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Active() {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	e, err := newExporter(provider)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}
	return e, nil
}

func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)

	batchesTotal, err := meter.Int64Counter(
		"burphub_sync_batches_total",
		metric.WithDescription("Total number of committed sync batches"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating batches counter: %w", err)
	}

	daysTotal, err := meter.Int64Counter(
		"burphub_sync_days_total",
		metric.WithDescription("Total number of daily stat entries written by sync"),
		metric.WithUnit("{day}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating days counter: %w", err)
	}

	rejectionsTotal, err := meter.Int64Counter(
		"burphub_sync_rejections_total",
		metric.WithDescription("Total number of refused or failed sync requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejections counter: %w", err)
	}

	batchDays, err := meter.Int64Histogram(
		"burphub_sync_batch_days",
		metric.WithDescription("Number of daily stat entries per sync batch"),
		metric.WithUnit("{day}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating batch size histogram: %w", err)
	}

	return &Exporter{
		provider:        provider,
		batchesTotal:    batchesTotal,
		daysTotal:       daysTotal,
		rejectionsTotal: rejectionsTotal,
		batchDays:       batchDays,
	}, nil
}

// RecordSync records a committed batch.
func (e *Exporter) RecordSync(ctx context.Context, days int) {
	e.batchesTotal.Add(ctx, 1)
	e.daysTotal.Add(ctx, int64(days))
	e.batchDays.Record(ctx, int64(days))
}

// RecordRejection records a refused or failed sync.
func (e *Exporter) RecordRejection(ctx context.Context, reason string) {
	e.rejectionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
