package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("omniverse-configurator")

// GenerationMetrics records generation and export activity
type GenerationMetrics struct {
	generationsStartedCounter   metric.Int64Counter
	generationsCompletedCounter metric.Int64Counter
	generationsFailedCounter    metric.Int64Counter
	generationDurationHistogram metric.Float64Histogram
	generationsActiveGauge      metric.Int64UpDownCounter
	parseFallbackCounter        metric.Int64Counter
	archivesBuiltCounter        metric.Int64Counter
	archivesFailedCounter       metric.Int64Counter
}

// NewGenerationMetrics creates the instruments on the global meter provider
func NewGenerationMetrics() (*GenerationMetrics, error) {
	return NewGenerationMetricsWithMeter(meter)
}

// NewGenerationMetricsWithMeter creates the instruments on m
func NewGenerationMetricsWithMeter(m metric.Meter) (*GenerationMetrics, error) {
	started, err := m.Int64Counter(
		"omniverse.generations.started",
		metric.WithDescription("Total number of generation requests sent"),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		return nil, err
	}

	completed, err := m.Int64Counter(
		"omniverse.generations.completed",
		metric.WithDescription("Total number of generations that returned text"),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		return nil, err
	}

	failed, err := m.Int64Counter(
		"omniverse.generations.failed",
		metric.WithDescription("Total number of generations that failed"),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := m.Float64Histogram(
		"omniverse.generation.duration",
		metric.WithDescription("Duration of generation calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	active, err := m.Int64UpDownCounter(
		"omniverse.generations.active",
		metric.WithDescription("Number of generations in flight"),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		return nil, err
	}

	fallback, err := m.Int64Counter(
		"omniverse.parse.fallbacks",
		metric.WithDescription("Responses that matched no file record"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, err
	}

	archives, err := m.Int64Counter(
		"omniverse.archives.built",
		metric.WithDescription("Archives built for download"),
		metric.WithUnit("{archive}"),
	)
	if err != nil {
		return nil, err
	}

	archivesFailed, err := m.Int64Counter(
		"omniverse.archives.failed",
		metric.WithDescription("Archive builds that failed"),
		metric.WithUnit("{archive}"),
	)
	if err != nil {
		return nil, err
	}

	return &GenerationMetrics{
		generationsStartedCounter:   started,
		generationsCompletedCounter: completed,
		generationsFailedCounter:    failed,
		generationDurationHistogram: duration,
		generationsActiveGauge:      active,
		parseFallbackCounter:        fallback,
		archivesBuiltCounter:        archives,
		archivesFailedCounter:       archivesFailed,
	}, nil
}

// RecordGenerationStarted records a generation request leaving the service
func (gm *GenerationMetrics) RecordGenerationStarted(ctx context.Context, domain, stack string) {
	gm.generationsStartedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("stack", stack),
		),
	)
	gm.generationsActiveGauge.Add(ctx, 1)
}

// RecordGenerationCompleted records a generation that returned text
func (gm *GenerationMetrics) RecordGenerationCompleted(ctx context.Context, domain, stack string, files int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("stack", stack),
		attribute.String("status", "completed"),
	)
	gm.generationsCompletedCounter.Add(ctx, 1, attrs, metric.WithAttributes(attribute.Int("files", files)))
	gm.generationDurationHistogram.Record(ctx, duration.Seconds(), attrs)
	gm.generationsActiveGauge.Add(ctx, -1)
}

// RecordGenerationFailed records a generation that failed
func (gm *GenerationMetrics) RecordGenerationFailed(ctx context.Context, domain, stack, errorType string, duration time.Duration) {
	gm.generationsFailedCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("stack", stack),
			attribute.String("error.type", errorType),
		),
	)
	gm.generationDurationHistogram.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("stack", stack),
			attribute.String("status", "failed"),
		),
	)
	gm.generationsActiveGauge.Add(ctx, -1)
}

// RecordParseFallback records a response that degraded to the fallback record
func (gm *GenerationMetrics) RecordParseFallback(ctx context.Context) {
	gm.parseFallbackCounter.Add(ctx, 1)
}

// RecordArchive records an archive build
func (gm *GenerationMetrics) RecordArchive(ctx context.Context, files int, err error) {
	if err != nil {
		gm.archivesFailedCounter.Add(ctx, 1)
		return
	}
	gm.archivesBuiltCounter.Add(ctx, 1, metric.WithAttributes(attribute.Int("files", files)))
}
