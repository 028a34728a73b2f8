package orchestration

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/metrics"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/parser"
)

// Service runs one generation round trip: it calls the generator, splits the
// answer into files and records the outcome.
type Service struct {
	generator Generator
	metrics   *metrics.GenerationMetrics
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewService creates a new orchestration service. metrics and logger may be nil.
func NewService(generator Generator, m *metrics.GenerationMetrics, logger *zap.Logger) *Service {
	if generator == nil {
		generator = StaticGenerator{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		generator: generator,
		metrics:   m,
		logger:    logger,
		tracer:    otel.Tracer("orchestration-service"),
	}
}

// Run generates the files for req. It never fails: a generator error becomes
// a single error.log file and an unstructured answer becomes output.txt.
func (s *Service) Run(ctx context.Context, req models.GenerationRequest) []models.GeneratedFile {
	ctx, span := s.tracer.Start(ctx, "orchestration.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("generation.domain", req.Domain),
		attribute.String("generation.service", req.ServiceName),
		attribute.String("generation.stack", req.StackName),
	)

	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordGenerationStarted(ctx, req.Domain, req.StackName)
	}

	text, err := s.generator.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("Generation failed",
			zap.String("service", req.ServiceName),
			zap.String("stack", req.StackName),
			zap.Error(err))
		if s.metrics != nil {
			s.metrics.RecordGenerationFailed(ctx, req.Domain, req.StackName, errorType(err), time.Since(start))
		}
		return []models.GeneratedFile{{Name: models.ErrorFileName, Content: models.GenerationErrorText}}
	}

	result := parser.Scan(text)
	if result.Fallback {
		s.logger.Warn("Response had no delimited files, using fallback",
			zap.String("service", req.ServiceName),
			zap.Int("response_bytes", len(text)))
		if s.metrics != nil {
			s.metrics.RecordParseFallback(ctx)
		}
	}
	if result.Skipped > 0 {
		s.logger.Debug("Skipped empty file blocks", zap.Int("skipped", result.Skipped))
	}

	span.SetAttributes(attribute.Int("generation.files", len(result.Files)))
	if s.metrics != nil {
		s.metrics.RecordGenerationCompleted(ctx, req.Domain, req.StackName, len(result.Files), time.Since(start))
	}
	s.logger.Info("Generation completed",
		zap.String("service", req.ServiceName),
		zap.String("stack", req.StackName),
		zap.Int("files", len(result.Files)),
		zap.Duration("duration", time.Since(start)))

	return result.Files
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "generator_error"
	}
}
