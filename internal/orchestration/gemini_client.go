package orchestration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
)

const (
	DefaultGeminiModel     = "gemini-2.5-flash"
	defaultTemperature     = 0.1
	defaultMaxOutputTokens = 20000
)

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey          string
	Model           string
	BaseURL         string // overrides the API endpoint, used by tests
	Temperature     float32
	MaxOutputTokens int32
}

// GeminiClient generates project files with Google's Gemini API.
type GeminiClient struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
	tracer          trace.Tracer
	breaker         *gobreaker.CircuitBreaker
}

// NewGeminiClient creates a Gemini-backed Generator.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = defaultMaxOutputTokens
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	settings := gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &GeminiClient{
		client:          client,
		model:           cfg.Model,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		tracer:          otel.Tracer("gemini-client"),
		breaker:         gobreaker.NewCircuitBreaker(settings),
	}, nil
}

// Model returns the model the client generates with.
func (c *GeminiClient) Model() string {
	return c.model
}

// Generate sends the request with the fixed system instruction and returns
// the raw model text. An empty answer is replaced by a fixed error line.
func (c *GeminiClient) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "gemini.generate")
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", c.model),
		attribute.String("generation.domain", req.Domain),
		attribute.String("generation.service", req.ServiceName),
		attribute.String("generation.stack", req.StackName),
		attribute.Bool("generation.portfolio", IsPortfolioRequest(req)),
	)

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.generateInternal(ctx, req)
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to generate with gemini: %w", err)
	}

	text := result.(string)
	span.SetAttributes(attribute.Int("generation.response_bytes", len(text)))
	if strings.TrimSpace(text) == "" {
		return models.EmptyResponseText, nil
	}
	return text, nil
}

func (c *GeminiClient) generateInternal(ctx context.Context, req models.GenerationRequest) (string, error) {
	temperature := c.temperature
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(req.PromptText),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(BuildInstruction(req), genai.RoleUser),
			Temperature:       &temperature,
			MaxOutputTokens:   c.maxOutputTokens,
		},
	)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// IsHealthy reports whether the circuit breaker currently lets calls through.
func (c *GeminiClient) IsHealthy(ctx context.Context) bool {
	_, span := c.tracer.Start(ctx, "gemini.health_check")
	defer span.End()

	healthy := c.breaker.State() != gobreaker.StateOpen
	span.SetAttributes(attribute.Bool("healthy", healthy))
	return healthy
}
