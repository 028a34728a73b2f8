package orchestration

import (
	"context"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/parser"
)

// Generator turns a generation request into raw model output, expected to
// follow the file delimiter grammar.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req models.GenerationRequest) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	return f(ctx, req)
}

// StaticGenerator answers every request with a small delimited project
// derived from the request. It backs dry runs and local development.
type StaticGenerator struct{}

// Generate renders a README and a manifest for the request.
func (StaticGenerator) Generate(_ context.Context, req models.GenerationRequest) (string, error) {
	component := req.ComponentName
	if component == "" {
		component = defaultComponent
	}
	return parser.Format([]models.GeneratedFile{
		{
			Name: "README.md",
			Content: "# " + req.ServiceName + "\n\n" +
				"Stack: " + req.StackName + " (" + req.Version + ")\n" +
				"Component: " + component + "\n\n" +
				req.PromptText,
		},
		{
			Name: "omniverse.yaml",
			Content: "domain: " + req.Domain + "\n" +
				"service: " + req.ServiceName + "\n" +
				"stack: " + req.StackName + "\n" +
				"version: " + req.Version,
		},
	}), nil
}
