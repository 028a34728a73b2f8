package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/config"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/metrics"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/orchestration"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/session"
)

// generateOptions are the flags of the generate command.
type generateOptions struct {
	domain       string
	service      string
	stack        string
	coreLanguage string
	component    string
	version      string
	prompt       string
	out          string
	dryRun       bool
	copy         bool
}

// clipboard is swapped in tests.
var clipboard session.Clipboard = session.SystemClipboard{}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a project archive for one selection",
		Long: `Generate walks the selection in order and writes the generated files as a zip archive.

The service's suggested stack is applied automatically; --stack, --core-language,
--component and --version override it. Without GEMINI_API_KEY (or with --dry-run)
a static placeholder project is generated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.domain, "domain", "d", "", "Domain ID")
	cmd.Flags().StringVarP(&opts.service, "service", "s", "", "Service ID or name")
	cmd.Flags().StringVar(&opts.stack, "stack", "", "Stack ID (default: the service's suggested stack)")
	cmd.Flags().StringVar(&opts.coreLanguage, "core-language", "", "Core language of the stack")
	cmd.Flags().StringVar(&opts.component, "component", "", "Component of the stack")
	cmd.Flags().StringVar(&opts.version, "version", "", "Version label of the stack")
	cmd.Flags().StringVarP(&opts.prompt, "prompt", "p", "", "Free-text constraints (default: derived from the service name)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Archive path (default: <service>.zip)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Use the static generator instead of calling the model")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the first generated file to the clipboard")
	_ = cmd.MarkFlagRequired("domain")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := root.logger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cat, err := root.loadCatalog(cfg)
	if err != nil {
		return err
	}
	if _, ok := cat.Domain(opts.domain); !ok {
		return fmt.Errorf("unknown domain %q", opts.domain)
	}

	generator, err := newGenerator(ctx, cfg, opts.dryRun, logger)
	if err != nil {
		return err
	}
	m, err := metrics.NewGenerationMetrics()
	if err != nil {
		return err
	}

	s := session.New("cli", cat, session.Options{Logger: logger, Metrics: m})
	s.SelectDomain(opts.domain)
	if err := applySelection(s, opts); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sel := s.Snapshot().Selection
	fmt.Fprintf(out, "%s %s on %s (%s)\n", titleStyle.Render("Generating"), sel.Service.Name, sel.Stack.Name, sel.Version)

	if err := s.Generate(ctx, orchestration.NewService(generator, m, logger)); err != nil {
		return err
	}

	for _, f := range s.Files() {
		fmt.Fprintf(out, "  %s %s\n", okStyle.Render("+"), f.Name)
	}

	name, data, err := s.Archive(ctx)
	if err != nil {
		return fmt.Errorf("failed to build archive: %w", err)
	}
	path := opts.out
	if path == "" {
		path = name
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	fmt.Fprintf(out, "%s %s\n", okStyle.Render("Wrote"), path)

	if opts.copy {
		if s.CopyActive(clipboard) {
			fmt.Fprintln(out, faintStyle.Render("Copied first file to clipboard"))
		} else {
			fmt.Fprintln(out, faintStyle.Render("Clipboard unavailable"))
		}
	}
	return nil
}

func newGenerator(ctx context.Context, cfg config.Config, dryRun bool, logger *zap.Logger) (orchestration.Generator, error) {
	if dryRun {
		return orchestration.StaticGenerator{}, nil
	}
	if cfg.Gemini.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set; use --dry-run to generate a placeholder project")
	}
	client, err := orchestration.NewGeminiClient(ctx, orchestration.GeminiConfig{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
	}, logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// applySelection runs the selection steps in order, skipping unset flags.
func applySelection(s *session.Session, opts *generateOptions) error {
	if err := s.SelectService(opts.service); err != nil {
		return err
	}
	steps := []struct {
		value string
		apply func(string) error
	}{
		{opts.stack, s.SelectStack},
		{opts.coreLanguage, s.SelectCoreLanguage},
		{opts.component, s.SelectComponent},
		{opts.version, s.SelectVersion},
	}
	for _, step := range steps {
		if step.value == "" {
			continue
		}
		if err := step.apply(step.value); err != nil {
			return err
		}
	}
	if opts.prompt != "" {
		s.SetPrompt(opts.prompt)
	}
	if !s.Snapshot().Ready {
		return errors.New("the service has no suggested stack; pass --stack")
	}
	return nil
}
