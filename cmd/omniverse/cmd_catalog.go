package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/catalog"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/config"
)

func newDomainsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List catalog domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := loadCatalogFromConfig(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Domains"))
			for _, d := range cat.Domains() {
				fmt.Fprintf(out, "  %-16s %s %s\n", idStyle.Render(d.ID), d.Name, faintStyle.Render(d.Description))
			}
			return nil
		},
	}
}

func newServicesCmd(opts *rootOptions) *cobra.Command {
	var domain, query string

	cmd := &cobra.Command{
		Use:   "services",
		Short: "List the services of a domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := loadCatalogFromConfig(opts)
			if err != nil {
				return err
			}
			d, ok := cat.Domain(domain)
			if !ok {
				return fmt.Errorf("unknown domain %q", domain)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(d.Name))
			for _, s := range cat.Search(domain, query) {
				stack := s.SuggestedStack
				if stack == "" {
					stack = "-"
				}
				fmt.Fprintf(out, "  %-48s %s\n", s.Name, faintStyle.Render("stack: "+stack))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&domain, "domain", "d", "", "Domain ID")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive name filter")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func newStacksCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stacks",
		Short: "List technology stacks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := loadCatalogFromConfig(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Stacks"))
			for _, s := range cat.Stacks() {
				fmt.Fprintf(out, "  %-14s %s %s\n", idStyle.Render(s.ID), s.Name, faintStyle.Render("("+string(s.Type)+")"))
				printOptions(out, "core", s.CoreLanguages)
				printOptions(out, "components", s.Components)
				printOptions(out, "versions", s.Versions)
			}
			return nil
		},
	}
}

func printOptions(out io.Writer, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(out, "      %s %s\n", faintStyle.Render(label+":"), strings.Join(values, ", "))
}

func loadCatalogFromConfig(opts *rootOptions) (*catalog.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return opts.loadCatalog(cfg)
}
