// Command omniverse drives the service configurator from the terminal: it
// lists the catalog and generates a project archive for one selection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/catalog"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/config"
	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/logging"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	catalogFile string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "omniverse",
		Short: "Configure and generate microservice projects",
		Long: `omniverse walks the same cascading selection as the web configurator:
domain, service, stack, core language, component and version.

Available subcommands:
  domains  - List catalog domains
  services - List the services of a domain
  stacks   - List technology stacks
  generate - Generate a project archive for one selection`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "Catalog file (YAML or TOML, default: built-in catalog or CATALOG_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(newDomainsCmd(opts))
	rootCmd.AddCommand(newServicesCmd(opts))
	rootCmd.AddCommand(newStacksCmd(opts))
	rootCmd.AddCommand(newGenerateCmd(opts))
	return rootCmd
}

// loadCatalog resolves the catalog from the flag, then the configuration.
func (o *rootOptions) loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	path := o.catalogFile
	if path == "" {
		path = cfg.CatalogFile
	}
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	if !o.verbose {
		return zap.NewNop(), nil
	}
	return logging.New("debug", logging.FormatConsole)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
