package main

import (
	"fmt"
	"os"

	"github.com/arnold/goalplan-api/internal/catalog"
	"github.com/arnold/goalplan-api/internal/config"
	"github.com/spf13/cobra"
)

var flagCatalogFile string

var rootCmd = &cobra.Command{
	Use:          "goalplan-api",
	Short:        "Goal planning API server",
	Long:         "Serves the goal wizard, auto-plan and finance linking API.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagCatalogFile, "catalog", "", "Catalog YAML file (defaults to CATALOG_FILE or the built-in catalog)")
	rootCmd.AddCommand(serveCmd, migrateCmd, catalogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadCatalog reads the catalog named by --catalog or the config, falling
// back to the embedded one.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	path := flagCatalogFile
	if path == "" && cfg != nil {
		path = cfg.CatalogFile
	}
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}
