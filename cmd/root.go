package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the gsc-mcp application
var rootCmd = &cobra.Command{
	Use:   "gsc-mcp",
	Short: "Google Search Console MCP server",
	Long: `gsc-mcp exposes the Google Search Console API to AI assistants through
the Model Context Protocol (MCP).

It provides:
  - Tools for search analytics, sitemaps, sites and URL inspection
  - Resources with site lists, analytics summaries and top queries/pages
  - Prompts for performance analysis, SEO recommendations and indexing checks

It can also print a terminal analytics report for a single property.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gsc-mcp version %s\n" .Version}}`)

	// A missing .env file is fine; settings then come from flags and the
	// environment.
	_ = godotenv.Load()

	// MCP clients usually launch the binary without arguments.
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
