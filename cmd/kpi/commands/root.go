package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	kpiConfigPath string
	verbose       bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "kpi",
	Short:        "Argentine telecom KPI pipeline",
	SilenceUsage: true,
	Long: `Telecom KPI CLI

Computes three connectivity KPIs from ENACOM open data:
  1. internet penetration per 100 households (by province)
  2. fiber optic coverage of localities (by province)
  3. national postpaid mobile accesses

Usage:
  go run ./cmd/kpi [command]

Examples:
  go run ./cmd/kpi api
  go run ./cmd/kpi run all
  go run ./cmd/kpi export --out kpi.xlsx
  go run ./cmd/kpi ingest --dir ./exports
  go run ./cmd/kpi migrate up`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&kpiConfigPath, "kpi-config", "", "KPI parameters file (default is KPI_CONFIG_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
