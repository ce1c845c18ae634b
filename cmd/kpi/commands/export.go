package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/internal/report"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the KPI reports to an Excel workbook",
	Long: `Computes the three KPIs and writes one sheet per table.

Example:
  go run ./cmd/kpi export --out telecom-kpi.xlsx`,
	RunE: runExport,
}

// chartCmd represents the chart command
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render one KPI chart as PNG",
	Long: `Renders the chart of a KPI, or the evolution of one province with
--province (internet only).

Example:
  go run ./cmd/kpi chart --kpi mobile --out mobile.png
  go run ./cmd/kpi chart --kpi internet --province Chaco --out chaco.png`,
	RunE: runChart,
}

var (
	exportOut     string
	chartKPI      string
	chartOut      string
	chartProvince string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(chartCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "telecom-kpi.xlsx", "output workbook")

	chartCmd.Flags().StringVar(&chartKPI, "kpi", "internet", "KPI to plot (internet|fiber|mobile)")
	chartCmd.Flags().StringVar(&chartOut, "out", "", "output PNG (default <kpi>.png)")
	chartCmd.Flags().StringVar(&chartProvince, "province", "", "plot one province's evolution (internet only)")

	for _, c := range []*cobra.Command{exportCmd, chartCmd} {
		c.Flags().IntVar(&runMinYear, "min-year", 0, "override the first year kept (0 = configured)")
		c.Flags().Float64Var(&runGrowthRate, "growth-rate", 0, "override the projection rate (0 = configured)")
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	reports, err := computeReports(ctx, a.service, contracts.AllKPIs(), paramsFromFlags(cmd))
	if err != nil {
		return err
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	if err := report.Export(f, reports.Tables()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("Workbook written to %s", exportOut))
	return nil
}

func runChart(cmd *cobra.Command, args []string) error {
	k, err := contracts.ParseKPI(chartKPI)
	if err != nil {
		return err
	}
	if chartProvince != "" && k != contracts.KPIInternet {
		return fmt.Errorf("--province only applies to --kpi internet")
	}
	out := chartOut
	if out == "" {
		out = string(k) + ".png"
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var result interface{}
	if chartProvince != "" {
		result, err = a.service.InternetEvolution(ctx, chartProvince, paramsFromFlags(cmd))
	} else {
		result, err = a.service.Compute(ctx, k, paramsFromFlags(cmd))
	}
	if err != nil {
		return err
	}

	chart, err := report.Chart(result)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := report.WritePNG(f, chart); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("Chart written to %s", out))
	return nil
}
