package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/telecom-kpi/internal/contracts"
	"github.com/wonny/telecom-kpi/internal/kpi"
	"github.com/wonny/telecom-kpi/internal/report"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [internet|fiber|mobile|all]",
	Short: "Compute KPIs and print them as tables",
	Long: `Runs the KPI pipelines against the configured data source and prints
the resulting tables.

Example:
  go run ./cmd/kpi run all
  go run ./cmd/kpi run internet --min-year 2022 --growth-rate 0.03`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"internet", "fiber", "mobile", "all"},
	RunE:      runKPIs,
}

var (
	runMinYear    int
	runGrowthRate float64
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runMinYear, "min-year", 0, "override the first year kept (0 = configured)")
	runCmd.Flags().Float64Var(&runGrowthRate, "growth-rate", 0, "override the projection rate (0 = configured)")
}

// paramsFromFlags turns changed flags into overrides
func paramsFromFlags(cmd *cobra.Command) kpi.Params {
	var params kpi.Params
	if cmd.Flags().Changed("min-year") {
		params.MinYear = &runMinYear
	}
	if cmd.Flags().Changed("growth-rate") {
		params.GrowthRate = &runGrowthRate
	}
	return params
}

// selectKPIs parses the optional KPI argument; "all" or none selects every KPI
func selectKPIs(args []string) ([]contracts.KPI, error) {
	if len(args) == 0 || args[0] == "all" {
		return contracts.AllKPIs(), nil
	}
	k, err := contracts.ParseKPI(args[0])
	if err != nil {
		return nil, err
	}
	return []contracts.KPI{k}, nil
}

// computeReports runs the selected KPIs into a report.Reports
func computeReports(ctx context.Context, service *kpi.Service, kpis []contracts.KPI, params kpi.Params) (report.Reports, error) {
	var reports report.Reports
	var err error

	for _, k := range kpis {
		switch k {
		case contracts.KPIInternet:
			reports.Internet, err = service.Internet(ctx, params)
		case contracts.KPIFiber:
			reports.Fiber, err = service.Fiber(ctx, params)
		case contracts.KPIMobile:
			reports.Mobile, err = service.Mobile(ctx, params)
		}
		if err != nil {
			return reports, fmt.Errorf("%s: %w", k, err)
		}
	}
	return reports, nil
}

func runKPIs(cmd *cobra.Command, args []string) error {
	kpis, err := selectKPIs(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	PrintJobHeader("KPI run", a.source.Backend.Name())

	reports, err := computeReports(ctx, a.service, kpis, paramsFromFlags(cmd))
	if err != nil {
		PrintError(err.Error())
		return err
	}

	for _, t := range reports.Tables() {
		fmt.Println()
		fmt.Printf("▶ %s\n\n", t.Title)
		PrintTable(t.Headers, formatRows(t.Rows))
	}

	PrintJobCompletion(time.Since(start).Seconds())
	return nil
}

// formatRows renders table cells for the console
func formatRows(rows [][]interface{}) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case float64:
				cells[i] = fmt.Sprintf("%.2f", x)
			case bool:
				if x {
					cells[i] = "yes"
				} else {
					cells[i] = ""
				}
			default:
				cells[i] = fmt.Sprint(x)
			}
		}
		out = append(out, cells)
	}
	return out
}
