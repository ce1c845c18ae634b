package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/telecom-kpi/internal/scheduler"
	"github.com/wonny/telecom-kpi/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run or inspect the background jobs",
	Long: `Starts the scheduler or runs one of its jobs now.

Subcommands:
  start   - start the scheduler daemon
  list    - registered jobs
  run     - run one job now and print its result

Example:
  go run ./cmd/kpi scheduler start
  go run ./cmd/kpi scheduler run cache_warm`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Starts the scheduler with every registered job.

Registered jobs:
- cache_warm: SCHEDULE_CACHE_WARM (default every 30 minutes)
- enacom_ingest: SCHEDULE_INGEST (default daily at 6 AM)

Stop with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run one job now",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// initScheduler registers the jobs against an opened app
func initScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)

	if err := sched.AddJob(jobs.NewCacheWarmJob(a.service, a.cfg.Scheduler.CacheWarm, a.log)); err != nil {
		return nil, err
	}

	loader, _ := newLoader(a, "")
	if err := sched.AddJob(jobs.NewENACOMIngestJob(loader, a.cfg.Scheduler.Ingest, a.log)); err != nil {
		return nil, err
	}

	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Telecom KPI Scheduler ===")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for name, stat := range sched.GetJobStats() {
		fmt.Printf("  - %s (%s)\n", name, stat.Schedule)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	stats := sched.GetJobStats()
	rows := make([][]string, 0, len(stats))
	for _, name := range sched.GetAllJobs() {
		rows = append(rows, []string{name, stats[name].Schedule})
	}
	PrintTable([]string{"Job", "Schedule"}, rows)

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := initScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	PrintJobHeader("Job "+jobName, a.source.Backend.Name())
	result, err := sched.RunJob(cmd.Context(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		PrintError(result.Error)
		return fmt.Errorf("job %s failed", jobName)
	}
	PrintJobCompletion(result.Duration.Seconds())
	return nil
}
