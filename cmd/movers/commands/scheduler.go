package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jineeshjohn/market-movers/internal/scheduler"
	"github.com/jineeshjohn/market-movers/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Publish reports on a cron schedule",
	Long: `Starts the publishing scheduler or manages its jobs.

Subcommands:
  start   - run the scheduler until interrupted
  list    - list registered jobs
  run     - run one job now and wait for it
  status  - job schedule and run statistics

Example:
  go run ./cmd/movers scheduler start
  go run ./cmd/movers scheduler run publish_momentum`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler",
		Long: `Starts the scheduler and registers:
- publish_momentum: weekdays 18:00 (PUBLISH_MOMENTUM_CRON)
- publish_chart: weekdays 09:30 (PUBLISH_CHART_CRON)
- cache_cleanup: every 5 minutes when CACHE_TTL > 0 (CACHE_CLEANUP_CRON)

Files are written to PUBLISH_DIR. Stop with Ctrl+C.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job now",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job schedules",
		RunE:  showStatus,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)
}

// newScheduler registers the publish jobs against the wired app
func newScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log,
		scheduler.WithRetry(a.cfg.Provider.Retries, 30*time.Second),
		scheduler.WithTimeout(10*time.Minute),
	)

	pub := a.cfg.Publish
	if err := sched.AddJob(jobs.NewMomentumPublishJob(a.builder, a.renderer, a.universe, pub.Dir, pub.MomentumCron, a.log)); err != nil {
		return nil, fmt.Errorf("register momentum job: %w", err)
	}
	if err := sched.AddJob(jobs.NewChartPublishJob(a.charts, a.cfg.Report.ChartSymbol, pub.Dir, pub.ChartCron, a.log)); err != nil {
		return nil, fmt.Errorf("register chart job: %w", err)
	}
	if a.cache != nil {
		if err := sched.AddJob(jobs.NewCacheCleanupJob(a.cache, a.cfg.Cache.CleanupCron, a.log)); err != nil {
			return nil, fmt.Errorf("register cache cleanup job: %w", err)
		}
	}

	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()

	PrintSuccess("Scheduler started")
	fmt.Fprintln(out, "\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Fprintf(out, "  - %s\n", jobName)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Fprintln(out, "\nShutting down scheduler...")
	sched.Stop()
	fmt.Fprintln(out, "Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Fprintln(out, "Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Fprintf(out, "  - %s\n", jobName)
	}

	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "Running job: %s\n", jobName)

	result, err := sched.RunJob(ctx, jobName)
	if err != nil {
		// A zero result means the job was never found
		if result.JobName != "" {
			PrintError(fmt.Sprintf("%s failed after %s: %s", jobName, result.Duration.Round(time.Millisecond), result.Error))
		}
		return fmt.Errorf("run job: %w", err)
	}

	PrintSuccess(fmt.Sprintf("%s completed in %s", jobName, result.Duration.Round(time.Millisecond)))
	return nil
}

// showStatus reports schedules and next fire times. History lives in the
// running process, so a fresh CLI only knows the schedule.
func showStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := newScheduler(a)
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	// Next fire times are only computed once cron is running
	sched.Start()
	defer sched.Stop()

	stats := sched.GetJobStats()

	fmt.Fprintln(out, "Job Statistics:")
	fmt.Fprintln(out)

	for _, jobName := range sched.GetAllJobs() {
		stat := stats[jobName]
		fmt.Fprintf(out, "📊 %s\n", jobName)
		fmt.Fprintf(out, "   Schedule: %s\n", stat.Schedule)
		fmt.Fprintf(out, "   Total Runs: %d\n", stat.TotalRuns)

		if stat.NextRun != nil {
			fmt.Fprintf(out, "   Next Run: %s\n", stat.NextRun.Format("2006-01-02 15:04:05"))
		}

		if stat.LastRun != nil {
			fmt.Fprintf(out, "   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}

		fmt.Fprintln(out)
	}

	PrintInfo("Run history is kept in the serving process: GET /api/jobs")
	return nil
}
