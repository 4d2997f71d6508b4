package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scoutlab/scout/internal/scheduler"
	"github.com/scoutlab/scout/internal/scheduler/jobs"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the scheduled scan daemon",
	Long: `Start the scheduler and run universe scans on the configured cron
schedule (SCAN_SCHEDULE, default every 30 minutes). Each scan refreshes the
cached result served by the API.

Stop with Ctrl+C.

Example:
  go run ./cmd/scout monitor
  SCAN_SCHEDULE="0 0 * * * *" go run ./cmd/scout monitor`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	sched := scheduler.New(d.logger)
	if err := sched.AddJob(jobs.NewScanJob(d.scans, d.config.Scan.Schedule, d.logger)); err != nil {
		return fmt.Errorf("register scan job: %w", err)
	}

	sched.Start()
	fmt.Printf("Monitor running, scan schedule %q. Ctrl+C to stop.\n", d.config.Scan.Schedule)

	// Run one scan immediately so the cache is warm
	if err := sched.RunNow("scan"); err != nil {
		d.logger.WithError(err).Warn("Initial scan failed to start")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
