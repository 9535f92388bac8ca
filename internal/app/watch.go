package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/reviewlens/internal/analyzer"
	"github.com/blackwell-systems/reviewlens/internal/config"
	"github.com/blackwell-systems/reviewlens/internal/ingest"
	"github.com/blackwell-systems/reviewlens/internal/output"
	"github.com/blackwell-systems/reviewlens/internal/store"
	"github.com/blackwell-systems/reviewlens/internal/watcher"
)

var (
	watchDebounce  time.Duration
	watchEncoding  string
	watchDelimiter string

	watchCmd = &cobra.Command{
		Use:   "watch <file.csv>",
		Short: "Re-import a CSV and report anomalies whenever it changes",
		Long: `Import a review CSV, then keep watching it. Every time the file changes
the database is replaced with its contents and the anomaly overview is
printed again. Press Ctrl+C to stop.`,
		Example: `  reviewlens watch reviews.csv
  reviewlens watch reviews.csv --debounce 2s`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "wait this long after the last change before reloading")
	watchCmd.Flags().StringVar(&watchEncoding, "encoding", "", "CSV encoding: utf-8 or latin1 (default from config)")
	watchCmd.Flags().StringVar(&watchDelimiter, "delimiter", "", "CSV field delimiter (default from config, else ',')")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}
	if err := config.CheckThreshold(cfg.Analysis.Threshold); err != nil {
		return err
	}

	opts, err := csvOptions(watchEncoding, watchDelimiter)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	reload := reloadAction(st, opts)
	if err := reload(path); err != nil {
		return err
	}

	w, err := watcher.New(path, watchDebounce, reload, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\nWatching %s (Ctrl+C to stop)\n", w.Path())
	if err := w.Run(ctx); err != nil {
		return err
	}
	fmt.Println("Stopped watching.")
	return nil
}

// reloadAction replaces the store contents with the CSV and prints the
// anomaly overview.
func reloadAction(st *store.Store, opts ingest.Options) watcher.Action {
	return func(path string) error {
		res, err := loadCSVFile(path, opts)
		if err != nil {
			return err
		}
		if err := storeRows(st, res.Rows, false, true); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		report, err := analyzer.New(st).Report(cfg.Analysis.Threshold)
		if err != nil {
			return err
		}

		fmt.Printf("\n[%s] ", time.Now().Format("15:04:05"))
		reportLoad(res)
		fmt.Print(output.RenderAnomalySummary(report.AppStats, analyzer.CountByApplication(report.Anomalies), report.Threshold))
		return nil
	}
}
