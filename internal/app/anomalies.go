package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/reviewlens/internal/analyzer"
	"github.com/blackwell-systems/reviewlens/internal/config"
	"github.com/blackwell-systems/reviewlens/internal/output"
)

var (
	anomaliesThreshold float64
	anomaliesTop       int
	anomaliesApp       string

	anomaliesCmd = &cobra.Command{
		Use:   "anomalies",
		Short: "Flag reviews whose score is far from their application's mean",
		Long: `Flag reviews whose score is unusually far from their application's mean.

For each application the mean and sample standard deviation of its scores
are computed. A review is flagged when

  z = |score - mean| / std  >  threshold

Applications where every review has the same score (or that have a single
review) have no spread, so none of their reviews are flagged. Each
application is judged only against its own reviews.`,
		Example: `  # Default threshold (1.5) and top 10 by z-score
  reviewlens anomalies

  # Stricter threshold, every anomaly
  reviewlens anomalies --threshold 2 --top 0

  # One application
  reviewlens anomalies --app Skype`,
		Args: cobra.NoArgs,
		RunE: runAnomalies,
	}
)

func init() {
	anomaliesCmd.Flags().Float64Var(&anomaliesThreshold, "threshold", analyzer.DefaultThreshold, "z-score above which a review is flagged (default from config)")
	anomaliesCmd.Flags().IntVar(&anomaliesTop, "top", 10, "list this many anomalies with the largest z-scores, 0 for all (default from config)")
	anomaliesCmd.Flags().StringVar(&anomaliesApp, "app", "", "only analyze this application")
}

func runAnomalies(cmd *cobra.Command, args []string) error {
	threshold := cfg.Analysis.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = anomaliesThreshold
	}
	if err := config.CheckThreshold(threshold); err != nil {
		return err
	}
	top := cfg.Analysis.Top
	if cmd.Flags().Changed("top") {
		top = anomaliesTop
	}
	if top < 0 {
		return fmt.Errorf("invalid top: %d (must be 0 or more)", top)
	}

	reviews, err := loadReviews()
	if err != nil {
		return err
	}
	reviews, err = filterApp(reviews, anomaliesApp)
	if err != nil {
		return err
	}

	records := analyzer.DetectAnomalies(reviews, threshold)
	fmt.Print(output.RenderAnomalySummary(
		analyzer.ApplicationStats(reviews),
		analyzer.CountByApplication(records),
		threshold,
	))

	if len(records) == 0 {
		return nil
	}
	fmt.Println()
	if top > 0 && len(records) > top {
		fmt.Printf("Top %d anomalies by z-score\n\n", top)
	}
	fmt.Print(output.RenderAnomalies(analyzer.TopAnomalies(records, top)))
	return nil
}
