package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/reviewlens/internal/ingest"
	"github.com/blackwell-systems/reviewlens/internal/output"
)

var (
	importURL       string
	importSimulate  bool
	importSeed      int64
	importEncoding  string
	importDelimiter string
	importAppend    bool
	importQuiet     bool

	importCmd = &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Load reviews from a CSV file, a URL or simulated data",
		Long: `Load a review table into the reviewlens database.

The CSV needs a header row. Recognized columns:
  app, reviewId, score, word_count, char_count, has_noise,
  sentiment_label, model_sentiment

Only app and score are required. Sentiment labels may be English
(positive/negative/neutral) or Portuguese (positivo/negativo/neutro).
A missing sentiment_label falls back to model_sentiment, then to the score
(4-5 positive, 1-2 negative, 3 neutral).
Rows with a missing application, a score outside 1-5, a negative word
count or an unknown sentiment are rejected and reported. Rows without a
word count are stored but left out of every analysis.

By default the import replaces everything already in the database. A file
with no valid rows leaves the database unchanged.`,
		Example: `  # Import a local export
  reviewlens import reviews.csv

  # Import a legacy latin1 export separated by semicolons
  reviewlens import reviews.csv --encoding latin1 --delimiter ';'

  # Download and import
  reviewlens import --url https://example.com/reviews.csv

  # Generate a demonstration dataset
  reviewlens import --simulate --seed 42`,
		Args: cobra.MaximumNArgs(1),
		RunE: runImport,
	}
)

func init() {
	importCmd.Flags().StringVar(&importURL, "url", "", "download the CSV from this URL")
	importCmd.Flags().BoolVar(&importSimulate, "simulate", false, "generate simulated reviews instead of reading a CSV")
	importCmd.Flags().Int64Var(&importSeed, "seed", 42, "random seed for --simulate")
	importCmd.Flags().StringVar(&importEncoding, "encoding", "", "CSV encoding: utf-8 or latin1 (default from config)")
	importCmd.Flags().StringVar(&importDelimiter, "delimiter", "", "CSV field delimiter (default from config, else ',')")
	importCmd.Flags().BoolVar(&importAppend, "append", false, "add to existing reviews instead of replacing them")
	importCmd.Flags().BoolVar(&importQuiet, "quiet", false, "suppress progress output")
}

func runImport(cmd *cobra.Command, args []string) error {
	sources := 0
	if len(args) == 1 {
		sources++
	}
	if importURL != "" {
		sources++
	}
	if importSimulate {
		sources++
	}
	if sources != 1 {
		return errors.New("specify exactly one source: a CSV file, --url or --simulate")
	}

	var res *ingest.Result
	switch {
	case importSimulate:
		res = &ingest.Result{Rows: ingest.Simulate(importSeed)}
		log.Info("generated simulated reviews", zap.Int64("seed", importSeed), zap.Int("count", len(res.Rows)))

	case importURL != "":
		opts, err := csvOptions(importEncoding, importDelimiter)
		if err != nil {
			return err
		}
		var spinner *output.Spinner
		if !importQuiet {
			spinner = output.NewSpinner("Downloading " + importURL)
			spinner.Start()
		}
		buf, err := ingest.Fetch(cmd.Context(), importURL)
		if spinner != nil {
			spinner.Stop()
		}
		if err != nil {
			return err
		}
		res, err = ingest.Load(buf, opts)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", importURL, err)
		}

	default:
		opts, err := csvOptions(importEncoding, importDelimiter)
		if err != nil {
			return err
		}
		res, err = loadCSVFile(args[0], opts)
		if err != nil {
			return err
		}
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := storeRows(st, res.Rows, importAppend, importQuiet); err != nil {
		if errors.Is(err, errNoRows) {
			reportLoad(res)
		}
		return err
	}

	reportLoad(res)

	total, err := st.CountReviews()
	if err != nil {
		return err
	}
	fmt.Printf("Database now holds %d reviews\n", total)
	return nil
}
