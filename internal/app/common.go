package app

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/blackwell-systems/reviewlens/internal/analyzer"
	"github.com/blackwell-systems/reviewlens/internal/ingest"
	"github.com/blackwell-systems/reviewlens/internal/output"
	"github.com/blackwell-systems/reviewlens/internal/store"
)

// maxRejectedShown caps how many rejected rows import prints.
const maxRejectedShown = 5

// csvOptions returns loader options from config, overridden by non-empty
// flag values.
func csvOptions(encoding, delimiter string) (ingest.Options, error) {
	opts := ingest.Options{
		Encoding:  cfg.Import.Encoding,
		Delimiter: cfg.DelimiterRune(),
	}
	if encoding != "" {
		opts.Encoding = encoding
	}
	if delimiter != "" {
		r := []rune(delimiter)
		if len(r) != 1 {
			return opts, fmt.Errorf("invalid delimiter %q (must be a single character)", delimiter)
		}
		opts.Delimiter = r[0]
	}
	return opts, nil
}

// loadCSVFile parses the review CSV at path.
func loadCSVFile(path string, opts ingest.Options) (*ingest.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	res, err := ingest.Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return res, nil
}

// errNoRows is returned when a replacing load accepted no rows.
var errNoRows = errors.New("no valid rows; database left unchanged")

// storeRows writes rows to st, replacing existing data unless appending.
// A load with no accepted rows never replaces. A progress bar is drawn
// unless quiet.
func storeRows(st *store.Store, rows []*store.ReviewRow, appendRows, quiet bool) error {
	if len(rows) == 0 && !appendRows {
		return errNoRows
	}
	if err := st.CreateSchema(); err != nil {
		return fmt.Errorf("failed to create database schema: %w", err)
	}

	var progress store.ProgressFunc
	var bar *output.ProgressBar
	if !quiet && len(rows) > 0 {
		bar = output.NewProgress(len(rows), "reviews")
		last := 0
		progress = func(done int) {
			bar.Add(done - last)
			last = done
		}
	}

	var err error
	if appendRows {
		err = st.InsertReviewsFunc(rows, progress)
	} else {
		err = st.ReplaceReviews(rows, progress)
	}
	if err != nil {
		return fmt.Errorf("failed to store reviews: %w", err)
	}
	if bar != nil {
		bar.Finish()
	}
	return nil
}

// reportLoad prints what a CSV load accepted and rejected.
func reportLoad(res *ingest.Result) {
	fmt.Printf("Loaded %d reviews from %d applications\n", len(res.Rows), len(res.Applications()))
	if res.MissingWords > 0 {
		fmt.Printf("  %d reviews have no word count and are excluded from analysis\n", res.MissingWords)
	}
	if len(res.Rejected) == 0 {
		return
	}
	fmt.Printf("  %d rows rejected:\n", len(res.Rejected))
	for i, rej := range res.Rejected {
		if i == maxRejectedShown {
			fmt.Printf("    ... and %d more\n", len(res.Rejected)-maxRejectedShown)
			break
		}
		fmt.Printf("    %v\n", rej)
	}
	for _, rej := range res.Rejected {
		log.Debug("rejected row", zap.Int("line", rej.Line), zap.Error(rej.Err))
	}
}

// loadReviews opens the store and returns the reviews ready for analysis.
func loadReviews() ([]analyzer.Review, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()

	reviews, err := analyzer.New(st).Reviews()
	if err != nil {
		if errors.Is(err, store.ErrNotInitialized) {
			return nil, store.ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	log.Debug("loaded reviews", zap.Int("count", len(reviews)))
	return reviews, nil
}

// filterApp narrows reviews to one application, failing when it has none.
func filterApp(reviews []analyzer.Review, app string) ([]analyzer.Review, error) {
	if app == "" {
		return reviews, nil
	}
	filtered := analyzer.FilterApplication(reviews, app)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no reviews found for application %q", app)
	}
	return filtered, nil
}
