package analyzer

import (
	"fmt"

	"github.com/blackwell-systems/reviewlens/internal/store"
)

// Analyzer loads reviews from the store and runs the categorization and
// anomaly pipelines over them.
type Analyzer struct {
	store *store.Store
}

// New creates a new Analyzer instance with the given store.
func New(store *store.Store) *Analyzer {
	return &Analyzer{store: store}
}

// Reviews loads every stored review that has a word count. Rows with a
// null word count are excluded by the store query.
func (a *Analyzer) Reviews() ([]Review, error) {
	rows, err := a.store.ListReviews()
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	reviews := make([]Review, 0, len(rows))
	for _, row := range rows {
		r, err := FromRow(row)
		if err != nil {
			return nil, fmt.Errorf("review %d: %w", row.ID, err)
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

// FromRow converts a stored row into a Review.
func FromRow(row *store.ReviewRow) (Review, error) {
	sentiment, err := ParseSentiment(row.SentimentLabel)
	if err != nil {
		return Review{}, err
	}
	words := 0
	if row.WordCount != nil {
		words = *row.WordCount
	}
	return Review{
		Application: row.Application,
		Score:       row.Score,
		WordCount:   words,
		HasNoise:    row.HasNoise,
		Sentiment:   sentiment,
	}, nil
}

// Report bundles every derived view of one review set.
type Report struct {
	Reviews     []CategorizedReview
	Profile     CategoryProfile
	Anomalies   []AnomalyRecord
	AppStats    []AppStats
	Quality     []ApplicationQuality
	Length      LengthReport
	Ranking     Ranking
	Threshold   float64
	ReviewCount int
}

// Build computes a full report over reviews. Categorization and anomaly
// detection run independently over the same input.
func Build(reviews []Review, threshold float64) *Report {
	categorized := CategorizeAll(reviews)
	return &Report{
		Reviews:     categorized,
		Profile:     ProfileCategories(categorized),
		Anomalies:   DetectAnomalies(reviews, threshold),
		AppStats:    ApplicationStats(reviews),
		Quality:     QualityByApplication(reviews),
		Length:      AnalyzeLength(reviews),
		Ranking:     Rank(reviews),
		Threshold:   threshold,
		ReviewCount: len(reviews),
	}
}

// Report loads reviews from the store and builds a report.
func (a *Analyzer) Report(threshold float64) (*Report, error) {
	reviews, err := a.Reviews()
	if err != nil {
		return nil, err
	}
	return Build(reviews, threshold), nil
}
