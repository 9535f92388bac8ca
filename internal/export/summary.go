package export

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/reviewlens/internal/store"
)

// Output formats for Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// SentimentShare is the proportion of reviews with one model sentiment.
type SentimentShare struct {
	Sentiment string  `json:"sentiment" yaml:"sentiment"`
	Count     int     `json:"count" yaml:"count"`
	Percent   float64 `json:"percent" yaml:"percent"`
}

// ScoreBucket is the number of reviews with one score.
type ScoreBucket struct {
	Score int `json:"score" yaml:"score"`
	Count int `json:"count" yaml:"count"`
}

// Summary holds the four aggregation reports.
type Summary struct {
	TotalReviews    int                       `json:"total_reviews" yaml:"total_reviews"`
	Sentiments      []SentimentShare          `json:"sentiment_proportions" yaml:"sentiment_proportions"`
	Scores          []ScoreBucket             `json:"reviews_per_score" yaml:"reviews_per_score"`
	ByApplication   map[string]map[string]int `json:"sentiment_by_application" yaml:"sentiment_by_application"`
	ScoreSentiments map[int]map[string]int    `json:"score_vs_sentiment" yaml:"score_vs_sentiment"`
}

// Summarize runs the aggregations against st.
func Summarize(st *store.Store) (*Summary, error) {
	props, err := st.SentimentProportions()
	if err != nil {
		return nil, err
	}
	scores, err := st.ScoreCounts()
	if err != nil {
		return nil, err
	}
	byApp, err := st.SentimentByApplication()
	if err != nil {
		return nil, err
	}
	scoreSent, err := st.ScoreVsSentiment()
	if err != nil {
		return nil, err
	}
	return BuildSummary(props, scores, byApp, scoreSent), nil
}

// BuildSummary assembles a Summary from raw aggregation rows.
func BuildSummary(props []store.LabelCount, scores []store.ScoreCount, byApp []store.AppSentimentCount, scoreSent []store.ScoreSentimentCount) *Summary {
	s := &Summary{
		Sentiments:      make([]SentimentShare, 0, len(props)),
		Scores:          make([]ScoreBucket, 0, len(scores)),
		ByApplication:   make(map[string]map[string]int),
		ScoreSentiments: make(map[int]map[string]int),
	}

	for _, p := range props {
		s.TotalReviews += p.Count
	}
	for _, p := range props {
		share := SentimentShare{Sentiment: p.Label, Count: p.Count}
		if s.TotalReviews > 0 {
			share.Percent = float64(p.Count) / float64(s.TotalReviews) * 100
		}
		s.Sentiments = append(s.Sentiments, share)
	}

	for _, sc := range scores {
		s.Scores = append(s.Scores, ScoreBucket{Score: sc.Score, Count: sc.Count})
	}

	for _, c := range byApp {
		if s.ByApplication[c.Application] == nil {
			s.ByApplication[c.Application] = make(map[string]int)
		}
		s.ByApplication[c.Application][c.Sentiment] = c.Count
	}

	for _, c := range scoreSent {
		if s.ScoreSentiments[c.Score] == nil {
			s.ScoreSentiments[c.Score] = make(map[string]int)
		}
		s.ScoreSentiments[c.Score][c.Sentiment] = c.Count
	}

	return s
}

// Encode writes s to w as JSON or YAML.
func Encode(w io.Writer, s *Summary, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (must be json or yaml)", format)
	}
}
