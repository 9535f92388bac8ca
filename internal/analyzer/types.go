package analyzer

// Sentiment is the sentiment label attached to a review upstream.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Category is the single label the categorizer assigns to a review.
type Category string

const (
	CategoryDetailedPositive Category = "Detailed Positive Review"
	CategoryDetailedCritical Category = "Detailed Critical Review"
	CategorySimplePositive   Category = "Simple Positive Review"
	CategoryNoisy            Category = "Noisy Review"
	CategoryHighQuality      Category = "High Quality Review"
	CategoryDetailedNeutral  Category = "Detailed Neutral Review"
	CategoryExtreme          Category = "Extreme Review"
	CategoryBalanced         Category = "Balanced Review"
)

// Direction tells whether an anomalous score sits above or below its
// application's mean.
type Direction string

const (
	DirectionHigh Direction = "high"
	DirectionLow  Direction = "low"
)

// Review is one validated review row. Loaders guarantee Score is in [1,5],
// WordCount is non-negative and Sentiment is one of the three labels.
type Review struct {
	Application string
	Score       int
	WordCount   int
	HasNoise    bool
	Sentiment   Sentiment
}

// CategorizedReview is a Review with its assigned category.
type CategorizedReview struct {
	Review
	Category Category
}

// AnomalyRecord describes one review whose score deviates from its
// application's mean by more than the detection threshold.
type AnomalyRecord struct {
	Application string
	Score       int
	Mean        float64 // application mean score
	ZScore      float64 // always >= 0
	Difference  float64 // |Score - Mean|
	Direction   Direction
}

// AppStats holds per-application score statistics.
type AppStats struct {
	Application string
	Mean        float64
	StdDev      float64 // sample standard deviation, 0 when undefined
	Count       int
}
