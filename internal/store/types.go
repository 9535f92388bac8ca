package store

// Application is one reviewed app.
type Application struct {
	ID   int64
	Name string
}

// ReviewRow is a review as stored in the reviews table, joined with its
// application name on reads.
type ReviewRow struct {
	ID             int64
	ReviewUUID     string
	Application    string
	ApplicationID  int64
	Score          int
	WordCount      *int // nil when the source had no word count
	CharCount      int
	HasNoise       bool
	SentimentLabel string
	ModelSentiment string
}

// LabelCount is a count of reviews grouped by one label.
type LabelCount struct {
	Label string
	Count int
}

// ScoreCount is the number of reviews with a given score.
type ScoreCount struct {
	Score int
	Count int
}

// AppSentimentCount counts reviews of one application with one sentiment.
type AppSentimentCount struct {
	Application string
	Sentiment   string
	Count       int
}

// ScoreSentimentCount counts reviews with one score and one sentiment.
type ScoreSentimentCount struct {
	Score     int
	Sentiment string
	Count     int
}
