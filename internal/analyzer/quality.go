package analyzer

import (
	"sort"
)

// ApplicationQuality summarizes the reviews of one application.
type ApplicationQuality struct {
	Application  string
	Count        int
	MeanScore    float64
	MeanWords    float64
	NoiseFreePct float64
	Sentiments   map[Sentiment]int
}

// QualityByApplication computes per-application quality figures, sorted by
// mean score descending and then by name.
func QualityByApplication(reviews []Review) []ApplicationQuality {
	type acc struct {
		count, scoreSum, wordSum, clean int
		sentiments                      map[Sentiment]int
	}
	byApp := make(map[string]*acc)
	for _, r := range reviews {
		a, ok := byApp[r.Application]
		if !ok {
			a = &acc{sentiments: make(map[Sentiment]int)}
			byApp[r.Application] = a
		}
		a.count++
		a.scoreSum += r.Score
		a.wordSum += r.WordCount
		if !r.HasNoise {
			a.clean++
		}
		a.sentiments[r.Sentiment]++
	}

	out := make([]ApplicationQuality, 0, len(byApp))
	for app, a := range byApp {
		out = append(out, ApplicationQuality{
			Application:  app,
			Count:        a.count,
			MeanScore:    float64(a.scoreSum) / float64(a.count),
			MeanWords:    float64(a.wordSum) / float64(a.count),
			NoiseFreePct: percent(a.clean, a.count),
			Sentiments:   a.sentiments,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanScore != out[j].MeanScore {
			return out[i].MeanScore > out[j].MeanScore
		}
		return out[i].Application < out[j].Application
	})
	return out
}

// LengthBucket groups reviews by word count.
type LengthBucket string

const (
	BucketVeryShort LengthBucket = "Very Short (<=5)"
	BucketShort     LengthBucket = "Short (6-10)"
	BucketMedium    LengthBucket = "Medium (11-20)"
	BucketLong      LengthBucket = "Long (>20)"
)

// LengthBuckets lists the buckets from shortest to longest.
func LengthBuckets() []LengthBucket {
	return []LengthBucket{BucketVeryShort, BucketShort, BucketMedium, BucketLong}
}

// BucketFor returns the length bucket of a word count.
func BucketFor(words int) LengthBucket {
	switch {
	case words <= 5:
		return BucketVeryShort
	case words <= 10:
		return BucketShort
	case words <= 20:
		return BucketMedium
	default:
		return BucketLong
	}
}

// BucketSummary aggregates the reviews falling in one length bucket.
type BucketSummary struct {
	Bucket       LengthBucket
	Count        int
	MeanScore    float64
	SentimentPct map[Sentiment]float64
}

// LengthReport relates review length to score.
type LengthReport struct {
	Buckets     []BucketSummary // every bucket, in LengthBuckets order
	PerApp      map[string]map[LengthBucket]int
	Correlation float64 // Pearson r between word count and score
	Slope       float64 // score change per extra word
	Intercept   float64
}

// AnalyzeLength buckets reviews by word count and fits a trend line of
// score against word count.
func AnalyzeLength(reviews []Review) LengthReport {
	report := LengthReport{PerApp: make(map[string]map[LengthBucket]int)}

	type acc struct {
		count, scoreSum int
		sentiments      map[Sentiment]int
	}
	byBucket := make(map[LengthBucket]*acc)
	for _, b := range LengthBuckets() {
		byBucket[b] = &acc{sentiments: make(map[Sentiment]int)}
	}

	words := make([]float64, len(reviews))
	scores := make([]float64, len(reviews))
	for i, r := range reviews {
		b := BucketFor(r.WordCount)
		a := byBucket[b]
		a.count++
		a.scoreSum += r.Score
		a.sentiments[r.Sentiment]++

		if report.PerApp[r.Application] == nil {
			report.PerApp[r.Application] = make(map[LengthBucket]int)
		}
		report.PerApp[r.Application][b]++

		words[i] = float64(r.WordCount)
		scores[i] = float64(r.Score)
	}

	for _, b := range LengthBuckets() {
		a := byBucket[b]
		s := BucketSummary{Bucket: b, Count: a.count, SentimentPct: make(map[Sentiment]float64)}
		if a.count > 0 {
			s.MeanScore = float64(a.scoreSum) / float64(a.count)
		}
		for sent, n := range a.sentiments {
			s.SentimentPct[sent] = percent(n, a.count)
		}
		report.Buckets = append(report.Buckets, s)
	}

	report.Correlation = Correlation(words, scores)
	report.Slope, report.Intercept = LinearFit(words, scores)
	return report
}

// CategorySummary describes the reviews sharing one category.
type CategorySummary struct {
	Category     Category
	Count        int
	MeanScore    float64
	NoiseFreePct float64
	MeanWords    float64
}

// CategoryProfile is the category breakdown of a categorized review set.
type CategoryProfile struct {
	Counts    map[string]map[Category]int // application -> category -> reviews
	Totals    map[string]int              // application -> reviews
	Summaries []CategorySummary           // sorted by mean score descending
}

// Share returns the percentage of app's reviews that fall in category c.
func (p CategoryProfile) Share(app string, c Category) float64 {
	return percent(p.Counts[app][c], p.Totals[app])
}

// ProfileCategories aggregates categorized reviews per application and per
// category. Categories with no reviews are omitted from Summaries.
func ProfileCategories(reviews []CategorizedReview) CategoryProfile {
	profile := CategoryProfile{
		Counts: make(map[string]map[Category]int),
		Totals: make(map[string]int),
	}

	type acc struct{ count, scoreSum, clean, wordSum int }
	byCat := make(map[Category]*acc)

	for _, r := range reviews {
		if profile.Counts[r.Application] == nil {
			profile.Counts[r.Application] = make(map[Category]int)
		}
		profile.Counts[r.Application][r.Category]++
		profile.Totals[r.Application]++

		a, ok := byCat[r.Category]
		if !ok {
			a = &acc{}
			byCat[r.Category] = a
		}
		a.count++
		a.scoreSum += r.Score
		a.wordSum += r.WordCount
		if !r.HasNoise {
			a.clean++
		}
	}

	for _, c := range Categories() {
		a, ok := byCat[c]
		if !ok {
			continue
		}
		profile.Summaries = append(profile.Summaries, CategorySummary{
			Category:     c,
			Count:        a.count,
			MeanScore:    float64(a.scoreSum) / float64(a.count),
			NoiseFreePct: round2(percent(a.clean, a.count)),
			MeanWords:    round2(float64(a.wordSum) / float64(a.count)),
		})
	}
	sort.SliceStable(profile.Summaries, func(i, j int) bool {
		return profile.Summaries[i].MeanScore > profile.Summaries[j].MeanScore
	})
	return profile
}
