package analyzer

import (
	"testing"
)

func qualitySample() []Review {
	return []Review{
		{Application: "WhatsApp", Score: 5, WordCount: 12, Sentiment: SentimentPositive},
		{Application: "WhatsApp", Score: 4, WordCount: 4, HasNoise: true, Sentiment: SentimentPositive},
		{Application: "WhatsApp", Score: 1, WordCount: 25, Sentiment: SentimentNegative},
		{Application: "Skype", Score: 2, WordCount: 8, HasNoise: true, Sentiment: SentimentNegative},
		{Application: "Skype", Score: 3, WordCount: 6, Sentiment: SentimentNeutral},
	}
}

func TestQualityByApplication(t *testing.T) {
	q := QualityByApplication(qualitySample())
	if len(q) != 2 {
		t.Fatalf("got %d applications, want 2", len(q))
	}

	wa := q[0]
	if wa.Application != "WhatsApp" {
		t.Fatalf("first application = %s, want WhatsApp (highest mean)", wa.Application)
	}
	if wa.Count != 3 {
		t.Errorf("Count = %d, want 3", wa.Count)
	}
	if !approx(wa.MeanScore, 10.0/3.0) {
		t.Errorf("MeanScore = %v, want 3.33", wa.MeanScore)
	}
	if !approx(wa.MeanWords, 41.0/3.0) {
		t.Errorf("MeanWords = %v, want 13.67", wa.MeanWords)
	}
	if !approx(wa.NoiseFreePct, 200.0/3.0) {
		t.Errorf("NoiseFreePct = %v, want 66.67", wa.NoiseFreePct)
	}
	if wa.Sentiments[SentimentPositive] != 2 || wa.Sentiments[SentimentNegative] != 1 {
		t.Errorf("Sentiments = %v, want 2 positive 1 negative", wa.Sentiments)
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		words int
		want  LengthBucket
	}{
		{0, BucketVeryShort},
		{5, BucketVeryShort},
		{6, BucketShort},
		{10, BucketShort},
		{11, BucketMedium},
		{20, BucketMedium},
		{21, BucketLong},
		{150, BucketLong},
	}
	for _, tt := range tests {
		if got := BucketFor(tt.words); got != tt.want {
			t.Errorf("BucketFor(%d) = %q, want %q", tt.words, got, tt.want)
		}
	}
}

func TestAnalyzeLength(t *testing.T) {
	report := AnalyzeLength(qualitySample())

	if len(report.Buckets) != 4 {
		t.Fatalf("got %d buckets, want 4", len(report.Buckets))
	}

	short := report.Buckets[1]
	if short.Bucket != BucketShort || short.Count != 2 {
		t.Errorf("short bucket = %+v, want 2 reviews", short)
	}
	if !approx(short.MeanScore, 2.5) {
		t.Errorf("short bucket mean = %v, want 2.5", short.MeanScore)
	}
	if !approx(short.SentimentPct[SentimentNeutral], 50) {
		t.Errorf("short bucket neutral share = %v, want 50", short.SentimentPct[SentimentNeutral])
	}

	if report.PerApp["Skype"][BucketShort] != 2 {
		t.Errorf("Skype short reviews = %d, want 2", report.PerApp["Skype"][BucketShort])
	}
	if report.Correlation < -1 || report.Correlation > 1 {
		t.Errorf("Correlation = %v out of range", report.Correlation)
	}
}

func TestAnalyzeLength_Empty(t *testing.T) {
	report := AnalyzeLength(nil)
	if len(report.Buckets) != 4 {
		t.Errorf("empty input should still list 4 buckets, got %d", len(report.Buckets))
	}
	if report.Correlation != 0 || report.Slope != 0 {
		t.Errorf("empty input trend = (%v, %v), want zeros", report.Correlation, report.Slope)
	}
}

func TestProfileCategories(t *testing.T) {
	profile := ProfileCategories(CategorizeAll(qualitySample()))

	if got := profile.Totals["WhatsApp"]; got != 3 {
		t.Errorf("WhatsApp total = %d, want 3", got)
	}
	// 12 words positive, 4 words positive, 25 words negative
	wa := profile.Counts["WhatsApp"]
	if wa[CategoryDetailedPositive] != 1 || wa[CategorySimplePositive] != 1 || wa[CategoryDetailedCritical] != 1 {
		t.Errorf("WhatsApp counts = %v", wa)
	}
	if !approx(profile.Share("WhatsApp", CategorySimplePositive), 100.0/3.0) {
		t.Errorf("Share = %v, want 33.33", profile.Share("WhatsApp", CategorySimplePositive))
	}
	if profile.Share("missing", CategoryNoisy) != 0 {
		t.Error("Share for unknown application should be 0")
	}

	for i := 1; i < len(profile.Summaries); i++ {
		if profile.Summaries[i].MeanScore > profile.Summaries[i-1].MeanScore {
			t.Errorf("summaries not sorted by mean score: %+v", profile.Summaries)
		}
	}
	for _, s := range profile.Summaries {
		if s.Count == 0 {
			t.Errorf("summary for %q has zero count", s.Category)
		}
	}
}

func TestRank(t *testing.T) {
	ranking := Rank(qualitySample())
	if len(ranking.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(ranking.Entries))
	}

	top := ranking.Entries[0]
	if top.Application != "WhatsApp" {
		t.Errorf("top application = %s, want WhatsApp", top.Application)
	}
	if top.MeanScore != 3.33 {
		t.Errorf("MeanScore = %v, want 3.33 (rounded)", top.MeanScore)
	}
	if top.PositivePct != 66.67 {
		t.Errorf("PositivePct = %v, want 66.67", top.PositivePct)
	}
	if top.Radar[2] != 100 {
		t.Errorf("wordiest application radar words = %v, want 100", top.Radar[2])
	}
	if !approx(top.Radar[0], 3.33/5*100) {
		t.Errorf("radar score = %v, want %v", top.Radar[0], 3.33/5*100)
	}

	for i := range RankMetrics {
		if ranking.Correlation[i][i] != 1 {
			t.Errorf("diagonal [%d][%d] = %v, want 1", i, i, ranking.Correlation[i][i])
		}
		for j := range RankMetrics {
			if !approx(ranking.Correlation[i][j], ranking.Correlation[j][i]) {
				t.Errorf("correlation matrix not symmetric at [%d][%d]", i, j)
			}
		}
	}

	byClean := ranking.ByNoiseFree()
	if byClean[0].NoiseFreePct < byClean[1].NoiseFreePct {
		t.Errorf("ByNoiseFree not descending: %+v", byClean)
	}
}

func TestBuild(t *testing.T) {
	report := Build(qualitySample(), DefaultThreshold)
	if report.ReviewCount != 5 {
		t.Errorf("ReviewCount = %d, want 5", report.ReviewCount)
	}
	if len(report.Reviews) != 5 {
		t.Errorf("categorized %d reviews, want 5", len(report.Reviews))
	}
	if len(report.AppStats) != 2 {
		t.Errorf("AppStats has %d entries, want 2", len(report.AppStats))
	}
	if report.Threshold != DefaultThreshold {
		t.Errorf("Threshold = %v, want %v", report.Threshold, DefaultThreshold)
	}
}
