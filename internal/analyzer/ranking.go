package analyzer

import "sort"

// RankMetrics lists the per-application metrics compared in a ranking, in
// the order used by RankEntry.Radar and Ranking.Correlation.
var RankMetrics = []string{"mean_score", "noise_free_pct", "mean_words", "positive_pct"}

// RankEntry holds the comparison metrics for one application.
type RankEntry struct {
	Application  string
	MeanScore    float64
	Total        int
	MeanWords    float64
	NoiseFreePct float64
	PositivePct  float64

	// Radar holds the metrics normalized to 0-100: score/5, noise-free
	// share, words relative to the wordiest application, positive share.
	Radar [4]float64
}

// Ranking compares applications across several quality metrics.
type Ranking struct {
	Entries     []RankEntry // sorted by mean score descending
	Correlation [4][4]float64
}

// ByNoiseFree returns the entries sorted by noise-free share, highest first.
func (r Ranking) ByNoiseFree() []RankEntry {
	out := make([]RankEntry, len(r.Entries))
	copy(out, r.Entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NoiseFreePct > out[j].NoiseFreePct
	})
	return out
}

// Rank builds the cross-application ranking. Metrics are rounded to two
// decimals before normalization and correlation.
func Rank(reviews []Review) Ranking {
	quality := QualityByApplication(reviews)

	var ranking Ranking
	maxWords := 0.0
	for _, q := range quality {
		e := RankEntry{
			Application:  q.Application,
			MeanScore:    round2(q.MeanScore),
			Total:        q.Count,
			MeanWords:    round2(q.MeanWords),
			NoiseFreePct: round2(q.NoiseFreePct),
			PositivePct:  round2(percent(q.Sentiments[SentimentPositive], q.Count)),
		}
		if e.MeanWords > maxWords {
			maxWords = e.MeanWords
		}
		ranking.Entries = append(ranking.Entries, e)
	}

	columns := make([][]float64, len(RankMetrics))
	for i := range ranking.Entries {
		e := &ranking.Entries[i]
		e.Radar[0] = e.MeanScore / 5 * 100
		e.Radar[1] = e.NoiseFreePct
		if maxWords > 0 {
			e.Radar[2] = e.MeanWords / maxWords * 100
		}
		e.Radar[3] = e.PositivePct

		columns[0] = append(columns[0], e.MeanScore)
		columns[1] = append(columns[1], e.NoiseFreePct)
		columns[2] = append(columns[2], e.MeanWords)
		columns[3] = append(columns[3], e.PositivePct)
	}

	for i := range columns {
		for j := range columns {
			if i == j {
				ranking.Correlation[i][j] = 1
				continue
			}
			ranking.Correlation[i][j] = Correlation(columns[i], columns[j])
		}
	}
	return ranking
}
