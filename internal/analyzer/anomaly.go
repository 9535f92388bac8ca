package analyzer

import (
	"math"
	"sort"
)

// DefaultThreshold is the z-score above which a review is flagged.
const DefaultThreshold = 1.5

// DetectAnomalies flags reviews whose score lies more than threshold sample
// standard deviations from their application's mean score.
//
// Statistics are computed once per application before any review is
// classified. Applications with zero variance (including single-review
// applications) produce a z-score of 0 and are never flagged for a
// non-negative threshold.
//
// The result is sorted by application name and then by input position, so
// identical input always yields an identical slice.
func DetectAnomalies(reviews []Review, threshold float64) []AnomalyRecord {
	type moments struct{ mean, std float64 }

	stats := make(map[string]moments)
	for app, scores := range GroupScores(reviews) {
		mean, std := MeanStd(scores)
		stats[app] = moments{mean: mean, std: std}
	}

	type flagged struct {
		index  int
		record AnomalyRecord
	}
	var hits []flagged

	for i, r := range reviews {
		m := stats[r.Application]
		diff := math.Abs(float64(r.Score) - m.mean)

		z := 0.0
		if m.std > 0 {
			z = diff / m.std
		}
		if z <= threshold {
			continue
		}

		dir := DirectionLow
		if float64(r.Score) > m.mean {
			dir = DirectionHigh
		}

		hits = append(hits, flagged{
			index: i,
			record: AnomalyRecord{
				Application: r.Application,
				Score:       r.Score,
				Mean:        m.mean,
				ZScore:      z,
				Difference:  diff,
				Direction:   dir,
			},
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].record.Application != hits[j].record.Application {
			return hits[i].record.Application < hits[j].record.Application
		}
		return hits[i].index < hits[j].index
	})

	records := make([]AnomalyRecord, len(hits))
	for i, h := range hits {
		records[i] = h.record
	}
	return records
}

// TopAnomalies returns up to n records with the largest z-scores. Ties keep
// their relative order. n <= 0 returns every record.
func TopAnomalies(records []AnomalyRecord, n int) []AnomalyRecord {
	sorted := make([]AnomalyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ZScore > sorted[j].ZScore
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// CountByApplication counts anomaly records per application.
func CountByApplication(records []AnomalyRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Application]++
	}
	return counts
}

// FilterApplication keeps the reviews that belong to app.
func FilterApplication(reviews []Review, app string) []Review {
	var out []Review
	for _, r := range reviews {
		if r.Application == app {
			out = append(out, r)
		}
	}
	return out
}
