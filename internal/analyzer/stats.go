package analyzer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// GroupScores partitions review scores by application, keeping each
// application's scores in input order.
func GroupScores(reviews []Review) map[string][]float64 {
	groups := make(map[string][]float64)
	for _, r := range reviews {
		groups[r.Application] = append(groups[r.Application], float64(r.Score))
	}
	return groups
}

// MeanStd returns the mean and sample standard deviation (n-1 denominator)
// of xs. The standard deviation is 0 when fewer than two values are given;
// the mean of an empty slice is 0.
func MeanStd(xs []float64) (mean, std float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	mean, std = stat.MeanStdDev(xs, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// Correlation returns the Pearson correlation of xs and ys. It returns 0
// when the slices differ in length, have fewer than two points, or either
// side has zero variance.
func Correlation(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	c := stat.Correlation(xs, ys, nil)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0
	}
	return c
}

// LinearFit fits y = intercept + slope*x by least squares. A degenerate
// input (fewer than two points or constant x) yields a flat line through
// the mean of ys.
func LinearFit(xs, ys []float64) (slope, intercept float64) {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0, Mean(ys)
	}
	if _, sx := MeanStd(xs); sx == 0 {
		return 0, Mean(ys)
	}
	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	return slope, intercept
}

// ApplicationStats computes mean, sample standard deviation and count of
// scores per application, sorted by application name.
func ApplicationStats(reviews []Review) []AppStats {
	groups := GroupScores(reviews)
	out := make([]AppStats, 0, len(groups))
	for app, scores := range groups {
		mean, std := MeanStd(scores)
		out = append(out, AppStats{
			Application: app,
			Mean:        mean,
			StdDev:      std,
			Count:       len(scores),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Application < out[j].Application
	})
	return out
}

// round2 rounds to two decimals, matching how summary tables are reported.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percent returns part/total*100, or 0 when total is 0.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
