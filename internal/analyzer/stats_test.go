package analyzer

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMeanStd(t *testing.T) {
	tests := []struct {
		name     string
		xs       []float64
		wantMean float64
		wantStd  float64
	}{
		{"empty", nil, 0, 0},
		{"single value", []float64{4}, 4, 0},
		{"constant", []float64{5, 5, 5, 5}, 5, 0},
		{"sample std", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 5, math.Sqrt(32.0 / 7.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std := MeanStd(tt.xs)
			if !approx(mean, tt.wantMean) {
				t.Errorf("mean = %v, want %v", mean, tt.wantMean)
			}
			if !approx(std, tt.wantStd) {
				t.Errorf("std = %v, want %v", std, tt.wantStd)
			}
		})
	}
}

func TestGroupScores(t *testing.T) {
	reviews := []Review{
		{Application: "A", Score: 1},
		{Application: "B", Score: 4},
		{Application: "A", Score: 3},
	}
	groups := GroupScores(reviews)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if a := groups["A"]; len(a) != 2 || a[0] != 1 || a[1] != 3 {
		t.Errorf("group A = %v, want [1 3]", a)
	}
}

func TestCorrelation(t *testing.T) {
	xs := []float64{1, 2, 3, 4}

	if c := Correlation(xs, []float64{2, 4, 6, 8}); !approx(c, 1) {
		t.Errorf("perfect positive correlation = %v, want 1", c)
	}
	if c := Correlation(xs, []float64{8, 6, 4, 2}); !approx(c, -1) {
		t.Errorf("perfect negative correlation = %v, want -1", c)
	}
	if c := Correlation(xs, []float64{3, 3, 3, 3}); c != 0 {
		t.Errorf("correlation with constant = %v, want 0", c)
	}
	if c := Correlation(xs, []float64{1, 2}); c != 0 {
		t.Errorf("mismatched lengths = %v, want 0", c)
	}
}

func TestLinearFit(t *testing.T) {
	slope, intercept := LinearFit([]float64{0, 1, 2, 3}, []float64{1, 3, 5, 7})
	if !approx(slope, 2) || !approx(intercept, 1) {
		t.Errorf("LinearFit = (%v, %v), want (2, 1)", slope, intercept)
	}

	slope, intercept = LinearFit([]float64{4, 4, 4}, []float64{1, 2, 3})
	if slope != 0 || !approx(intercept, 2) {
		t.Errorf("degenerate LinearFit = (%v, %v), want (0, 2)", slope, intercept)
	}
}

func TestApplicationStats(t *testing.T) {
	reviews := append(reviewsWithScores("Zoom", 5, 5), reviewsWithScores("Apex", 1, 3, 5)...)

	stats := ApplicationStats(reviews)
	if len(stats) != 2 {
		t.Fatalf("got %d stats, want 2", len(stats))
	}
	if stats[0].Application != "Apex" {
		t.Errorf("stats not sorted by name: first = %s", stats[0].Application)
	}
	if !approx(stats[0].Mean, 3) || !approx(stats[0].StdDev, 2) || stats[0].Count != 3 {
		t.Errorf("Apex stats = %+v, want mean 3 std 2 count 3", stats[0])
	}
	if stats[1].StdDev != 0 {
		t.Errorf("Zoom std = %v, want 0", stats[1].StdDev)
	}
}
