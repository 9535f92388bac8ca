// Package output renders reviewlens reports for the terminal.
//
// Every Render* function returns a string so commands decide where it
// goes. Tables use fixed-width columns under a "─" rule; ANSI color is
// only emitted when stdout is a TTY and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/reviewlens/internal/analyzer"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled reports whether ANSI color codes should be emitted.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

func rule(width int) string {
	return strings.Repeat("─", width) + "\n"
}

// truncate shortens s to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// pad left-aligns s in a column of width runes. fmt's %-Ns counts bytes,
// which misaligns accented application names.
func pad(s string, width int) string {
	s = truncate(s, width)
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func sentimentColor(s analyzer.Sentiment) string {
	switch s {
	case analyzer.SentimentPositive:
		return colorGreen
	case analyzer.SentimentNegative:
		return colorRed
	default:
		return colorGray
	}
}

// applications returns the application names of a profile, sorted.
func applications(profile analyzer.CategoryProfile) []string {
	apps := make([]string, 0, len(profile.Totals))
	for app := range profile.Totals {
		apps = append(apps, app)
	}
	sort.Strings(apps)
	return apps
}

// RenderCategoryCounts renders one block per application listing how many
// reviews fall in each category, or their share when percent is true.
func RenderCategoryCounts(profile analyzer.CategoryProfile, percent bool) string {
	if len(profile.Totals) == 0 {
		return "No reviews found.\n"
	}

	var sb strings.Builder
	for i, app := range applications(profile) {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s (%s reviews)\n", app, count(profile.Totals[app])))
		sb.WriteString(rule(44))
		for _, c := range analyzer.Categories() {
			n := profile.Counts[app][c]
			if n == 0 {
				continue
			}
			value := count(n)
			if percent {
				value = fmt.Sprintf("%.1f%%", profile.Share(app, c))
			}
			sb.WriteString(fmt.Sprintf("%s %8s\n", pad(string(c), 34), value))
		}
	}
	return sb.String()
}

// RenderCategoryProfile renders the per-category summary table.
func RenderCategoryProfile(profile analyzer.CategoryProfile) string {
	if len(profile.Summaries) == 0 {
		return "No reviews found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %8s %10s %10s %11s\n",
		pad("Category", 26), "Reviews", "Avg Score", "Avg Words", "Noise-free"))
	sb.WriteString(rule(69))
	for _, s := range profile.Summaries {
		sb.WriteString(fmt.Sprintf("%s %8s %10.2f %10.2f %10.2f%%\n",
			pad(string(s.Category), 26),
			count(s.Count),
			s.MeanScore,
			s.MeanWords,
			s.NoiseFreePct))
	}
	return sb.String()
}

// RenderAnomalies renders flagged reviews, one row per anomaly.
func RenderAnomalies(records []analyzer.AnomalyRecord) string {
	if len(records) == 0 {
		return "No anomalies found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %6s %7s %8s %8s  %s\n",
		pad("Application", 20), "Score", "Mean", "Z", "Diff", "Direction"))
	sb.WriteString(rule(64))
	for _, r := range records {
		dir := string(r.Direction)
		if r.Direction == analyzer.DirectionLow {
			dir = colorize(colorRed, "↓ "+dir)
		} else {
			dir = colorize(colorGreen, "↑ "+dir)
		}
		sb.WriteString(fmt.Sprintf("%s %6d %7.2f %8.3f %8.2f  %s\n",
			pad(r.Application, 20),
			r.Score,
			r.Mean,
			r.ZScore,
			r.Difference,
			dir))
	}
	return sb.String()
}

// RenderAnomalySummary renders per-application statistics alongside the
// number of flagged reviews.
func RenderAnomalySummary(stats []analyzer.AppStats, counts map[string]int, threshold float64) string {
	if len(stats) == 0 {
		return "No reviews found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Anomalies (|z| > %.2f)\n\n", threshold))
	sb.WriteString(fmt.Sprintf("%s %8s %7s %7s %10s %8s\n",
		pad("Application", 20), "Reviews", "Mean", "Std", "Anomalies", "Share"))
	sb.WriteString(rule(65))

	total, flagged := 0, 0
	for _, s := range stats {
		n := counts[s.Application]
		total += s.Count
		flagged += n
		share := 0.0
		if s.Count > 0 {
			share = float64(n) / float64(s.Count) * 100
		}
		sb.WriteString(fmt.Sprintf("%s %8s %7.2f %7.2f %10s %7.1f%%\n",
			pad(s.Application, 20),
			count(s.Count),
			s.Mean,
			s.StdDev,
			count(n),
			share))
	}

	sb.WriteString(rule(65))
	sb.WriteString(fmt.Sprintf("%s reviews, %s anomalies\n", count(total), count(flagged)))
	return sb.String()
}

// RenderQuality renders per-application quality indicators.
func RenderQuality(quality []analyzer.ApplicationQuality) string {
	if len(quality) == 0 {
		return "No reviews found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %8s %10s %10s %11s  %s\n",
		pad("Application", 20), "Reviews", "Avg Score", "Avg Words", "Noise-free", "Sentiment (-/=/+)"))
	sb.WriteString(rule(82))
	for _, q := range quality {
		var parts []string
		for _, s := range analyzer.Sentiments() {
			parts = append(parts, colorize(sentimentColor(s), count(q.Sentiments[s])))
		}
		sb.WriteString(fmt.Sprintf("%s %8s %10.2f %10.2f %10.2f%%  %s\n",
			pad(q.Application, 20),
			count(q.Count),
			q.MeanScore,
			q.MeanWords,
			q.NoiseFreePct,
			strings.Join(parts, " / ")))
	}
	return sb.String()
}

// RenderLengthReport renders review-length buckets and the length/score
// trend.
func RenderLengthReport(report analyzer.LengthReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %8s %10s %9s %9s %9s\n",
		pad("Length", 18), "Reviews", "Avg Score", "Negative", "Neutral", "Positive"))
	sb.WriteString(rule(68))
	for _, b := range report.Buckets {
		sb.WriteString(fmt.Sprintf("%s %8s %10.2f %8.1f%% %8.1f%% %8.1f%%\n",
			pad(string(b.Bucket), 18),
			count(b.Count),
			b.MeanScore,
			b.SentimentPct[analyzer.SentimentNegative],
			b.SentimentPct[analyzer.SentimentNeutral],
			b.SentimentPct[analyzer.SentimentPositive]))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Correlation (words vs score): %.3f\n", report.Correlation))
	sb.WriteString(fmt.Sprintf("Trend: score = %.4f * words + %.4f\n", report.Slope, report.Intercept))
	return sb.String()
}

// RenderRanking renders the application ranking with radar values.
func RenderRanking(ranking analyzer.Ranking) string {
	if len(ranking.Entries) == 0 {
		return "No reviews found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%4s %s %10s %11s %10s %9s\n",
		"#", pad("Application", 20), "Avg Score", "Noise-free", "Avg Words", "Positive"))
	sb.WriteString(rule(69))
	for i, e := range ranking.Entries {
		sb.WriteString(fmt.Sprintf("%4d %s %10.2f %10.2f%% %10.2f %8.2f%%\n",
			i+1,
			pad(e.Application, 20),
			e.MeanScore,
			e.NoiseFreePct,
			e.MeanWords,
			e.PositivePct))
	}

	sb.WriteString("\nRadar (0-100)\n")
	sb.WriteString(rule(69))
	for _, e := range ranking.Entries {
		sb.WriteString(fmt.Sprintf("     %s %10.1f %11.1f %10.1f %9.1f\n",
			pad(e.Application, 20), e.Radar[0], e.Radar[1], e.Radar[2], e.Radar[3]))
	}
	return sb.String()
}

// RenderCorrelationMatrix renders the correlation between ranking metrics.
func RenderCorrelationMatrix(ranking analyzer.Ranking) string {
	var sb strings.Builder
	sb.WriteString(pad("", 16))
	for _, m := range analyzer.RankMetrics {
		sb.WriteString(fmt.Sprintf(" %15s", m))
	}
	sb.WriteString("\n")
	sb.WriteString(rule(16 + 16*len(analyzer.RankMetrics)))
	for i, m := range analyzer.RankMetrics {
		sb.WriteString(pad(m, 16))
		for j := range analyzer.RankMetrics {
			sb.WriteString(fmt.Sprintf(" %15.3f", ranking.Correlation[i][j]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
