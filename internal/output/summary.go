package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blackwell-systems/reviewlens/internal/analyzer"
	"github.com/blackwell-systems/reviewlens/internal/export"
)

// RenderSummary renders the four aggregation reports as text tables.
func RenderSummary(s *export.Summary) string {
	if s.TotalReviews == 0 {
		return "No reviews found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Sentiment proportions (%s reviews)\n", count(s.TotalReviews)))
	sb.WriteString(rule(36))
	for _, share := range s.Sentiments {
		label := colorize(sentimentColor(analyzer.Sentiment(share.Sentiment)), pad(share.Sentiment, 12))
		sb.WriteString(fmt.Sprintf("%s %10s %11.2f%%\n", label, count(share.Count), share.Percent))
	}

	sb.WriteString("\nReviews per score\n")
	sb.WriteString(rule(36))
	for _, b := range s.Scores {
		sb.WriteString(fmt.Sprintf("%-12d %10s\n", b.Score, count(b.Count)))
	}

	sentiments := analyzer.Sentiments()

	sb.WriteString("\nSentiment by application\n")
	sb.WriteString(fmt.Sprintf("%s %10s %10s %10s\n", pad("Application", 20), "Negative", "Neutral", "Positive"))
	sb.WriteString(rule(53))
	apps := make([]string, 0, len(s.ByApplication))
	for app := range s.ByApplication {
		apps = append(apps, app)
	}
	sort.Strings(apps)
	for _, app := range apps {
		sb.WriteString(pad(app, 20))
		for _, sent := range sentiments {
			sb.WriteString(fmt.Sprintf(" %10s", count(s.ByApplication[app][string(sent)])))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nScore vs sentiment\n")
	sb.WriteString(fmt.Sprintf("%-6s %10s %10s %10s\n", "Score", "Negative", "Neutral", "Positive"))
	sb.WriteString(rule(39))
	scores := make([]int, 0, len(s.ScoreSentiments))
	for score := range s.ScoreSentiments {
		scores = append(scores, score)
	}
	sort.Ints(scores)
	for _, score := range scores {
		sb.WriteString(fmt.Sprintf("%-6d", score))
		for _, sent := range sentiments {
			sb.WriteString(fmt.Sprintf(" %10s", count(s.ScoreSentiments[score][string(sent)])))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
