package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/reviewlens/internal/analyzer"
	"github.com/blackwell-systems/reviewlens/internal/output"
)

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Show quality indicators and review-length analysis",
	Long: `Show per-application quality indicators (average score, average length,
noise-free share, sentiment mix) and how review length relates to score:
reviews are grouped into Very Short (<=5 words), Short (6-10), Medium (11-20)
and Long (>20) buckets, with the correlation and linear trend between word
count and score.`,
	Args: cobra.NoArgs,
	RunE: runQuality,
}

func runQuality(cmd *cobra.Command, args []string) error {
	reviews, err := loadReviews()
	if err != nil {
		return err
	}

	fmt.Print(output.RenderQuality(analyzer.QualityByApplication(reviews)))
	fmt.Println()
	fmt.Print(output.RenderLengthReport(analyzer.AnalyzeLength(reviews)))
	return nil
}
