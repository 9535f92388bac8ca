package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/reviewlens/internal/analyzer"
	"github.com/blackwell-systems/reviewlens/internal/output"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank applications and correlate their quality metrics",
	Long: `Rank applications by average score and show, for each one, its
noise-free share, average length and positive share. Radar values scale
every metric to 0-100 so applications can be compared at a glance. The
correlation matrix shows how the four metrics move together across
applications.`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func runRank(cmd *cobra.Command, args []string) error {
	reviews, err := loadReviews()
	if err != nil {
		return err
	}

	ranking := analyzer.Rank(reviews)
	fmt.Print(output.RenderRanking(ranking))
	if len(ranking.Entries) > 1 {
		fmt.Println()
		fmt.Print(output.RenderCorrelationMatrix(ranking))
	}
	return nil
}
