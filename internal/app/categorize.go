package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/reviewlens/internal/analyzer"
	"github.com/blackwell-systems/reviewlens/internal/output"
)

var (
	categorizeApp     string
	categorizePercent bool
	categorizeProfile bool

	categorizeCmd = &cobra.Command{
		Use:   "categorize",
		Short: "Sort reviews into quality categories",
		Long: `Assign every review exactly one category. Rules are checked in order and
the first match wins:

  1. Detailed Positive Review   more than 10 words, positive
  2. Detailed Critical Review   more than 10 words, negative
  3. Simple Positive Review     5 words or fewer, positive
  4. Noisy Review               contains noise
  5. High Quality Review        no noise, more than 10 words
  6. Detailed Neutral Review    more than 10 words, neutral
  7. Extreme Review             score 1 or 5
  8. Balanced Review            everything else

Rule 6 can never match: a detailed neutral review is always caught by
rule 4 or rule 5 first.`,
		Example: `  # Category counts per application
  reviewlens categorize

  # Shares instead of counts, for one application
  reviewlens categorize --app WhatsApp --percent

  # Average score, length and noise-free share per category
  reviewlens categorize --profile`,
		Args: cobra.NoArgs,
		RunE: runCategorize,
	}
)

func init() {
	categorizeCmd.Flags().StringVar(&categorizeApp, "app", "", "only show this application")
	categorizeCmd.Flags().BoolVar(&categorizePercent, "percent", false, "show the share of each category instead of counts")
	categorizeCmd.Flags().BoolVar(&categorizeProfile, "profile", false, "also show per-category averages")
}

func runCategorize(cmd *cobra.Command, args []string) error {
	reviews, err := loadReviews()
	if err != nil {
		return err
	}
	reviews, err = filterApp(reviews, categorizeApp)
	if err != nil {
		return err
	}

	profile := analyzer.ProfileCategories(analyzer.CategorizeAll(reviews))
	fmt.Print(output.RenderCategoryCounts(profile, categorizePercent))

	if categorizeProfile {
		fmt.Println()
		fmt.Print(output.RenderCategoryProfile(profile))
	}
	return nil
}
