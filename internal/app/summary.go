package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/reviewlens/internal/export"
	"github.com/blackwell-systems/reviewlens/internal/output"
)

var (
	summaryFormat string

	summaryCmd = &cobra.Command{
		Use:   "summary",
		Short: "Show sentiment and score aggregations",
		Long: `Show four aggregations over every stored review, grouped on the model
sentiment: sentiment proportions, reviews per score, sentiment per
application and score versus sentiment.`,
		Example: `  reviewlens summary
  reviewlens summary --format yaml`,
		Args: cobra.NoArgs,
		RunE: runSummary,
	}
)

func init() {
	summaryCmd.Flags().StringVar(&summaryFormat, "format", "table", "output format: table, json or yaml")
}

func runSummary(cmd *cobra.Command, args []string) error {
	switch summaryFormat {
	case "table", export.FormatJSON, export.FormatYAML:
	default:
		return fmt.Errorf("invalid format %q (must be table, json or yaml)", summaryFormat)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	s, err := export.Summarize(st)
	if err != nil {
		return err
	}

	if summaryFormat == "table" {
		fmt.Print(output.RenderSummary(s))
		return nil
	}
	return export.Encode(os.Stdout, s, summaryFormat)
}
