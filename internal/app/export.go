package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/reviewlens/internal/export"
)

var (
	exportOut string

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export applications and reviews as JSON Lines documents",
		Long: `Write every application and review to two JSON Lines files that
mongoimport (or any document store loader) can ingest:

  aplicativos.jsonl   {"_id", "nome"}
  reviews.jsonl       {"_id", "review_uuid", "score", "id_app", "nome_app"}

Existing files in the output directory are replaced.`,
		Example: `  reviewlens export --out ./export
  mongoimport --db reviews --collection reviews --file ./export/reviews.jsonl`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}
)

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "export", "output directory")
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	counts, err := export.Documents(st, exportOut)
	if err != nil {
		return err
	}
	log.Info("export complete", zap.String("dir", exportOut))

	fmt.Printf("Exported %d applications to %s\n", counts.Applications, filepath.Join(exportOut, export.ApplicationsFile))
	fmt.Printf("Exported %d reviews to %s\n", counts.Reviews, filepath.Join(exportOut, export.ReviewsFile))
	return nil
}
