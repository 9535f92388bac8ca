// Package export converts stored reviews into document-store records and
// summary reports.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/reviewlens/internal/store"
)

// Output file names inside the export directory, one per collection.
const (
	ApplicationsFile = "aplicativos.jsonl"
	ReviewsFile      = "reviews.jsonl"
)

// ApplicationDoc is one document of the applications collection.
type ApplicationDoc struct {
	ID   int64  `json:"_id"`
	Name string `json:"nome"`
}

// ReviewDoc is one document of the reviews collection.
type ReviewDoc struct {
	ID              int64  `json:"_id"`
	ReviewUUID      string `json:"review_uuid"`
	Score           int    `json:"score"`
	ApplicationID   int64  `json:"id_app"`
	ApplicationName string `json:"nome_app"`
}

// Counts reports how many documents were written.
type Counts struct {
	Applications int
	Reviews      int
}

// ApplicationDocs maps applications to documents.
func ApplicationDocs(apps []*store.Application) []ApplicationDoc {
	docs := make([]ApplicationDoc, 0, len(apps))
	for _, a := range apps {
		docs = append(docs, ApplicationDoc{ID: a.ID, Name: a.Name})
	}
	return docs
}

// ReviewDocs maps review rows to documents.
func ReviewDocs(rows []*store.ReviewRow) []ReviewDoc {
	docs := make([]ReviewDoc, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, ReviewDoc{
			ID:              r.ID,
			ReviewUUID:      r.ReviewUUID,
			Score:           r.Score,
			ApplicationID:   r.ApplicationID,
			ApplicationName: r.Application,
		})
	}
	return docs
}

// Documents exports every application and review in st to JSON Lines files
// in dir, replacing any previous export.
func Documents(st *store.Store, dir string) (Counts, error) {
	apps, err := st.ListApplications()
	if err != nil {
		return Counts{}, err
	}
	rows, err := st.ListAllReviews()
	if err != nil {
		return Counts{}, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return Counts{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	appDocs := ApplicationDocs(apps)
	if err := WriteJSONLines(filepath.Join(dir, ApplicationsFile), appDocs); err != nil {
		return Counts{}, err
	}
	reviewDocs := ReviewDocs(rows)
	if err := WriteJSONLines(filepath.Join(dir, ReviewsFile), reviewDocs); err != nil {
		return Counts{}, err
	}

	return Counts{Applications: len(appDocs), Reviews: len(reviewDocs)}, nil
}

// WriteJSONLines truncates path and writes one JSON document per line.
func WriteJSONLines[T any](path string, docs []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
