package ingest

import (
	"bytes"
	"context"
	"fmt"

	"github.com/carlmjohnson/requests"
)

// Fetch downloads a CSV export from url.
func Fetch(ctx context.Context, url string) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	err := requests.
		URL(url).
		Accept("text/csv").
		ToBytesBuffer(&buf).
		Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	return &buf, nil
}
