package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/reviewlens/internal/store"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.CreateSchema(); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	words := 9
	rows := []*store.ReviewRow{
		{ReviewUUID: "a", Application: "WhatsApp", Score: 5, WordCount: &words, SentimentLabel: "positive", ModelSentiment: "positive"},
		{ReviewUUID: "b", Application: "WhatsApp", Score: 2, WordCount: &words, SentimentLabel: "negative", ModelSentiment: "negative"},
		{ReviewUUID: "c", Application: "LINE", Score: 5, SentimentLabel: "positive", ModelSentiment: "positive"},
	}
	if err := st.InsertReviews(rows); err != nil {
		t.Fatalf("failed to insert reviews: %v", err)
	}
	return st
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func TestDocuments(t *testing.T) {
	st := setupStore(t)
	dir := filepath.Join(t.TempDir(), "out")

	counts, err := Documents(st, dir)
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if counts.Applications != 2 || counts.Reviews != 3 {
		t.Errorf("counts = %+v, want 2 applications and 3 reviews", counts)
	}

	apps := readLines(t, filepath.Join(dir, ApplicationsFile))
	if len(apps) != 2 {
		t.Fatalf("got %d application lines, want 2", len(apps))
	}
	var app map[string]interface{}
	if err := json.Unmarshal([]byte(apps[0]), &app); err != nil {
		t.Fatalf("invalid application document: %v", err)
	}
	if app["nome"] != "WhatsApp" {
		t.Errorf("first application = %v, want WhatsApp", app)
	}
	if _, ok := app["_id"]; !ok {
		t.Error("application document missing _id")
	}

	reviews := readLines(t, filepath.Join(dir, ReviewsFile))
	if len(reviews) != 3 {
		t.Fatalf("got %d review lines, want 3 (reviews without word count are exported too)", len(reviews))
	}
	var doc ReviewDoc
	if err := json.Unmarshal([]byte(reviews[2]), &doc); err != nil {
		t.Fatalf("invalid review document: %v", err)
	}
	if doc.ReviewUUID != "c" || doc.ApplicationName != "LINE" || doc.Score != 5 {
		t.Errorf("third review = %+v", doc)
	}
	if !strings.Contains(reviews[0], `"id_app"`) || !strings.Contains(reviews[0], `"nome_app"`) {
		t.Errorf("review line missing document keys: %s", reviews[0])
	}
}

func TestDocuments_Truncates(t *testing.T) {
	st := setupStore(t)
	dir := t.TempDir()

	stale := filepath.Join(dir, ReviewsFile)
	if err := os.WriteFile(stale, []byte("old\nold\nold\nold\nold\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Documents(st, dir); err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if lines := readLines(t, stale); len(lines) != 3 {
		t.Errorf("got %d lines after export, want 3", len(lines))
	}
}

func TestSummarize(t *testing.T) {
	st := setupStore(t)

	s, err := Summarize(st)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if s.TotalReviews != 3 {
		t.Errorf("TotalReviews = %d, want 3", s.TotalReviews)
	}
	if len(s.Sentiments) != 2 {
		t.Fatalf("got %d sentiment shares, want 2", len(s.Sentiments))
	}
	pos := s.Sentiments[1]
	if pos.Sentiment != "positive" || pos.Count != 2 {
		t.Errorf("positive share = %+v", pos)
	}
	if pos.Percent < 66.66 || pos.Percent > 66.67 {
		t.Errorf("positive percent = %v, want ~66.67", pos.Percent)
	}
	if s.ByApplication["WhatsApp"]["negative"] != 1 {
		t.Errorf("ByApplication = %v", s.ByApplication)
	}
	if s.ScoreSentiments[5]["positive"] != 2 {
		t.Errorf("ScoreSentiments = %v", s.ScoreSentiments)
	}
}

func TestBuildSummary_Empty(t *testing.T) {
	s := BuildSummary(nil, nil, nil, nil)
	if s.TotalReviews != 0 || len(s.Sentiments) != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestEncode(t *testing.T) {
	s := BuildSummary(
		[]store.LabelCount{{Label: "positive", Count: 3}, {Label: "negative", Count: 1}},
		[]store.ScoreCount{{Score: 5, Count: 3}, {Score: 1, Count: 1}},
		nil, nil,
	)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, s, FormatJSON); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		var back Summary
		if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if back.TotalReviews != 4 || back.Sentiments[0].Percent != 75 {
			t.Errorf("decoded = %+v", back)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, s, FormatYAML); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		var back map[string]interface{}
		if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
			t.Fatalf("output is not YAML: %v", err)
		}
		if back["total_reviews"] != 4 {
			t.Errorf("total_reviews = %v, want 4", back["total_reviews"])
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := Encode(&bytes.Buffer{}, s, "xml"); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}
