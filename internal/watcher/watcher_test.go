package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const header = "app,score,word_count,sentiment_label\n"

func writeCSV(t *testing.T, path string, rows ...string) {
	t.Helper()
	content := header
	for _, r := range rows {
		content += r + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestNew_NilAction(t *testing.T) {
	if _, err := New("reviews.csv", 0, nil, nil); err == nil {
		t.Error("New() with nil action should fail")
	}
}

func TestNew_Defaults(t *testing.T) {
	w, err := New("reviews.csv", 0, func(string) error { return nil }, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want %v", w.debounce, DefaultDebounce)
	}
	if !filepath.IsAbs(w.Path()) {
		t.Errorf("Path() = %q, want absolute path", w.Path())
	}
}

func TestWatcher_ReimportsOnChange(t *testing.T) {
	st := setupTestStore(t)
	path := filepath.Join(t.TempDir(), "reviews.csv")
	writeCSV(t, path, "Skype,4,12,positive")

	w, err := New(path, 50*time.Millisecond, reimportInto(st), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	writeCSV(t, path, "Skype,4,12,positive", "Viber,1,3,negative", "LINE,5,8,positive")

	ok := waitFor(t, 3*time.Second, func() bool {
		n, err := st.CountReviews()
		return err == nil && n == 3
	})
	if !ok {
		n, _ := st.CountReviews()
		t.Fatalf("store has %d reviews after change, want 3", n)
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	writeCSV(t, path)

	w, err := New(path, 200*time.Millisecond, func(string) error { return nil }, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		writeCSV(t, path, "Skype,3,7,neutral")
		time.Sleep(20 * time.Millisecond)
	}

	if !waitFor(t, 3*time.Second, func() bool { return w.Runs() >= 1 }) {
		t.Fatal("action never ran")
	}
	time.Sleep(400 * time.Millisecond)
	if runs := w.Runs(); runs != 1 {
		t.Errorf("action ran %d times for one burst, want 1", runs)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviews.csv")
	writeCSV(t, path)

	w, err := New(path, 30*time.Millisecond, func(string) error { return nil }, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if runs := w.Runs(); runs != 0 {
		t.Errorf("action ran %d times for an unrelated file, want 0", runs)
	}
}

func TestWatcher_ActionErrorKeepsWatching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	writeCSV(t, path)

	w, err := New(path, 30*time.Millisecond, func(string) error { return errors.New("boom") }, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	writeCSV(t, path, "Skype,3,7,neutral")
	if !waitFor(t, 3*time.Second, func() bool { return w.Runs() == 1 }) {
		t.Fatal("first change not seen")
	}
	writeCSV(t, path, "Skype,2,7,negative")
	if !waitFor(t, 3*time.Second, func() bool { return w.Runs() == 2 }) {
		t.Errorf("watcher stopped after a failed action; runs = %d", w.Runs())
	}
}
