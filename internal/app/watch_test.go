package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWatchCommand_Flags(t *testing.T) {
	if watchCmd.Flags().Lookup("debounce") == nil {
		t.Error("expected --debounce flag")
	}
	if err := watchCmd.Args(watchCmd, nil); err == nil {
		t.Error("watch should require a file argument")
	}
}

func TestRunWatch_MissingFile(t *testing.T) {
	withSettings(t)

	err := runWatch(watchCmd, []string{filepath.Join(t.TempDir(), "missing.csv")})
	if err == nil || !strings.Contains(err.Error(), "cannot watch") {
		t.Errorf("runWatch() = %v, want cannot watch error", err)
	}
}

func TestReloadAction(t *testing.T) {
	withSettings(t)
	path := writeCSV(t, fixtureCSV)

	st, err := openStore()
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer st.Close()

	opts, err := csvOptions("", "")
	if err != nil {
		t.Fatal(err)
	}
	reload := reloadAction(st, opts)

	out := captureStdout(t, func() {
		if err := reload(path); err != nil {
			t.Fatalf("reload() error = %v", err)
		}
	})
	if !strings.Contains(out, "Loaded 12 reviews") || !strings.Contains(out, "Skype") {
		t.Errorf("unexpected output:\n%s", out)
	}

	// A second reload replaces rather than duplicates.
	if err := os.WriteFile(path, []byte(strings.SplitAfterN(fixtureCSV, "\n", 3)[0]+"WhatsApp,x1,5,12,60,0,positive\n"), 0644); err != nil {
		t.Fatal(err)
	}
	captureStdout(t, func() {
		if err := reload(path); err != nil {
			t.Fatalf("reload() error = %v", err)
		}
	})
	n, err := st.CountReviews()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("after reload: %d reviews, want 1", n)
	}
}

func TestReloadAction_MalformedFileKeepsData(t *testing.T) {
	withSettings(t)
	path := writeCSV(t, fixtureCSV)

	st, err := openStore()
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	defer st.Close()

	opts, err := csvOptions("", "")
	if err != nil {
		t.Fatal(err)
	}
	reload := reloadAction(st, opts)
	captureStdout(t, func() {
		if err := reload(path); err != nil {
			t.Fatalf("reload() error = %v", err)
		}
	})

	// A partially written file: header and a truncated row.
	if err := os.WriteFile(path, []byte("app,reviewId,score\nWhatsApp,w1,\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := reload(path); !errors.Is(err, errNoRows) {
		t.Errorf("reload() = %v, want errNoRows", err)
	}

	n, err := st.CountReviews()
	if err != nil {
		t.Fatal(err)
	}
	if n != 12 {
		t.Errorf("after failed reload: %d reviews, want 12", n)
	}
}
