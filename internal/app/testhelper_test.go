package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/reviewlens/internal/config"
	"github.com/blackwell-systems/reviewlens/internal/logger"
)

// withSettings resets the package-level settings for one test and points
// the database at a fresh temp file.
func withSettings(t *testing.T) string {
	t.Helper()
	oldDB, oldDriver, oldConfig, oldLevel := dbPath, dbDriver, configPath, logLevel
	oldCfg, oldLog := cfg, log
	t.Cleanup(func() {
		dbPath, dbDriver, configPath, logLevel = oldDB, oldDriver, oldConfig, oldLevel
		cfg, log = oldCfg, oldLog
	})

	dbPath = filepath.Join(t.TempDir(), "test.db")
	dbDriver, configPath, logLevel = "", "", ""
	cfg = config.Default()
	log = logger.Nop()
	return dbPath
}

// captureStdout replaces os.Stdout with a pipe during f(), then restores it
// and returns all bytes written to stdout.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = origStdout }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		buf.ReadFrom(r)
		done <- buf.String()
	}()

	f()

	w.Close()
	return <-done
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// fixtureCSV holds two applications. Skype's 1 is far below its mean of
// 4.0, so it is the only anomaly at the default threshold.
const fixtureCSV = `app,reviewId,score,word_count,char_count,has_noise,sentiment_label
WhatsApp,w1,5,12,60,0,positive
WhatsApp,w2,1,15,80,0,negative
WhatsApp,w3,3,4,20,1,neutral
WhatsApp,w4,4,8,40,0,positive
Skype,s1,5,3,15,0,positive
Skype,s2,5,20,100,0,positive
Skype,s3,5,7,30,1,neutral
Skype,s4,5,11,55,0,positive
Skype,s5,5,6,28,0,positive
Skype,s6,4,9,45,0,positive
Skype,s7,1,25,130,0,negative
Skype,s8,,5,20,0,positive
LINE,l1,3,,,0,neutral
`

// importFixture loads fixtureCSV into the current test database.
func importFixture(t *testing.T) {
	t.Helper()
	path := writeCSV(t, fixtureCSV)
	oldQuiet, oldAppend := importQuiet, importAppend
	importQuiet, importAppend = true, false
	defer func() { importQuiet, importAppend = oldQuiet, oldAppend }()

	captureStdout(t, func() {
		if err := runImport(importCmd, []string{path}); err != nil {
			t.Fatalf("runImport() error = %v", err)
		}
	})
}
