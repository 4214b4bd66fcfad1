package siglog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppendWritesJSONLine(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SNIPERX_LOG_DIR", dir)

	err := Append(Entry{
		Handle: "elonmusk", PostID: "1", Type: "BULLISH",
		Urgency: "CRITICAL", Action: "CONSIDER BUYING DOGECOIN",
		Confidence: 0.91, Polarity: 0.65, Keywords: []string{"dogecoin"},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := Append(Entry{Handle: "elonmusk", PostID: "2", Type: "NEUTRAL"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	name := time.Now().UTC().Format("2006-01-02") + ".txt"
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}

	var e Entry
	if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
		t.Fatalf("Log line is not valid JSON: %v", err)
	}
	if e.PostID != "1" || e.Confidence != 0.91 || e.Time == "" {
		t.Errorf("Unexpected entry: %+v", e)
	}
}

func TestAppendRunWritesToRunsDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SNIPERX_LOG_DIR", dir)

	err := AppendRun(RunEntry{Handle: "elonmusk", Source: "DEMO", Posts: 18, Candidates: 7, Signals: 4})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	name := time.Now().UTC().Format("2006-01-02") + ".txt"
	if _, err := os.Stat(filepath.Join(dir, "runs", name)); err != nil {
		t.Fatalf("Run log file missing: %v", err)
	}
}

func TestCompressOlderGzipsStaleFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SNIPERX_LOG_DIR", dir)

	stale := filepath.Join(dir, "2024-01-01.txt")
	if err := os.WriteFile(stale, []byte(`{"PostID":"old"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	fresh := filepath.Join(dir, time.Now().UTC().Format("2006-01-02")+".txt")
	if err := os.WriteFile(fresh, []byte(`{"PostID":"new"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CompressOlder(7); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := os.Stat(stale + ".gz"); err != nil {
		t.Error("Expected stale log to be gzipped")
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Expected stale original to be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("Expected fresh log to remain")
	}
}

func TestCompressOlderDisabled(t *testing.T) {
	if err := CompressOlder(0); err != nil {
		t.Fatalf("Expected no-op, got %v", err)
	}
}
