package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/opsdeck/incident-intel/internal/incident"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestArtifactWriter_Rewrite(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir, testLogger())

	incidents := []incident.Incident{
		{
			IncidentID:  "INC-20250101-120000",
			Title:       "Water leak",
			Status:      "open",
			Severity:    "high",
			Location:    "Block A",
			Description: "Pipe burst",
			Timestamp:   "2025-01-01T12:00:00Z",
		},
		{IncidentID: "INC-123", Title: "Legacy row"},
	}

	written, legacy, err := w.Rewrite(incidents)
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if written != 1 || legacy != 1 {
		t.Errorf("written = %d, legacy = %d; want 1, 1", written, legacy)
	}

	data, err := os.ReadFile(filepath.Join(dir, "INC-20250101-120000.txt"))
	if err != nil {
		t.Fatalf("canonical artifact missing: %v", err)
	}
	if string(data) != incident.ArtifactText(incidents[0]) {
		t.Errorf("artifact content mismatch:\n%s", data)
	}

	if _, err := os.Stat(filepath.Join(dir, "INC-123.txt")); !os.IsNotExist(err) {
		t.Error("legacy incident must not be written to the cache")
	}
}

func TestArtifactWriter_PurgesStaleFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir, testLogger())

	first := []incident.Incident{{IncidentID: "INC-20250101-120000", Title: "Old"}}
	if _, _, err := w.Rewrite(first); err != nil {
		t.Fatalf("first rewrite: %v", err)
	}

	second := []incident.Incident{{IncidentID: "INC-20250102-080000", Title: "New"}}
	if _, _, err := w.Rewrite(second); err != nil {
		t.Fatalf("second rewrite: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "INC-20250101-120000.txt")); !os.IsNotExist(err) {
		t.Error("stale artifact survived the rewrite")
	}
	if _, err := os.Stat(filepath.Join(dir, "INC-20250102-080000.txt")); err != nil {
		t.Errorf("new artifact missing: %v", err)
	}
}

func TestArtifactWriter_PlaceholderWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	w := NewArtifactWriter(dir, testLogger())

	written, legacy, err := w.Rewrite(nil)
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if written != 0 || legacy != 0 {
		t.Errorf("written = %d, legacy = %d; want 0, 0", written, legacy)
	}
	if _, err := os.Stat(filepath.Join(dir, "placeholder.txt")); err != nil {
		t.Errorf("placeholder missing: %v", err)
	}
}
