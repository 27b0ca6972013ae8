package cache

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/opsdeck/incident-intel/internal/incident"
	"github.com/opsdeck/incident-intel/internal/metrics"
)

const placeholderFile = "placeholder.txt"

// ArtifactWriter maintains the on-disk text documents the answer pipeline
// ingests: one UTF-8 file per valid incident, stale files purged on every
// rewrite.
type ArtifactWriter struct {
	dir    string
	logger *slog.Logger
}

func NewArtifactWriter(dir string, logger *slog.Logger) *ArtifactWriter {
	return &ArtifactWriter{dir: dir, logger: logger}
}

// Dir returns the owned directory.
func (w *ArtifactWriter) Dir() string {
	return w.dir
}

// Rewrite replaces the artifact set with the given incidents. Records whose
// identifier matches the legacy numeric pattern are counted and skipped; they
// stay invisible to the answer pipeline until migrated. Returns the number of
// files written and the number of legacy records skipped.
func (w *ArtifactWriter) Rewrite(incidents []incident.Incident) (written, legacy int, err error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("create cache dir: %w", err)
	}

	if err := w.clear(); err != nil {
		return 0, 0, err
	}

	if len(incidents) == 0 {
		placeholder := filepath.Join(w.dir, placeholderFile)
		if err := os.WriteFile(placeholder, []byte("No incidents loaded yet. Waiting for data from the store."), 0o644); err != nil {
			return 0, 0, fmt.Errorf("write placeholder: %w", err)
		}
		return 0, 0, nil
	}

	for _, in := range incidents {
		if in.HasLegacyID() {
			w.logger.Warn("legacy identifier detected, excluding from cache", "incident_id", in.Key())
			metrics.LegacyIDsSkipped.Inc()
			legacy++
			continue
		}
		path := filepath.Join(w.dir, in.Key()+".txt")
		if err := os.WriteFile(path, []byte(incident.ArtifactText(in)), 0o644); err != nil {
			return written, legacy, fmt.Errorf("write artifact %s: %w", in.Key(), err)
		}
		written++
	}
	return written, legacy, nil
}

func (w *ArtifactWriter) clear() error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("read cache dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, e.Name())); err != nil {
			return fmt.Errorf("remove stale artifact %s: %w", e.Name(), err)
		}
	}
	return nil
}
