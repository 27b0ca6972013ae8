package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/opsdeck/incident-intel/internal/incident"
)

type fakeFetcher struct {
	incidents []incident.Incident
	err       error
	calls     int
}

func (f *fakeFetcher) List(_ context.Context, _ Query) ([]incident.Incident, error) {
	f.calls++
	return f.incidents, f.err
}

func TestPoller_PublishesOnChange(t *testing.T) {
	fetcher := &fakeFetcher{incidents: []incident.Incident{
		{IncidentID: "INC-20250101-120000", Title: "Leak", Status: "open"},
	}}
	c := New()
	w := NewArtifactWriter(t.TempDir(), testLogger())
	p := NewPoller(fetcher, c, w, 0, 0, testLogger())

	p.RunOnce(context.Background())
	if c.Len() != 1 {
		t.Fatalf("cache Len = %d, want 1", c.Len())
	}
	snap := c.Load()
	if snap.Fingerprint == "" {
		t.Error("published snapshot missing fingerprint")
	}
}

func TestPoller_SkipsUnchangedCycle(t *testing.T) {
	fetcher := &fakeFetcher{incidents: []incident.Incident{
		{IncidentID: "INC-20250101-120000", Title: "Leak"},
	}}
	c := New()
	p := NewPoller(fetcher, c, NewArtifactWriter(t.TempDir(), testLogger()), 0, 0, testLogger())

	p.RunOnce(context.Background())
	first := c.Load()
	p.RunOnce(context.Background())
	if c.Load() != first {
		t.Error("unchanged cycle replaced the snapshot")
	}
	if fetcher.calls != 2 {
		t.Errorf("fetch calls = %d, want 2", fetcher.calls)
	}
}

func TestPoller_KeepsSnapshotOnFetchError(t *testing.T) {
	fetcher := &fakeFetcher{incidents: []incident.Incident{
		{IncidentID: "INC-20250101-120000", Title: "Leak"},
	}}
	c := New()
	p := NewPoller(fetcher, c, NewArtifactWriter(t.TempDir(), testLogger()), 0, 0, testLogger())

	p.RunOnce(context.Background())
	good := c.Load()

	fetcher.err = errors.New("store down")
	p.RunOnce(context.Background())
	if c.Load() != good {
		t.Error("fetch error must retain the previous snapshot")
	}
}

func TestPoller_RetriesRewriteAfterFailure(t *testing.T) {
	fetcher := &fakeFetcher{incidents: []incident.Incident{
		{IncidentID: "INC-20250101-120000", Title: "Leak", Status: "open"},
	}}
	c := New()
	dir := filepath.Join(t.TempDir(), "artifacts")
	// A file at the directory path makes the rewrite fail.
	if err := os.WriteFile(dir, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := NewPoller(fetcher, c, NewArtifactWriter(dir, testLogger()), 0, 0, testLogger())

	p.RunOnce(context.Background())
	if c.Len() != 1 {
		t.Fatalf("cache Len = %d, want 1", c.Len())
	}

	if err := os.Remove(dir); err != nil {
		t.Fatal(err)
	}
	p.RunOnce(context.Background())

	name := filepath.Join(dir, "INC-20250101-120000.txt")
	if _, err := os.Stat(name); err != nil {
		t.Fatalf("artifact not rewritten after the failure cleared: %v", err)
	}
}

func TestPoller_DetectsFieldChange(t *testing.T) {
	fetcher := &fakeFetcher{incidents: []incident.Incident{
		{IncidentID: "INC-20250101-120000", Status: "open"},
	}}
	c := New()
	p := NewPoller(fetcher, c, NewArtifactWriter(t.TempDir(), testLogger()), 0, 0, testLogger())

	p.RunOnce(context.Background())

	fetcher.incidents = []incident.Incident{
		{IncidentID: "INC-20250101-120000", Status: "resolved"},
	}
	p.RunOnce(context.Background())

	snap := c.Load()
	if snap.Incidents[0].Status != "resolved" {
		t.Error("changed content did not replace the snapshot")
	}
}
