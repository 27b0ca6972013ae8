package cache

import (
	"testing"

	"github.com/opsdeck/incident-intel/internal/incident"
)

func TestFingerprint_OrderInvariant(t *testing.T) {
	a := incident.Incident{IncidentID: "INC-20250101-120000", Title: "Leak", Status: "open"}
	b := incident.Incident{IncidentID: "INC-20250102-080000", Title: "Outage", Status: "resolved"}

	fp1 := Fingerprint([]incident.Incident{a, b})
	fp2 := Fingerprint([]incident.Incident{b, a})
	if fp1 != fp2 {
		t.Error("fingerprint changed under element reordering")
	}
}

func TestFingerprint_ContentSensitive(t *testing.T) {
	a := incident.Incident{IncidentID: "INC-20250101-120000", Title: "Leak", Status: "open"}

	base := Fingerprint([]incident.Incident{a})

	changed := a
	changed.Status = "resolved"
	if Fingerprint([]incident.Incident{changed}) == base {
		t.Error("fingerprint did not change when a field changed")
	}

	if Fingerprint(nil) == base {
		t.Error("fingerprint of empty set equals non-empty set")
	}

	b := incident.Incident{IncidentID: "INC-20250102-080000", Title: "Outage"}
	if Fingerprint([]incident.Incident{a, b}) == base {
		t.Error("fingerprint did not change when an element was added")
	}
}

func TestCache_EmptyBeforePublish(t *testing.T) {
	c := New()
	if c.Load() != nil {
		t.Error("fresh cache should have no snapshot")
	}
	got := c.Incidents()
	if got == nil || len(got) != 0 {
		t.Errorf("Incidents = %v, want empty non-nil slice", got)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestCache_PublishReplacesSnapshot(t *testing.T) {
	c := New()
	first := &Snapshot{Incidents: []incident.Incident{{IncidentID: "INC-20250101-120000"}}}
	second := &Snapshot{Incidents: []incident.Incident{
		{IncidentID: "INC-20250101-120000"},
		{IncidentID: "INC-20250102-080000"},
	}}

	c.Publish(first)
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	c.Publish(second)
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if c.Load() != second {
		t.Error("Load did not return the latest snapshot")
	}
}
