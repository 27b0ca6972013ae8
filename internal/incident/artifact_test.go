package incident

import "testing"

func TestArtifactText(t *testing.T) {
	rec := Incident{
		IncidentID:  "INC-20250101-120000",
		Title:       "Water leak",
		Status:      "open",
		Severity:    "high",
		Location:    "Block A",
		Description: "Pipe burst on floor 2",
		Timestamp:   "2025-01-01T12:00:00Z",
	}

	want := `Incident ID: INC-20250101-120000
Title: Water leak
Status: open
Severity: high
Location: Block A
Description: Pipe burst on floor 2
Timestamp: 2025-01-01T12:00:00Z
---`

	if got := ArtifactText(rec); got != want {
		t.Errorf("ArtifactText mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestArtifactText_MissingFields(t *testing.T) {
	want := `Incident ID: INC-20250101-120000
Title: N/A
Status: N/A
Severity: N/A
Location: N/A
Description: N/A
Timestamp: N/A
---`

	if got := ArtifactText(Incident{IncidentID: "INC-20250101-120000"}); got != want {
		t.Errorf("ArtifactText mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
