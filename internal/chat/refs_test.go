package chat

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractRefs(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantRefs   []string
		wantLegacy []string
	}{
		{
			name:     "single canonical",
			text:     "Incident INC-20250101-120000 (status: resolved) describes a leak.",
			wantRefs: []string{"INC-20250101-120000"},
		},
		{
			name:     "deduplicated in first-appearance order",
			text:     "INC-20250102-080000 then INC-20250101-120000 then INC-20250102-080000 again",
			wantRefs: []string{"INC-20250102-080000", "INC-20250101-120000"},
		},
		{
			name:       "legacy separated from canonical",
			text:       "See INC-101 and INC-20250101-120000 and INC-1102.",
			wantRefs:   []string{"INC-20250101-120000"},
			wantLegacy: []string{"INC-101", "INC-1102"},
		},
		{
			name: "no identifiers",
			text: "Nothing matched your query.",
		},
		{
			name: "five digit id is neither",
			text: "INC-12345 is not a known format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, legacy := ExtractRefs(tt.text)
			if !reflect.DeepEqual(refs, tt.wantRefs) {
				t.Errorf("refs = %v, want %v", refs, tt.wantRefs)
			}
			if !reflect.DeepEqual(legacy, tt.wantLegacy) {
				t.Errorf("legacy = %v, want %v", legacy, tt.wantLegacy)
			}
		})
	}
}

func TestEstimateContext(t *testing.T) {
	t.Run("sparse text yields zero", func(t *testing.T) {
		if got := EstimateContext("no matching records found"); got != 0 {
			t.Errorf("EstimateContext = %d, want 0", got)
		}
	})

	t.Run("dense text yields keyword count over four", func(t *testing.T) {
		// 12 keyword hits -> 12/4 = 3.
		text := strings.Repeat("incident severity: status: location: ", 3)
		if got := EstimateContext(text); got != 3 {
			t.Errorf("EstimateContext = %d, want 3", got)
		}
	})

	t.Run("boundary of ten is still zero", func(t *testing.T) {
		text := strings.Repeat("incident ", 10)
		if got := EstimateContext(text); got != 0 {
			t.Errorf("EstimateContext = %d, want 0", got)
		}
	})
}
