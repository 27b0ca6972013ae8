package chat

import "testing"

func TestEnhanceQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "critical issues expands",
			query: "critical issues",
			want:  "incidents with critical severity level",
		},
		{
			name:  "match inside longer text",
			query: "any critical issues today?",
			want:  "incidents with critical severity level",
		},
		{
			name:  "case insensitive",
			query: "CRITICAL ISSUES",
			want:  "incidents with critical severity level",
		},
		{
			name:  "network problems",
			query: "network problems",
			want:  "network connectivity incidents, outages, connection timeouts, or network-related issues",
		},
		{
			name:  "first match wins over later entries",
			query: "medium risk incidents",
			want:  "incidents with medium severity level, status open or investigating",
		},
		{
			name:  "unmatched passes through",
			query: "water leak in Block A",
			want:  "water leak in Block A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnhanceQuery(tt.query); got != tt.want {
				t.Errorf("EnhanceQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestEnhanceQuery_UnmatchedIdempotent(t *testing.T) {
	q := "water leak in Block A"
	once := EnhanceQuery(q)
	twice := EnhanceQuery(once)
	if once != twice {
		t.Errorf("second pass changed the query: %q -> %q", once, twice)
	}
}
