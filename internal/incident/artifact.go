package incident

import (
	"fmt"
	"strings"
)

// ArtifactText renders a record in the fixed field-label layout the answer
// pipeline ingests. The layout is a contract: plain labels, one per line, a
// closing separator, and no internal tags that could leak into answers.
func ArtifactText(in Incident) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Incident ID: %s\n", in.Key())
	fmt.Fprintf(&b, "Title: %s\n", orNA(in.Title))
	fmt.Fprintf(&b, "Status: %s\n", orNA(in.Status))
	fmt.Fprintf(&b, "Severity: %s\n", orNA(in.Severity))
	fmt.Fprintf(&b, "Location: %s\n", orNA(in.Location))
	fmt.Fprintf(&b, "Description: %s\n", orNA(in.Description))
	fmt.Fprintf(&b, "Timestamp: %s\n", orNA(in.Timestamp))
	b.WriteString("---")
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
