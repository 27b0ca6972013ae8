package chat

import (
	"regexp"
	"strings"
)

var (
	// idCandidate over-matches on purpose; candidates are classified below.
	idCandidate    = regexp.MustCompile(`INC-\d+(?:-\d+)?`)
	canonicalRef   = regexp.MustCompile(`^INC-\d{8}-\d{6}$`)
	legacyShortRef = regexp.MustCompile(`^INC-\d{1,4}$`)
)

// ExtractRefs pulls cited incident identifiers out of an answer. Canonical
// identifiers are returned deduplicated in order of first appearance. Legacy
// short-numeric forms are returned separately: the caller logs them as a
// data-quality warning but never surfaces them.
func ExtractRefs(text string) (refs []string, legacy []string) {
	seen := make(map[string]struct{})
	for _, candidate := range idCandidate.FindAllString(text, -1) {
		switch {
		case canonicalRef.MatchString(candidate):
			if _, ok := seen[candidate]; !ok {
				seen[candidate] = struct{}{}
				refs = append(refs, candidate)
			}
		case legacyShortRef.MatchString(candidate):
			legacy = append(legacy, candidate)
		}
	}
	return refs, legacy
}

// contextKeywords are counted as a proxy for how many records the answer drew
// on, when the answer cites no identifiers.
var contextKeywords = []string{"incident", "severity:", "status:", "location:"}

// keywordsPerRecord divides the keyword count into an estimated record count.
// An approximation, not an exact count.
const keywordsPerRecord = 4

// EstimateContext guesses the number of records behind an uncited answer.
// Returns 0 when the text is too sparse to estimate.
func EstimateContext(text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range contextKeywords {
		count += strings.Count(lower, kw)
	}
	if count <= 10 {
		return 0
	}
	est := count / keywordsPerRecord
	if est < 1 {
		est = 1
	}
	return est
}
