package chat

import "strings"

// Query modes reported to the client. Metadata only: both modes take the same
// path through the answer service.
const (
	ModeReasoning = "reasoning"
	ModeSearch    = "search"
)

// reasoningKeywords are checked first; a reasoning hit always wins over a
// search hit. Mirrored by the client's flow panel, same order, same literals.
var reasoningKeywords = []string{
	"why", "how", "explain", "analyze", "analysis", "reason", "cause", "root cause",
	"pattern", "trend", "insight", "summary", "summarize", "overview",
	"recommend", "suggest", "should", "could", "prevent", "avoid",
	"compare", "correlation", "related", "similar",
	"what happened", "tell me about", "describe",
}

var searchKeywords = []string{
	"list", "show", "get", "find", "what are", "which",
	"open incident", "resolved incident", "investigating",
	"incidents in", "incidents at", "incidents from",
	"all incidents", "active incidents",
}

// DetectQueryMode classifies a query as a simple search or an analytical
// question. Unmatched text defaults to reasoning.
func DetectQueryMode(query string) string {
	q := strings.ToLower(query)

	for _, kw := range reasoningKeywords {
		if strings.Contains(q, kw) {
			return ModeReasoning
		}
	}
	for _, kw := range searchKeywords {
		if strings.Contains(q, kw) {
			return ModeSearch
		}
	}
	return ModeReasoning
}
