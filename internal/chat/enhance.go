package chat

import "strings"

type expansion struct {
	phrase   string
	expanded string
}

// expansions maps common user phrasings onto field-specific retrieval queries.
// First substring match wins and exactly one substitution applies per call.
var expansions = []expansion{
	{"medium risk incidents", "incidents with medium severity level, status open or investigating"},
	{"medium severity", "incidents with severity level medium"},
	{"high risk incidents", "incidents with high severity level"},
	{"critical issues", "incidents with critical severity level"},
	{"critical incidents", "incidents with critical severity level"},
	{"network problems", "network connectivity incidents, outages, connection timeouts, or network-related issues"},
	{"network issues", "network connectivity incidents, outages, connection timeouts, or network-related issues"},
	{"network connectivity", "network connectivity incidents, outages, connection timeouts, or network-related issues"},
	{"database problems", "database connectivity, timeout, or database-related incidents"},
	{"security alerts", "security incidents, unauthorized access, or security-related issues"},
}

// EnhanceQuery rewrites a query for better retrieval. Deterministic and
// explainable: a literal table, no scoring. Unmatched input passes through
// unchanged, which also makes the function idempotent for unmatched text.
func EnhanceQuery(query string) string {
	q := strings.ToLower(query)
	for _, e := range expansions {
		if strings.Contains(q, e.phrase) {
			return e.expanded
		}
	}
	return query
}
