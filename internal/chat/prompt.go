package chat

import (
	"fmt"
	"strings"
)

// Message is one turn of conversation history supplied by the client. History
// is never persisted; it exists only to build the prompt.
type Message struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// historyWindow bounds the prompt to the last 3 turns (6 messages).
const historyWindow = 6

const promptTemplate = `Context: You have access to incident records with these fields:
- incident_id: Unique ID in format INC-YYYYMMDD-HHMMSS (always cite this)
- title: Short description of the incident
- status: Current state (open, investigating, resolved, closed)
- severity: Impact level (low, medium, high, critical)
- location: Physical/logical location (e.g., Block A, Block B, Data Center)
- description: Detailed incident information
- timestamp: When incident occurred
- timeline/updates: Recent changes to the incident

CONVERSATION HISTORY:
%s

IMPORTANT QUERY INTERPRETATION:
- "incidents" means all incidents regardless of severity
- "medium/high/critical/low" refers to the severity field
- "network/database/security" keywords appear in title or description
- "Block A/B/C" or location terms refer to the location field
- "open/investigating/resolved" refers to the status field

ACCURACY REQUIREMENTS:
- When reporting status, severity, or location, try to use the EXACT value from the record
- You MAY infer categories (e.g., "connection timeout" implies "network/database issue")
- If a record says "status: resolved", report it as RESOLVED
- NEVER mention file paths, cache directories, or technical implementation details
- Refer to data as "incident records" not "files" or "cache"
- CRITICAL: When asked to "list all" or "summarize", CHECK EVERY SINGLE RECORD provided in the context. Do not stop after the first match.

MULTI-PART QUERIES:
- If the user asks about multiple severity levels (e.g., "critical AND high"), answer BOTH
- List ALL matching incidents for EACH requested category

When you mention specific incidents, ALWAYS include their exact incident ID from the records.
Example: "Incident INC-20260108-092438 (status: resolved) describes..."

NEVER use legacy ID formats like INC-101, INC-102, or INC-1102.

User query: %s

Please provide an accurate, complete answer citing incident IDs and exact field values.`

// BuildPrompt embeds the rewritten query and the bounded history into the
// fixed answer-service template.
func BuildPrompt(enhancedQuery string, history []Message) string {
	var hist strings.Builder
	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	for _, msg := range history[start:] {
		role := "AI"
		if strings.EqualFold(msg.Sender, "user") {
			role = "User"
		}
		fmt.Fprintf(&hist, "%s: %s\n", role, msg.Message)
	}
	return fmt.Sprintf(promptTemplate, hist.String(), enhancedQuery)
}
