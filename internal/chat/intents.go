// Package chat holds the deterministic routing layer in front of the answer
// service: greeting detection, query-mode classification, and query rewriting.
// Everything here is an ordered literal table; the query-mode tables are a
// shared contract mirrored verbatim by the web client, so entries must never
// be reordered or "improved" without changing both sides.
package chat

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

// greetingPatterns is the first classification pass: does the message look
// like small talk at all? First match wins.
var greetingPatterns = []*regexp.Regexp{
	// Simple greetings
	regexp.MustCompile(`^(hi|hello|hey|hii+|helo+)[\s!.,?]*$`),
	regexp.MustCompile(`^(good\s*)?(morning|afternoon|evening|night)[\s!.,?]*$`),
	regexp.MustCompile(`^(howdy|hiya|yo|sup)[\s!.,?]*$`),
	// How are you variants
	regexp.MustCompile(`^how\s*(are|r)\s*(you|u|ya)[\s!.,?]*$`),
	regexp.MustCompile(`^what'?s\s*up[\s!.,?]*$`),
	regexp.MustCompile(`^how\s*(is\s*it\s*)?going[\s!.,?]*$`),
	// Identity questions
	regexp.MustCompile(`^(who|what)\s*(are|r)\s*(you|u)[\s!.,?]*$`),
	regexp.MustCompile(`^what\s*(can|do)\s*(you|u)\s*do[\s!.,?]*$`),
	regexp.MustCompile(`^(help|help me)[\s!.,?]*$`),
	// Thanks
	regexp.MustCompile(`^(thanks?|thank\s*you|ty)[\s!.,?]*$`),
	regexp.MustCompile(`^(ok|okay|cool|great|nice)[\s!.,?]*$`),
	// Bye
	regexp.MustCompile(`^(bye|goodbye|see\s*you?|later)[\s!.,?]*$`),
}

// Second pass: pick the response category with broader patterns.
var (
	identityProbe  = regexp.MustCompile(`.*(who|what).*(are|r).*(you|u).*`)
	identityProbe2 = regexp.MustCompile(`.*what.*(can|do).*do.*`)
	helpProbe      = regexp.MustCompile(`.*(help).*`)
	thanksProbe    = regexp.MustCompile(`.*(thank|ty).*`)
	farewellProbe  = regexp.MustCompile(`.*(bye|goodbye|see\s*you|later).*`)
)

var greetingResponses = []string{
	"Hi! I'm your Incident Intelligence assistant. I can help you track, search, and analyze incidents. Try asking about active incidents, severity levels, or specific locations!",
	"Hello! I can help you with incident queries. Ask me things like 'show critical incidents' or 'what happened in Server Room'.",
	"Hey there! I'm here to help you understand your incident data. What would you like to know?",
}

var identityResponses = []string{
	"I'm the Incident Intelligence AI assistant. I help you search, analyze, and understand incident records. Try asking about active incidents, their status, or trends!",
	"I'm your AI-powered incident analyst. I can answer questions about incidents, their severity, locations, and status. How can I help?",
}

var helpResponses = []string{
	"I can help you with:\n• Listing active incidents\n• Finding incidents by location or severity\n• Checking incident status\n• Analyzing incident patterns\n\nTry asking: 'Show all critical incidents' or 'What incidents are open?'",
}

var thanksResponses = []string{
	"You're welcome! Let me know if you need anything else about your incidents.",
	"Happy to help! Feel free to ask more questions about incidents.",
}

var farewellResponses = []string{
	"Goodbye! Come back anytime you need help with incidents.",
	"See you! I'll be here if you need incident intel.",
}

// DetectGreeting reports whether message is small talk and, if so, returns a
// canned response drawn at random from the matched category's set. A false
// return means the message is a data query.
func DetectGreeting(message string) (string, bool) {
	msg := strings.ToLower(strings.TrimSpace(message))

	for _, pattern := range greetingPatterns {
		if !pattern.MatchString(msg) {
			continue
		}
		switch {
		case identityProbe.MatchString(msg) || identityProbe2.MatchString(msg):
			return pick(identityResponses), true
		case helpProbe.MatchString(msg):
			return pick(helpResponses), true
		case thanksProbe.MatchString(msg):
			return pick(thanksResponses), true
		case farewellProbe.MatchString(msg):
			return pick(farewellResponses), true
		default:
			return pick(greetingResponses), true
		}
	}
	return "", false
}

func pick(responses []string) string {
	return responses[rand.IntN(len(responses))]
}
