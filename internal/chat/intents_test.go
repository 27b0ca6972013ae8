package chat

import (
	"slices"
	"testing"
)

func TestDetectGreeting_SmallTalk(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantSet []string
	}{
		{name: "hello", message: "hello", wantSet: greetingResponses},
		{name: "hi with punctuation", message: "Hi!!", wantSet: greetingResponses},
		{name: "good morning", message: "good morning", wantSet: greetingResponses},
		{name: "whats up", message: "what's up?", wantSet: greetingResponses},
		{name: "identity question", message: "who are you", wantSet: identityResponses},
		{name: "capability question", message: "what can you do", wantSet: identityResponses},
		{name: "help request", message: "help", wantSet: helpResponses},
		{name: "thanks", message: "thank you", wantSet: thanksResponses},
		{name: "short thanks", message: "ty", wantSet: thanksResponses},
		{name: "farewell", message: "bye", wantSet: farewellResponses},
		{name: "uppercase with whitespace", message: "  HEY  ", wantSet: greetingResponses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, ok := DetectGreeting(tt.message)
			if !ok {
				t.Fatalf("DetectGreeting(%q) = not a greeting, want greeting", tt.message)
			}
			if !slices.Contains(tt.wantSet, reply) {
				t.Errorf("DetectGreeting(%q) = %q, not in expected response set", tt.message, reply)
			}
		})
	}
}

func TestDetectGreeting_DataQueries(t *testing.T) {
	queries := []string{
		"show critical incidents",
		"what happened in Server Room",
		"list open incidents",
		"why did the outage happen",
		"hello world how many incidents are open", // greeting word embedded in a query
	}
	for _, q := range queries {
		if reply, ok := DetectGreeting(q); ok {
			t.Errorf("DetectGreeting(%q) = %q, want no match", q, reply)
		}
	}
}
