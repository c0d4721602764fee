package chat

import (
	"math/rand"
	"strings"
)

const (
	greetingReply = "Hello! It's great to hear from you. What would you like to talk about?"
	helpReply     = "I'm here to help! You can ask me about various topics, and I'll do my best to provide useful information and assistance."
	weatherReply  = "I don't have access to real-time weather data, but I'd recommend checking a weather app or website for the most current conditions in your area."
)

var genericReplies = []string{
	"That's an interesting question! Let me think about that for you.",
	"I understand what you're asking. Here's what I can tell you about that topic.",
	"Great question! I'm here to help you with that.",
	"I see what you mean. Let me provide you with some information.",
	"Thanks for asking! I'd be happy to help you with that.",
	"That's a good point you're making. Here's my perspective on it.",
	"I appreciate you sharing that with me. Let me respond thoughtfully.",
}

// Responder fabricates bot replies from canned strings.
type Responder struct {
	// intn picks the generic reply. Overridable for deterministic tests.
	intn func(n int) int
}

// NewResponder instantiates a responder backed by the default random source.
func NewResponder() *Responder {
	return &Responder{intn: rand.Intn}
}

// Reply computes a reply for the given prompt. Matching is case-insensitive
// substring, first branch wins; prompts matching no branch get a random pick
// from the generic pool.
func (r *Responder) Reply(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "hello") || strings.Contains(lower, "hi"):
		return greetingReply
	case strings.Contains(lower, "help"):
		return helpReply
	case strings.Contains(lower, "weather"):
		return weatherReply
	}
	return genericReplies[r.intn(len(genericReplies))]
}
