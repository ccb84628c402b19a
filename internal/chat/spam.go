// Package chat holds the conversation core: the message store, the repeat
// guard, context windowing and the turn orchestrator that ties them to a
// completion client.
package chat

import "strings"

// SpamThreshold is the repeat count at which input is suppressed
const SpamThreshold = 3

// SpamWarning is shown when a message is suppressed as a repeat
const SpamWarning = "You keep sending the same message. Try asking something else!"

// SpamGuard detects the same message being sent over and over.
// Comparison ignores case and surrounding whitespace.
type SpamGuard struct {
	lastMessage string
	repeatCount int
}

// NewSpamGuard creates an empty guard
func NewSpamGuard() *SpamGuard {
	return &SpamGuard{}
}

// Check records raw and reports whether it should be suppressed.
// The tracker is not reset here; callers reset after acting on a suppression.
func (g *SpamGuard) Check(raw string) bool {
	normalized := normalize(raw)

	if normalized == g.lastMessage {
		g.repeatCount++
	} else {
		g.repeatCount = 0
		g.lastMessage = normalized
	}

	return g.repeatCount >= SpamThreshold
}

// Reset zeroes the repeat count but keeps the last message,
// so suppression pulses every SpamThreshold further repeats.
func (g *SpamGuard) Reset() {
	g.repeatCount = 0
}

// Forget clears both the count and the remembered message
func (g *SpamGuard) Forget() {
	g.repeatCount = 0
	g.lastMessage = ""
}

// RepeatCount returns the current consecutive repeat count
func (g *SpamGuard) RepeatCount() int {
	return g.repeatCount
}

// LastMessage returns the last normalized message seen
func (g *SpamGuard) LastMessage() string {
	return g.lastMessage
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
