package chat

import "fmt"

// QuickAction is a canned prompt offered as a conversation starter
type QuickAction struct {
	Label  string
	Prompt string
}

// QuickActions returns the built-in conversation starters
func QuickActions() []QuickAction {
	return []QuickAction{
		{Label: "Explain AI", Prompt: "Explain what AI is in simple terms"},
		{Label: "Productivity tips", Prompt: "Give me 5 productivity tips"},
		{Label: "Tell a joke", Prompt: "Tell me a funny joke"},
		{Label: "Simple recipe", Prompt: "Give me a simple, tasty recipe"},
	}
}

// QuickActionByNumber returns the 1-based quick action
func QuickActionByNumber(n int) (QuickAction, error) {
	actions := QuickActions()
	if n < 1 || n > len(actions) {
		return QuickAction{}, fmt.Errorf("quick action must be between 1 and %d", len(actions))
	}
	return actions[n-1], nil
}
