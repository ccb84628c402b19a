package chat

import "github.com/diogo/groqchat/internal/models"

// ContextWindowSize is how many recent messages are sent with each request
const ContextWindowSize = 10

// BuildContextWindow returns the system prompt followed by the last
// ContextWindowSize messages of history, in order. history is not modified.
func BuildContextWindow(history []models.Message, systemPrompt string) []models.Message {
	start := 0
	if len(history) > ContextWindowSize {
		start = len(history) - ContextWindowSize
	}
	recent := history[start:]

	window := make([]models.Message, 0, len(recent)+1)
	window = append(window, models.NewSystemMessage(systemPrompt))
	window = append(window, recent...)
	return window
}
