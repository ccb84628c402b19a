package models

import "time"

// Usage reports token accounting for a completion
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the parsed reply of a single completion call
type Completion struct {
	ID           string
	Model        string
	Text         string
	FinishReason string
	Usage        Usage
	// Elapsed is the wall-clock time spent in the blocking request
	Elapsed time.Duration
}

// ElapsedSeconds returns the request latency in seconds
func (c *Completion) ElapsedSeconds() float64 {
	if c == nil {
		return 0
	}
	return c.Elapsed.Seconds()
}

// Message returns the reply as an assistant message
func (c *Completion) Message() Message {
	return NewAssistantMessage(c.Text)
}
