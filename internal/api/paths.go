// Package api provides the chat completion client for the Groq OpenAI-compatible API.
package api

// GJSON paths for extracting values from completion responses
const (
	PathContent          = "choices.0.message.content"
	PathFinishReason     = "choices.0.finish_reason"
	PathChoices          = "choices"
	PathID               = "id"
	PathModel            = "model"
	PathPromptTokens     = "usage.prompt_tokens"
	PathCompletionTokens = "usage.completion_tokens"
	PathTotalTokens      = "usage.total_tokens"

	// Error envelope: {"error":{"message":"...","type":"...","code":"..."}}
	PathError        = "error"
	PathErrorMessage = "error.message"
	PathErrorType    = "error.type"
)
