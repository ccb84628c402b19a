// Package models contains data types and constants for the Groq chat completion API.
package models

import "strings"

// Endpoints for the Groq OpenAI-compatible API
const (
	DefaultBaseURL      = "https://api.groq.com/openai/v1"
	PathChatCompletions = "/chat/completions"
	KeysConsoleURL      = "https://console.groq.com/keys"
)

// Parameter bounds accepted by the session configuration
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
	MinMaxTokens   = 256
	MaxMaxTokens   = 8192

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048
)

// Model describes a hosted model that can serve completions
type Model struct {
	Name        string
	Description string
}

// Available models
var (
	ModelLlama33Versatile = Model{
		Name:        "llama-3.3-70b-versatile",
		Description: "Llama 3.3 70B - smartest and fastest",
	}

	ModelLlama31Versatile = Model{
		Name:        "llama-3.1-70b-versatile",
		Description: "Llama 3.1 70B",
	}

	ModelMixtral = Model{
		Name:        "mixtral-8x7b-32768",
		Description: "Mixtral 8x7B, 32k context",
	}

	ModelGemma2 = Model{
		Name:        "gemma2-9b-it",
		Description: "Gemma 2 9B instruction tuned",
	}

	// DefaultModel is the recommended default
	DefaultModel = ModelLlama33Versatile
)

// AllModels returns a list of all available models
func AllModels() []Model {
	return []Model{ModelLlama33Versatile, ModelLlama31Versatile, ModelMixtral, ModelGemma2}
}

// ModelNames returns the names of all available models
func ModelNames() []string {
	all := AllModels()
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = m.Name
	}
	return names
}

// ModelFromName returns a Model by its name.
// The second return value is false when the name is not supported.
func ModelFromName(name string) (Model, bool) {
	name = strings.TrimSpace(name)
	for _, m := range AllModels() {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

// DefaultHeaders returns the default headers for completion requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "groqchat/0.1",
	}
}
