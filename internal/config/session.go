package config

import (
	"fmt"
	"math"
	"strings"

	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
)

// SessionConfig is the per-session configuration read on every completion call.
// It lives only in memory; the API key in particular is never persisted.
type SessionConfig struct {
	APIKey       string
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// NewSessionConfig builds the starting session configuration from the user's
// defaults and an optional persona. Persona model and temperature override
// the defaults when set.
func NewSessionConfig(cfg Config, persona *Persona, apiKey string) SessionConfig {
	sc := SessionConfig{
		APIKey:      strings.TrimSpace(apiKey),
		Model:       cfg.DefaultModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	if persona != nil {
		sc.SystemPrompt = persona.SystemPrompt
		if persona.Model != "" {
			if _, ok := models.ModelFromName(persona.Model); ok {
				sc.Model = persona.Model
			}
		}
		if persona.Temperature != nil && ValidateTemperature(*persona.Temperature) == nil {
			sc.Temperature = *persona.Temperature
		}
	}

	if _, ok := models.ModelFromName(sc.Model); !ok {
		sc.Model = models.DefaultModel.Name
	}
	if ValidateTemperature(sc.Temperature) != nil {
		sc.Temperature = models.DefaultTemperature
	}
	if ValidateMaxTokens(sc.MaxTokens) != nil {
		sc.MaxTokens = models.DefaultMaxTokens
	}

	return sc
}

// HasAPIKey reports whether a credential is present
func (s SessionConfig) HasAPIKey() bool {
	return s.APIKey != ""
}

// MaskedAPIKey returns a display-safe form of the API key
func (s SessionConfig) MaskedAPIKey() string {
	return MaskSecret(s.APIKey)
}

// SetAPIKey replaces the credential
func (s *SessionConfig) SetAPIKey(key string) {
	s.APIKey = strings.TrimSpace(key)
}

// SetModel switches to a supported model
func (s *SessionConfig) SetModel(name string) error {
	m, ok := models.ModelFromName(name)
	if !ok {
		return apierrors.NewConfigurationError("model",
			fmt.Sprintf("unsupported model %q (available: %s)", name, strings.Join(models.ModelNames(), ", ")))
	}
	s.Model = m.Name
	return nil
}

// SetTemperature sets the sampling temperature within [0, 2]
func (s *SessionConfig) SetTemperature(t float64) error {
	if err := ValidateTemperature(t); err != nil {
		return err
	}
	s.Temperature = t
	return nil
}

// SetMaxTokens sets the completion length limit within [256, 8192]
func (s *SessionConfig) SetMaxTokens(n int) error {
	if err := ValidateMaxTokens(n); err != nil {
		return err
	}
	s.MaxTokens = n
	return nil
}

// SetSystemPrompt replaces the system instruction. The text is used verbatim.
func (s *SessionConfig) SetSystemPrompt(prompt string) {
	s.SystemPrompt = prompt
}

// Validate checks every field except the API key
func (s SessionConfig) Validate() error {
	if _, ok := models.ModelFromName(s.Model); !ok {
		return apierrors.NewConfigurationError("model", fmt.Sprintf("unsupported model %q", s.Model))
	}
	if err := ValidateTemperature(s.Temperature); err != nil {
		return err
	}
	return ValidateMaxTokens(s.MaxTokens)
}

// ValidateTemperature checks the [0, 2] range. NaN is never in range.
func ValidateTemperature(t float64) error {
	if math.IsNaN(t) || t < models.MinTemperature || t > models.MaxTemperature {
		return apierrors.NewConfigurationError("temperature",
			fmt.Sprintf("must be between %.1f and %.1f, got %g", models.MinTemperature, models.MaxTemperature, t))
	}
	return nil
}

// ValidateMaxTokens checks the [256, 8192] range
func ValidateMaxTokens(n int) error {
	if n < models.MinMaxTokens || n > models.MaxMaxTokens {
		return apierrors.NewConfigurationError("max_tokens",
			fmt.Sprintf("must be between %d and %d, got %d", models.MinMaxTokens, models.MaxMaxTokens, n))
	}
	return nil
}

// MaskSecret hides all but the last four characters of a secret
func MaskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", 8) + secret[len(secret)-4:]
}
