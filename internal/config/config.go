// Package config handles user defaults, personas and the in-memory session
// configuration for groqchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
)

// Environment variables read at startup
const (
	EnvAPIKey  = "GROQ_API_KEY"
	EnvBaseURL = "GROQCHAT_BASE_URL"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config holds the user's defaults. A new session starts from these values;
// changes made during a session are never written back.
type Config struct {
	DefaultModel string  `json:"default_model"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	// Persona names the system prompt preset used when a session starts.
	Persona string `json:"persona,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
	// TimeoutSeconds is the transport timeout for a completion call.
	TimeoutSeconds int `json:"timeout_seconds"`
	// RequestsPerMinute paces outgoing completion calls. Zero disables pacing.
	RequestsPerMinute int            `json:"requests_per_minute"`
	Verbose           bool           `json:"verbose"`
	CopyToClipboard   bool           `json:"copy_to_clipboard"`
	TUITheme          string         `json:"tui_theme,omitempty"`
	Markdown          MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DefaultModel:      models.DefaultModel.Name,
		Temperature:       models.DefaultTemperature,
		MaxTokens:         models.DefaultMaxTokens,
		Persona:           DefaultPersonaName,
		BaseURL:           models.DefaultBaseURL,
		TimeoutSeconds:    120,
		RequestsPerMinute: 30, // Groq free tier
		Verbose:           false,
		CopyToClipboard:   false,
		TUITheme:          "tokyonight",
		Markdown:          DefaultMarkdownConfig(),
	}
}

// Validate checks that the defaults would produce a usable session
func (c Config) Validate() error {
	if _, ok := models.ModelFromName(c.DefaultModel); !ok {
		return apierrors.NewConfigurationError("default_model",
			fmt.Sprintf("unsupported model %q (available: %s)", c.DefaultModel, strings.Join(models.ModelNames(), ", ")))
	}
	if err := ValidateTemperature(c.Temperature); err != nil {
		return err
	}
	if err := ValidateMaxTokens(c.MaxTokens); err != nil {
		return err
	}
	if c.TimeoutSeconds < 0 {
		return apierrors.NewConfigurationError("timeout_seconds", "must not be negative")
	}
	if c.RequestsPerMinute < 0 {
		return apierrors.NewConfigurationError("requests_per_minute", "must not be negative")
	}
	return nil
}

// ResolveBaseURL returns the completion API base URL.
// The environment takes precedence over the config file.
func (c Config) ResolveBaseURL() string {
	if env := strings.TrimSpace(os.Getenv(EnvBaseURL)); env != "" {
		return strings.TrimRight(env, "/")
	}
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return models.DefaultBaseURL
}

// APIKeyFromEnv returns the API key from the environment, if set
func APIKeyFromEnv() string {
	return strings.TrimSpace(os.Getenv(EnvAPIKey))
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".groqchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path of the verbose log written during chat sessions
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "groqchat.log"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, "config.json"), data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SettableKeys lists the keys accepted by Set, in display order
func SettableKeys() []string {
	return []string{
		"default_model",
		"temperature",
		"max_tokens",
		"persona",
		"base_url",
		"timeout_seconds",
		"requests_per_minute",
		"verbose",
		"copy_to_clipboard",
		"tui_theme",
		"markdown.style",
	}
}

// Set updates one key from its string form and validates the result
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	next := *c

	switch key {
	case "default_model":
		next.DefaultModel = value
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return apierrors.NewConfigurationError(key, "must be a number")
		}
		next.Temperature = f
	case "max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return apierrors.NewConfigurationError(key, "must be an integer")
		}
		next.MaxTokens = n
	case "persona":
		next.Persona = value
	case "base_url":
		next.BaseURL = value
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return apierrors.NewConfigurationError(key, "must be an integer")
		}
		next.TimeoutSeconds = n
	case "requests_per_minute":
		n, err := strconv.Atoi(value)
		if err != nil {
			return apierrors.NewConfigurationError(key, "must be an integer")
		}
		next.RequestsPerMinute = n
	case "verbose", "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return apierrors.NewConfigurationError(key, "must be true or false")
		}
		if key == "verbose" {
			next.Verbose = b
		} else {
			next.CopyToClipboard = b
		}
	case "tui_theme":
		next.TUITheme = value
	case "markdown.style":
		next.Markdown.Style = value
	default:
		return apierrors.NewConfigurationError(key,
			fmt.Sprintf("unknown key (valid keys: %s)", strings.Join(SettableKeys(), ", ")))
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Get returns the string form of a key, as accepted by Set
func (c Config) Get(key string) (string, error) {
	switch key {
	case "default_model":
		return c.DefaultModel, nil
	case "temperature":
		return strconv.FormatFloat(c.Temperature, 'f', -1, 64), nil
	case "max_tokens":
		return strconv.Itoa(c.MaxTokens), nil
	case "persona":
		return c.Persona, nil
	case "base_url":
		return c.BaseURL, nil
	case "timeout_seconds":
		return strconv.Itoa(c.TimeoutSeconds), nil
	case "requests_per_minute":
		return strconv.Itoa(c.RequestsPerMinute), nil
	case "verbose":
		return strconv.FormatBool(c.Verbose), nil
	case "copy_to_clipboard":
		return strconv.FormatBool(c.CopyToClipboard), nil
	case "tui_theme":
		return c.TUITheme, nil
	case "markdown.style":
		return c.Markdown.Style, nil
	}
	return "", apierrors.NewConfigurationError(key, "unknown key")
}
