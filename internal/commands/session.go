package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/diogo/groqchat/internal/chat"
	"github.com/diogo/groqchat/internal/config"
)

// resolvePersona returns the persona named by the flag, the config file or
// the personas file, in that order
func resolvePersona(cfg config.Config, name string) (*config.Persona, error) {
	if name != "" {
		p, err := config.GetPersona(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load persona '%s': %w", name, err)
		}
		return p, nil
	}

	if cfg.Persona != "" && cfg.Persona != config.DefaultPersonaName {
		if p, err := config.GetPersona(cfg.Persona); err == nil {
			return p, nil
		}
	}

	return config.GetDefaultPersona()
}

// sessionConfig applies flag overrides on top of config and persona defaults
func sessionConfig(cfg config.Config, persona *config.Persona, flags *globalFlags, apiKey string) (config.SessionConfig, error) {
	sc := config.NewSessionConfig(cfg, persona, apiKey)

	if flags.model != "" {
		if err := sc.SetModel(flags.model); err != nil {
			return sc, err
		}
	}
	if flags.temperature >= 0 {
		if err := sc.SetTemperature(flags.temperature); err != nil {
			return sc, err
		}
	}
	if flags.maxTokens != 0 {
		if err := sc.SetMaxTokens(flags.maxTokens); err != nil {
			return sc, err
		}
	}

	return sc, nil
}

// apiKeyFromFlagsOrEnv returns the key without prompting
func apiKeyFromFlagsOrEnv(flags *globalFlags) string {
	if key := strings.TrimSpace(flags.apiKey); key != "" {
		return key
	}
	return config.APIKeyFromEnv()
}

// newSession wires a chat.Session with the configured completer
func newSession(deps *Dependencies, cfg config.Config, flags *globalFlags, apiKey string, logger *log.Logger) (*chat.Session, *config.Persona, error) {
	persona, err := resolvePersona(cfg, flags.persona)
	if err != nil {
		return nil, nil, err
	}

	sc, err := sessionConfig(cfg, persona, flags, apiKey)
	if err != nil {
		return nil, nil, err
	}

	completer, err := deps.NewCompleter(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	session := chat.NewSession(sc, completer, chat.WithLogger(logger))
	logger.Debug("session created",
		"session", session.ID(),
		"model", sc.Model,
		"persona", persona.Name,
		"key", sc.MaskedAPIKey())

	return session, persona, nil
}
