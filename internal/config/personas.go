package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/diogo/groqchat/internal/models"
)

// DefaultPersonaName is the persona used when none is configured
const DefaultPersonaName = "default"

// Persona is a named system prompt preset
type Persona struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	SystemPrompt string   `json:"system_prompt"`
	Model        string   `json:"model,omitempty"`       // Preferred model (optional)
	Temperature  *float64 `json:"temperature,omitempty"` // Preferred temperature (optional)
}

// PersonaConfig stores all personas
type PersonaConfig struct {
	Personas       []Persona `json:"personas"`
	DefaultPersona string    `json:"default_persona,omitempty"`
}

// DefaultSystemPrompt is the instruction of the built-in default persona
const DefaultSystemPrompt = "You are a helpful, friendly and smart AI assistant. " +
	"Answer in a relaxed but informative tone. " +
	"If the user sends the same message over and over, gently remind them to ask something else. " +
	"Keep answers short and to the point, not too long."

// DefaultPersonas returns pre-configured personas
func DefaultPersonas() []Persona {
	return []Persona{
		{
			Name:         DefaultPersonaName,
			Description:  "Friendly, concise assistant",
			SystemPrompt: DefaultSystemPrompt,
		},
		{
			Name:        "coder",
			Description: "Expert programmer assistant",
			SystemPrompt: `You are an expert software engineer. When answering:
- Prefer working code over long explanations
- Point out edge cases and failure modes
- Use idiomatic style for the language in question
- Keep examples minimal and runnable`,
		},
		{
			Name:        "writer",
			Description: "Creative writing assistant",
			SystemPrompt: `You are a creative writing assistant. Your goal is to:
- Help with storytelling and content creation
- Keep tone and style consistent
- Offer alternatives when asked`,
		},
		{
			Name:        "teacher",
			Description: "Patient educational assistant",
			SystemPrompt: `You are a patient teacher. When explaining:
- Break complex topics into simple parts
- Use analogies and examples
- Adapt explanations to the learner's level`,
		},
	}
}

// GetPersonasPath returns the path to the personas file
func GetPersonasPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "personas.json"), nil
}

// LoadPersonas loads the persona configuration, merged over the built-in defaults
func LoadPersonas() (*PersonaConfig, error) {
	path, err := GetPersonasPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PersonaConfig{
				Personas:       DefaultPersonas(),
				DefaultPersona: DefaultPersonaName,
			}, nil
		}
		return nil, fmt.Errorf("failed to read personas: %w", err)
	}

	var pc PersonaConfig
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, fmt.Errorf("failed to parse personas: %w", err)
	}

	pc.Personas = mergePersonas(DefaultPersonas(), pc.Personas)
	if pc.DefaultPersona == "" {
		pc.DefaultPersona = DefaultPersonaName
	}

	return &pc, nil
}

// SavePersonas saves the persona configuration
func SavePersonas(pc *PersonaConfig) error {
	dir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(pc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal personas: %w", err)
	}

	return os.WriteFile(filepath.Join(dir, "personas.json"), data, 0o600)
}

// GetPersona returns a persona by name
func GetPersona(name string) (*Persona, error) {
	pc, err := LoadPersonas()
	if err != nil {
		return nil, err
	}
	return pc.Find(name)
}

// Find returns the named persona from the loaded set
func (pc *PersonaConfig) Find(name string) (*Persona, error) {
	for i := range pc.Personas {
		if pc.Personas[i].Name == name {
			p := pc.Personas[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("persona '%s' not found", name)
}

// ListPersonaNames returns the names of all personas, sorted
func ListPersonaNames() ([]string, error) {
	pc, err := LoadPersonas()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(pc.Personas))
	for i, p := range pc.Personas {
		names[i] = p.Name
	}
	sort.Strings(names)
	return names, nil
}

// AddPersona adds a new persona
func AddPersona(persona Persona) error {
	if err := ValidatePersona(persona); err != nil {
		return err
	}

	pc, err := LoadPersonas()
	if err != nil {
		return err
	}

	if _, err := pc.Find(persona.Name); err == nil {
		return fmt.Errorf("persona '%s' already exists", persona.Name)
	}

	pc.Personas = append(pc.Personas, persona)
	return SavePersonas(pc)
}

// DeletePersona removes a persona by name
func DeletePersona(name string) error {
	if name == DefaultPersonaName {
		return fmt.Errorf("cannot delete the default persona")
	}

	pc, err := LoadPersonas()
	if err != nil {
		return err
	}

	kept := make([]Persona, 0, len(pc.Personas))
	found := false
	for _, p := range pc.Personas {
		if p.Name == name {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return fmt.Errorf("persona '%s' not found", name)
	}

	pc.Personas = kept
	if pc.DefaultPersona == name {
		pc.DefaultPersona = DefaultPersonaName
	}

	return SavePersonas(pc)
}

// SetDefaultPersona sets the persona used by new sessions
func SetDefaultPersona(name string) error {
	pc, err := LoadPersonas()
	if err != nil {
		return err
	}
	if _, err := pc.Find(name); err != nil {
		return err
	}

	pc.DefaultPersona = name
	return SavePersonas(pc)
}

// GetDefaultPersona returns the default persona
func GetDefaultPersona() (*Persona, error) {
	pc, err := LoadPersonas()
	if err != nil {
		return nil, err
	}
	return pc.Find(pc.DefaultPersona)
}

// mergePersonas overlays custom personas on the defaults, replacing by name
func mergePersonas(defaults, custom []Persona) []Persona {
	result := make([]Persona, len(defaults))
	copy(result, defaults)

	for _, cp := range custom {
		replaced := false
		for i := range result {
			if result[i].Name == cp.Name {
				result[i] = cp
				replaced = true
				break
			}
		}
		if !replaced {
			result = append(result, cp)
		}
	}

	return result
}

// Validation constants
const (
	MaxNameLength        = 50
	MaxDescriptionLength = 200
	MaxPromptLength      = 32 * 1024
)

// ValidatePersona validates a persona's fields
func ValidatePersona(p Persona) error {
	fieldErrors := make(map[string]string)

	switch {
	case p.Name == "":
		fieldErrors["name"] = "name is required"
	case len(p.Name) > MaxNameLength:
		fieldErrors["name"] = fmt.Sprintf("name too long (max %d characters)", MaxNameLength)
	case !isValidPersonaName(p.Name):
		fieldErrors["name"] = "name must contain only alphanumeric characters, underscores, and hyphens"
	}

	if len(p.Description) > MaxDescriptionLength {
		fieldErrors["description"] = fmt.Sprintf("description too long (max %d characters)", MaxDescriptionLength)
	}

	if len(p.SystemPrompt) > MaxPromptLength {
		fieldErrors["system_prompt"] = fmt.Sprintf("system prompt too long (max %d characters)", MaxPromptLength)
	}

	if p.Model != "" {
		if _, ok := models.ModelFromName(p.Model); !ok {
			fieldErrors["model"] = fmt.Sprintf("unsupported model %q", p.Model)
		}
	}

	if p.Temperature != nil {
		if err := ValidateTemperature(*p.Temperature); err != nil {
			fieldErrors["temperature"] = err.Error()
		}
	}

	if len(fieldErrors) > 0 {
		return fmt.Errorf("validation failed: %v", fieldErrors)
	}

	return nil
}

func isValidPersonaName(name string) bool {
	for _, c := range name {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-') {
			return false
		}
	}
	return true
}
