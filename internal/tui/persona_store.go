package tui

import "github.com/diogo/groqchat/internal/config"

// PersonaStore is the read side of persona storage used by the chat UI
type PersonaStore interface {
	List() ([]config.Persona, error)
	Get(name string) (*config.Persona, error)
}

// personaStoreAdapter reads personas through the config package
type personaStoreAdapter struct{}

// NewPersonaStore creates a PersonaStore backed by ~/.groqchat/personas.json
func NewPersonaStore() PersonaStore {
	return personaStoreAdapter{}
}

func (personaStoreAdapter) List() ([]config.Persona, error) {
	pc, err := config.LoadPersonas()
	if err != nil {
		return nil, err
	}
	return pc.Personas, nil
}

func (personaStoreAdapter) Get(name string) (*config.Persona, error) {
	return config.GetPersona(name)
}
