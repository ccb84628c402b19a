package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/groqchat/internal/chat"
	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/models"
)

// slashCommand describes one chat command for /help
type slashCommand struct {
	name  string
	usage string
	desc  string
}

var slashCommands = []slashCommand{
	{"key", "/key <api-key>", "set the API key for this session (empty clears it)"},
	{"model", "/model [name]", "show or switch the model"},
	{"temp", "/temp <0-2>", "set the temperature"},
	{"tokens", "/tokens <256-8192>", "set the max response tokens"},
	{"system", "/system [prompt]", "show or replace the system prompt"},
	{"persona", "/persona [name]", "pick or switch persona"},
	{"clear", "/clear", "clear the conversation"},
	{"copy", "/copy", "copy the last reply to the clipboard"},
	{"export", "/export [path]", "save the conversation as markdown or json"},
	{"quick", "/quick <1-4>", "send a quick action prompt"},
	{"help", "/help", "show this help"},
	{"exit", "/exit", "quit"},
}

// isCommand reports whether input is a slash command or a bare exit word
func isCommand(input string) bool {
	return strings.HasPrefix(input, "/") || input == "exit" || input == "quit"
}

// parseCommand splits "/name rest of line" into name and argument
func parseCommand(input string) (name, arg string) {
	input = strings.TrimSpace(input)
	if input == "exit" || input == "quit" {
		return "exit", ""
	}
	input = strings.TrimPrefix(input, "/")
	name, arg, _ = strings.Cut(input, " ")
	return strings.ToLower(name), strings.TrimSpace(arg)
}

// runCommand executes a slash command
func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	name, arg := parseCommand(input)

	switch name {
	case "exit", "quit", "q":
		return m, tea.Quit

	case "help", "?":
		m.notice = helpText()

	case "key":
		m.session.SetAPIKey(arg)
		if arg == "" {
			m.warning = "API key cleared. Get one at " + models.KeysConsoleURL
		} else {
			m.notice = "API key set: " + m.session.Config().MaskedAPIKey()
		}

	case "model":
		if arg == "" {
			m.notice = "Models: " + strings.Join(models.ModelNames(), ", ")
			break
		}
		if err := m.session.SetModel(arg); err != nil {
			m.err = err
			break
		}
		m.notice = "Model set to " + m.session.Config().Model

	case "temp", "temperature":
		t, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			m.err = fmt.Errorf("temperature must be a number")
			break
		}
		if err := m.session.SetTemperature(t); err != nil {
			m.err = err
			break
		}
		m.notice = fmt.Sprintf("Temperature set to %.1f", t)

	case "tokens", "max_tokens":
		n, err := strconv.Atoi(arg)
		if err != nil {
			m.err = fmt.Errorf("max tokens must be an integer")
			break
		}
		if err := m.session.SetMaxTokens(n); err != nil {
			m.err = err
			break
		}
		m.notice = fmt.Sprintf("Max tokens set to %d", n)

	case "system":
		if arg == "" {
			m.notice = "System prompt: " + m.session.Config().SystemPrompt
			break
		}
		m.session.SetSystemPrompt(arg)
		m.persona = ""
		m.notice = "System prompt updated"

	case "persona":
		if arg == "" {
			return m, m.loadPersonas()
		}
		p, err := m.opts.Personas.Get(arg)
		if err != nil {
			m.err = err
			break
		}
		m.usePersona(p)

	case "clear":
		if err := m.session.Clear(); err != nil {
			m.err = err
			break
		}
		m.notice = "Conversation cleared"
		m.refresh()

	case "copy":
		reply, ok := lastReply(m.session.Messages())
		if !ok {
			m.warning = "No reply to copy yet"
			break
		}
		if err := m.opts.CopyClipboard(reply); err != nil {
			m.err = fmt.Errorf("failed to copy: %w", err)
			break
		}
		m.notice = "Last reply copied to clipboard"

	case "export":
		format := chat.ExportFormatMarkdown
		if strings.HasSuffix(strings.ToLower(arg), ".json") {
			format = chat.ExportFormatJSON
		}
		path, err := m.session.ExportToFile(arg, format)
		if err != nil {
			m.err = err
			break
		}
		m.notice = "Conversation exported to " + path

	case "quick":
		n, err := strconv.Atoi(arg)
		if err != nil {
			m.err = fmt.Errorf("usage: /quick <1-%d>", len(chat.QuickActions()))
			break
		}
		action, err := chat.QuickActionByNumber(n)
		if err != nil {
			m.err = err
			break
		}
		return m.submit(action.Prompt)

	default:
		m.err = fmt.Errorf("unknown command /%s (try /help)", name)
	}

	return m, nil
}

// usePersona applies a persona to the session
func (m *Model) usePersona(p *config.Persona) {
	m.session.ApplyPersona(p)
	m.persona = p.Name
	m.notice = "Persona set to " + p.Name
}

// loadPersonas fetches personas for the picker
func (m Model) loadPersonas() tea.Cmd {
	store := m.opts.Personas
	return func() tea.Msg {
		personas, err := store.List()
		return personasLoadedMsg{personas: personas, err: err}
	}
}

// lastReply returns the newest assistant message
func lastReply(messages []models.Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == models.RoleAssistant {
			return messages[i].Content, true
		}
	}
	return "", false
}

func helpText() string {
	var sb strings.Builder
	sb.WriteString("Commands:")
	for _, c := range slashCommands {
		sb.WriteString(fmt.Sprintf("\n  %-20s %s", c.usage, c.desc))
	}
	return sb.String()
}

func copyToClipboard(text string) error {
	return clipboard.WriteAll(text)
}
