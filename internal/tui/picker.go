package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/groqchat/internal/config"
)

// personaPicker is the overlay opened by /persona without arguments
type personaPicker struct {
	open     bool
	personas []config.Persona
	cursor   int
	filter   string
}

// show opens the picker with the cursor on the active persona
func (p *personaPicker) show(personas []config.Persona, active string) {
	p.open = true
	p.personas = personas
	p.filter = ""
	p.cursor = 0
	for i, persona := range personas {
		if persona.Name == active {
			p.cursor = i
			break
		}
	}
}

func (p *personaPicker) close() {
	*p = personaPicker{}
}

// filtered returns personas matching the typed filter
func (p personaPicker) filtered() []config.Persona {
	if p.filter == "" {
		return p.personas
	}
	filter := strings.ToLower(p.filter)
	var out []config.Persona
	for _, persona := range p.personas {
		if strings.Contains(strings.ToLower(persona.Name), filter) ||
			strings.Contains(strings.ToLower(persona.Description), filter) {
			out = append(out, persona)
		}
	}
	return out
}

// updatePicker handles keys while the picker is open
func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case sessionEventMsg:
		return m, m.waitForEvent()

	case tea.KeyMsg:
		items := m.picker.filtered()
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.picker.close()
		case "up", "k":
			if len(items) > 0 {
				m.picker.cursor = (m.picker.cursor - 1 + len(items)) % len(items)
			}
		case "down", "j":
			if len(items) > 0 {
				m.picker.cursor = (m.picker.cursor + 1) % len(items)
			}
		case "enter":
			if m.picker.cursor < len(items) {
				selected := items[m.picker.cursor]
				m.picker.close()
				m.usePersona(&selected)
			}
		case "backspace":
			if len(m.picker.filter) > 0 {
				m.picker.filter = m.picker.filter[:len(m.picker.filter)-1]
				m.picker.cursor = 0
			}
		default:
			if s := msg.String(); len(s) == 1 && s[0] >= ' ' && s[0] <= '~' {
				m.picker.filter += s
				m.picker.cursor = 0
			}
		}
	}

	return m, nil
}

// view renders the picker box
func (p personaPicker) view(width int) string {
	width -= 8
	if width < 40 {
		width = 40
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Select a persona"))
	sb.WriteString("\n\n")

	if p.filter != "" {
		sb.WriteString(inputLabelStyle.Render("filter: ") + p.filter + "_\n\n")
	}

	items := p.filtered()
	if len(items) == 0 {
		sb.WriteString(hintStyle.Render("  No personas match"))
	}
	for i, persona := range items {
		line := pickerItemStyle.Render(persona.Name)
		if i == p.cursor {
			line = pickerSelectedStyle.Render("▸ " + persona.Name)
		}
		if persona.Description != "" {
			line += hintStyle.Render(" - " + persona.Description)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s%s  │  %s%s  │  %s%s",
		statusKeyStyle.Render("↑↓"), statusDescStyle.Render(" navigate"),
		statusKeyStyle.Render("Enter"), statusDescStyle.Render(" select"),
		statusKeyStyle.Render("Esc"), statusDescStyle.Render(" cancel"),
	))

	return pickerBoxStyle.Width(width).Render(sb.String())
}
