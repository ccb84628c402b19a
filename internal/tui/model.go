package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/groqchat/internal/chat"
	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/models"
	"github.com/diogo/groqchat/internal/render"
)

// Message types for the TUI
type (
	// sessionEventMsg carries a session event into the update loop
	sessionEventMsg chat.Event

	// turnDoneMsg is sent when a submitted turn finishes
	turnDoneMsg struct {
		result *chat.TurnResult
		err    error
	}

	personasLoadedMsg struct {
		personas []config.Persona
		err      error
	}
)

// Options configures the chat UI
type Options struct {
	Personas      PersonaStore
	PersonaName   string
	Markdown      config.MarkdownConfig
	Theme         string
	CopyClipboard func(string) error
}

// Model represents the TUI state
type Model struct {
	ctx     context.Context
	session *chat.Session
	opts    Options

	events      chan chat.Event
	unsubscribe func()

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	ready   bool
	sending bool
	notice  string
	warning string
	err     error

	persona string
	picker  personaPicker

	width  int
	height int
}

// eventBuffer bounds queued session events between redraws
const eventBuffer = 64

// NewChatModel creates a chat model bound to a session
func NewChatModel(ctx context.Context, session *chat.Session, opts Options) Model {
	if opts.Personas == nil {
		opts.Personas = NewPersonaStore()
	}
	if opts.CopyClipboard == nil {
		opts.CopyClipboard = copyToClipboard
	}
	ApplyTheme(opts.Theme)

	ta := textarea.New()
	ta.Placeholder = "Type your message, or /help for commands..."
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	events := make(chan chat.Event, eventBuffer)
	unsubscribe := session.Subscribe(func(ev chat.Event) {
		select {
		case events <- ev:
		default:
			// Redraw is driven by the latest state, so a dropped event is harmless
		}
	})

	return Model{
		ctx:         ctx,
		session:     session,
		opts:        opts,
		events:      events,
		unsubscribe: unsubscribe,
		textarea:    ta,
		spinner:     s,
		persona:     opts.PersonaName,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForEvent())
}

// waitForEvent blocks until the session publishes an event
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return sessionEventMsg(ev)
	}
}

// Close detaches the model from its session
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.picker.open {
		return m.updatePicker(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.sending {
				return m, tea.Quit
			}
		case "enter":
			if m.sending {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.clearStatus()

			if isCommand(input) {
				return m.runCommand(input)
			}
			return m.submit(input)
		}

	case sessionEventMsg:
		m.applyEvent(chat.Event(msg))
		cmds = append(cmds, m.waitForEvent())

	case turnDoneMsg:
		m.sending = false
		switch {
		case msg.err != nil:
			m.err = msg.err
		case msg.result.Suppressed:
			m.warning = msg.result.Warning
		default:
			m.notice = "✓ " + msg.result.Notice()
		}
		m.refresh()

	case personasLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.picker.show(msg.personas, m.persona)

	case spinner.TickMsg:
		if m.sending {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Only pass keys to the textarea while it accepts input
	if !m.sending {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit starts a turn in a command goroutine
func (m Model) submit(input string) (tea.Model, tea.Cmd) {
	m.sending = true
	ctx := m.ctx
	session := m.session
	return m, tea.Batch(
		func() tea.Msg {
			result, err := session.Submit(ctx, input)
			return turnDoneMsg{result: result, err: err}
		},
		m.spinner.Tick,
	)
}

// applyEvent reacts to a session change. The sending flag is owned by
// submit and turnDoneMsg since events may be read after the turn ends.
func (m *Model) applyEvent(ev chat.Event) {
	switch ev.Kind {
	case chat.EventCleared, chat.EventMessageAppended, chat.EventMessageRemoved:
		m.refresh()
	}
}

func (m *Model) clearStatus() {
	m.notice = ""
	m.warning = ""
	m.err = nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 3
	inputHeight := 5
	statusHeight := 3
	vpHeight := height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)
	m.refresh()
}

// refresh redraws the conversation from the session
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages(m.session.Messages()))
	m.viewport.GotoBottom()
}

func (m Model) renderMessages(messages []models.Message) string {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}
	mdOpts := render.OptionsFromMarkdown(m.opts.Markdown, bubbleWidth-4)

	for i, msg := range messages {
		if i > 0 {
			content.WriteString("\n")
		}
		switch msg.Role {
		case models.RoleUser:
			content.WriteString(userLabelStyle.Render("● You"))
			content.WriteString("\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Content))
		case models.RoleAssistant:
			content.WriteString(assistantLabelStyle.Render("⚡ Assistant"))
			content.WriteString("\n")
			rendered := render.MarkdownOrPlain(msg.Content, mdOpts)
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
		}
		content.WriteString("\n")
	}
	return content.String()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}
	if m.picker.open {
		return m.picker.view(m.width)
	}

	contentWidth := m.width - 4
	var sections []string

	cfg := m.session.Config()
	headerParts := []string{
		titleStyle.Render("⚡ Groq Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(cfg.Model),
	}
	if m.persona != "" {
		headerParts = append(headerParts, hintStyle.Render("  •  "), subtitleStyle.Render(m.persona))
	}
	sections = append(sections, headerStyle.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)))

	var body string
	if m.session.Stats().Messages == 0 {
		body = m.renderWelcome()
	} else {
		body = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.Width(contentWidth).Height(m.viewport.Height).Render(body))

	var input string
	if m.sending {
		input = m.spinner.View() + loadingStyle.Render(" Thinking...")
	} else {
		input = lipgloss.JoinVertical(lipgloss.Left, inputLabelStyle.Render("You"), m.textarea.View())
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(input))

	switch {
	case m.err != nil:
		sections = append(sections, FormatError(m.err))
	case m.warning != "":
		sections = append(sections, warningStyle.Render("⚠ "+m.warning))
	case m.notice != "":
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	sections = append(sections, m.renderStatusBar(cfg))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the empty-conversation screen
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4

	lines := []string{
		"",
		welcomeTitleStyle.Width(width).Render("Hello! I'm ready to help."),
		"",
		welcomeStyle.Width(width).Render("Type a message below to start the conversation."),
		"",
	}

	if !m.session.Config().HasAPIKey() {
		lines = append(lines,
			warningStyle.Width(width).Align(lipgloss.Center).Render("No API key set. Use /key <your-key>"),
			hintStyle.Width(width).Align(lipgloss.Center).Render("Get a free key at "+models.KeysConsoleURL),
			"",
		)
	}

	lines = append(lines, hintStyle.Width(width).Align(lipgloss.Center).Render("Try asking:"))
	for i, a := range chat.QuickActions() {
		lines = append(lines, welcomeStyle.Width(width).Render(fmt.Sprintf("/quick %d  %s", i+1, a.Label)))
	}

	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

// renderStatusBar shows session settings and shortcuts
func (m Model) renderStatusBar(cfg config.SessionConfig) string {
	stats := m.session.Stats()
	items := []string{
		statusKeyStyle.Render(fmt.Sprintf("%d", stats.Messages)) + statusDescStyle.Render(" messages"),
		statusKeyStyle.Render(fmt.Sprintf("%.1f", cfg.Temperature)) + statusDescStyle.Render(" temp"),
		statusKeyStyle.Render(fmt.Sprintf("%d", cfg.MaxTokens)) + statusDescStyle.Render(" max tokens"),
		statusDescStyle.Render("key ") + statusKeyStyle.Render(cfg.MaskedAPIKey()),
		statusKeyStyle.Render("/help") + statusDescStyle.Render(" commands"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" quit"),
	}
	return statusBarStyle.Width(m.width - 4).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI and blocks until it exits
func RunChat(ctx context.Context, session *chat.Session, opts Options) error {
	m := NewChatModel(ctx, session, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
