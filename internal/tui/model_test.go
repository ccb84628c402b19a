package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/groqchat/internal/api"
	"github.com/diogo/groqchat/internal/chat"
	"github.com/diogo/groqchat/internal/config"
	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
)

// mockPersonaStore serves a fixed persona list
type mockPersonaStore struct {
	personas []config.Persona
	err      error
}

func (s *mockPersonaStore) List() ([]config.Persona, error) {
	return s.personas, s.err
}

func (s *mockPersonaStore) Get(name string) (*config.Persona, error) {
	for i := range s.personas {
		if s.personas[i].Name == name {
			p := s.personas[i]
			return &p, nil
		}
	}
	return nil, errors.New("persona not found")
}

func newTestModel(t *testing.T, key string, client *api.MockClient) (Model, *[]string) {
	t.Helper()
	cfg := config.SessionConfig{
		APIKey:       key,
		Model:        models.DefaultModel.Name,
		Temperature:  0.7,
		MaxTokens:    2048,
		SystemPrompt: "be nice",
	}
	session := chat.NewSession(cfg, client)

	var copied []string
	m := NewChatModel(context.Background(), session, Options{
		Personas: &mockPersonaStore{personas: config.DefaultPersonas()},
		CopyClipboard: func(s string) error {
			copied = append(copied, s)
			return nil
		},
	})
	t.Cleanup(m.Close)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), &copied
}

func runCmd(t *testing.T, m Model, input string) Model {
	t.Helper()
	updated, _ := m.runCommand(input)
	return updated.(Model)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantArg  string
	}{
		{"/help", "help", ""},
		{"/model gemma2-9b-it", "model", "gemma2-9b-it"},
		{"/system  You are   a pirate ", "system", "You are   a pirate"},
		{"/KEY abc", "key", "abc"},
		{"exit", "exit", ""},
		{"quit", "exit", ""},
	}

	for _, tt := range tests {
		name, arg := parseCommand(tt.input)
		if name != tt.wantName || arg != tt.wantArg {
			t.Errorf("parseCommand(%q) = %q, %q; want %q, %q", tt.input, name, arg, tt.wantName, tt.wantArg)
		}
	}

	if !isCommand("/x") || !isCommand("exit") || isCommand("hello /x") {
		t.Error("isCommand misclassified input")
	}
}

func TestView_WelcomeWithoutKey(t *testing.T) {
	m, _ := newTestModel(t, "", &api.MockClient{})

	view := m.View()
	for _, want := range []string{"Groq Chat", "No API key set", models.KeysConsoleURL, "/quick 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_BeforeResize(t *testing.T) {
	session := chat.NewSession(config.SessionConfig{}, &api.MockClient{})
	m := NewChatModel(context.Background(), session, Options{Personas: &mockPersonaStore{}})
	defer m.Close()

	if !strings.Contains(m.View(), "Initializing") {
		t.Error("expected initializing view before the first resize")
	}
}

func TestCommands_Settings(t *testing.T) {
	m, _ := newTestModel(t, "gsk_abcdefgh1234", &api.MockClient{})

	m = runCmd(t, m, "/model mixtral-8x7b-32768")
	if m.err != nil || m.session.Config().Model != "mixtral-8x7b-32768" {
		t.Errorf("/model failed: err=%v model=%s", m.err, m.session.Config().Model)
	}

	m.clearStatus()
	m = runCmd(t, m, "/model gpt-4")
	if !apierrors.IsConfigurationError(m.err) {
		t.Errorf("/model with unknown name err = %v", m.err)
	}

	m.clearStatus()
	m = runCmd(t, m, "/temp 1.2")
	if m.err != nil || m.session.Config().Temperature != 1.2 {
		t.Errorf("/temp failed: %v", m.err)
	}

	m.clearStatus()
	m = runCmd(t, m, "/temp hot")
	if m.err == nil {
		t.Error("/temp with a word should fail")
	}

	m.clearStatus()
	m = runCmd(t, m, "/temp NaN")
	if !apierrors.IsConfigurationError(m.err) {
		t.Errorf("/temp NaN err = %v", m.err)
	}
	if got := m.session.Config().Temperature; got != 1.2 {
		t.Errorf("temperature after /temp NaN = %v, want 1.2", got)
	}

	m.clearStatus()
	m = runCmd(t, m, "/tokens 100")
	if m.err == nil {
		t.Error("/tokens below range should fail")
	}

	m.clearStatus()
	m = runCmd(t, m, "/tokens 4096")
	if m.err != nil || m.session.Config().MaxTokens != 4096 {
		t.Errorf("/tokens failed: %v", m.err)
	}

	m.clearStatus()
	m = runCmd(t, m, "/system Answer in haiku")
	if m.session.Config().SystemPrompt != "Answer in haiku" {
		t.Errorf("SystemPrompt = %q", m.session.Config().SystemPrompt)
	}

	m.clearStatus()
	m = runCmd(t, m, "/bogus")
	if m.err == nil || !strings.Contains(m.err.Error(), "unknown command") {
		t.Errorf("unknown command err = %v", m.err)
	}
}

func TestCommands_Key(t *testing.T) {
	m, _ := newTestModel(t, "", &api.MockClient{})

	m = runCmd(t, m, "/key gsk_abcdefgh1234")
	if m.session.State() != chat.StateReady {
		t.Errorf("State() = %v, want ready", m.session.State())
	}
	if strings.Contains(m.notice, "gsk_abcdefgh1234") {
		t.Error("notice must not echo the full key")
	}

	m = runCmd(t, m, "/key")
	if m.session.State() != chat.StateAwaitingCredential {
		t.Errorf("State() = %v, want awaiting-credential", m.session.State())
	}
}

func TestTurnFlow(t *testing.T) {
	client := &api.MockClient{Replies: []string{"**pong**"}}
	m, copied := newTestModel(t, "k", client)

	updated, cmd := m.submit("ping")
	m = updated.(Model)
	if !m.sending || cmd == nil {
		t.Fatal("submit should mark the model as sending and return a command")
	}

	result, err := m.session.Submit(context.Background(), "ping")
	updated, _ = m.Update(turnDoneMsg{result: result, err: err})
	m = updated.(Model)

	if m.sending {
		t.Error("sending should be cleared after the turn")
	}
	if !strings.Contains(m.notice, "Response received in") {
		t.Errorf("notice = %q", m.notice)
	}
	if !strings.Contains(m.viewport.View(), "pong") {
		t.Error("reply should be drawn in the viewport")
	}

	m = runCmd(t, m, "/copy")
	if len(*copied) != 1 || (*copied)[0] != "**pong**" {
		t.Errorf("copied = %v", *copied)
	}

	m = runCmd(t, m, "/clear")
	if m.session.Stats().Messages != 0 {
		t.Error("/clear should empty the session")
	}
}

func TestTurnFlow_Errors(t *testing.T) {
	m, _ := newTestModel(t, "k", &api.MockClient{})

	updated, _ := m.Update(turnDoneMsg{err: apierrors.NewCompletionError(apierrors.NewAuthError(""))})
	m = updated.(Model)
	view := m.View()
	if !strings.Contains(view, "Error") || !strings.Contains(view, models.KeysConsoleURL) {
		t.Errorf("error view missing details:\n%s", view)
	}

	updated, _ = m.Update(turnDoneMsg{result: &chat.TurnResult{Suppressed: true, Warning: chat.SpamWarning}})
	m = updated.(Model)
	if m.warning != chat.SpamWarning {
		t.Errorf("warning = %q", m.warning)
	}
}

func TestInputIgnoredWhileSending(t *testing.T) {
	m, _ := newTestModel(t, "k", &api.MockClient{})
	m.sending = true
	m.textarea.SetValue("hello")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd != nil {
		t.Error("enter while sending should not start a turn")
	}
	if m.textarea.Value() != "hello" {
		t.Error("input should be kept while sending")
	}
}

func TestCommands_CopyWithoutReply(t *testing.T) {
	m, copied := newTestModel(t, "k", &api.MockClient{})
	m = runCmd(t, m, "/copy")
	if m.warning == "" || len(*copied) != 0 {
		t.Error("/copy without a reply should warn and not copy")
	}
}

func TestCommands_Quick(t *testing.T) {
	m, _ := newTestModel(t, "k", &api.MockClient{})

	m = runCmd(t, m, "/quick 9")
	if m.err == nil {
		t.Error("/quick out of range should fail")
	}

	updated, cmd := m.runCommand("/quick 2")
	if cmd == nil || !updated.(Model).sending {
		t.Error("/quick 2 should start a turn")
	}
}

func TestPersonaPicker(t *testing.T) {
	m, _ := newTestModel(t, "k", &api.MockClient{})

	updated, cmd := m.runCommand("/persona")
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("/persona without args should load personas")
	}

	updated, _ = m.Update(personasLoadedMsg{personas: config.DefaultPersonas()})
	m = updated.(Model)
	if !m.picker.open {
		t.Fatal("picker should open after personas load")
	}
	if !strings.Contains(m.View(), "Select a persona") {
		t.Error("picker view not shown")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	want := config.DefaultPersonas()[1]
	if m.picker.open {
		t.Error("picker should close after selection")
	}
	if m.persona != want.Name || m.session.Config().SystemPrompt != want.SystemPrompt {
		t.Errorf("persona = %s, prompt = %q", m.persona, m.session.Config().SystemPrompt)
	}
}

func TestPersonaPicker_Filter(t *testing.T) {
	var p personaPicker
	p.show(config.DefaultPersonas(), "teacher")
	if p.cursor != 3 {
		t.Errorf("cursor = %d, want active persona index", p.cursor)
	}

	p.filter = "writ"
	items := p.filtered()
	if len(items) != 1 || items[0].Name != "writer" {
		t.Errorf("filtered = %+v", items)
	}
}

func TestCommands_PersonaByName(t *testing.T) {
	m, _ := newTestModel(t, "k", &api.MockClient{})

	m = runCmd(t, m, "/persona coder")
	if m.persona != "coder" || m.err != nil {
		t.Errorf("persona = %s, err = %v", m.persona, m.err)
	}

	m.clearStatus()
	m = runCmd(t, m, "/persona nobody")
	if m.err == nil {
		t.Error("unknown persona should fail")
	}
}

func TestLastReply(t *testing.T) {
	msgs := []models.Message{
		models.NewUserMessage("a"),
		models.NewAssistantMessage("b"),
		models.NewUserMessage("c"),
	}
	if got, ok := lastReply(msgs); !ok || got != "b" {
		t.Errorf("lastReply() = %q, %v", got, ok)
	}
	if _, ok := lastReply(nil); ok {
		t.Error("lastReply(nil) should report false")
	}
}

func TestErrorHint(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{apierrors.NewMissingAPIKeyError(), "/key"},
		{apierrors.NewRateLimitError(""), "Rate limit"},
		{apierrors.NewCompletionError(apierrors.NewTimeoutError("")), "timed out"},
		{apierrors.NewNetworkError("complete", errors.New("x")), "internet"},
	}

	for _, tt := range tests {
		got := ErrorHint(tt.err)
		if tt.want == "" && got != "" || !strings.Contains(got, tt.want) {
			t.Errorf("ErrorHint(%v) = %q, want containing %q", tt.err, got, tt.want)
		}
	}
}

func TestHelpText(t *testing.T) {
	help := helpText()
	for _, c := range slashCommands {
		if !strings.Contains(help, c.usage) {
			t.Errorf("help missing %s", c.usage)
		}
	}
}
