package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/diogo/groqchat/internal/api"
	"github.com/diogo/groqchat/internal/config"
	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/logging"
	"github.com/diogo/groqchat/internal/models"
)

var (
	// ErrBusy is returned when a turn is already in flight
	ErrBusy = errors.New("a message is already being sent")
	// ErrEmptyInput is returned for blank input
	ErrEmptyInput = errors.New("message is empty")
)

// Completer sends one completion request. *api.Client implements it.
type Completer interface {
	Complete(ctx context.Context, req *api.CompletionRequest) (*models.Completion, error)
}

// TurnResult describes the outcome of a submitted message
type TurnResult struct {
	// Suppressed is true when the input was dropped as a repeat
	Suppressed bool
	Warning    string

	Reply      models.Message
	Elapsed    time.Duration
	Completion *models.Completion
}

// Notice returns the status line shown after a turn
func (r *TurnResult) Notice() string {
	if r == nil {
		return ""
	}
	if r.Suppressed {
		return r.Warning
	}
	return fmt.Sprintf("Response received in %.2f seconds", r.Elapsed.Seconds())
}

// Stats summarizes the conversation
type Stats struct {
	Messages          int
	UserMessages      int
	AssistantMessages int
}

// Session owns one conversation: its store, repeat guard, configuration and
// turn state. It is safe for use from multiple goroutines, but only one
// turn may be in flight at a time.
type Session struct {
	mu sync.Mutex

	id        string
	cfg       config.SessionConfig
	completer Completer
	store     *Store
	guard     *SpamGuard
	state     State
	// keyTouched records that a credential was ever supplied or cleared
	keyTouched bool

	observers    []subscriber
	nextObserver int

	logger *log.Logger
}

// SessionOption configures a session
type SessionOption func(*Session)

// WithLogger sets the session logger
func WithLogger(logger *log.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore starts the session from an existing store
func WithStore(store *Store) SessionOption {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// NewSession creates a session. Without an API key it starts Idle.
func NewSession(cfg config.SessionConfig, completer Completer, opts ...SessionOption) *Session {
	s := &Session{
		id:        uuid.NewString(),
		cfg:       cfg,
		completer: completer,
		store:     NewStore(),
		guard:     NewSpamGuard(),
		logger:    logging.Discard(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.state = s.restingState()
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// State returns the current turn state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Config returns a snapshot of the session configuration
func (s *Session) Config() config.SessionConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Messages returns a copy of the conversation
func (s *Session) Messages() []models.Message {
	return s.store.Messages()
}

// Stats returns message counts
func (s *Session) Stats() Stats {
	var st Stats
	for _, m := range s.store.Messages() {
		st.Messages++
		switch m.Role {
		case models.RoleUser:
			st.UserMessages++
		case models.RoleAssistant:
			st.AssistantMessages++
		}
	}
	return st
}

// subscriber is an observer in subscription order
type subscriber struct {
	id int
	fn Observer
}

// Subscribe registers an observer and returns a function that removes it.
// Observers are called in the order they subscribed.
func (s *Session) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers = append(s.observers, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			for i, sub := range s.observers {
				if sub.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					break
				}
			}
			s.mu.Unlock()
		})
	}
}

// SetAPIKey replaces the credential. An empty key leaves the session
// awaiting a credential.
func (s *Session) SetAPIKey(key string) {
	s.mu.Lock()
	s.cfg.SetAPIKey(key)
	s.keyTouched = true
	events := s.settleLocked()
	s.mu.Unlock()

	s.logger.Debug("api key updated", "session", s.id, "set", key != "")
	s.notify(events)
}

// SetModel switches the model used for the next turn
func (s *Session) SetModel(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.SetModel(name)
}

// SetTemperature sets the sampling temperature for the next turn
func (s *Session) SetTemperature(t float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.SetTemperature(t)
}

// SetMaxTokens sets the completion length limit for the next turn
func (s *Session) SetMaxTokens(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.SetMaxTokens(n)
}

// SetSystemPrompt replaces the system instruction
func (s *Session) SetSystemPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.SetSystemPrompt(prompt)
}

// ApplyPersona switches the system prompt and any persona preferences
func (s *Session) ApplyPersona(p *config.Persona) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.SetSystemPrompt(p.SystemPrompt)
	if p.Model != "" {
		_ = s.cfg.SetModel(p.Model)
	}
	if p.Temperature != nil {
		_ = s.cfg.SetTemperature(*p.Temperature)
	}
}

// Clear empties the conversation and resets the repeat guard
func (s *Session) Clear() error {
	s.mu.Lock()
	if s.state == StateSending {
		s.mu.Unlock()
		return ErrBusy
	}
	s.store.Clear()
	s.guard.Forget()
	state := s.state
	s.mu.Unlock()

	s.logger.Debug("conversation cleared", "session", s.id)
	s.notify([]Event{{Kind: EventCleared, State: state}})
	return nil
}

// Submit runs one turn: repeat check, append, completion, and either
// appending the reply or rolling back the user message.
func (s *Session) Submit(ctx context.Context, input string) (*TurnResult, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	if s.state == StateSending {
		s.mu.Unlock()
		return nil, ErrBusy
	}

	if !s.cfg.HasAPIKey() {
		err := apierrors.NewMissingAPIKeyError()
		state := s.state
		s.mu.Unlock()
		s.notify([]Event{{Kind: EventError, State: state, Err: err}})
		return nil, err
	}

	if s.guard.Check(input) {
		s.guard.Reset()
		s.state = StateReady
		s.mu.Unlock()

		s.logger.Warn("repeated message suppressed", "session", s.id)
		s.notify([]Event{{Kind: EventWarning, State: StateReady, Warning: SpamWarning}})
		return &TurnResult{Suppressed: true, Warning: SpamWarning}, nil
	}

	user := models.NewUserMessage(input)
	s.store.Append(user)
	s.state = StateSending
	cfg := s.cfg
	window := BuildContextWindow(s.store.Messages(), cfg.SystemPrompt)
	s.mu.Unlock()

	s.notify([]Event{
		{Kind: EventMessageAppended, State: StateSending, Message: &user},
		{Kind: EventStateChanged, State: StateSending},
	})

	s.logger.Debug("sending turn",
		"session", s.id,
		"model", cfg.Model,
		"window", len(window),
		"history", s.store.Len(),
	)

	completion, err := s.completer.Complete(ctx, &api.CompletionRequest{
		Messages:    window,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		APIKey:      cfg.APIKey,
	})
	if err == nil && completion == nil {
		err = apierrors.NewParseError("empty completion", "")
	}

	if err != nil {
		return nil, s.failTurn(err)
	}
	return s.finishTurn(completion), nil
}

// finishTurn records a successful reply
func (s *Session) finishTurn(completion *models.Completion) *TurnResult {
	reply := completion.Message()

	s.mu.Lock()
	s.store.Append(reply)
	s.state = StateSuccess
	events := []Event{
		{Kind: EventMessageAppended, State: StateSuccess, Message: &reply},
		{Kind: EventStateChanged, State: StateSuccess},
		{Kind: EventReply, State: StateSuccess, Message: &reply, Elapsed: completion.Elapsed},
	}
	events = append(events, s.settleLocked()...)
	s.mu.Unlock()

	s.logger.Info("reply received",
		"session", s.id,
		"model", completion.Model,
		"elapsed", completion.Elapsed.Round(time.Millisecond),
		"tokens", completion.Usage.TotalTokens,
	)
	s.notify(events)

	return &TurnResult{
		Reply:      reply,
		Elapsed:    completion.Elapsed,
		Completion: completion,
	}
}

// failTurn rolls back the user message of a failed turn
func (s *Session) failTurn(cause error) error {
	err := apierrors.NewCompletionError(cause)

	s.mu.Lock()
	removed, ok := s.store.RemoveLast()
	s.state = StateFailed
	var events []Event
	if ok {
		events = append(events, Event{Kind: EventMessageRemoved, State: StateFailed, Message: &removed})
	}
	events = append(events,
		Event{Kind: EventStateChanged, State: StateFailed},
		Event{Kind: EventError, State: StateFailed, Err: err},
	)
	events = append(events, s.settleLocked()...)
	s.mu.Unlock()

	s.logger.Error("turn failed", "session", s.id, "err", err)
	s.notify(events)
	return err
}

// settleLocked moves a non-sending session to its resting state.
// Callers hold s.mu.
func (s *Session) settleLocked() []Event {
	if s.state == StateSending {
		return nil
	}
	next := s.restingState()
	if next == s.state {
		return nil
	}
	s.state = next
	return []Event{{Kind: EventStateChanged, State: next}}
}

func (s *Session) restingState() State {
	switch {
	case s.cfg.HasAPIKey():
		return StateReady
	case s.keyTouched:
		return StateAwaitingCredential
	default:
		return StateIdle
	}
}

// notify delivers events to a snapshot of the observers
func (s *Session) notify(events []Event) {
	if len(events) == 0 {
		return
	}

	s.mu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for _, sub := range s.observers {
		observers = append(observers, sub.fn)
	}
	s.mu.Unlock()

	for _, ev := range events {
		for _, fn := range observers {
			fn(ev)
		}
	}
}
