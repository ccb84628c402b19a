package chat

import (
	"time"

	"github.com/diogo/groqchat/internal/models"
)

// State is the turn lifecycle state of a session
type State int

const (
	StateIdle State = iota
	StateAwaitingCredential
	StateReady
	StateSending
	StateSuccess
	StateFailed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCredential:
		return "awaiting-credential"
	case StateReady:
		return "ready"
	case StateSending:
		return "sending"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// EventKind identifies what changed in a session
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventMessageAppended
	EventMessageRemoved
	EventCleared
	EventWarning
	EventError
	EventReply
)

// String returns the event kind name
func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state-changed"
	case EventMessageAppended:
		return "message-appended"
	case EventMessageRemoved:
		return "message-removed"
	case EventCleared:
		return "cleared"
	case EventWarning:
		return "warning"
	case EventError:
		return "error"
	case EventReply:
		return "reply"
	}
	return "unknown"
}

// Event is delivered to subscribers after the session changes.
// State is the session state at the time of the event.
type Event struct {
	Kind    EventKind
	State   State
	Message *models.Message
	Warning string
	Err     error
	Elapsed time.Duration
}

// Observer receives session events. It runs on the goroutine that caused the
// change and must not call back into mutating session methods.
type Observer func(Event)
