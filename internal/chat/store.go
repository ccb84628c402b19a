package chat

import (
	"sync"

	"github.com/diogo/groqchat/internal/models"
)

// Store is the in-memory, ordered conversation log for one session
type Store struct {
	mu       sync.RWMutex
	messages []models.Message
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{}
}

// Append adds a message at the end. There is no dedup and no cap.
func (s *Store) Append(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// RemoveLast drops the newest message and returns it.
// ok is false when the store is empty.
func (s *Store) RemoveLast() (msg models.Message, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) == 0 {
		return models.Message{}, false
	}
	msg = s.messages[len(s.messages)-1]
	s.messages = s.messages[:len(s.messages)-1]
	return msg, true
}

// Clear empties the store
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// Messages returns a copy of the conversation in order
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of stored messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
