package api

import (
	"context"
	"sync"
	"time"

	"github.com/diogo/groqchat/internal/models"
)

// MockClient is a scripted completer for tests of code built on Client.
// Replies are consumed in order; when they run out the last one repeats.
type MockClient struct {
	mu sync.Mutex

	Replies []string
	Err     error
	// Delay simulates latency and is reported as the completion's Elapsed.
	Delay time.Duration
	// Block, when set, holds every call until it is closed or ctx ends.
	Block chan struct{}

	Requests []CompletionRequest
}

// Complete records the request and returns the next scripted reply
func (m *MockClient) Complete(ctx context.Context, req *CompletionRequest) (*models.Completion, error) {
	m.mu.Lock()
	recorded := *req
	recorded.Messages = append([]models.Message(nil), req.Messages...)
	m.Requests = append(m.Requests, recorded)
	idx := len(m.Requests) - 1
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	text := ""
	if len(m.Replies) > 0 {
		if idx >= len(m.Replies) {
			idx = len(m.Replies) - 1
		}
		text = m.Replies[idx]
	}

	return &models.Completion{
		ID:           "mock",
		Model:        req.Model,
		Text:         text,
		FinishReason: "stop",
		Elapsed:      m.Delay,
	}, nil
}

// CallCount returns how many times Complete was invoked
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// LastRequest returns a copy of the most recent request, or nil
func (m *MockClient) LastRequest() *CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return nil
	}
	r := m.Requests[len(m.Requests)-1]
	return &r
}
