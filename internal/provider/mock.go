package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a simple mock provider for testing
type MockProvider struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	requests  []Request
}

// NewMockProvider creates a new mock provider
func NewMockProvider() *MockProvider {
	return &MockProvider{
		responses: make(map[string]string),
	}
}

// SetResponse sets a mock response for a given prompt
func (m *MockProvider) SetResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// SetError makes every following Chat call fail with err
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns a copy of every request received so far
func (m *MockProvider) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request
func (m *MockProvider) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return Request{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// Chat performs a non-streaming chat completion
func (m *MockProvider) Chat(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if m.err != nil {
		return "", m.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}

	prompt := lastUserText(req.Messages)
	response, ok := m.responses[prompt]
	if !ok {
		response = "Mock response for: " + prompt
	}

	return response, nil
}
