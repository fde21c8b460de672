package llm

import (
	"context"
	"strings"
	"sync"
)

// MockClient is a scripted client for tests and for running without a
// configured provider. Responses are matched by substring against the
// request prompt; the first match wins.
type MockClient struct {
	mu sync.Mutex
	// Responses maps a prompt substring to a canned response.
	Responses map[string]string
	// Default is returned when no substring matches.
	Default string
	// Err, when set, is returned by every call.
	Err error
	// Requests records every request received.
	Requests []Request
}

// NewMock creates a mock client with the given default response.
func NewMock(defaultResponse string) *MockClient {
	return &MockClient{Default: defaultResponse}
}

// Respond registers a canned response for prompts containing substr.
func (m *MockClient) Respond(substr, response string) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Responses == nil {
		m.Responses = make(map[string]string)
	}
	m.Responses[substr] = response
	return m
}

// Complete returns the scripted response for the request.
func (m *MockClient) Complete(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)

	if m.Err != nil {
		return "", m.Err
	}
	for substr, resp := range m.Responses {
		if strings.Contains(req.Prompt, substr) || strings.Contains(req.System, substr) {
			return resp, nil
		}
	}
	if m.Default != "" {
		return m.Default, nil
	}
	return "mock response", nil
}

// Calls returns the number of requests received.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
