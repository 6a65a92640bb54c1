// Package testutil provides test utilities for the llm package.
// It includes mock implementations for testing agent interactions.
package testutil

import (
	"context"
	"sync"

	"github.com/BeenaAbe/linkedin-agent-workflow/llm"
)

// MockCompleter is a thread-safe mock LLM client for testing.
// It returns configured responses in sequence and records every request.
//
// Usage:
//
//	mock := &testutil.MockCompleter{
//	    Responses: []*llm.Response{
//	        {Content: `{"hooks": [...]}`, Model: "test-model"},
//	    },
//	}
type MockCompleter struct {
	mu            sync.Mutex
	Responses     []*llm.Response // Responses to return in sequence
	Err           error           // Error to return (takes precedence over Responses)
	ByCapability  map[string]*llm.Response
	requests      []llm.Request
	responseIndex int
}

// Complete implements llm.Completer. It returns, in order of precedence:
// the configured error, a per-capability response, then the next sequenced
// response.
func (m *MockCompleter) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if m.Err != nil {
		return nil, m.Err
	}

	if resp, ok := m.ByCapability[req.Capability]; ok {
		return resp, nil
	}

	if m.responseIndex < len(m.Responses) {
		resp := m.Responses[m.responseIndex]
		m.responseIndex++
		return resp, nil
	}

	return &llm.Response{Content: "", Model: "test-model"}, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of all captured requests.
func (m *MockCompleter) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or a zero request if none.
func (m *MockCompleter) LastRequest() llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return llm.Request{}
	}
	return m.requests[len(m.requests)-1]
}
