package chat

import (
	"context"
	"fmt"
	"sync"
)

// MockCall records a single MockModel invocation.
type MockCall struct {
	Persona  string
	Prompt   string
	Messages []Message
}

type mockReply struct {
	text string
	err  error
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
//
// Replies are queued per persona (the content of the first system message)
// and consumed in order. When a persona has no queued reply the fallback
// queue is used, and when that is empty too the model answers
// "Mock response to: <prompt>".
type MockModel struct {
	mu        sync.Mutex
	info      Info
	byPersona map[string][]mockReply
	fallback  []mockReply
	calls     []MockCall
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		byPersona: make(map[string][]mockReply),
	}
}

// AddReplies queues replies for persona. An empty persona targets the
// fallback queue.
func (m *MockModel) AddReplies(persona string, replies ...string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range replies {
		m.enqueue(persona, mockReply{text: r})
	}
	return m
}

// AddError queues a failure for persona.
func (m *MockModel) AddError(persona string, err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.enqueue(persona, mockReply{err: err})
	return m
}

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	persona := SystemPrompt(messages)
	prompt := LastUserPrompt(messages)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{
		Persona:  persona,
		Prompt:   prompt,
		Messages: append([]Message(nil), messages...),
	})

	if q := m.byPersona[persona]; len(q) > 0 {
		m.byPersona[persona] = q[1:]
		return q[0].text, q[0].err
	}

	if len(m.fallback) > 0 {
		r := m.fallback[0]
		m.fallback = m.fallback[1:]
		return r.text, r.err
	}

	return fmt.Sprintf("Mock response to: %s", prompt), nil
}

// Calls returns every recorded invocation in order.
func (m *MockModel) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]MockCall(nil), m.calls...)
}

// CallsFor returns the invocations made while persona was active.
func (m *MockModel) CallsFor(persona string) []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []MockCall
	for _, c := range m.calls {
		if c.Persona == persona {
			out = append(out, c)
		}
	}
	return out
}

// Pending reports how many queued replies have not been consumed.
func (m *MockModel) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.fallback)
	for _, q := range m.byPersona {
		n += len(q)
	}
	return n
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

func (m *MockModel) enqueue(persona string, r mockReply) {
	if persona == "" {
		m.fallback = append(m.fallback, r)
		return
	}
	m.byPersona[persona] = append(m.byPersona[persona], r)
}
