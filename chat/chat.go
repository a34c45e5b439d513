// Package chat provides the chat model capability agents reason with: a
// history keeping Session on top of a pluggable Model backend.
package chat

import (
	"context"
	"fmt"
	"strings"
)

// Chat is a stateful conversation with a language model.
type Chat interface {
	// SetSystemPrompt replaces the whole history with a single system message.
	SetSystemPrompt(ctx context.Context, persona string) error

	// Reply appends prompt to the history, asks the model and returns its answer.
	Reply(ctx context.Context, prompt string) (string, error)

	// Clone returns an independent chat whose history is a copy of the
	// current one.
	Clone() Chat
}

// Info contains metadata about a model backend.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Model is a stateless chat completion backend.
type Model interface {
	// Complete returns the assistant reply to messages.
	Complete(ctx context.Context, messages []Message) (string, error)

	// Info returns information about the model implementation.
	Info() Info
}

// Completer is a plain prompt-in, text-out language model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type completerModel struct {
	completer Completer
	name      string
}

// FromCompleter adapts a Completer to a Model. The history is flattened into
// "role: content" lines followed by "assistant: ".
func FromCompleter(c Completer, name string) Model {
	return &completerModel{completer: c, name: name}
}

func (m *completerModel) Complete(ctx context.Context, messages []Message) (string, error) {
	reply, err := m.completer.Complete(ctx, RenderTranscript(messages))
	if err != nil {
		return "", fmt.Errorf("completer %s: %w", m.name, err)
	}
	return reply, nil
}

func (m *completerModel) Info() Info {
	return Info{Name: m.name, Provider: "completer"}
}

// RenderTranscript flattens messages into a single completion prompt.
func RenderTranscript(messages []Message) string {
	var b strings.Builder
	for _, msg := range messages {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}
	b.WriteString(string(RoleAssistant) + ": ")
	return b.String()
}
