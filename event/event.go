package event

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the lifecycle point an event reports.
//
// The set is closed: agents publish AgentStart/AgentStep/AgentEnd/AgentTimeout,
// tools publish ToolStart/ToolEnd and chat sessions publish the Chat* kinds.
type Kind string

const (
	// AgentStart is published when an agent begins a run.
	AgentStart Kind = "agent_start"

	// AgentStep is published after every completed step of the loop.
	AgentStep Kind = "agent_step"

	// AgentEnd is published when the agent reaches a final answer.
	AgentEnd Kind = "agent_end"

	// AgentTimeout is published when the step or duration budget runs out.
	AgentTimeout Kind = "agent_timeout"

	// ToolStart is published before a tool function is invoked.
	ToolStart Kind = "tool_start"

	// ToolEnd is published after a tool produced its Return.
	ToolEnd Kind = "tool_end"

	// ChatInit is published when a chat session gets a new persona.
	ChatInit Kind = "chat_init"

	// ChatStart is published before a chat session asks its model.
	ChatStart Kind = "chat_start"

	// ChatEnd is published after a chat session received a reply.
	ChatEnd Kind = "chat_end"

	// ChatSaved is published after a chat history was written to disk.
	ChatSaved Kind = "chat_saved"

	// ChatLoaded is published after a chat history was read from disk.
	ChatLoaded Kind = "chat_loaded"
)

// Kinds lists every known kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		AgentStart, AgentStep, AgentEnd, AgentTimeout,
		ToolStart, ToolEnd,
		ChatInit, ChatStart, ChatEnd, ChatSaved, ChatLoaded,
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Event is a single notification delivered to subscribers.
type Event struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// New builds an event with a fresh id and UTC timestamp.
func New(kind Kind, source string, payload map[string]any) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// NewSourceID returns an opaque identifier for an event publisher.
func NewSourceID() string {
	return uuid.NewString()
}
