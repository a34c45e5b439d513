package event

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/toolagent/logging"
)

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&logging.Config{Level: logging.LogLevelDebug, Format: "text", Output: &buf})

	bus := NewBus()
	bus.SubscribeAll(LogHandler(logger))
	bus.Publish(ToolEnd, "tool-1", map[string]any{"name": "echo", "tool_exit_code": 0})

	out := buf.String()
	assert.Contains(t, out, "event.tool_end")
	assert.Contains(t, out, "source=tool-1")
	assert.Contains(t, out, "name=echo")
}

func TestConsolePrinter(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	p := NewConsolePrinter(&buf)

	bus := NewBus()
	p.Attach(bus)

	bus.Publish(AgentStart, "agent", map[string]any{"question": "What is 2+2?"})
	bus.Publish(AgentEnd, "agent", map[string]any{"question": "What is 2+2?", "answer": "4"})

	out := buf.String()
	assert.Contains(t, out, "[event: agent_start]")
	assert.Contains(t, out, "Main Question: What is 2+2?")
	assert.Contains(t, out, "Final Answer: 4")
}
