package event

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/hupe1980/toolagent/logging"
)

// LogHandler returns a Handler that writes every event through logger at
// debug level, keyed "event.<kind>".
func LogHandler(logger logging.Logger) Handler {
	logger = logging.OrNoOp(logger)

	return func(ev Event) {
		args := make([]any, 0, 6+2*len(ev.Payload))
		args = append(args, "event_id", ev.ID, "source", ev.Source, "timestamp", ev.Timestamp.Format(time.RFC3339Nano))
		for k, v := range ev.Payload {
			args = append(args, k, v)
		}

		logger.Debug("event."+string(ev.Kind), args...)
	}
}

// ConsolePrinter renders events as coloured, human readable blocks.
type ConsolePrinter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsolePrinter creates a printer writing to w (stdout when nil).
func NewConsolePrinter(w io.Writer) *ConsolePrinter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsolePrinter{out: w}
}

// Attach subscribes the printer to every kind on bus.
func (p *ConsolePrinter) Attach(bus *Bus) func() {
	return bus.SubscribeAll(p.Handle)
}

// Handle prints a single event.
func (p *ConsolePrinter) Handle(ev Event) {
	c, msg := render(ev)

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "\n[time: %s] [id: %s] [event: %s]\n", ev.Timestamp.Format(time.RFC3339), ev.ID, ev.Kind)
	c.Fprintln(p.out, msg)
}

func render(ev Event) (*color.Color, string) {
	d := ev.Payload

	switch ev.Kind {
	case AgentStart:
		return color.New(color.FgCyan), fmt.Sprintf("Main Question: %v", d["question"])
	case AgentStep:
		return color.New(color.FgYellow), fmt.Sprintf("Question: %v\nToolChoice: %v\nToolArgs: %v\nToolOutput: %v",
			d["question"], d["tool"], d["tool_args"], d["tool_output"])
	case AgentEnd:
		return color.New(color.FgYellow, color.Bold), fmt.Sprintf("Final Answer: %v", d["answer"])
	case AgentTimeout:
		return color.New(color.FgRed), fmt.Sprintf("Agent Timeout. Duration: %v, No. of Steps: %v\nStep History: %v",
			d["duration"], d["num_steps"], d["step_history"])
	case ToolStart:
		return color.New(color.FgBlue), fmt.Sprintf("Tool: %v\nArgs: %v\nKwargs: %v", d["name"], d["args"], d["kwargs"])
	case ToolEnd:
		return color.New(color.FgBlue), fmt.Sprintf("Tool: %v\nOutput: %v\nExitCode: %v", d["name"], d["tool_output"], d["tool_exit_code"])
	case ChatInit:
		return color.New(color.FgRed), fmt.Sprintf("%v: %v", d["system_role"], d["system_content"])
	case ChatStart:
		return color.New(color.FgCyan), fmt.Sprintf("%v: %v", d["msg_role"], d["msg_content"])
	case ChatEnd:
		return color.New(color.FgYellow), fmt.Sprintf("%v: %v", d["reply_role"], d["reply_content"])
	case ChatSaved:
		return color.New(color.FgCyan), fmt.Sprintf("Chat saved to filepath: %v", d["filepath"])
	case ChatLoaded:
		return color.New(color.FgCyan), fmt.Sprintf("Chat loaded from filepath: %v", d["filepath"])
	default:
		return color.New(color.Faint), fmt.Sprintf("%v", d)
	}
}
