// Package toolagent provides a high-level façade that wires a chat model, a
// set of tools and a shared event bus into a ready-to-run ToolUser agent.
// Most applications interact with this package by:
//  1. Creating a ToolAgent via New() with a chat.Model and tools
//  2. Subscribing to progress events on Bus() (console printer, logging)
//  3. Calling Run with a question
//
// Lower-level control is available through the agent, chat, tool and event
// packages.
package toolagent

import (
	"context"
	"time"

	"github.com/hupe1980/toolagent/agent"
	"github.com/hupe1980/toolagent/chat"
	"github.com/hupe1980/toolagent/event"
	"github.com/hupe1980/toolagent/logging"
	"github.com/hupe1980/toolagent/tool"
)

// Options configures the ToolAgent instance.
type Options struct {
	// Name and Description identify the agent when nested as a tool.
	Name        string
	Description string

	// MaxSteps and MaxDuration bound a single Run.
	MaxSteps    int
	MaxDuration time.Duration

	// MaxHistory bounds the chat history sent to the model. Zero means unbounded.
	MaxHistory int

	// Bus receives all agent, tool and chat events. A new bus is created if nil.
	Bus *event.Bus

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Confirmer answers confirmation requests addressed to the agent itself.
	Confirmer tool.Confirmer
}

// ToolAgent is the high-level façade around an agent.ToolUser.
type ToolAgent struct {
	opts  Options
	chat  *chat.Session
	agent *agent.ToolUser
}

// New creates a ToolAgent answering questions with model and tools. Tools
// should be constructed with the same bus to have their events on Bus().
func New(model chat.Model, tools []tool.Tool, optFns ...func(o *Options)) (*ToolAgent, error) {
	opts := Options{
		Name:        "Tool User",
		Description: "It uses the available tools to answer the user's question",
		MaxSteps:    10,
		MaxDuration: 60 * time.Second,
		Logger:      logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	opts.Logger = logging.OrNoOp(opts.Logger)

	if opts.Bus == nil {
		opts.Bus = event.NewBus(func(o *event.BusOptions) { o.Logger = opts.Logger })
	}

	var session *chat.Session
	if model != nil {
		session = chat.NewSession(model, func(o *chat.SessionOptions) {
			o.Bus = opts.Bus
			o.Logger = opts.Logger
			o.MaxHistory = opts.MaxHistory
		})
	}

	var c chat.Chat
	if session != nil {
		c = session
	}

	a, err := agent.NewToolUser(c, tools, func(o *agent.Options) {
		o.Name = opts.Name
		o.Description = opts.Description
		o.MaxSteps = opts.MaxSteps
		o.MaxDuration = opts.MaxDuration
		o.Bus = opts.Bus
		o.Logger = opts.Logger
		o.Confirmer = opts.Confirmer
	})
	if err != nil {
		return nil, err
	}

	return &ToolAgent{opts: opts, chat: session, agent: a}, nil
}

// Bus returns the event bus shared by the agent and its chat.
func (t *ToolAgent) Bus() *event.Bus { return t.opts.Bus }

// Agent returns the underlying agent, e.g. to nest it as a tool.
func (t *ToolAgent) Agent() *agent.ToolUser { return t.agent }

// Run answers question. See agent.ToolUser.Run.
func (t *ToolAgent) Run(ctx context.Context, question string) (tool.Return, error) {
	return t.agent.Run(ctx, question)
}

// StepHistory returns the steps of the current or last run.
func (t *ToolAgent) StepHistory() []agent.Step { return t.agent.StepHistory() }
