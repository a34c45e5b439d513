package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/toolagent/chat"
	"github.com/hupe1980/toolagent/event"
	"github.com/hupe1980/toolagent/logging"
	"github.com/hupe1980/toolagent/persona"
	"github.com/hupe1980/toolagent/tool"
)

// Options configures a ToolUser.
//
// Use functional options with NewToolUser to override defaults.
type Options struct {
	// Name is the tool name of the agent when nested inside another agent.
	Name string

	// Description is the tool description of the agent.
	Description string

	// MaxSteps bounds the number of tool executions per run.
	MaxSteps int

	// MaxDuration bounds the wall clock time of a run, checked between steps.
	MaxDuration time.Duration

	// Bus receives Agent* events and the agent's own Tool* events.
	Bus *event.Bus

	// Logger receives agent.* records. Defaults to NoOpLogger.
	Logger logging.Logger

	// Confirmer answers confirmation requests addressed to the agent itself.
	Confirmer tool.Confirmer
}

// ToolUser answers a main question by repeatedly choosing a tool, choosing
// its arguments, asking for confirmation, executing it and deciding whether
// another question is needed.
//
// Every decision is made by a private clone of the supplied chat, each with
// its own persona:
//   - tool chooser: picks a tool by name (skipped with a single tool)
//   - arg chooser: picks the arguments (skipped for tools without parameters)
//   - next step thinker: asks the next question or gives the final answer
//     (skipped before the first step)
//
// ToolUser embeds *tool.FunctionTool with a single "question" parameter, so an
// agent can be used as a tool of another agent. A ToolUser runs at most one
// question at a time; concurrent Run calls are serialized.
type ToolUser struct {
	*tool.FunctionTool

	tools  []tool.Tool
	byName map[string]tool.Tool

	toolChooser chat.Chat
	argChooser  chat.Chat
	thinker     chat.Chat

	maxSteps    int
	maxDuration time.Duration
	bus         *event.Bus
	logger      logging.Logger

	runMu sync.Mutex

	mu           sync.RWMutex
	mainQuestion string
	history      []Step
}

// NewToolUser creates an agent over tools. It fails with a
// *tool.DefinitionError when chat is nil, tools is empty, a tool is nil or two
// tools share a name.
func NewToolUser(c chat.Chat, tools []tool.Tool, optFns ...func(o *Options)) (*ToolUser, error) {
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

	if c == nil {
		return nil, &tool.DefinitionError{Tool: opts.Name, Reason: "chat must not be nil"}
	}

	if len(tools) == 0 {
		return nil, &tool.DefinitionError{Tool: opts.Name, Reason: "at least one tool is required"}
	}

	if opts.MaxSteps < 0 {
		return nil, &tool.DefinitionError{Tool: opts.Name, Reason: "max steps must not be negative"}
	}

	byName := make(map[string]tool.Tool, len(tools))
	for i, t := range tools {
		if t == nil {
			return nil, &tool.DefinitionError{Tool: opts.Name, Reason: fmt.Sprintf("tool %d is nil", i)}
		}

		name := t.Docs().Name
		if _, dup := byName[name]; dup {
			return nil, &tool.DefinitionError{Tool: opts.Name, Reason: fmt.Sprintf("duplicate tool name %q", name)}
		}
		byName[name] = t
	}

	a := &ToolUser{
		tools:       append([]tool.Tool(nil), tools...),
		byName:      byName,
		toolChooser: c.Clone(),
		argChooser:  c.Clone(),
		thinker:     c.Clone(),
		maxSteps:    opts.MaxSteps,
		maxDuration: opts.MaxDuration,
		bus:         opts.Bus,
	}

	self, err := tool.New(
		tool.Documentation{
			Name: opts.Name,
			Desc: opts.Description,
			Params: []tool.ParamDocumentation{
				{Name: "question", Desc: "The main question that needs to be answered", Type: "string"},
			},
		},
		tool.Signature{"question"},
		func(ctx context.Context, args tool.Args) (any, error) {
			question, _ := args.String("question")
			return a.Run(ctx, question)
		},
		func(o *tool.Options) {
			o.Bus = opts.Bus
			o.Logger = opts.Logger
			o.Confirmer = opts.Confirmer
		},
	)
	if err != nil {
		return nil, err
	}

	a.FunctionTool = self
	a.logger = logging.With(logging.OrNoOp(opts.Logger), "agent", opts.Name)

	return a, nil
}

// Tools returns the tools available to the agent.
func (a *ToolUser) Tools() []tool.Tool {
	return append([]tool.Tool(nil), a.tools...)
}

// MainQuestion returns the question of the current or last run.
func (a *ToolUser) MainQuestion() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.mainQuestion
}

// StepHistory returns a copy of the steps of the current or last run.
func (a *ToolUser) StepHistory() []Step {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return append([]Step(nil), a.history...)
}

// Run answers question. It returns the final answer with exit code 0, or the
// output of the last step with exit code 1 when the step or time budget runs
// out. Unparsable decisions, unknown tools or arguments, denials and tool
// contract violations abort the run with an error.
func (a *ToolUser) Run(ctx context.Context, question string) (tool.Return, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	a.mu.Lock()
	a.mainQuestion = question
	a.history = nil
	a.mu.Unlock()

	a.publish(event.AgentStart, map[string]any{"question": question})
	a.logger.Info("agent.run.start", "question", question, "max_steps", a.maxSteps, "max_duration", a.maxDuration)

	start := time.Now()
	working := question
	steps := 1

	for steps <= a.maxSteps && time.Since(start) < a.maxDuration {
		if err := ctx.Err(); err != nil {
			return tool.Return{}, err
		}

		if len(a.StepHistory()) > 0 {
			next, err := a.chooseNextStep(ctx, question)
			if err != nil {
				return tool.Return{}, err
			}

			if next.kind == decisionFinalAnswer {
				a.publish(event.AgentEnd, map[string]any{"question": question, "answer": next.text})
				a.logger.Info("agent.run.done", "steps", steps-1, "duration_ms", time.Since(start).Milliseconds())
				return tool.Success(next.text), nil
			}

			working = next.text
		}

		selected, err := a.chooseTool(ctx, working)
		if err != nil {
			return tool.Return{}, err
		}

		args, err := a.chooseArgs(ctx, working, selected)
		if err != nil {
			return tool.Return{}, err
		}

		name := selected.Docs().Name
		if err := selected.HumanConfirmation(ctx, map[string]any{"tool": name, "args": map[string]any(args.Clone())}); err != nil {
			a.logger.Warn("agent.step.denied", "tool", name)
			return tool.Return{}, err
		}

		result, err := selected.Execute(ctx, args)
		if err != nil {
			a.logger.Error("agent.step.error", "tool", name, "error", err)
			return tool.Return{}, fmt.Errorf("agent %q: execute %q: %w", a.Name(), name, err)
		}

		step := Step{
			Question: working,
			Action:   Action{ToolName: name, Args: args},
			Result:   result,
		}

		a.mu.Lock()
		a.history = append(a.history, step)
		a.mu.Unlock()

		steps++

		a.publish(event.AgentStep, map[string]any{
			"question":       step.Question,
			"tool":           step.Action.ToolName,
			"tool_args":      map[string]any(step.Action.Args.Clone()),
			"tool_output":    step.Result.Output,
			"tool_exit_code": step.Result.ExitCode,
		})
		a.logger.Debug("agent.step.done", "step", steps-1, "tool", name, "exit_code", result.ExitCode)
	}

	elapsed := time.Since(start)
	history := a.StepHistory()

	a.publish(event.AgentTimeout, map[string]any{
		"step_history": serializeSteps(history),
		"duration":     fmt.Sprintf("%.2fs", elapsed.Seconds()),
		"num_steps":    steps - 1,
	})
	a.logger.Warn("agent.run.timeout", "steps", steps-1, "duration_ms", elapsed.Milliseconds())

	if len(history) == 0 {
		return tool.Failure(nil), ErrNoSteps
	}

	return tool.Failure(history[len(history)-1].Result.Output), nil
}

// chooseTool selects the tool for question. With a single tool no model call
// is made.
func (a *ToolUser) chooseTool(ctx context.Context, question string) (tool.Tool, error) {
	if len(a.tools) == 1 {
		return a.tools[0], nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\n Tools:\n", question)
	for i, t := range a.tools {
		if i > 0 {
			b.WriteString("\n")
		}
		docs := t.Docs()
		fmt.Fprintf(&b, "%s: %s", docs.Name, docs.Desc)
	}

	reply, err := a.ask(ctx, a.toolChooser, persona.ToolChooser, b.String())
	if err != nil {
		return nil, fmt.Errorf("agent %q: choose tool: %w", a.Name(), err)
	}

	choice := strings.TrimSpace(reply)
	selected, ok := a.byName[choice]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrToolNotFound, choice)
	}

	a.logger.Debug("agent.tool.chosen", "tool", choice)

	return selected, nil
}

// chooseArgs extracts the arguments of selected for question. Tools without
// parameters get empty arguments without a model call.
func (a *ToolUser) chooseArgs(ctx context.Context, question string, selected tool.Tool) (tool.Args, error) {
	docs := selected.Docs()
	if len(docs.Params) == 0 {
		return tool.Args{}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\nFunction: %s\nParameters:\n", question, docs.Desc)
	for _, p := range docs.Params {
		fmt.Fprintf(&b, "%s: %s\n", p.Name, p.Desc)
	}

	reply, err := a.ask(ctx, a.argChooser, persona.ArgChooser, b.String())
	if err != nil {
		return nil, fmt.Errorf("agent %q: choose args: %w", a.Name(), err)
	}

	return parseArgs(reply, docs)
}

// chooseNextStep asks whether the main question is answered by the steps so far.
func (a *ToolUser) chooseNextStep(ctx context.Context, mainQuestion string) (decision, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Main question: %s\n\n", mainQuestion)
	for _, step := range a.StepHistory() {
		label := "Output"
		if !step.Result.OK() {
			label = "Error"
		}
		fmt.Fprintf(&b, "Question: %s\n %s: %v\n", step.Question, label, step.Result.Output)
	}

	reply, err := a.ask(ctx, a.thinker, persona.NextStep, b.String())
	if err != nil {
		return decision{}, fmt.Errorf("agent %q: choose next step: %w", a.Name(), err)
	}

	return parseDecision(reply)
}

func (a *ToolUser) ask(ctx context.Context, c chat.Chat, systemPrompt, prompt string) (string, error) {
	if err := c.SetSystemPrompt(ctx, systemPrompt); err != nil {
		return "", err
	}
	return c.Reply(ctx, prompt)
}

func (a *ToolUser) publish(kind event.Kind, payload map[string]any) {
	a.bus.Publish(kind, a.Source(), payload)
}
