// Package logging defines the Logger interface used throughout the module
// and a slog backed implementation.
//
// Constructors take a Logger through their Options and default to NoOpLogger,
// so nothing is written unless the caller opts in:
//
//	logger := logging.New(&logging.Config{Level: logging.LogLevelDebug, Format: "text"})
//	a, err := agent.NewToolUser(chat, tools, func(o *agent.Options) { o.Logger = logger })
//
// Messages are dotted component.action.outcome keys such as "tool.call.start"
// or "agent.step.done"; details go into key/value args.
package logging
