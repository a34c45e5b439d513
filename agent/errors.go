package agent

import "errors"

var (
	// ErrToolNotFound is returned when the tool chooser names an unknown tool.
	ErrToolNotFound = errors.New("agent: chosen tool not found")

	// ErrArgumentNotFound is returned when the arg chooser names a parameter
	// the selected tool does not declare.
	ErrArgumentNotFound = errors.New("agent: chosen argument not found")

	// ErrUnparsableArguments is returned when the arg chooser reply has no
	// recognizable shape.
	ErrUnparsableArguments = errors.New("agent: arguments could not be parsed")

	// ErrUnparsableDecision is returned when the continuation reply is neither
	// a question nor a final answer.
	ErrUnparsableDecision = errors.New("agent: decision could not be parsed")

	// ErrNoSteps is returned when the budget ran out before the first step.
	ErrNoSteps = errors.New("agent: budget exhausted before any step was taken")
)
