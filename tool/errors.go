package tool

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidReturn is returned when a tool function produces a value that
	// cannot be coerced into a Return.
	ErrInvalidReturn = errors.New("tool: invalid return value")

	// ErrUserDenied matches every *DeniedError.
	ErrUserDenied = errors.New("tool: user denied")
)

// DefinitionError reports an inconsistent tool or agent definition detected at
// construction time.
type DefinitionError struct {
	Tool   string
	Reason string
}

func (e *DefinitionError) Error() string {
	if e.Tool == "" {
		return "tool definition: " + e.Reason
	}
	return fmt.Sprintf("tool definition %q: %s", e.Tool, e.Reason)
}

// ArgumentError reports arguments that violate the documented parameters.
type ArgumentError struct {
	Tool     string
	Problems []string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("tool %q: invalid arguments: %s", e.Tool, strings.Join(e.Problems, "; "))
}

// DeniedError is returned when a human rejects a confirmation request.
type DeniedError struct {
	Tool    string
	Details map[string]any
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("user denied tool %q: %v", e.Tool, e.Details)
}

// Is makes errors.Is(err, ErrUserDenied) succeed for denials.
func (e *DeniedError) Is(target error) bool { return target == ErrUserDenied }
