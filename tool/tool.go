// Package tool defines the contract every capability an agent can invoke must
// satisfy: self description (Documentation), validated execution returning a
// normalized Return, and an optional human confirmation gate.
package tool

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Tool is a named capability an agent can select and execute.
//
// Implementations should:
//   - Provide a unique name and a description a language model can act on
//   - Document every accepted parameter in Docs().Params
//   - Report recoverable failures as data (Return.ExitCode == 1), not errors
//   - Be safe for concurrent Execute calls when shared between agents
type Tool interface {
	// Docs returns the self description used for tool and argument selection.
	Docs() Documentation

	// Execute runs the tool with named arguments. The returned error is
	// reserved for contract violations, denials and cancellation.
	Execute(ctx context.Context, args Args) (Return, error)

	// HumanConfirmation asks a human to approve an action described by
	// details. Any non affirmative answer yields a *DeniedError.
	HumanConfirmation(ctx context.Context, details map[string]any) error
}

// ParamDocumentation describes a single tool parameter.
type ParamDocumentation struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
	// Type optionally constrains the value: string, integer, number, boolean,
	// array or object.
	Type     string `json:"type,omitempty"`
	Optional bool   `json:"optional,omitempty"`
}

// Documentation is the self description of a tool.
type Documentation struct {
	Name   string               `json:"name"`
	Desc   string               `json:"desc"`
	Params []ParamDocumentation `json:"params,omitempty"`
}

// Param looks up a parameter by name.
func (d Documentation) Param(name string) (ParamDocumentation, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamDocumentation{}, false
}

// Signature lists the formal parameter names of a tool function. It must match
// the documented parameter names exactly.
type Signature []string

// Return is the normalized result of a tool execution.
type Return struct {
	Output   any `json:"output"`
	ExitCode int `json:"exit_code"`
}

// Exit codes carried by Return.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// OK reports whether the execution succeeded.
func (r Return) OK() bool { return r.ExitCode == ExitSuccess }

// Map returns the serialized form of r.
func (r Return) Map() map[string]any {
	return map[string]any{"output": r.Output, "exit_code": r.ExitCode}
}

// Success wraps output in a successful Return.
func Success(output any) Return { return Return{Output: output, ExitCode: ExitSuccess} }

// Failure wraps output in a failed Return.
func Failure(output any) Return { return Return{Output: output, ExitCode: ExitFailure} }

// Args holds named tool arguments.
type Args map[string]any

// Clone returns a shallow copy of a.
func (a Args) Clone() Args {
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// String returns the argument as a string. Non string values are formatted.
func (a Args) String(name string) (string, bool) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", false
	}

	switch t := v.(type) {
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	default:
		return fmt.Sprint(t), true
	}
}

// StringOr returns the named string argument or def when absent.
func (a Args) StringOr(name, def string) string {
	if s, ok := a.String(name); ok {
		return s
	}
	return def
}

// Int returns the argument as an int, accepting numeric and numeric string values.
func (a Args) Int(name string) (int, bool) {
	switch t := a[name].(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t == float64(int(t)) {
			return int(t), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// Float returns the argument as a float64.
func (a Args) Float(name string) (float64, bool) {
	switch t := a[name].(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Bool returns the argument as a bool.
func (a Args) Bool(name string) (bool, bool) {
	switch t := a[name].(type) {
	case bool:
		return t, true
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b, true
		}
	}
	return false, false
}

// Map returns the argument as a map with string keys.
func (a Args) Map(name string) (map[string]any, bool) {
	m, ok := a[name].(map[string]any)
	return m, ok
}

// ToolError is a recoverable, tool-domain failure. A tool function returning a
// *ToolError produces Return{Output: Message, ExitCode: 1} instead of an error.
type ToolError struct {
	Tool    string `json:"tool"`           // Name of the tool that failed
	Message string `json:"message"`        // Error message
	Code    string `json:"code,omitempty"` // Error code for categorization
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
