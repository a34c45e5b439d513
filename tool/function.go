package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/hupe1980/toolagent/event"
	"github.com/hupe1980/toolagent/logging"
)

// Func is the implementation behind a FunctionTool. It receives validated
// arguments and returns a Return, a *Return, or a map carrying "output" and an
// optional "exit_code". Returning a *ToolError reports a recoverable failure.
type Func func(ctx context.Context, args Args) (any, error)

// Options configures a FunctionTool.
type Options struct {
	// Bus receives ToolStart/ToolEnd events. Nil disables publishing.
	Bus *event.Bus

	// Logger receives tool.call.* records. Defaults to NoOpLogger.
	Logger logging.Logger

	// Confirmer answers HumanConfirmation requests. Defaults to a console
	// confirmer on stdin/stdout.
	Confirmer Confirmer
}

// FunctionTool exposes a plain Go function as a Tool.
//
// Responsibilities:
//   - Checks once, at construction, that the documented parameters match the
//     function signature
//   - Validates arguments against a JSON schema derived from the documentation
//   - Publishes ToolStart before and ToolEnd after every execution
//   - Normalizes the function value into a Return
//
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use.
type FunctionTool struct {
	docs      Documentation
	fn        Func
	schema    *gojsonschema.Schema
	source    string
	bus       *event.Bus
	logger    logging.Logger
	confirmer Confirmer
}

// New constructs a FunctionTool.
//
// Example:
//
//	echo, err := tool.New(
//	  tool.Documentation{
//	    Name: "echo",
//	    Desc: "Repeat the given text",
//	    Params: []tool.ParamDocumentation{{Name: "text", Desc: "Text to repeat", Type: "string"}},
//	  },
//	  tool.Signature{"text"},
//	  func(ctx context.Context, args tool.Args) (any, error) {
//	    return tool.Success(args["text"]), nil
//	  },
//	)
func New(docs Documentation, sig Signature, fn Func, optFns ...func(o *Options)) (*FunctionTool, error) {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, optFn := range optFns {
		optFn(&opts)
	}

	if err := checkSignature(docs, sig); err != nil {
		return nil, err
	}

	if fn == nil {
		return nil, &DefinitionError{Tool: docs.Name, Reason: "missing function"}
	}

	schema, err := compileSchema(docs)
	if err != nil {
		return nil, &DefinitionError{Tool: docs.Name, Reason: fmt.Sprintf("invalid parameter schema: %v", err)}
	}

	confirmer := opts.Confirmer
	if confirmer == nil {
		confirmer = StdConfirmer()
	}

	return &FunctionTool{
		docs:      docs,
		fn:        fn,
		schema:    schema,
		source:    event.NewSourceID(),
		bus:       opts.Bus,
		logger:    logging.With(logging.OrNoOp(opts.Logger), "tool", docs.Name),
		confirmer: confirmer,
	}, nil
}

// Docs returns the tool documentation.
func (t *FunctionTool) Docs() Documentation { return t.docs }

// Name returns the tool name.
func (t *FunctionTool) Name() string { return t.docs.Name }

// Source returns the opaque id used as event source.
func (t *FunctionTool) Source() string { return t.source }

// Execute validates args, runs the function and normalizes its value.
// Invalid arguments fail before ToolStart is published. Once ToolStart is
// out, ToolEnd follows unless the function fails with an error other than
// *ToolError or returns a value that is not a Return.
func (t *FunctionTool) Execute(ctx context.Context, args Args) (Return, error) {
	if args == nil {
		args = Args{}
	}

	if err := ctx.Err(); err != nil {
		return Return{}, err
	}

	if err := t.validate(args); err != nil {
		t.logger.Warn("tool.call.invalid_args", "error", err)
		return Return{}, err
	}

	kwargs := map[string]any(args.Clone())

	t.bus.Publish(event.ToolStart, t.source, map[string]any{
		"name":   t.docs.Name,
		"args":   []any{},
		"kwargs": kwargs,
	})

	t.logger.Debug("tool.call.start", "args", kwargs)
	start := time.Now()

	value, err := t.fn(ctx, args)

	var ret Return
	if err != nil {
		var toolErr *ToolError
		if !errors.As(err, &toolErr) {
			t.logger.Error("tool.call.error", "error", err, "duration_ms", time.Since(start).Milliseconds())
			return Return{}, err
		}
		ret = Failure(toolErr.Message)
	} else {
		ret, err = coerceReturn(value)
		if err != nil {
			t.logger.Error("tool.call.invalid_return", "error", err)
			return Return{}, fmt.Errorf("tool %q: %w", t.docs.Name, err)
		}
	}

	t.bus.Publish(event.ToolEnd, t.source, map[string]any{
		"name":           t.docs.Name,
		"args":           []any{},
		"kwargs":         kwargs,
		"tool_output":    ret.Output,
		"tool_exit_code": ret.ExitCode,
	})

	t.logger.Info("tool.call.done", "exit_code", ret.ExitCode, "duration_ms", time.Since(start).Milliseconds())

	return ret, nil
}

// HumanConfirmation asks the configured Confirmer to approve details.
func (t *FunctionTool) HumanConfirmation(ctx context.Context, details map[string]any) error {
	ok, err := t.confirmer.Confirm(ctx, Confirmation{Tool: t.docs.Name, Details: details})
	if err != nil {
		return fmt.Errorf("tool %q: confirmation: %w", t.docs.Name, err)
	}

	if !ok {
		t.logger.Warn("tool.confirmation.denied", "details", details)
		return &DeniedError{Tool: t.docs.Name, Details: details}
	}

	t.logger.Debug("tool.confirmation.approved")

	return nil
}

func (t *FunctionTool) validate(args Args) error {
	result, err := t.schema.Validate(gojsonschema.NewGoLoader(map[string]any(args)))
	if err != nil {
		return &ArgumentError{Tool: t.docs.Name, Problems: []string{err.Error()}}
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, re.String())
	}

	return &ArgumentError{Tool: t.docs.Name, Problems: problems}
}

func checkSignature(docs Documentation, sig Signature) error {
	if docs.Name == "" {
		return &DefinitionError{Reason: "empty tool name"}
	}

	documented := make(map[string]bool, len(docs.Params))
	for _, p := range docs.Params {
		if p.Name == "" {
			return &DefinitionError{Tool: docs.Name, Reason: "parameter without name"}
		}
		if documented[p.Name] {
			return &DefinitionError{Tool: docs.Name, Reason: fmt.Sprintf("duplicate parameter %q", p.Name)}
		}
		documented[p.Name] = true
	}

	declared := make(map[string]bool, len(sig))
	for _, name := range sig {
		if declared[name] {
			return &DefinitionError{Tool: docs.Name, Reason: fmt.Sprintf("duplicate signature name %q", name)}
		}
		declared[name] = true

		if !documented[name] {
			return &DefinitionError{Tool: docs.Name, Reason: fmt.Sprintf("signature name %q is not documented", name)}
		}
	}

	for name := range documented {
		if !declared[name] {
			return &DefinitionError{Tool: docs.Name, Reason: fmt.Sprintf("documented parameter %q is not in the signature", name)}
		}
	}

	return nil
}

var typeAliases = map[string]string{
	"str":   "string",
	"int":   "integer",
	"float": "number",
	"bool":  "boolean",
	"list":  "array",
	"tuple": "array",
	"dict":  "object",
	"map":   "object",
}

func compileSchema(docs Documentation) (*gojsonschema.Schema, error) {
	properties := make(map[string]any, len(docs.Params))
	required := []string{}

	for _, p := range docs.Params {
		prop := map[string]any{"description": p.Desc}
		if p.Type != "" {
			typ := p.Type
			if alias, ok := typeAliases[typ]; ok {
				typ = alias
			}
			prop["type"] = typ
		}
		properties[p.Name] = prop

		if !p.Optional {
			required = append(required, p.Name)
		}
	}

	schemaMap := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
	}
	if len(required) > 0 {
		schemaMap["required"] = required
	}

	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
}

func coerceReturn(value any) (Return, error) {
	switch v := value.(type) {
	case Return:
		return checkExitCode(v)
	case *Return:
		if v == nil {
			return Return{}, fmt.Errorf("%w: nil *Return", ErrInvalidReturn)
		}
		return checkExitCode(*v)
	case Args:
		return coerceMap(v)
	case map[string]any:
		return coerceMap(v)
	default:
		return Return{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidReturn, value)
	}
}

func coerceMap(m map[string]any) (Return, error) {
	output, ok := m["output"]
	if !ok {
		return Return{}, fmt.Errorf("%w: missing output", ErrInvalidReturn)
	}

	for k := range m {
		if k != "output" && k != "exit_code" {
			return Return{}, fmt.Errorf("%w: unexpected key %q", ErrInvalidReturn, k)
		}
	}

	code := ExitSuccess
	if raw, ok := m["exit_code"]; ok {
		c, ok := exitCode(raw)
		if !ok {
			return Return{}, fmt.Errorf("%w: exit_code %v", ErrInvalidReturn, raw)
		}
		code = c
	}

	return checkExitCode(Return{Output: output, ExitCode: code})
}

func exitCode(raw any) (int, bool) {
	switch c := raw.(type) {
	case int:
		return c, true
	case int64:
		return int(c), true
	case float64:
		if c == float64(int(c)) {
			return int(c), true
		}
	case json.Number:
		if i, err := c.Int64(); err == nil {
			return int(i), true
		}
	}
	return 0, false
}

func checkExitCode(r Return) (Return, error) {
	if r.ExitCode != ExitSuccess && r.ExitCode != ExitFailure {
		return Return{}, fmt.Errorf("%w: exit_code must be 0 or 1, got %d", ErrInvalidReturn, r.ExitCode)
	}
	return r, nil
}
