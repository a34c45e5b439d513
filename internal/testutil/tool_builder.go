package testutil

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/toolagent/event"
	"github.com/hupe1980/toolagent/tool"
)

// ToolBuilder helps construct function tools with fluent chaining for tests.
// Tools default to auto approving confirmations.
// Example:
//
//	adder := NewToolBuilder("Adder").Desc("Adds x and y").Param("x", "first").Param("y", "second").
//		Func(func(ctx context.Context, a tool.Args) (any, error) { ... }).Build(t)
type ToolBuilder struct {
	docs      tool.Documentation
	fn        tool.Func
	bus       *event.Bus
	confirmer tool.Confirmer
	calls     *atomic.Int64
	sig       tool.Signature
	sigSet    bool
}

// NewToolBuilder creates a builder for a tool named name. Without Func the
// tool returns its name as output.
func NewToolBuilder(name string) *ToolBuilder {
	return &ToolBuilder{
		docs:      tool.Documentation{Name: name, Desc: name + " tool"},
		confirmer: tool.AutoApprove,
	}
}

// Desc sets the tool description (chainable).
func (b *ToolBuilder) Desc(desc string) *ToolBuilder { b.docs.Desc = desc; return b }

// Param declares a required untyped parameter (chainable).
func (b *ToolBuilder) Param(name, desc string) *ToolBuilder {
	b.docs.Params = append(b.docs.Params, tool.ParamDocumentation{Name: name, Desc: desc})
	return b
}

// TypedParam declares a required parameter with a type (chainable).
func (b *ToolBuilder) TypedParam(name, desc, typ string) *ToolBuilder {
	b.docs.Params = append(b.docs.Params, tool.ParamDocumentation{Name: name, Desc: desc, Type: typ})
	return b
}

// Signature declares the function signature (chainable). Without it the
// signature lists the declared parameters in order.
func (b *ToolBuilder) Signature(names ...string) *ToolBuilder {
	b.sig, b.sigSet = names, true
	return b
}

// Func sets the implementation (chainable).
func (b *ToolBuilder) Func(fn tool.Func) *ToolBuilder { b.fn = fn; return b }

// Bus sets the event bus (chainable).
func (b *ToolBuilder) Bus(bus *event.Bus) *ToolBuilder { b.bus = bus; return b }

// Confirmer sets the confirmer (chainable).
func (b *ToolBuilder) Confirmer(c tool.Confirmer) *ToolBuilder { b.confirmer = c; return b }

// CountCalls stores the number of executions in counter (chainable).
func (b *ToolBuilder) CountCalls(counter *atomic.Int64) *ToolBuilder { b.calls = counter; return b }

// Build constructs the tool, failing the test on definition errors.
func (b *ToolBuilder) Build(t testing.TB) *tool.FunctionTool {
	t.Helper()

	ft, err := b.TryBuild()
	if err != nil {
		t.Fatalf("build tool %q: %v", b.docs.Name, err)
	}

	return ft
}

// TryBuild constructs the tool and returns definition errors.
func (b *ToolBuilder) TryBuild() (*tool.FunctionTool, error) {
	sig := b.sig
	if !b.sigSet {
		sig = make(tool.Signature, len(b.docs.Params))
		for i, p := range b.docs.Params {
			sig[i] = p.Name
		}
	}

	fn := b.fn
	if fn == nil {
		name := b.docs.Name
		fn = func(context.Context, tool.Args) (any, error) { return tool.Success(name), nil }
	}

	if counter := b.calls; counter != nil {
		inner := fn
		fn = func(ctx context.Context, args tool.Args) (any, error) {
			counter.Add(1)
			return inner(ctx, args)
		}
	}

	return tool.New(b.docs, sig, fn, func(o *tool.Options) {
		o.Bus = b.bus
		o.Confirmer = b.confirmer
	})
}

// EchoTool returns a tool named "Echo" whose output is its "text" argument.
func EchoTool(t testing.TB, bus *event.Bus) *tool.FunctionTool {
	t.Helper()

	return NewToolBuilder("Echo").
		Desc("Repeats the given text").
		TypedParam("text", "The text to repeat", "string").
		Bus(bus).
		Func(func(_ context.Context, args tool.Args) (any, error) {
			text, _ := args.String("text")
			return tool.Success(text), nil
		}).
		Build(t)
}
