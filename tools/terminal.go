package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/hupe1980/toolagent/tool"
)

// DefaultShell is used by NewTerminal when no executable is given.
const DefaultShell = "/bin/sh"

// waitDelay bounds how long Run waits for output pipes after the command
// was killed.
const waitDelay = 500 * time.Millisecond

// NewTerminal returns the "Terminal" tool. It runs its "command" argument with
// executable -c and returns stdout. A non-zero exit yields a failed Return
// carrying stderr; exceeding timeout kills the command together with every
// process it spawned and aborts with an error wrapping
// context.DeadlineExceeded.
func NewTerminal(executable string, timeout time.Duration, optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	if executable == "" {
		executable = DefaultShell
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	docs := tool.Documentation{
		Name: "Terminal",
		Desc: fmt.Sprintf("Run the provided commands in the %s shell", executable),
		Params: []tool.ParamDocumentation{
			{Name: "command", Desc: "The terminal command to be run", Type: "string"},
		},
	}

	return tool.New(docs, tool.Signature{"command"}, func(ctx context.Context, args tool.Args) (any, error) {
		command, _ := args.String("command")

		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var stdout, stderr bytes.Buffer

		cmd := exec.CommandContext(runCtx, executable, "-c", command)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		cmd.WaitDelay = waitDelay
		setProcessGroup(cmd)

		err := cmd.Run()

		if runCtx.Err() != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("terminal: command timed out after %s: %w", timeout, context.DeadlineExceeded)
		}

		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return nil, tool.NewToolError(docs.Name, stderr.String(), "EXIT_"+strconv.Itoa(exitErr.ExitCode()))
			}
			return nil, fmt.Errorf("terminal: run %s: %w", executable, err)
		}

		return tool.Success(stdout.String()), nil
	}, optFns...)
}
