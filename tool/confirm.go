package tool

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Confirmation describes an action awaiting human approval.
type Confirmation struct {
	Tool    string
	Details map[string]any
}

// Confirmer decides whether an action may proceed.
type Confirmer interface {
	Confirm(ctx context.Context, c Confirmation) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, c Confirmation) (bool, error)

// Confirm calls f.
func (f ConfirmerFunc) Confirm(ctx context.Context, c Confirmation) (bool, error) {
	return f(ctx, c)
}

// AutoApprove approves every request. Use only for trusted tool sets.
var AutoApprove Confirmer = ConfirmerFunc(func(context.Context, Confirmation) (bool, error) { return true, nil })

// AutoDeny rejects every request.
var AutoDeny Confirmer = ConfirmerFunc(func(context.Context, Confirmation) (bool, error) { return false, nil })

// ConsoleConfirmer prompts on a writer and reads the answer from a reader.
// "y" and "yes" (any case) approve; anything else, including EOF, denies.
//
// A single goroutine owns the reader. A line typed after a prompt was
// cancelled answers the next prompt instead of being lost.
type ConsoleConfirmer struct {
	mu       sync.Mutex
	reader   *bufio.Reader
	writer   io.Writer
	answers  chan answer
	readOnce sync.Once
}

// NewConsoleConfirmer creates a confirmer reading from r and prompting on w.
func NewConsoleConfirmer(r io.Reader, w io.Writer) *ConsoleConfirmer {
	return &ConsoleConfirmer{
		reader:  bufio.NewReader(r),
		writer:  w,
		answers: make(chan answer),
	}
}

var (
	stdConfirmer     *ConsoleConfirmer
	stdConfirmerOnce sync.Once
)

// StdConfirmer returns the process wide console confirmer on stdin/stdout.
func StdConfirmer() *ConsoleConfirmer {
	stdConfirmerOnce.Do(func() {
		stdConfirmer = NewConsoleConfirmer(os.Stdin, os.Stdout)
	})
	return stdConfirmer
}

type answer struct {
	line string
	err  error
}

// readLines feeds c.answers until the reader fails. The channel is closed
// after the final answer.
func (c *ConsoleConfirmer) readLines() {
	defer close(c.answers)

	for {
		line, err := c.reader.ReadString('\n')
		c.answers <- answer{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// Confirm prompts for approval and waits for an answer or ctx cancellation.
func (c *ConsoleConfirmer) Confirm(ctx context.Context, req Confirmation) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintf(c.writer, "\nTool: %s\nDetails: %v (y/n): ", req.Tool, req.Details)

	c.readOnce.Do(func() { go c.readLines() })

	select {
	case a, ok := <-c.answers:
		if !ok {
			return false, nil // input exhausted
		}
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return false, fmt.Errorf("failed to read input: %w", a.err)
		}

		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	case <-ctx.Done():
		fmt.Fprintln(c.writer)
		return false, ctx.Err()
	}
}
