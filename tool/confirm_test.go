package tool

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" Yes \n", true},
		{"n\n", false},
		{"maybe\n", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			c := NewConsoleConfirmer(strings.NewReader(tt.input), &out)

			ok, err := c.Confirm(context.Background(), Confirmation{Tool: "rm", Details: map[string]any{"file_path": "a.txt"}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "Tool: rm")
			assert.Contains(t, out.String(), "(y/n)")
		})
	}
}

func TestConsoleConfirmer_SequentialAnswers(t *testing.T) {
	c := NewConsoleConfirmer(strings.NewReader("y\nn\n"), io.Discard)

	first, err := c.Confirm(context.Background(), Confirmation{Tool: "a"})
	require.NoError(t, err)
	second, err := c.Confirm(context.Background(), Confirmation{Tool: "b"})
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
}

func TestConsoleConfirmer_ContextCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	c := NewConsoleConfirmer(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := c.Confirm(ctx, Confirmation{Tool: "a"})
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsoleConfirmer_AnswerAfterCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	c := NewConsoleConfirmer(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Confirm(ctx, Confirmation{Tool: "a"})
	require.ErrorIs(t, err, context.Canceled)

	go func() {
		_, _ = io.WriteString(w, "y\n")
	}()

	ok, err := c.Confirm(context.Background(), Confirmation{Tool: "b"})
	require.NoError(t, err)
	assert.True(t, ok, "the answer typed after cancellation reaches the next prompt")
}

func TestConsoleConfirmer_ExhaustedInput(t *testing.T) {
	c := NewConsoleConfirmer(strings.NewReader("y\n"), io.Discard)

	for _, want := range []bool{true, false, false} {
		ok, err := c.Confirm(context.Background(), Confirmation{Tool: "a"})
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}
}

func TestHumanConfirmation(t *testing.T) {
	approve := newEcho(t, func(o *Options) { o.Confirmer = AutoApprove })
	assert.NoError(t, approve.HumanConfirmation(context.Background(), map[string]any{"x": 1}))

	deny := newEcho(t, func(o *Options) { o.Confirmer = AutoDeny })
	err := deny.HumanConfirmation(context.Background(), map[string]any{"x": 1})
	assert.ErrorIs(t, err, ErrUserDenied)

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, "echo", denied.Tool)
	assert.Equal(t, map[string]any{"x": 1}, denied.Details)

	var seen Confirmation
	custom := newEcho(t, func(o *Options) {
		o.Confirmer = ConfirmerFunc(func(_ context.Context, c Confirmation) (bool, error) {
			seen = c
			return true, nil
		})
	})
	require.NoError(t, custom.HumanConfirmation(context.Background(), map[string]any{"tool": "echo"}))
	assert.Equal(t, "echo", seen.Tool)
}
