package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockModel_PersonaQueues(t *testing.T) {
	ctx := context.Background()
	m := NewMockModel("mock").
		AddReplies("chooser", "echo", "calc").
		AddReplies("", "fallback")

	chooser := []Message{NewMessage(RoleSystem, "chooser"), NewMessage(RoleUser, "q1")}
	other := []Message{NewMessage(RoleSystem, "other"), NewMessage(RoleUser, "q2")}

	r, err := m.Complete(ctx, chooser)
	require.NoError(t, err)
	assert.Equal(t, "echo", r)

	r, err = m.Complete(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, "fallback", r)

	r, err = m.Complete(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: q2", r)

	assert.Equal(t, 1, m.Pending())
	assert.Len(t, m.CallsFor("chooser"), 1)
	assert.Len(t, m.CallsFor("other"), 2)
}

func TestMockModel_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockModel("mock").Complete(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
