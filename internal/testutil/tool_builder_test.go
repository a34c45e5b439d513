package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/toolagent/tool"
)

func TestToolBuilder_DefaultSignature(t *testing.T) {
	adder, err := NewToolBuilder("Adder").Param("x", "first").Param("y", "second").TryBuild()
	require.NoError(t, err)

	ret, err := adder.Execute(context.Background(), tool.Args{"x": 1, "y": 2})
	require.NoError(t, err)
	assert.Equal(t, tool.Success("Adder"), ret)
}

func TestToolBuilder_SignatureMismatch(t *testing.T) {
	tests := []struct {
		name string
		sig  []string
	}{
		{"missing parameter", []string{"x"}},
		{"undocumented name", []string{"x", "z"}},
		{"empty", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewToolBuilder("Adder").Param("x", "first").Param("y", "second").Signature(tt.sig...).TryBuild()

			var defErr *tool.DefinitionError
			assert.ErrorAs(t, err, &defErr)
		})
	}
}
