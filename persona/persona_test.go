package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out, err := Render(CodingLanguageExpert, map[string]any{"Language": "Go"})
	require.NoError(t, err)
	assert.Equal(t, "You are an expert in writing Go code. Only use Go default libraries. Reply only with the code and nothing else", out)

	out, err = Render(LanguageTranslator, map[string]any{"LanguageFrom": "German", "LanguageTo": "English"})
	require.NoError(t, err)
	assert.Contains(t, out, "statement in German which you need to translate to English")
}

func TestRender_NoTemplate(t *testing.T) {
	out, err := Render(ToolChooser, nil)
	require.NoError(t, err)
	assert.Equal(t, ToolChooser, out)
}

func TestRender_MissingField(t *testing.T) {
	_, err := Render(Character, map[string]any{"Language": "Go"})
	assert.Error(t, err)

	assert.Panics(t, func() { MustRender(Character, nil) })
}

func TestRender_NoEscaping(t *testing.T) {
	out := MustRender(Character, map[string]any{"Character": "Sherlock <Holmes> & Watson"})
	assert.Equal(t, "You are Sherlock <Holmes> & Watson. Reply only with what Sherlock <Holmes> & Watson would say and nothing else", out)
}
