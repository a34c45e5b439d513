package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/toolagent/chat"
)

func newTestServer(t *testing.T, body string, captured *map[string]any) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		if captured != nil {
			assert.NoError(t, json.Unmarshal(raw, captured))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newTestClient(srv *httptest.Server) *openai.Client {
	client := openai.NewClient(
		option.WithBaseURL(srv.URL+"/"),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	return &client
}

func TestModel_Complete(t *testing.T) {
	var req map[string]any
	srv := newTestServer(t, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "echo"}}]
	}`, &req)

	m := NewModelFromClient(newTestClient(srv), func(o *Options) { o.Temperature = 0 })

	reply, err := m.Complete(context.Background(), []chat.Message{
		chat.NewMessage(chat.RoleSystem, "Pick a tool"),
		chat.NewMessage(chat.RoleUser, "Question: say hi"),
		chat.NewMessage(chat.RoleAssistant, "echo"),
		chat.NewMessage(chat.RoleUser, "Question: again"),
	})
	require.NoError(t, err)
	assert.Equal(t, "echo", reply)

	assert.Equal(t, "gpt-4o-mini", req["model"])
	messages, ok := req["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 4)

	var gotRoles []string
	for _, raw := range messages {
		gotRoles = append(gotRoles, raw.(map[string]any)["role"].(string))
	}
	assert.Equal(t, []string{"system", "user", "assistant", "user"}, gotRoles)
}

func TestModel_NoChoices(t *testing.T) {
	srv := newTestServer(t, `{"id": "chatcmpl-2", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini", "choices": []}`, nil)

	m := NewModelFromClient(newTestClient(srv))
	_, err := m.Complete(context.Background(), []chat.Message{chat.NewMessage(chat.RoleUser, "hi")})
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestModel_Info(t *testing.T) {
	m := NewModel(func(o *Options) {
		o.Model = "gpt-4.1"
		o.APIKey = "test-key"
	})
	assert.Equal(t, chat.Info{Name: "gpt-4.1", Provider: "openai"}, m.Info())
}
