package tools

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/toolagent/tool"
)

func TestHTTPGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		if r.URL.Path == "/missing" {
			http.Error(w, "not here", http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, "hello "+r.Header.Get("X-Name"))
	}))
	defer srv.Close()

	get, err := NewHTTPGet(srv.Client())
	require.NoError(t, err)

	ret, err := get.Execute(context.Background(), tool.Args{
		"url":     srv.URL,
		"headers": map[string]any{"X-Name": "gopher"},
	})
	require.NoError(t, err)
	assert.Equal(t, tool.Success(map[string]any{"status": 200, "body": "hello gopher"}), ret)

	ret, err = get.Execute(context.Background(), tool.Args{"url": srv.URL + "/missing"})
	require.NoError(t, err)
	assert.Equal(t, tool.ExitFailure, ret.ExitCode)
	assert.Equal(t, 404, ret.Output.(map[string]any)["status"])
}

func TestHTTPPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	post, err := NewHTTPPost(srv.Client())
	require.NoError(t, err)

	ret, err := post.Execute(context.Background(), tool.Args{
		"url":  srv.URL,
		"data": map[string]any{"name": "gopher"},
	})
	require.NoError(t, err)
	assert.Equal(t, tool.Success(map[string]any{"status": 201, "body": `{"name":"gopher"}`}), ret)
}

func TestHTTPGet_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	get, err := NewHTTPGet(nil)
	require.NoError(t, err)

	ret, err := get.Execute(context.Background(), tool.Args{"url": url})
	require.NoError(t, err)
	assert.Equal(t, tool.ExitFailure, ret.ExitCode)
}
