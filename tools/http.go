package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hupe1980/toolagent/tool"
)

// maxResponseBody caps the response body kept as tool output.
const maxResponseBody = 1 << 20

var (
	urlParam     = tool.ParamDocumentation{Name: "url", Desc: "The URL, e.g. https://www.google.com", Type: "string"}
	headersParam = tool.ParamDocumentation{Name: "headers", Desc: "Optional request headers", Type: "object", Optional: true}
)

// NewHTTPGet returns the "HTTP Get" tool. The output is {status, body}; a
// status of 400 or above yields exit code 1. A nil client uses
// http.DefaultClient.
func NewHTTPGet(client *http.Client, optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{
		Name:   "HTTP Get",
		Desc:   "Make a HTTP GET request",
		Params: []tool.ParamDocumentation{urlParam, headersParam},
	}

	return tool.New(docs, tool.Signature{"url", "headers"}, func(ctx context.Context, args tool.Args) (any, error) {
		return doRequest(ctx, client, docs.Name, http.MethodGet, args, nil)
	}, optFns...)
}

// NewHTTPPost returns the "HTTP Post" tool. The data argument is sent as a
// JSON body.
func NewHTTPPost(client *http.Client, optFns ...func(o *tool.Options)) (*tool.FunctionTool, error) {
	docs := tool.Documentation{
		Name: "HTTP Post",
		Desc: "Make a HTTP POST request",
		Params: []tool.ParamDocumentation{
			urlParam,
			{Name: "data", Desc: "The JSON body of the request"},
			headersParam,
		},
	}

	return tool.New(docs, tool.Signature{"url", "data", "headers"}, func(ctx context.Context, args tool.Args) (any, error) {
		body, err := json.Marshal(args["data"])
		if err != nil {
			return nil, tool.NewToolError(docs.Name, fmt.Sprintf("encode data: %v", err), "ENCODE_ERROR")
		}

		return doRequest(ctx, client, docs.Name, http.MethodPost, args, body)
	}, optFns...)
}

func doRequest(ctx context.Context, client *http.Client, name, method string, args tool.Args, body []byte) (any, error) {
	if client == nil {
		client = http.DefaultClient
	}

	url, _ := args.String("url")

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, tool.NewToolError(name, err.Error(), "REQUEST_ERROR")
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if headers, ok := args.Map("headers"); ok {
		for k, v := range headers {
			req.Header.Set(k, fmt.Sprint(v))
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, tool.NewToolError(name, err.Error(), "TRANSPORT_ERROR")
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, tool.NewToolError(name, err.Error(), "TRANSPORT_ERROR")
	}

	output := map[string]any{"status": resp.StatusCode, "body": string(b)}
	if resp.StatusCode >= http.StatusBadRequest {
		return tool.Failure(output), nil
	}

	return tool.Success(output), nil
}
