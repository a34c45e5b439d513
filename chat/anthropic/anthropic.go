// Package anthropic provides a chat.Model wrapper for the Anthropic Claude API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/toolagent/chat"
)

// ErrNoText is returned when a response carries no text block.
var ErrNoText = errors.New("anthropic: response contains no text")

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the chat.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a Model with a client reading ANTHROPIC_API_KEY unless
// Options.APIKey is set.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Model{
		client: &client,
		opts:   opts,
	}
}

// NewModelFromClient creates a Model on a preconfigured client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Model{
		client: client,
		opts:   opts,
	}
}

func defaultOptions() Options {
	return Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.7,
		MaxTokens:   4096,
	}
}

// Complete implements chat.Model. System messages are sent as system blocks,
// the rest as alternating user and assistant messages.
func (m *Model) Complete(ctx context.Context, messages []chat.Message) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    buildMessages(messages),
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}

	if systemBlocks := extractSystemMessage(messages); len(systemBlocks) > 0 {
		params.System = systemBlocks
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	var texts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			if text := block.AsText().Text; text != "" {
				texts = append(texts, text)
			}
		}
	}

	if len(texts) == 0 {
		return "", ErrNoText
	}

	return strings.Join(texts, ""), nil
}

// buildMessages converts the non-system history into Anthropic messages,
// merging consecutive messages of the same role.
func buildMessages(messages []chat.Message) []anthropic.MessageParam {
	var (
		out     []anthropic.MessageParam
		role    chat.Role
		pending []anthropic.ContentBlockParamUnion
	)

	flush := func() {
		if len(pending) == 0 {
			return
		}
		if role == chat.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(pending...))
		} else {
			out = append(out, anthropic.NewUserMessage(pending...))
		}
		pending = nil
	}

	for _, msg := range messages {
		if msg.Role == chat.RoleSystem || msg.Content == "" {
			continue
		}

		r := msg.Role
		if r != chat.RoleAssistant {
			r = chat.RoleUser
		}

		if r != role {
			flush()
			role = r
		}
		pending = append(pending, anthropic.NewTextBlock(msg.Content))
	}
	flush()

	return out
}

// extractSystemMessage collects system messages as system blocks.
func extractSystemMessage(messages []chat.Message) []anthropic.TextBlockParam {
	var systemBlocks []anthropic.TextBlockParam
	for _, msg := range messages {
		if msg.Role == chat.RoleSystem && msg.Content != "" {
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: msg.Content})
		}
	}
	return systemBlocks
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() chat.Info {
	return chat.Info{
		Name:     string(m.opts.Model),
		Provider: "anthropic",
	}
}
