package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hupe1980/toolagent/event"
	"github.com/hupe1980/toolagent/logging"
)

// ErrEmptyReply is returned when a model answers with no content.
var ErrEmptyReply = errors.New("chat: empty reply")

// SessionOptions configures a Session.
type SessionOptions struct {
	// Bus receives Chat* events. Nil disables publishing.
	Bus *event.Bus

	// Logger receives chat.* records. Defaults to NoOpLogger.
	Logger logging.Logger

	// MaxHistory bounds the number of non-system messages sent to the model.
	// Zero means unbounded.
	MaxHistory int

	// Tokenizer counts message tokens. When set, Chat* events carry
	// msg_tokens and reply_tokens.
	Tokenizer Tokenizer

	// MaxInputTokens bounds the tokens sent to the model. The oldest
	// non-system messages are dropped until the input fits. Requires
	// Tokenizer; zero means unbounded.
	MaxInputTokens int

	// AllowEmptyReply accepts blank model replies instead of failing with
	// ErrEmptyReply.
	AllowEmptyReply bool
}

// Session is a Chat backed by a Model. It is safe for concurrent use, but
// concurrent Reply calls interleave their messages in the shared history.
type Session struct {
	mu      sync.Mutex
	model   Model
	history []Message
	source  string
	opts    SessionOptions
	logger  logging.Logger
}

// NewSession creates an empty session over model.
func NewSession(model Model, optFns ...func(o *SessionOptions)) *Session {
	opts := SessionOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Session{
		model:  model,
		source: event.NewSourceID(),
		opts:   opts,
		logger: logging.With(logging.OrNoOp(opts.Logger), "model", model.Info().Name),
	}
}

// Source returns the opaque id used as event source.
func (s *Session) Source() string { return s.source }

// Model returns the backend.
func (s *Session) Model() Model { return s.model }

// History returns a copy of the current history.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Message(nil), s.history...)
}

// SetSystemPrompt resets the history to a single system message.
func (s *Session) SetSystemPrompt(_ context.Context, persona string) error {
	s.mu.Lock()
	s.history = []Message{NewMessage(RoleSystem, persona)}
	s.mu.Unlock()

	s.opts.Bus.Publish(event.ChatInit, s.source, map[string]any{
		"system_role":    string(RoleSystem),
		"system_content": persona,
	})

	s.logger.Debug("chat.persona.set", "length", len(persona))

	return nil
}

// Reply sends prompt with the current history to the model. On failure the
// prompt is removed from the history again.
func (s *Session) Reply(ctx context.Context, prompt string) (string, error) {
	msg := NewMessage(RoleUser, prompt)

	s.mu.Lock()
	s.history = append(s.history, msg)
	messages, err := s.window()
	s.mu.Unlock()

	if err != nil {
		s.rollback(msg.ID)
		s.logger.Warn("chat.reply.too_long", "error", err)
		return "", err
	}

	startPayload := map[string]any{
		"msg_role":    string(msg.Role),
		"msg_content": msg.Content,
	}
	s.addTokens(startPayload, "msg_tokens", msg.Content)
	s.opts.Bus.Publish(event.ChatStart, s.source, startPayload)

	start := time.Now()

	reply, err := s.model.Complete(ctx, messages)
	if err == nil && reply == "" && !s.opts.AllowEmptyReply {
		err = ErrEmptyReply
	}

	if err != nil {
		s.rollback(msg.ID)
		s.logger.Error("chat.reply.error", "error", err)
		return "", err
	}

	s.mu.Lock()
	s.history = append(s.history, NewMessage(RoleAssistant, reply))
	s.mu.Unlock()

	endPayload := map[string]any{
		"msg_role":      string(msg.Role),
		"msg_content":   msg.Content,
		"reply_role":    string(RoleAssistant),
		"reply_content": reply,
	}
	s.addTokens(endPayload, "msg_tokens", msg.Content)
	s.addTokens(endPayload, "reply_tokens", reply)
	s.opts.Bus.Publish(event.ChatEnd, s.source, endPayload)

	s.logger.Debug("chat.reply.done", "duration_ms", time.Since(start).Milliseconds())

	return reply, nil
}

// Clone returns an independent session with a copy of the history and a new
// event source id.
func (s *Session) Clone() Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &Session{
		model:   s.model,
		history: append([]Message(nil), s.history...),
		source:  event.NewSourceID(),
		opts:    s.opts,
		logger:  s.logger,
	}
}

// Save writes the history as JSON to path.
func (s *Session) Save(path string) error {
	data, err := json.MarshalIndent(s.History(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode chat history: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("save chat history: %w", err)
	}

	s.opts.Bus.Publish(event.ChatSaved, s.source, map[string]any{"filepath": path})

	return nil
}

// Load replaces the history with the JSON document at path.
func (s *Session) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load chat history: %w", err)
	}

	var history []Message
	if err := json.Unmarshal(data, &history); err != nil {
		return fmt.Errorf("decode chat history: %w", err)
	}

	s.mu.Lock()
	s.history = history
	s.mu.Unlock()

	s.opts.Bus.Publish(event.ChatLoaded, s.source, map[string]any{"filepath": path})

	return nil
}

// window returns the messages sent to the model. Callers must hold s.mu.
func (s *Session) window() ([]Message, error) {
	budget := s.opts.Tokenizer != nil && s.opts.MaxInputTokens > 0
	if s.opts.MaxHistory <= 0 && !budget {
		return append([]Message(nil), s.history...), nil
	}

	var system []Message
	rest := make([]Message, 0, len(s.history))
	for _, m := range s.history {
		if m.Role == RoleSystem && len(system) == 0 {
			system = append(system, m)
			continue
		}
		rest = append(rest, m)
	}

	if s.opts.MaxHistory > 0 && len(rest) > s.opts.MaxHistory {
		rest = rest[len(rest)-s.opts.MaxHistory:]
	}

	if budget {
		total := 0
		for _, m := range system {
			total += s.opts.Tokenizer.CountTokens(m.Content)
		}
		for _, m := range rest {
			total += s.opts.Tokenizer.CountTokens(m.Content)
		}

		// the newest message is never dropped
		for total > s.opts.MaxInputTokens && len(rest) > 1 {
			total -= s.opts.Tokenizer.CountTokens(rest[0].Content)
			rest = rest[1:]
		}

		if total > s.opts.MaxInputTokens {
			return nil, fmt.Errorf("%w: %d tokens, limit %d", ErrTokenLimit, total, s.opts.MaxInputTokens)
		}
	}

	return append(system, rest...), nil
}

func (s *Session) addTokens(payload map[string]any, key, content string) {
	if s.opts.Tokenizer != nil {
		payload[key] = s.opts.Tokenizer.CountTokens(content)
	}
}

func (s *Session) rollback(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].ID == id {
			s.history = append(s.history[:i], s.history[i+1:]...)
			return
		}
	}
}
