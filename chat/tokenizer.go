package chat

import (
	"errors"
	"strings"
)

// ErrTokenLimit is returned by Reply when the system prompt and the new
// message alone exceed SessionOptions.MaxInputTokens.
var ErrTokenLimit = errors.New("chat: input exceeds token limit")

// Tokenizer counts the tokens of a message content.
type Tokenizer interface {
	CountTokens(text string) int
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(text string) int

// CountTokens calls f.
func (f TokenizerFunc) CountTokens(text string) int { return f(text) }

// WordTokenizer approximates tokens by whitespace separated words.
var WordTokenizer Tokenizer = TokenizerFunc(func(text string) int { return len(strings.Fields(text)) })
