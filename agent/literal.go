package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrNotLiteral is returned by ParseLiteral for input that is not a literal.
var ErrNotLiteral = errors.New("not a literal")

const maxLiteralDepth = 32

// ParseLiteral parses a restricted literal syntax: integers, floats, booleans
// (true/false/True/False), null/None, single or double quoted strings, lists
// [..], tuples (..) and maps {key: value}. Lists and tuples become []any,
// maps become map[string]any with keys formatted as strings. Integers that
// overflow int are kept exactly as json.Number. Nothing is ever evaluated.
func ParseLiteral(s string) (any, error) {
	p := &literalParser{src: s}
	p.skipSpace()

	v, err := p.value(0)
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing input")
	}

	return v, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrNotLiteral, fmt.Sprintf(format, args...), p.pos)
}

func (p *literalParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *literalParser) value(depth int) (any, error) {
	if depth > maxLiteralDepth {
		return nil, p.errorf("nesting too deep")
	}

	switch c := p.peek(); {
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	case c == '"' || c == '\'':
		return p.str()
	case c == '[':
		items, _, err := p.sequence(depth, ']')
		return items, err
	case c == '(':
		return p.tuple(depth)
	case c == '{':
		return p.mapping(depth)
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		return p.keyword()
	}
}

func (p *literalParser) keyword() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			break
		}
		p.pos++
	}

	switch word := p.src[start:p.pos]; word {
	case "true", "True":
		return true, nil
	case "false", "False":
		return false, nil
	case "null", "None":
		return nil, nil
	default:
		p.pos = start
		return nil, p.errorf("unexpected token")
	}
}

func (p *literalParser) number() (any, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}

	isFloat := false
scan:
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c >= '0' && c <= '9' || c == '_':
		case c == '.' || c == 'e' || c == 'E':
			isFloat = true
		case (c == '-' || c == '+') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E'):
		default:
			break scan
		}
		p.pos++
	}

	text := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	if !isFloat {
		i, err := strconv.ParseInt(text, 10, 0)
		if err == nil {
			return int(i), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return json.Number(strings.TrimPrefix(text, "+")), nil
		}
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start
		return nil, p.errorf("invalid number %q", text)
	}
	return f, nil
}

func (p *literalParser) str() (any, error) {
	quote := p.src[p.pos]
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\' && p.pos+1 < len(p.src):
			p.pos++
			switch esc := p.src[p.pos]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteByte(esc)
			default:
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}

	return nil, p.errorf("unterminated string")
}

// sequence parses comma separated values up to closing, allowing a trailing
// comma. It reports whether any separator was seen.
func (p *literalParser) sequence(depth int, closing byte) ([]any, bool, error) {
	p.pos++ // opening bracket
	items := []any{}
	separated := false

	for {
		p.skipSpace()
		if p.peek() == closing {
			p.pos++
			return items, separated, nil
		}

		v, err := p.value(depth + 1)
		if err != nil {
			return nil, false, err
		}
		items = append(items, v)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			separated = true
		case closing:
			p.pos++
			return items, separated, nil
		default:
			return nil, false, p.errorf("expected ',' or %q", closing)
		}
	}
}

// tuple parses (a, b). A parenthesized single value without comma is the value itself.
func (p *literalParser) tuple(depth int) (any, error) {
	items, separated, err := p.sequence(depth, ')')
	if err != nil {
		return nil, err
	}

	if len(items) == 1 && !separated {
		return items[0], nil
	}
	return items, nil
}

func (p *literalParser) mapping(depth int) (map[string]any, error) {
	p.pos++ // {
	out := map[string]any{}

	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return out, nil
		}

		key, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		switch key.(type) {
		case string, int, float64, bool, json.Number:
		default:
			return nil, p.errorf("unsupported map key %T", key)
		}

		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':'")
		}
		p.pos++
		p.skipSpace()

		v, err := p.value(depth + 1)
		if err != nil {
			return nil, err
		}
		out[fmt.Sprint(key)] = v

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return out, nil
		default:
			return nil, p.errorf("expected ',' or '}'")
		}
	}
}
