package agent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/toolagent/tool"
)

type decisionKind int

const (
	decisionQuestion decisionKind = iota
	decisionFinalAnswer
)

type decision struct {
	kind decisionKind
	text string
}

// cleanReply trims whitespace and a surrounding markdown code fence.
func cleanReply(reply string) string {
	reply = strings.TrimSpace(reply)
	if !strings.HasPrefix(reply, "```") {
		return reply
	}

	reply = strings.TrimPrefix(reply, "```")
	if nl := strings.IndexByte(reply, '\n'); nl >= 0 {
		reply = reply[nl+1:] // drop language tag
	}
	reply = strings.TrimSuffix(strings.TrimSpace(reply), "```")

	return strings.TrimSpace(reply)
}

// parseDecision reads a continuation reply. The tagged JSON form is preferred;
// "Question: ..." and "Final Answer: ..." are accepted and split on the first
// colon only, so answers may contain colons.
func parseDecision(reply string) (decision, error) {
	cleaned := cleanReply(reply)

	if strings.HasPrefix(cleaned, "{") {
		var tagged struct {
			Type string `json:"type"`
			Text any    `json:"text"`
		}
		if err := json.Unmarshal([]byte(cleaned), &tagged); err == nil {
			if kind, ok := decisionLabel(tagged.Type); ok && tagged.Text != nil {
				return decision{kind: kind, text: strings.TrimSpace(formatText(tagged.Text))}, nil
			}
		}
		return decision{}, fmt.Errorf("%w: %q", ErrUnparsableDecision, reply)
	}

	label, text, found := strings.Cut(cleaned, ":")
	if !found {
		return decision{}, fmt.Errorf("%w: %q", ErrUnparsableDecision, reply)
	}

	kind, ok := decisionLabel(label)
	if !ok {
		return decision{}, fmt.Errorf("%w: %q", ErrUnparsableDecision, reply)
	}

	return decision{kind: kind, text: strings.TrimSpace(text)}, nil
}

func decisionLabel(label string) (decisionKind, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "question":
		return decisionQuestion, true
	case "final answer", "final_answer":
		return decisionFinalAnswer, true
	default:
		return 0, false
	}
}

func formatText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// parseArgs reads an argument reply for docs. Accepted shapes, in order: a
// JSON object, a literal map, and one "name: value" pair per line. Every name
// must be a documented parameter.
func parseArgs(reply string, docs tool.Documentation) (tool.Args, error) {
	cleaned := cleanReply(reply)

	raw, err := decodeArgs(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnparsableArguments, reply)
	}

	args := make(tool.Args, len(raw))
	for name, value := range raw {
		param, ok := docs.Param(name)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q not found in tool %q", ErrArgumentNotFound, name, docs.Name)
		}
		args[name] = coerceArg(value, param)
	}

	return args, nil
}

func decodeArgs(s string) (map[string]any, error) {
	if strings.HasPrefix(s, "{") {
		if m, err := decodeJSONObject(s); err == nil {
			return m, nil
		}
		if v, err := ParseLiteral(s); err == nil {
			if m, ok := v.(map[string]any); ok {
				return m, nil
			}
		}
	}

	return parseLines(s)
}

func decodeJSONObject(s string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after object")
	}

	for k, v := range m {
		m[k] = normalizeNumbers(v)
	}

	return m, nil
}

// normalizeNumbers turns json.Number into int where it fits and float64 for
// fractions. Integers beyond int64 stay json.Number.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if !strings.ContainsAny(t.String(), ".eE") {
			return t // integer beyond int64
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = normalizeNumbers(t[k])
		}
		return t
	default:
		return v
	}
}

func parseLines(s string) (map[string]any, error) {
	out := map[string]any{}

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "{" || line == "}" {
			continue
		}

		name, value, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("line %q has no separator", line)
		}

		name = strings.Trim(strings.TrimSpace(name), `"'`)
		if name == "" {
			return nil, fmt.Errorf("line %q has no name", line)
		}

		value = strings.TrimSuffix(strings.TrimSpace(value), ",")
		out[name] = strings.TrimSpace(value)
	}

	if len(out) == 0 {
		return nil, errors.New("no arguments found")
	}

	return out, nil
}

// coerceArg interprets string values as literals unless the parameter is
// declared as a string, and formats scalars for string parameters.
func coerceArg(value any, param tool.ParamDocumentation) any {
	isString := param.Type == "string" || param.Type == "str"

	s, ok := value.(string)
	if !ok {
		if isString {
			switch value.(type) {
			case int, float64, bool, json.Number:
				return fmt.Sprint(value)
			}
		}
		return value
	}

	if isString {
		if v, err := ParseLiteral(s); err == nil {
			if str, ok := v.(string); ok {
				return str // unquote
			}
		}
		return s
	}

	if v, err := ParseLiteral(s); err == nil {
		return v
	}
	return s
}
