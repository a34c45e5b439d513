// Package util contains small helpers shared across packages.
package util

import (
	"fmt"
	"strings"
	"text/template"
)

var templateFuncs = template.FuncMap{
	"default": func(fallback, val any) any {
		if val == nil || val == "" {
			return fallback
		}
		return val
	},
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"join": func(sep string, items any) (string, error) {
		switch v := items.(type) {
		case []string:
			return strings.Join(v, sep), nil
		case []any:
			parts := make([]string, len(v))
			for i, item := range v {
				parts[i] = fmt.Sprint(item)
			}
			return strings.Join(parts, sep), nil
		default:
			return "", fmt.Errorf("join: unsupported type %T", items)
		}
	},
}

// RenderTemplate executes text as a text/template against data. Text without
// actions is returned as is. Referencing a key missing from data is an error.
func RenderTemplate(text string, data map[string]any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New("persona").Option("missingkey=error").Funcs(templateFuncs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}

	return b.String(), nil
}
