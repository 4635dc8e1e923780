// Package prompts provides the externalized LLM prompt texts used by the
// analysis and generation pipeline. Prompts are stored as text files and
// embedded at compile time.
package prompts

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed *.txt
var promptFiles embed.FS

// Get retrieves a prompt by filename (e.g. "cv_system.txt").
func Get(filename string) (string, error) {
	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	return string(data), nil
}

// MustGet retrieves a prompt by filename, panicking if not found. Use for
// prompts required at initialization time.
func MustGet(filename string) string {
	prompt, err := Get(filename)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces template placeholders in the form {{.Key}} with values
// from data. A simple substitution scheme is enough here; prompt text is
// trusted and placeholders never nest.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}
