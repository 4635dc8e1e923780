package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON decodes a model response that is expected to be JSON into v.
// Models wrap JSON in markdown fences often enough that stripping them here
// is cheaper than re-prompting; any remaining parse failure is surfaced as a
// MalformedOutputError carrying the raw text. No schema validation happens
// here — field-level coercion is the caller's job.
func ExtractJSON(raw string, v any) error {
	cleaned := CleanJSONBlock(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return &MalformedOutputError{Raw: raw, Cause: err}
	}
	return nil
}

// CleanJSONBlock removes a surrounding markdown code fence from text,
// tolerating an optional language tag on the opening fence.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// A short first line without spaces or braces is a language tag.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}
