package llm

import "fmt"

// GenerationError wraps any transport or quota failure from the upstream
// model service. The client never retries; callers decide what to do.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// MalformedOutputError indicates the model's response could not be decoded
// as the expected JSON. Raw carries the unmodified response text for
// server-side diagnostics; it must never be sent to clients.
type MalformedOutputError struct {
	Raw   string
	Cause error
}

func (e *MalformedOutputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed model output: %v", e.Cause)
	}
	return "malformed model output"
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}
