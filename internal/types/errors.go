package types

import "fmt"

// InputTooShortError rejects input below a minimum trimmed length before
// any model call is made.
type InputTooShortError struct {
	What string
	Min  int
}

func (e *InputTooShortError) Error() string {
	return fmt.Sprintf("%s must be at least %d characters", e.What, e.Min)
}

// MissingJobContextError indicates a call that requires analyzed job
// requirements was made without them.
type MissingJobContextError struct{}

func (e *MissingJobContextError) Error() string {
	return "parsed job requirements with a title are required"
}
