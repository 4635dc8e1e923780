package db

import "fmt"

// NotFoundError indicates the requested record does not exist for the
// caller. Ownership mismatches surface as this same error so that probing
// other users' records is indistinguishable from probing absent ones.
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Kind)
}

// SlugConflictError indicates the requested publish slug is already taken
// by another application.
type SlugConflictError struct {
	Slug string
}

func (e *SlugConflictError) Error() string {
	return fmt.Sprintf("slug %q is already taken", e.Slug)
}
