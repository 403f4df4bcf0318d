package models

import "errors"

// Error kinds. Every error returned by the core wraps exactly one of these,
// so callers branch with errors.Is rather than on message text.
var (
	// ErrInvalidArgument marks a missing or blank required input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState marks an operation the entity's current state forbids.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidTransition marks an illegal quest lifecycle edge.
	// It wraps ErrInvalidState.
	ErrInvalidTransition = &transitionError{}

	// ErrAlreadyExists marks a duplicate id inserted into a registry.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound marks a lookup for an id that is not registered.
	ErrNotFound = errors.New("not found")
)

type transitionError struct{}

func (*transitionError) Error() string { return "invalid transition" }

func (*transitionError) Unwrap() error { return ErrInvalidState }
