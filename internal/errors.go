package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrArityMismatch is returned when a slot's dependency snapshot changes
	// shape (kind or length) between cycles.
	ErrArityMismatch = errors.New("hooks: dependency arity changed")

	// ErrDoubleTeardown is returned when Teardown is called on an owner that
	// was already torn down.
	ErrDoubleTeardown = errors.New("hooks: owner already torn down")

	// ErrTornDown is returned when Register or Commit is called on an owner
	// after its teardown.
	ErrTornDown = errors.New("hooks: owner is torn down")

	// ErrReentrantCall is returned when Register, Commit or Teardown is
	// called from inside one of the owner's own effect bodies or cleanups.
	ErrReentrantCall = errors.New("hooks: reentrant call during commit")
)

// EffectError wraps an error returned by an effect body.
type EffectError struct {
	Slot any
	Err  error
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("hooks: effect %v: %v", e.Slot, e.Err)
}

func (e *EffectError) Unwrap() error { return e.Err }

// CleanupError wraps an error returned by a cleanup callback.
type CleanupError struct {
	Slot any
	Err  error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("hooks: cleanup %v: %v", e.Slot, e.Err)
}

func (e *CleanupError) Unwrap() error { return e.Err }
