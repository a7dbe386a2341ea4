package hooks

import "github.com/AnatoleLucet/hooks/internal"

var (
	// ErrArityMismatch is returned by Commit when a slot's dependency
	// snapshot changed shape (kind or length) between cycles.
	ErrArityMismatch = internal.ErrArityMismatch

	// ErrDoubleTeardown is returned by Teardown when the owner was already
	// torn down.
	ErrDoubleTeardown = internal.ErrDoubleTeardown

	// ErrTornDown is returned by Register and Commit after teardown.
	ErrTornDown = internal.ErrTornDown

	// ErrReentrantCall is returned when Register, Commit or Teardown is
	// called from inside one of the owner's own effect bodies or cleanups.
	ErrReentrantCall = internal.ErrReentrantCall
)

// EffectError wraps an error returned by an effect body. The error chain
// keeps the original cause, so errors.Is/As see through it.
type EffectError = internal.EffectError

// CleanupError wraps an error returned by a cleanup callback.
type CleanupError = internal.CleanupError
