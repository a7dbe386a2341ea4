package hooks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	t.Run("dependency arity change", func(t *testing.T) {
		o := NewOwner()

		assert.NoError(t, Use(o, "slot", On("a"), func() {}))
		assert.NoError(t, o.Commit())

		assert.NoError(t, Use(o, "slot", On("a", "b"), func() {}))
		assert.ErrorIs(t, o.Commit(), ErrArityMismatch)
	})

	t.Run("dependency kind change", func(t *testing.T) {
		o := NewOwner()

		assert.NoError(t, Use(o, "slot", Always(), func() {}))
		assert.NoError(t, o.Commit())

		assert.NoError(t, Use(o, "slot", On("a"), func() {}))
		assert.ErrorIs(t, o.Commit(), ErrArityMismatch)
	})

	t.Run("arity error leaves the slot consistent", func(t *testing.T) {
		o := NewOwner()

		runs := 0
		assert.NoError(t, Use(o, "slot", On("a"), func() { runs++ }))
		assert.NoError(t, o.Commit())

		assert.NoError(t, Use(o, "slot", On("a", "b"), func() { runs++ }))
		assert.Error(t, o.Commit())

		// the recorded snapshot is still the one from the successful run
		assert.NoError(t, Use(o, "slot", On("b"), func() { runs++ }))
		assert.NoError(t, o.Commit())

		assert.Equal(t, 2, runs)
	})

	t.Run("effect error propagates with its slot", func(t *testing.T) {
		o := NewOwner()

		boom := errors.New("boom")
		assert.NoError(t, Use(o, "slot", On("x"), func() error { return boom }))

		err := o.Commit()
		assert.ErrorIs(t, err, boom)

		var effErr *EffectError
		assert.ErrorAs(t, err, &effErr)
		assert.Equal(t, "slot", effErr.Slot)
	})

	t.Run("failed effect is not retried", func(t *testing.T) {
		o := NewOwner()

		runs := 0
		boom := errors.New("boom")
		assert.NoError(t, Use(o, "slot", On("x"), func() error {
			runs++
			return boom
		}))
		assert.Error(t, o.Commit())

		// same snapshot: the failed run still counts as the last run
		assert.NoError(t, Use(o, "slot", On("x"), func() error {
			runs++
			return boom
		}))
		assert.NoError(t, o.Commit())

		assert.Equal(t, 1, runs)
	})

	t.Run("failed cleanup is cleared before invocation", func(t *testing.T) {
		o := NewOwner()

		boom := errors.New("boom")
		runs := 0
		register := func() {
			assert.NoError(t, Use(o, "slot", Always(), func() (func() error, error) {
				runs++
				return func() error { return boom }, nil
			}))
		}

		register()
		assert.NoError(t, o.Commit())

		register()
		err := o.Commit()
		assert.ErrorIs(t, err, boom)

		var cleanErr *CleanupError
		assert.ErrorAs(t, err, &cleanErr)
		assert.Equal(t, "slot", cleanErr.Slot)

		// the failed cleanup was consumed: the body did not run on the failed
		// cycle, and the next cycle runs without re-invoking it
		assert.Equal(t, 1, runs)

		register()
		assert.NoError(t, o.Commit()) // nothing left to clean up
		assert.Equal(t, 2, runs)
	})

	t.Run("commit aborts at the first error", func(t *testing.T) {
		o := NewOwner()

		boom := errors.New("boom")
		assert.NoError(t, Use(o, "first", Always(), func() error { return boom }))

		ran := false
		assert.NoError(t, Use(o, "second", Always(), func() { ran = true }))

		assert.ErrorIs(t, o.Commit(), boom)
		assert.False(t, ran)
	})

	t.Run("teardown joins cleanup errors", func(t *testing.T) {
		o := NewOwner()

		errA := errors.New("a failed")
		errB := errors.New("b failed")

		assert.NoError(t, Use(o, "a", Once(), func() (func() error, error) {
			return func() error { return errA }, nil
		}))
		assert.NoError(t, Use(o, "b", Once(), func() (func() error, error) {
			return func() error { return errB }, nil
		}))
		assert.NoError(t, o.Commit())

		err := o.Teardown()
		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
	})

	t.Run("reentrant calls are rejected", func(t *testing.T) {
		o := NewOwner()

		var registerErr, commitErr, teardownErr error
		assert.NoError(t, Use(o, "outer", Always(), func() {
			registerErr = Use(o, "inner", Always(), func() {})
			commitErr = o.Commit()
			teardownErr = o.Teardown()
		}))
		assert.NoError(t, o.Commit())

		assert.ErrorIs(t, registerErr, ErrReentrantCall)
		assert.ErrorIs(t, commitErr, ErrReentrantCall)
		assert.ErrorIs(t, teardownErr, ErrReentrantCall)
	})

	t.Run("reentrant teardown from a cleanup", func(t *testing.T) {
		o := NewOwner()

		var reentrant error
		assert.NoError(t, Use(o, "conn", Once(), func() func() {
			return func() { reentrant = o.Teardown() }
		}))
		assert.NoError(t, o.Commit())

		assert.NoError(t, o.Teardown())
		assert.ErrorIs(t, reentrant, ErrReentrantCall)
	})
}
