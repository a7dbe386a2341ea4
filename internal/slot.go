package internal

// Body performs the side effect and optionally returns a cleanup to run
// before the next invocation, or at teardown.
type Body func() (Cleanup, error)

// Cleanup releases whatever the previous run of the effect acquired.
type Cleanup func() error

// Slot holds the per-effect state that survives across commit cycles.
type Slot struct {
	key any

	lastDeps Deps
	cleanup  Cleanup
	hasRun   bool
	runs     int
}

func newSlot(key any) *Slot {
	return &Slot{key: key}
}

// shouldRun evaluates the snapshot against the previous run.
func (s *Slot) shouldRun(deps Deps) (bool, error) {
	if !s.hasRun {
		return true, nil
	}

	return deps.changed(s.lastDeps, s.key)
}

// takeCleanup hands out the pending cleanup and clears it, so an error
// during its invocation can't cause a second invocation on a later cycle.
func (s *Slot) takeCleanup() Cleanup {
	cleanup := s.cleanup
	s.cleanup = nil
	return cleanup
}

// finish records the outcome of a run. It is called even when the body
// errored, so a later cycle sees consistent state and won't retry.
func (s *Slot) finish(deps Deps, cleanup Cleanup) {
	s.hasRun = true
	s.runs++
	s.lastDeps = deps
	s.cleanup = cleanup
}
