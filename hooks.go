package hooks

import "github.com/AnatoleLucet/hooks/internal"

// Deps is the dependency snapshot an effect is registered with. Build one
// with Always, Once or On.
type Deps = internal.Deps

// DepsKind reports what a Deps value means to the should-run predicate.
type DepsKind = internal.DepsKind

const (
	// KindAlways means no snapshot was supplied: the effect runs every cycle.
	KindAlways = internal.KindAlways
	// KindSnapshot means the effect runs when the snapshot changes. An empty
	// snapshot never changes, so the effect runs exactly once.
	KindSnapshot = internal.KindSnapshot
)

// Phase determines when within a commit an effect runs.
type Phase = internal.Phase

const (
	// PhaseLayout effects run before PhasePassive effects within a commit.
	PhaseLayout = internal.PhaseLayout
	// PhasePassive is the default phase.
	PhasePassive = internal.PhasePassive
)

// Body is the canonical effect callback: it performs the side effect and
// optionally returns a cleanup. Use the Use/UseLayout helpers to register
// simpler callback shapes.
type Body = internal.Body

// Cleanup releases whatever the previous run of an effect acquired. It runs
// before the effect's next run, or at teardown.
type Cleanup = internal.Cleanup

// Always marks the effect to run on every commit cycle.
func Always() Deps {
	return internal.AlwaysDeps()
}

// Once marks the effect to run on the first commit cycle only.
func Once() Deps {
	return internal.OnceDeps()
}

// On snapshots the given values. The effect re-runs on a cycle where any
// value differs from the previous run's snapshot at the same index,
// compared by shallow equality.
func On(values ...any) Deps {
	return internal.SnapshotDeps(values)
}

// Effect is the set of callback shapes accepted by Use and UseLayout.
type Effect interface {
	func() | func() func() | func() error | func() (func() error, error)
}

// Use queues a passive effect on the owner for its next commit cycle.
// The slot key identifies the effect across cycles (e.g. declaration order).
func Use[E Effect](o *Owner, slot any, deps Deps, effect E) error {
	return o.owner.Register(slot, internal.PhasePassive, deps, body(effect))
}

// UseLayout is Use for the layout phase.
func UseLayout[E Effect](o *Owner, slot any, deps Deps, effect E) error {
	return o.owner.Register(slot, internal.PhaseLayout, deps, body(effect))
}

// body normalizes the accepted callback shapes to the canonical Body.
func body[E Effect](effect E) internal.Body {
	switch fn := any(effect).(type) {
	case func():
		return func() (internal.Cleanup, error) {
			fn()
			return nil, nil
		}
	case func() func():
		return func() (internal.Cleanup, error) {
			cleanup := fn()
			if cleanup == nil {
				return nil, nil
			}
			return func() error {
				cleanup()
				return nil
			}, nil
		}
	case func() error:
		return func() (internal.Cleanup, error) {
			return nil, fn()
		}
	case func() (func() error, error):
		return func() (internal.Cleanup, error) {
			cleanup, err := fn()
			if cleanup == nil {
				return nil, err
			}
			return internal.Cleanup(cleanup), err
		}
	}

	return nil
}

type Owner struct {
	owner *internal.Owner
}

// NewOwner creates an owner: the context that groups a set of effect slots
// sharing a lifecycle (e.g. one component instance).
func NewOwner() *Owner {
	return &Owner{internal.NewOwner()}
}

// Register queues an effect for the owner's next commit cycle. Nothing
// executes until Commit; registering the same slot twice within a cycle
// keeps only the latest registration.
func (o *Owner) Register(slot any, phase Phase, deps Deps, fn Body) error {
	return o.owner.Register(slot, phase, deps, fn)
}

// Commit runs the cycle's queued effects: for each registered slot, the
// previous run's cleanup first, then the effect body, in registration order
// (layout slots before passive slots). Errors from callbacks or from
// contract violations bubble up; the scheduler never retries or logs.
func (o *Owner) Commit() error {
	return o.owner.Commit()
}

// Teardown runs the final cleanup of every slot that has run, exactly once.
// No further commits are possible afterwards; a second call returns
// ErrDoubleTeardown without re-invoking anything.
func (o *Owner) Teardown() error {
	return o.owner.Teardown()
}

// OnTeardown adds a function to be called ONCE when the owner is torn down,
// after all slot cleanups.
func (o *Owner) OnTeardown(fn func()) error {
	return o.owner.OnTeardown(fn)
}

// HasRun reports whether the slot's effect has executed at least once.
func (o *Owner) HasRun(slot any) bool {
	return o.owner.HasRun(slot)
}

// LastDeps returns the dependency snapshot recorded at the slot's previous
// run, or ok=false if the slot is unknown or has never run.
func (o *Owner) LastDeps(slot any) (Deps, bool) {
	return o.owner.LastDeps(slot)
}

// Runs returns how many times the slot's effect has executed.
func (o *Owner) Runs(slot any) int {
	return o.owner.Runs(slot)
}

// Cycle returns the number of commits performed on this owner.
func (o *Owner) Cycle() int {
	return o.owner.Cycle()
}

// TornDown reports whether the owner has been torn down.
func (o *Owner) TornDown() bool {
	return o.owner.TornDown()
}

// Scheduler addresses owners by key, for driving layers that commit by
// identity instead of holding owner handles. Distinct owners are fully
// isolated and may be committed from different goroutines.
type Scheduler struct {
	rt *internal.Runtime
}

func New() *Scheduler {
	return &Scheduler{internal.NewRuntime()}
}

// Owner returns the owner registered under key, creating it on first use.
// Owners are kept after teardown so late calls still surface ErrTornDown
// instead of silently starting a fresh lifecycle.
func (s *Scheduler) Owner(key any) *Owner {
	return &Owner{s.rt.Owner(key)}
}

// Commit commits the owner registered under key.
func (s *Scheduler) Commit(key any) error {
	return s.rt.Owner(key).Commit()
}

// Teardown tears down the owner registered under key.
func (s *Scheduler) Teardown(key any) error {
	return s.rt.Owner(key).Teardown()
}
