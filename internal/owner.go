package internal

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// Owner groups the effect slots sharing one lifecycle. All bookkeeping
// calls for a given owner must be sequential; distinct owners are fully
// isolated and may be driven from different goroutines.
type Owner struct {
	mu sync.Mutex

	slots map[any]*Slot
	order []any // slot creation order, used at teardown

	pending *pendingQueue

	// cleanup functions to be called when the owner is torn down,
	// after all slot cleanups
	cleanups []func()

	clock    int
	tornDown bool

	// id of the goroutine currently committing or tearing down this owner,
	// 0 if none
	committing atomic.Int64
}

func NewOwner() *Owner {
	return &Owner{
		slots:   make(map[any]*Slot),
		pending: newPendingQueue(),
	}
}

// Register queues an effect for the next commit cycle. Nothing executes
// until Commit. Registering the same slot twice within a cycle keeps only
// the latest registration.
func (o *Owner) Register(key any, phase Phase, deps Deps, body Body) error {
	if err := o.checkReentrant(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.tornDown {
		return ErrTornDown
	}

	slot, ok := o.slots[key]
	if !ok {
		slot = newSlot(key)
		o.slots[key] = slot
		o.order = append(o.order, key)
	}

	o.pending.Enqueue(&registration{
		slot:  slot,
		phase: phase,
		deps:  deps,
		body:  body,
	})

	return nil
}

// Commit runs the cycle's queued effects: layout slots first, then passive
// slots, in registration order within each phase. The first callback or
// contract error aborts the cycle and bubbles up; the remaining queued
// registrations are dropped.
func (o *Owner) Commit() error {
	if err := o.checkReentrant(); err != nil {
		return err
	}

	o.mu.Lock()
	if o.tornDown {
		o.mu.Unlock()
		return ErrTornDown
	}

	queue := o.pending
	o.pending = newPendingQueue()
	o.clock++
	o.mu.Unlock()

	o.committing.Store(goid.Get())
	defer o.committing.Store(0)

	for _, phase := range phases {
		if err := queue.Drain(phase, o.apply); err != nil {
			return err
		}
	}

	return nil
}

// apply executes a single slot: stale cleanup first, then the effect body.
// User callbacks run outside the mutex so they can reach other owners.
func (o *Owner) apply(reg *registration) error {
	o.mu.Lock()
	run, err := reg.slot.shouldRun(reg.deps)
	if err != nil || !run {
		o.mu.Unlock()
		return err
	}
	cleanup := reg.slot.takeCleanup()
	o.mu.Unlock()

	if cleanup != nil {
		if err := cleanup(); err != nil {
			return &CleanupError{Slot: reg.slot.key, Err: err}
		}
	}

	next, err := reg.body()

	o.mu.Lock()
	reg.slot.finish(reg.deps, next)
	o.mu.Unlock()

	if err != nil {
		return &EffectError{Slot: reg.slot.key, Err: err}
	}

	return nil
}

// Teardown runs the final cleanup of every slot that has run, then the
// owner-scoped cleanups, each exactly once. Cleanup errors don't stop the
// teardown; they are joined and returned together. A second call returns
// ErrDoubleTeardown without re-invoking anything.
func (o *Owner) Teardown() error {
	if err := o.checkReentrant(); err != nil {
		return err
	}

	o.mu.Lock()
	if o.tornDown {
		o.mu.Unlock()
		return ErrDoubleTeardown
	}
	o.tornDown = true

	type finalCleanup struct {
		key any
		fn  Cleanup
	}

	final := make([]finalCleanup, 0, len(o.order))
	for _, key := range o.order {
		slot := o.slots[key]
		if cleanup := slot.takeCleanup(); cleanup != nil {
			final = append(final, finalCleanup{key: key, fn: cleanup})
		}
	}

	cleanups := o.cleanups
	o.cleanups = nil
	o.pending = newPendingQueue()
	o.mu.Unlock()

	o.committing.Store(goid.Get())
	defer o.committing.Store(0)

	var errs []error
	for _, c := range final {
		if err := c.fn(); err != nil {
			errs = append(errs, &CleanupError{Slot: c.key, Err: err})
		}
	}

	for _, fn := range cleanups {
		fn()
	}

	return errors.Join(errs...)
}

// OnTeardown adds a function to be called ONCE when the owner is torn down,
// after all slot cleanups.
func (o *Owner) OnTeardown(fn func()) error {
	if err := o.checkReentrant(); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.tornDown {
		return ErrTornDown
	}

	o.cleanups = append(o.cleanups, fn)
	return nil
}

// checkReentrant rejects bookkeeping calls made from inside one of this
// owner's own effect bodies or cleanups.
func (o *Owner) checkReentrant() error {
	if o.committing.Load() == goid.Get() {
		return ErrReentrantCall
	}
	return nil
}

func (o *Owner) HasRun(key any) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	slot, ok := o.slots[key]
	return ok && slot.hasRun
}

// LastDeps returns the dependency snapshot recorded at the slot's previous
// run. ok is false if the slot is unknown or has never run.
func (o *Owner) LastDeps(key any) (Deps, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	slot, ok := o.slots[key]
	if !ok || !slot.hasRun {
		return Deps{}, false
	}

	return slot.lastDeps, true
}

// Runs returns how many times the slot's effect has executed.
func (o *Owner) Runs(key any) int {
	o.mu.Lock()
	defer o.mu.Unlock()

	slot, ok := o.slots[key]
	if !ok {
		return 0
	}

	return slot.runs
}

// Cycle returns the number of commits performed on this owner.
func (o *Owner) Cycle() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.clock
}

func (o *Owner) TornDown() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.tornDown
}
