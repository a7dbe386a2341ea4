package internal

// Phase determines when within a commit a slot's effect runs.
// Layout effects run before passive effects, mirroring a render pipeline
// where layout reads must happen before deferred work.
type Phase int

const (
	PhaseLayout Phase = iota
	PhasePassive
)

var phases = []Phase{PhaseLayout, PhasePassive}

type registration struct {
	slot  *Slot
	phase Phase
	deps  Deps
	body  Body
}

// pendingQueue holds the registrations of the current cycle in arrival
// order. Re-registering a slot within the same cycle replaces its payload
// but keeps its original position.
type pendingQueue struct {
	regs  []*registration
	index map[any]*registration
}

func newPendingQueue() *pendingQueue {
	return &pendingQueue{
		regs:  make([]*registration, 0),
		index: make(map[any]*registration),
	}
}

func (q *pendingQueue) Enqueue(reg *registration) {
	if prev, ok := q.index[reg.slot.key]; ok {
		// last write wins
		prev.phase = reg.phase
		prev.deps = reg.deps
		prev.body = reg.body
		return
	}

	q.regs = append(q.regs, reg)
	q.index[reg.slot.key] = reg
}

// Drain processes the queued registrations of one phase in arrival order,
// stopping at the first error.
func (q *pendingQueue) Drain(phase Phase, process func(*registration) error) error {
	for _, reg := range q.regs {
		if reg.phase != phase {
			continue
		}

		if err := process(reg); err != nil {
			return err
		}
	}

	return nil
}

func (q *pendingQueue) Len() int {
	return len(q.regs)
}
