package internal

import "fmt"

type DepsKind int

const (
	// KindAlways means no snapshot was supplied: the effect runs every cycle.
	KindAlways DepsKind = iota

	// KindSnapshot means the effect runs when the snapshot changes.
	// An empty snapshot never changes, so the effect runs exactly once.
	KindSnapshot
)

// Deps is the dependency snapshot captured at registration time.
// The zero value is the "always run" sentinel.
type Deps struct {
	kind   DepsKind
	values []any
}

func AlwaysDeps() Deps {
	return Deps{kind: KindAlways}
}

func OnceDeps() Deps {
	return Deps{kind: KindSnapshot}
}

func SnapshotDeps(values []any) Deps {
	return Deps{kind: KindSnapshot, values: values}
}

func (d Deps) Kind() DepsKind { return d.kind }

func (d Deps) Len() int { return len(d.values) }

// Values returns a copy of the snapshot so callers can't mutate slot state.
func (d Deps) Values() []any {
	if d.values == nil {
		return nil
	}
	out := make([]any, len(d.values))
	copy(out, d.values)
	return out
}

// changed compares this snapshot against the one recorded at the previous
// run. Comparison is element-wise shallow equality, not deep equality.
// A kind or length change across cycles is a caller contract violation.
func (d Deps) changed(prev Deps, slot any) (bool, error) {
	if d.kind != prev.kind {
		return false, fmt.Errorf("%w: slot %v: snapshot kind changed between cycles", ErrArityMismatch, slot)
	}

	if d.kind == KindAlways {
		return true, nil
	}

	if len(d.values) != len(prev.values) {
		return false, fmt.Errorf("%w: slot %v: got %d dependencies, previously %d", ErrArityMismatch, slot, len(d.values), len(prev.values))
	}

	for i := range d.values {
		if !isEqual(d.values[i], prev.values[i]) {
			return true, nil
		}
	}

	return false, nil
}

func isEqual(a, b any) bool {
	return a == b
}
