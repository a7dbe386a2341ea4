package internal

import (
	"sync"
)

// Runtime addresses owners by key so a driving layer can register and
// commit by identity instead of holding owner handles. Owners are created
// on first use and kept after teardown so late calls still surface
// ErrTornDown / ErrDoubleTeardown instead of silently starting a fresh
// lifecycle.
type Runtime struct {
	owners sync.Map // any -> *Owner
}

func NewRuntime() *Runtime {
	return &Runtime{}
}

func (r *Runtime) Owner(key any) *Owner {
	if o, ok := r.owners.Load(key); ok {
		return o.(*Owner)
	}

	o, _ := r.owners.LoadOrStore(key, NewOwner())
	return o.(*Owner)
}

func (r *Runtime) Lookup(key any) (*Owner, bool) {
	o, ok := r.owners.Load(key)
	if !ok {
		return nil, false
	}

	return o.(*Owner), true
}
