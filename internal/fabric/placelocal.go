package fabric

import "sync"

// Registry is a PlaceLocal<T> per spec.md §4.G: one T instance per peer,
// created at bootstrap and addressed thereafter only through a
// WeakHandle. The real fabric would ship a WeakHandle across the wire to
// a remote task; here it is just a (registry, peer) pair, but the
// upgrade-or-fail discipline is identical so that swapping in a real
// distributed Fabric later does not change any caller's error handling.
type Registry[T any] struct {
	mu     sync.RWMutex
	values map[int]*T
	torn   map[int]bool
}

// NewRegistry builds a Registry for world, calling factory once per
// peer id to produce that peer's local T.
func NewRegistry[T any](world *World, factory func(peer int) *T) *Registry[T] {
	r := &Registry[T]{
		values: make(map[int]*T, world.size),
		torn:   make(map[int]bool, world.size),
	}
	for i := 0; i < world.size; i++ {
		r.values[i] = factory(i)
	}
	return r
}

// Weak returns a handle to peer's local value. The handle stays valid
// until TearDown(peer) is called, even if copied across goroutines.
func (r *Registry[T]) Weak(peer int) *WeakHandle[T] {
	return &WeakHandle[T]{reg: r, peer: peer}
}

// Local is a convenience accessor for code running "at" the peer itself
// (no upgrade-failure path needed, since the caller IS that peer).
func (r *Registry[T]) Local(peer int) *T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[peer]
}

// TearDown retires a peer's local value; any WeakHandle for that peer
// fails to upgrade from this point on. Spec.md §4.G requires this to be
// a hard failure for any task still racing the teardown, rather than a
// silent nil — callers must treat a failed Upgrade as fatal to the task,
// not as "try again".
func (r *Registry[T]) TearDown(peer int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.torn[peer] = true
	delete(r.values, peer)
}

// WeakHandle is a PlaceLocal<T> reference that must be re-resolved
// (Upgrade) at the point of use rather than dereferenced directly —
// mirroring a real fabric's weak reference to remote per-place state.
type WeakHandle[T any] struct {
	reg  *Registry[T]
	peer int
}

// Upgrade resolves the handle to its current *T. ok is false once the
// owning peer has torn its local value down; per spec.md §4.G a failed
// upgrade is fatal to whatever task attempted it, not a retryable
// condition.
func (h *WeakHandle[T]) Upgrade() (v *T, ok bool) {
	h.reg.mu.RLock()
	defer h.reg.mu.RUnlock()
	if h.reg.torn[h.peer] {
		return nil, false
	}
	v, ok = h.reg.values[h.peer]
	return v, ok
}

// Peer returns the peer id this handle addresses.
func (h *WeakHandle[T]) Peer() int { return h.peer }
