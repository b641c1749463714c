// Package fabric is the abstract "place fabric" seam spec.md §4.G calls
// for: peer count, local id, fire-and-forget spawn, a barrier, a finish
// scope, and per-peer PlaceLocal storage reachable through a weak
// handle. The real cluster bootstrap/RPC runtime behind this interface
// is explicitly out of scope (spec.md §1 Non-goals); what lives here is
// an in-process stand-in that simulates P cooperating peers with
// goroutines, channels and a sync.WaitGroup-based finish scope — grounded
// on the teacher's unikmer/cmd/util-index.go channel fan-in and
// unikmer/cmd/stats.go worker-token idioms. A real distributed Fabric
// implementation is a drop-in replacement; no core package (seqio,
// extract, partition, aggregate) imports this package directly, only the
// shuffle driver and the CLI wiring do.
package fabric

import (
	"context"
	"fmt"
	"sync"
)

// World is the shared state backing all P simulated peers in one
// process: it owns the barrier and hands out per-peer Place handles.
type World struct {
	size int

	mu      sync.Mutex
	cond    *sync.Cond
	arrived int
	gen     uint64
}

// NewWorld creates a World simulating size cooperating peers.
func NewWorld(size int) *World {
	if size < 1 {
		panic("fabric: world size must be >= 1")
	}
	w := &World{size: size}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// WorldSize returns P.
func (w *World) WorldSize() int { return w.size }

// Barrier blocks the calling goroutine until WorldSize() calls to
// Barrier (for this generation) have all arrived, then releases them
// together — the "global synchronization" spec.md §4.G/§5 requires.
// Every peer must call Barrier the same number of times; mismatched
// calls deadlock, exactly as a real collective barrier would.
func (w *World) Barrier(ctx context.Context) error {
	w.mu.Lock()
	myGen := w.gen
	w.arrived++
	if w.arrived == w.size {
		w.arrived = 0
		w.gen++
		w.cond.Broadcast()
		w.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	go func() {
		w.mu.Lock()
		for w.gen == myGen {
			w.cond.Wait()
		}
		w.mu.Unlock()
		close(done)
	}()
	w.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("fabric: barrier canceled: %w", ctx.Err())
	}
}

// Place is a handle bound to one logical peer id in [0, world.size).
type Place struct {
	world *World
	id    int
}

// At returns the handle for logical peer id.
func (w *World) At(id int) *Place {
	if id < 0 || id >= w.size {
		panic("fabric: peer id out of range")
	}
	return &Place{world: w, id: id}
}

// Here returns this handle's own peer id.
func (p *Place) Here() int { return p.id }

// WorldSize returns P, as seen from this handle.
func (p *Place) WorldSize() int { return p.world.size }

// Barrier delegates to the shared World barrier.
func (p *Place) Barrier(ctx context.Context) error { return p.world.Barrier(ctx) }

// Scope is a "finish" scope: a lexical region whose exit waits for every
// task transitively spawned inside it, per spec.md §4.G/§5. The first
// error returned by, or panic recovered from, any spawned task is
// surfaced as Scope's error
// once all tasks have settled — spec.md requires no ordering between
// spawned tasks, only that they have all completed before the scope
// returns.
type Scope struct {
	wg      sync.WaitGroup
	mu      sync.Mutex
	firstErr error
}

// NewScope starts a new finish scope.
func NewScope() *Scope { return &Scope{} }

// SpawnAt fires task off in a new goroutine, tracked by this scope.
// "dst" is informational only here (it is the in-process stand-in for
// addressing a remote peer); task itself is responsible for reaching
// that peer's local state, typically via a WeakHandle captured in its
// closure. Task errors (including panics) are recorded but do not stop
// other spawned tasks — "no ordering between independently spawned
// tasks" (spec.md §5).
func (s *Scope) SpawnAt(dst int, task func() error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.recordErr(fmt.Errorf("fabric: task spawned at peer %d panicked: %v", dst, r))
			}
		}()
		if err := task(); err != nil {
			s.recordErr(fmt.Errorf("fabric: task spawned at peer %d failed: %w", dst, err))
		}
	}()
}

func (s *Scope) recordErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.firstErr == nil {
		s.firstErr = err
	}
}

// Wait blocks until every task spawned into this scope has returned,
// then reports the first error (if any) recorded by those tasks. This
// is the finish-scope exit: spec.md's one required guarantee ("all
// update_kmer tasks spawned inside the finish scope have completed
// before the following barrier returns") is satisfied by calling Wait
// before the next World.Barrier.
func (s *Scope) Wait() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstErr
}
