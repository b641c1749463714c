// Package shuffle drives the extractor and partitioner over a stream of
// reads and fans resulting k-mer words out to the owning peer's
// CountStore, per spec.md §4.E. Two driver variants are implemented,
// grounded respectively on original_source/src/main.rs (root-dispatch)
// and original_source/src/main_io.rs (I/O-parallel); both share the same
// extractor, partitioner and CountStore plumbing and differ only in how
// reads reach a peer in the first place.
package shuffle

import (
	"fmt"

	"github.com/jaxonwang/kmerforge/internal/aggregate"
	"github.com/jaxonwang/kmerforge/internal/extract"
	"github.com/jaxonwang/kmerforge/internal/fabric"
	"github.com/jaxonwang/kmerforge/internal/partition"
)

// ReadSource is the minimal surface a driver needs from a read stream;
// satisfied by *seqio.Iterator.
type ReadSource interface {
	Next() (read []byte, ok bool)
	Err() error
}

// StoreCell is the PlaceLocal payload held per peer: each peer owns
// exactly one CountStore for the lifetime of a job.
type StoreCell struct {
	Store aggregate.Store
}

// NewRegistry builds one CountStore per peer via newStore, registered in
// world for PlaceLocal lookup by the drivers below.
func NewRegistry(world *fabric.World, newStore func(peer int) aggregate.Store) *fabric.Registry[StoreCell] {
	return fabric.NewRegistry[StoreCell](world, func(peer int) *StoreCell {
		return &StoreCell{Store: newStore(peer)}
	})
}

// Config holds the parameters shared by both driver variants.
type Config struct {
	Extractor        extract.Extractor
	Partitioner      partition.Policy
	ChunkSize        int // root-dispatch: reads per dispatched chunk
	BucketFlushBytes int // both drivers: per-destination flush threshold
}

// Batch is a vector of k-mer words destined for one peer — the unit of
// work handed to a peer's update task, so a task touches the
// destination's CountStore mutex once per batch rather than once per
// k-mer (spec.md §5's "short critical sections" without an update per
// word).
type Batch struct {
	Dest  int
	Words []uint64
}

// bucketer accumulates per-destination word batches for one producer
// (one chunk, in root-dispatch; one peer's shard, in I/O-parallel) and
// reports back completed Batches as they fill or on final flushAll.
type bucketer struct {
	p           int
	partitioner partition.Policy
	buckets     [][]uint64
	flushAt     int // word count threshold, derived from byte threshold
	emit        func(Batch)
}

func newBucketer(p int, partitioner partition.Policy, flushBytes int, emit func(Batch)) *bucketer {
	flushAt := flushBytes / 8
	if flushAt < 1 {
		flushAt = 1
	}
	return &bucketer{
		p:           p,
		partitioner: partitioner,
		buckets:     make([][]uint64, p),
		flushAt:     flushAt,
		emit:        emit,
	}
}

func (b *bucketer) add(word uint64) {
	d := b.partitioner(word, b.p)
	b.buckets[d] = append(b.buckets[d], word)
	if len(b.buckets[d]) >= b.flushAt {
		b.flushOne(d)
	}
}

func (b *bucketer) flushOne(dest int) {
	if len(b.buckets[dest]) == 0 {
		return
	}
	words := b.buckets[dest]
	b.buckets[dest] = nil
	b.emit(Batch{Dest: dest, Words: words})
}

func (b *bucketer) flushAll() {
	for d := range b.buckets {
		b.flushOne(d)
	}
}

// dispatchBatch ships a completed Batch to its destination peer's
// CountStore, inside scope, resolving the destination's weak handle and
// treating a failed upgrade as the fatal condition spec.md §4.G
// requires.
func dispatchBatch(scope *fabric.Scope, registry *fabric.Registry[StoreCell], b Batch) {
	weak := registry.Weak(b.Dest)
	scope.SpawnAt(b.Dest, func() error {
		cell, ok := weak.Upgrade()
		if !ok {
			return fmt.Errorf("shuffle: peer %d torn down before batch delivery", b.Dest)
		}
		cell.Store.Add(b.Words)
		return nil
	})
}
