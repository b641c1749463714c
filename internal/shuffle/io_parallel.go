package shuffle

import (
	"context"

	"github.com/jaxonwang/kmerforge/internal/fabric"
	"github.com/jaxonwang/kmerforge/internal/kmer"
)

// IndexedReadSource is a ReadSource that also reports the 0-based index
// of the read just returned, needed by IOParallel to decide ownership
// by read index modulo peer count; satisfied by *seqio.Iterator.
type IndexedReadSource interface {
	ReadSource
	RecordIndex() int
}

// IOParallel implements the I/O-parallel variant grounded on
// original_source/src/main_io.rs: every peer opens the input
// independently and walks the full read stream, but only extracts
// k-mers from reads whose index modulo world size equals its own peer
// id — the other peers' reads are skipped, not reprocessed. Buckets
// flush to their destination peer as they cross BucketFlushBytes
// (size-based, per spec.md §9's fix for the original's read-index-
// modulus flush bug), not on a read-count schedule.
func IOParallel(ctx context.Context, world *fabric.World, peer int, source IndexedReadSource, cfg Config, registry *fabric.Registry[StoreCell]) error {
	place := world.At(peer)
	p := world.WorldSize()
	scope := fabric.NewScope()
	bk := newBucketer(p, cfg.Partitioner, cfg.BucketFlushBytes, func(b Batch) {
		dispatchBatch(scope, registry, b)
	})

	for {
		read, ok := source.Next()
		if !ok {
			break
		}
		if source.RecordIndex()%p != peer {
			continue
		}
		cfg.Extractor.Each(read, func(km kmer.KMer) {
			bk.add(km.Code)
		})
	}
	bk.flushAll()

	if err := source.Err(); err != nil {
		return err
	}
	if err := scope.Wait(); err != nil {
		return err
	}
	return place.Barrier(ctx)
}
