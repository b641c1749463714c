package shuffle

import (
	"context"

	"github.com/jaxonwang/kmerforge/internal/fabric"
	"github.com/jaxonwang/kmerforge/internal/kmer"
)

// RootDispatch implements the root-dispatch variant grounded on
// original_source/src/main.rs: one root peer (id 0) owns the read
// source, buffers whole reads into chunks of cfg.ChunkSize, and
// round-robins a counting task per chunk to every other peer. Each
// receiving peer runs extraction locally over its chunk and fans
// per-destination batches out to the owning CountStore. With only one
// peer in the world, the root counts its own chunks directly, since
// there is no "every peer but itself" to round-robin onto.
func RootDispatch(ctx context.Context, world *fabric.World, source ReadSource, cfg Config, registry *fabric.Registry[StoreCell]) error {
	p := world.WorldSize()
	targets := dispatchTargets(p)
	scope := fabric.NewScope()

	ti := 0
	chunk := make([][]byte, 0, chunkCap(cfg.ChunkSize))
	flush := func() {
		if len(chunk) == 0 {
			return
		}
		target := targets[ti%len(targets)]
		ti++
		reads := chunk
		chunk = make([][]byte, 0, chunkCap(cfg.ChunkSize))
		scope.SpawnAt(target, func() error {
			return countChunk(reads, cfg, registry, p)
		})
	}

	for {
		read, ok := source.Next()
		if !ok {
			break
		}
		chunk = append(chunk, read)
		if len(chunk) >= cfg.ChunkSize {
			flush()
		}
	}
	flush()

	if err := source.Err(); err != nil {
		return err
	}
	if err := scope.Wait(); err != nil {
		return err
	}
	// Only the root runs a producer loop in this variant; the other peers'
	// work is the tasks scope.Wait has already awaited, so all P peers
	// arrive at the barrier here.
	errs := make(chan error, p)
	for i := 0; i < p; i++ {
		go func() { errs <- world.Barrier(ctx) }()
	}
	for i := 0; i < p; i++ {
		if err := <-errs; err != nil {
			return err
		}
	}
	return nil
}

// dispatchTargets returns the peer ids root.main.rs round-robins
// kmer_counting tasks onto: every peer except root (id 0), or just
// root itself in the degenerate single-peer case.
func dispatchTargets(p int) []int {
	if p <= 1 {
		return []int{0}
	}
	targets := make([]int, 0, p-1)
	for i := 1; i < p; i++ {
		targets = append(targets, i)
	}
	return targets
}

func chunkCap(chunkSize int) int {
	if chunkSize < 1 {
		return 1
	}
	return chunkSize
}

// countChunk is the "kmer_counting" task: extract every k-mer from the
// assigned chunk of reads, bucket by destination peer, and fan out one
// update task per non-empty bucket.
func countChunk(reads [][]byte, cfg Config, registry *fabric.Registry[StoreCell], p int) error {
	inner := fabric.NewScope()
	bk := newBucketer(p, cfg.Partitioner, cfg.BucketFlushBytes, func(b Batch) {
		dispatchBatch(inner, registry, b)
	})
	for _, r := range reads {
		cfg.Extractor.Each(r, func(km kmer.KMer) {
			bk.add(km.Code)
		})
	}
	bk.flushAll()
	return inner.Wait()
}
