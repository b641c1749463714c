package shuffle

import (
	"bytes"
	"context"
	"testing"

	"github.com/jaxonwang/kmerforge/internal/aggregate"
	"github.com/jaxonwang/kmerforge/internal/extract"
	"github.com/jaxonwang/kmerforge/internal/fabric"
	"github.com/jaxonwang/kmerforge/internal/kmer"
	"github.com/jaxonwang/kmerforge/internal/partition"
	"github.com/jaxonwang/kmerforge/internal/seqio"
)

// sliceSource is an in-memory ReadSource/IndexedReadSource for tests.
type sliceSource struct {
	reads [][]byte
	i     int
}

func (s *sliceSource) Next() ([]byte, bool) {
	if s.i >= len(s.reads) {
		return nil, false
	}
	r := s.reads[s.i]
	s.i++
	return r, true
}
func (s *sliceSource) Err() error       { return nil }
func (s *sliceSource) RecordIndex() int { return s.i - 1 }

func testConfig(p int) Config {
	return Config{
		Extractor:        extract.New(kmer.DNA, 4),
		Partitioner:      partition.Mix,
		ChunkSize:        2,
		BucketFlushBytes: 8, // flush after every word, to exercise flush-on-fill
	}
}

func mergedHistogram(t *testing.T, world *fabric.World, registry *fabric.Registry[StoreCell]) aggregate.Histogram {
	t.Helper()
	var total aggregate.Histogram
	for i := 0; i < world.WorldSize(); i++ {
		cell := registry.Local(i)
		total.Merge(cell.Store.Histogram())
	}
	return total
}

func TestRootDispatchAggregatesAllReads(t *testing.T) {
	const p = 3
	world := fabric.NewWorld(p)
	registry := NewRegistry(world, func(peer int) aggregate.Store { return aggregate.NewMapStore(64) })

	reads := [][]byte{
		[]byte("ACGTACGT"),
		[]byte("TTTTACGT"),
		[]byte("GGGGCCCC"),
		[]byte("AAAACCCC"),
		[]byte("ACGTACGTAC"),
	}
	src := &sliceSource{reads: reads}
	cfg := testConfig(p)

	if err := RootDispatch(context.Background(), world, src, cfg, registry); err != nil {
		t.Fatalf("RootDispatch: %v", err)
	}

	hist := mergedHistogram(t, world, registry)
	if hist.DistinctKmers() == 0 {
		t.Fatal("expected some k-mers counted")
	}

	// cross-check against single-threaded direct extraction.
	want := aggregate.NewMapStore(64)
	for _, r := range reads {
		var words []uint64
		cfg.Extractor.Each(r, func(km kmer.KMer) { words = append(words, km.Code) })
		want.Add(words)
	}
	wantHist := want.Histogram()
	if hist.TotalKmers() != wantHist.TotalKmers() {
		t.Fatalf("total k-mers: got %d, want %d", hist.TotalKmers(), wantHist.TotalKmers())
	}
	if hist.DistinctKmers() != wantHist.DistinctKmers() {
		t.Fatalf("distinct k-mers: got %d, want %d", hist.DistinctKmers(), wantHist.DistinctKmers())
	}
}

func TestRootDispatchSinglePeer(t *testing.T) {
	world := fabric.NewWorld(1)
	registry := NewRegistry(world, func(peer int) aggregate.Store { return aggregate.NewMapStore(16) })
	src := &sliceSource{reads: [][]byte{[]byte("ACGTACGT")}}
	cfg := testConfig(1)

	if err := RootDispatch(context.Background(), world, src, cfg, registry); err != nil {
		t.Fatalf("RootDispatch with 1 peer: %v", err)
	}
	hist := mergedHistogram(t, world, registry)
	if hist.TotalKmers() == 0 {
		t.Fatal("expected single-peer dispatch to still count k-mers")
	}
}

func TestIOParallelAggregatesAllReadsAcrossPeers(t *testing.T) {
	const p = 4
	reads := [][]byte{
		[]byte("ACGTACGT"),
		[]byte("TTTTACGT"),
		[]byte("GGGGCCCC"),
		[]byte("AAAACCCC"),
		[]byte("ACGTACGTAC"),
		[]byte("CCCCGGGG"),
	}

	world := fabric.NewWorld(p)
	registry := NewRegistry(world, func(peer int) aggregate.Store { return aggregate.NewMapStore(64) })
	cfg := testConfig(p)

	results := make(chan error, p)
	for peer := 0; peer < p; peer++ {
		peer := peer
		go func() {
			src := &sliceSource{reads: reads}
			results <- IOParallel(context.Background(), world, peer, src, cfg, registry)
		}()
	}
	for i := 0; i < p; i++ {
		if err := <-results; err != nil {
			t.Fatalf("IOParallel peer error: %v", err)
		}
	}

	hist := mergedHistogram(t, world, registry)

	want := aggregate.NewMapStore(64)
	for _, r := range reads {
		var words []uint64
		cfg.Extractor.Each(r, func(km kmer.KMer) { words = append(words, km.Code) })
		want.Add(words)
	}
	wantHist := want.Histogram()
	if hist.TotalKmers() != wantHist.TotalKmers() {
		t.Fatalf("total k-mers: got %d, want %d", hist.TotalKmers(), wantHist.TotalKmers())
	}
	if hist.DistinctKmers() != wantHist.DistinctKmers() {
		t.Fatalf("distinct k-mers: got %d, want %d", hist.DistinctKmers(), wantHist.DistinctKmers())
	}
}

// TestIOParallelWithSeqioIterator exercises IndexedReadSource against
// the real seqio.Iterator, not just the test double.
func TestIOParallelWithSeqioIterator(t *testing.T) {
	fasta := ">r1\nACGTACGT\n>r2\nTTTTACGTACGT\n>r3\nGGGGCCCCAAAA\n"
	const p = 2
	world := fabric.NewWorld(p)
	registry := NewRegistry(world, func(peer int) aggregate.Store { return aggregate.NewMapStore(32) })
	cfg := testConfig(p)

	results := make(chan error, p)
	for peer := 0; peer < p; peer++ {
		peer := peer
		go func() {
			it := seqio.NewIterator(bytes.NewReader([]byte(fasta)))
			results <- IOParallel(context.Background(), world, peer, it, cfg, registry)
		}()
	}
	for i := 0; i < p; i++ {
		if err := <-results; err != nil {
			t.Fatalf("IOParallel peer error: %v", err)
		}
	}

	hist := mergedHistogram(t, world, registry)
	if hist.TotalKmers() == 0 {
		t.Fatal("expected k-mers counted from seqio-backed reads")
	}
}
