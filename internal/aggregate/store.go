// Package aggregate implements the per-peer CountStore (spec.md §4.F):
// either a hash-count map or an append-then-radix-sort vector, both
// reducible to a Histogram.
package aggregate

import (
	"sync"

	"github.com/twotwotwo/sorts/sortutil"
)

// Store is the per-peer aggregation state shared across concurrently
// spawned update_kmer tasks on that peer (spec.md §5: "protected by a
// mutex, critical sections are short").
type Store interface {
	// Add bulk-inserts a batch of k-mer words, either incrementing
	// existing counts (Map mode) or appending (Sort mode).
	Add(words []uint64)

	// Histogram finalizes the store into a frequency histogram. It is
	// only safe to call after the shuffle phase's barrier: Sort mode
	// sorts and run-length-scans its accumulated vector here.
	Histogram() Histogram

	// Len reports the number of k-mer words currently held (for Sort
	// mode, the raw un-deduplicated count; for Map mode, the number of
	// distinct k-mers seen so far). Used for verbose progress logging.
	Len() int
}

// MapStore is the hash-count CountStore: kmer word -> nonzero count.
type MapStore struct {
	mu     sync.Mutex
	counts map[uint64]uint64
}

// NewMapStore returns a MapStore with room for sizeHint distinct k-mers.
func NewMapStore(sizeHint int) *MapStore {
	return &MapStore{counts: make(map[uint64]uint64, sizeHint)}
}

// Add increments the entry for each incoming word, inserting a new
// entry at count 1 the first time a word is seen.
func (s *MapStore) Add(words []uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range words {
		s.counts[w]++
	}
}

// Histogram grows hist to length >= c for each (word, c) pair, then
// increments hist[c-1], per spec.md §4.F Map mode.
func (s *MapStore) Histogram() Histogram {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hist Histogram
	for _, c := range s.counts {
		hist.Add(c)
	}
	return hist
}

// Len reports the number of distinct k-mers currently counted.
func (s *MapStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counts)
}

// SortStore is the append-then-radix-sort CountStore: an unsorted vector
// of k-mer words, sorted once (in Histogram) and run-length-compressed.
// Equality on the packed word is equivalent to k-mer equality, and sort
// stability does not matter, per spec.md §4.F Sort mode.
type SortStore struct {
	mu    sync.Mutex
	words []uint64
}

// NewSortStore returns a SortStore with room for sizeHint k-mer words.
func NewSortStore(sizeHint int) *SortStore {
	return &SortStore{words: make([]uint64, 0, sizeHint)}
}

// Add bulk-appends a batch; no sorting happens here.
func (s *SortStore) Add(words []uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = append(s.words, words...)
}

// Len reports the number of (possibly repeated) words appended so far.
func (s *SortStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.words)
}

// Histogram radix-sorts the accumulated words ascending (via
// twotwotwo/sorts' parallel Uint64 sort, the cache-friendly radix sort
// the spec calls for) and then run-length scans the sorted vector,
// growing the histogram as needed for each run length.
func (s *SortStore) Histogram() Histogram {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hist Histogram
	if len(s.words) == 0 {
		return hist
	}

	sortutil.Uint64s(s.words)

	current := s.words[0]
	var count uint64
	for _, w := range s.words {
		if w != current {
			hist.Add(count)
			current = w
			count = 1
			continue
		}
		count++
	}
	hist.Add(count)
	return hist
}
