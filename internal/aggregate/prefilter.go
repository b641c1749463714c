package aggregate

import (
	"encoding/binary"
	"sync"

	boom "github.com/tylertreat/BoomFilters"
)

// PrefilterStore is the Map-mode CountStore fronted by a scalable Bloom
// filter (spec.md §9's "Bloom-filter pre-filter" design note): a k-mer's
// first sighting only touches the filter, never the hash map, so
// singletons (the common case for sequencing error k-mers) never pay
// for a map entry. Only once the filter reports "maybe already seen"
// does a word get promoted into the map, starting at count 2 — the true
// first sighting is, by construction, never recorded there.
//
// Histogram therefore has to account for those un-promoted singletons
// separately: bucket 0 (multiplicity 1) is the number of distinct words
// the filter has ever admitted, minus the number that got promoted.
type PrefilterStore struct {
	mu      sync.Mutex
	bloom   *boom.ScalableBloomFilter
	counts  map[uint64]uint64
	admits  uint64 // distinct words ever tested+added to the filter
	promote uint64 // distinct words promoted into counts
}

// NewPrefilterStore returns a PrefilterStore sized for an estimated
// distinctKmerHint distinct k-mers at a 1% false-positive rate.
func NewPrefilterStore(distinctKmerHint uint) *PrefilterStore {
	return &PrefilterStore{
		bloom:  boom.NewScalableBloomFilter(distinctKmerHint, 0.01, 0.8),
		counts: make(map[uint64]uint64),
	}
}

// Add runs each incoming word through the filter-then-promote pipeline
// described above.
func (s *PrefilterStore) Add(words []uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf [8]byte
	for _, w := range words {
		if c, ok := s.counts[w]; ok {
			s.counts[w] = c + 1
			continue
		}

		binary.BigEndian.PutUint64(buf[:], w)
		if s.bloom.TestAndAdd(buf[:]) {
			// filter already held this word: this is (at least) the
			// second sighting, so it is promoted with a starting count
			// of 2.
			s.counts[w] = 2
			s.promote++
		} else {
			s.admits++
		}
	}
}

// Len reports the number of distinct k-mers promoted into the map so
// far; words still held only in the filter are not counted here.
func (s *PrefilterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counts)
}

// Histogram finalizes the map's entries the normal Map-mode way, then
// folds in the un-promoted singletons as bucket 0 additions.
func (s *PrefilterStore) Histogram() Histogram {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hist Histogram
	for _, c := range s.counts {
		hist.Add(c)
	}

	singletons := s.admits - s.promote
	if singletons > 0 {
		if len(hist) == 0 {
			hist = make(Histogram, 1)
		}
		hist[0] += singletons
	}
	return hist
}
