package aggregate

import "testing"

func TestMapStoreHistogram(t *testing.T) {
	s := NewMapStore(16)
	s.Add([]uint64{1, 2, 3, 1, 2, 1})
	hist := s.Histogram()
	// word 1: count 3, word 2: count 2, word 3: count 1
	if len(hist) != 3 {
		t.Fatalf("expected hist length 3, got %d (%v)", len(hist), hist)
	}
	if hist[2] != 1 { // multiplicity 3
		t.Fatalf("expected 1 k-mer at multiplicity 3, got %d", hist[2])
	}
	if hist[1] != 1 { // multiplicity 2
		t.Fatalf("expected 1 k-mer at multiplicity 2, got %d", hist[1])
	}
	if hist[0] != 1 { // multiplicity 1
		t.Fatalf("expected 1 k-mer at multiplicity 1, got %d", hist[0])
	}
}

func TestSortStoreHistogram(t *testing.T) {
	s := NewSortStore(16)
	s.Add([]uint64{5, 5, 5, 9, 1, 1})
	hist := s.Histogram()
	if hist[2] != 1 {
		t.Fatalf("expected 1 k-mer at multiplicity 3, got %d", hist[2])
	}
	if hist[1] != 1 {
		t.Fatalf("expected 1 k-mer at multiplicity 2, got %d", hist[1])
	}
	if hist[0] != 1 {
		t.Fatalf("expected 1 k-mer at multiplicity 1, got %d", hist[0])
	}
}

func TestSortStoreEmpty(t *testing.T) {
	s := NewSortStore(0)
	hist := s.Histogram()
	if len(hist) != 0 {
		t.Fatalf("expected empty histogram, got %v", hist)
	}
}

func TestAggregationCorrectness(t *testing.T) {
	words := []uint64{1, 1, 1, 2, 2, 3, 4, 4, 4, 4}
	mapStore := NewMapStore(8)
	mapStore.Add(words)
	sortStore := NewSortStore(8)
	sortStore.Add(words)

	mh := mapStore.Histogram()
	sh := sortStore.Histogram()

	if mh.TotalKmers() != uint64(len(words)) {
		t.Fatalf("map store total: got %d, want %d", mh.TotalKmers(), len(words))
	}
	if sh.TotalKmers() != uint64(len(words)) {
		t.Fatalf("sort store total: got %d, want %d", sh.TotalKmers(), len(words))
	}
}

func TestHistogramMerge(t *testing.T) {
	var a Histogram
	a.Add(1)
	a.Add(2)
	var b Histogram
	b.Add(2)
	b.Add(2)
	b.Add(5)

	a.Merge(b)
	if a.TotalKmers() != 1+2+2+2+5 {
		t.Fatalf("merge total: got %d, want %d", a.TotalKmers(), 1+2+2+2+5)
	}
}

func TestPrefilterStoreAdjustsBucketZero(t *testing.T) {
	s := NewPrefilterStore(64)
	// 1,2,3 each appear once (true singletons); 4 appears twice.
	s.Add([]uint64{1, 2, 3, 4, 4})
	hist := s.Histogram()
	if hist.TotalKmers() != 1+1+1+2 {
		t.Fatalf("prefilter total: got %d, want %d", hist.TotalKmers(), 5)
	}
	if hist.DistinctKmers() != 4 {
		t.Fatalf("prefilter distinct: got %d, want 4", hist.DistinctKmers())
	}
	if hist[0] != 3 {
		t.Fatalf("expected 3 singletons in bucket 0, got %d", hist[0])
	}
	if hist[1] != 1 {
		t.Fatalf("expected 1 k-mer at multiplicity 2, got %d", hist[1])
	}
}
