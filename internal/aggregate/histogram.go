package aggregate

// Histogram is indexed by multiplicity m >= 1: entry m-1 is the number
// of distinct k-mers observed exactly m times. It grows on demand and
// never drops a count, per spec.md §7 ("Histogram index beyond current
// length: grow the histogram, never drop counts").
type Histogram []uint64

// Add records one more distinct k-mer seen exactly count times, growing
// the histogram if count exceeds its current length.
func (h *Histogram) Add(count uint64) {
	if count == 0 {
		return
	}
	idx := count - 1
	if uint64(len(*h)) <= idx {
		grown := make(Histogram, idx+1)
		copy(grown, *h)
		*h = grown
	}
	(*h)[idx]++
}

// Merge folds other into h entry-wise, growing h as needed. Used to
// reduce per-peer histograms into a single job-wide report.
func (h *Histogram) Merge(other Histogram) {
	for i, c := range other {
		if c == 0 {
			continue
		}
		if uint64(len(*h)) <= uint64(i) {
			grown := make(Histogram, i+1)
			copy(grown, *h)
			*h = grown
		}
		(*h)[i] += c
	}
}

// TotalKmers returns sum(m * hist[m-1]), the total number of canonical
// k-mers the histogram accounts for — the aggregation-correctness
// invariant from spec.md §8.
func (h Histogram) TotalKmers() uint64 {
	var total uint64
	for i, c := range h {
		total += uint64(i+1) * c
	}
	return total
}

// DistinctKmers returns sum(hist[m-1]), the number of distinct k-mers.
func (h Histogram) DistinctKmers() uint64 {
	var total uint64
	for _, c := range h {
		total += c
	}
	return total
}
