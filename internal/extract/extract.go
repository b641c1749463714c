// Package extract walks a read and emits canonical k-mers in a sliding
// window, restarting on any invalid base, per spec.md §4.C.
package extract

import "github.com/jaxonwang/kmerforge/internal/kmer"

// Extractor holds the alphabet/K configuration; it carries no per-read
// state, so one Extractor can be shared (read-only) across goroutines.
type Extractor struct {
	Alphabet kmer.Alphabet
	K        int
}

// New returns an Extractor for the given alphabet and k-mer length.
func New(a kmer.Alphabet, k int) Extractor {
	return Extractor{Alphabet: a, K: k}
}

// Each walks read and calls yield once per canonical k-mer, in order.
// Reads shorter than K produce no calls. The state machine is exactly
// the one in spec.md §4.C: START probes every shift until it finds a
// K-contiguous valid window, then RUN extends one base at a time,
// falling back to START the moment an invalid base is seen.
func (e Extractor) Each(read []byte, yield func(km kmer.KMer)) {
	k := e.K
	n := len(read)
	if n < k {
		return
	}

	pos := 0
	var current kmer.KMer
	inRun := false

	for pos+k <= n || inRun {
		if !inRun {
			if pos+k > n {
				return
			}
			km, err := kmer.FromBytes(e.Alphabet, k, read[pos:])
			if err != nil {
				pos++
				continue
			}
			yield(km.Canonical())
			current = km
			pos += k
			inRun = true
			continue
		}

		if pos >= n {
			return
		}
		next, err := current.Extend(read[pos])
		if err != nil {
			inRun = false
			pos++
			continue
		}
		current = next
		yield(current.Canonical())
		pos++
	}
}
