package extract

import (
	"strings"
	"testing"

	"github.com/jaxonwang/kmerforge/internal/kmer"
)

func canonicalsOf(t *testing.T, read string) []kmer.KMer {
	t.Helper()
	e := New(kmer.DNA, 31)
	var out []kmer.KMer
	e.Each([]byte(read), func(km kmer.KMer) {
		out = append(out, km)
	})
	return out
}

func TestAllAOneKmer(t *testing.T) {
	got := canonicalsOf(t, strings.Repeat("A", 31))
	if len(got) != 1 {
		t.Fatalf("expected 1 k-mer, got %d", len(got))
	}
}

func TestShortReadProducesNothing(t *testing.T) {
	got := canonicalsOf(t, strings.Repeat("A", 30))
	if len(got) != 0 {
		t.Fatalf("expected 0 k-mers, got %d", len(got))
	}
}

func TestExactLengthAllValid(t *testing.T) {
	got := canonicalsOf(t, "ACGTACGTACGTACGTACGTACGTACGTACG")
	if len(got) != 1 {
		t.Fatalf("expected 1 k-mer, got %d", len(got))
	}
}

func TestExactLengthWithInvalidBase(t *testing.T) {
	got := canonicalsOf(t, "ACGTACGTACGTACGTACGTACGTACGTACN")
	if len(got) != 0 {
		t.Fatalf("expected 0 k-mers, got %d", len(got))
	}
}

func TestLength32ProducesTwoKmers(t *testing.T) {
	got := canonicalsOf(t, "ACGTACGTACGTACGTACGTACGTACGTACGT")
	if len(got) != 32-31+1 {
		t.Fatalf("expected %d k-mers, got %d", 32-31+1, len(got))
	}
}

func TestRestartOnInvalidBaseMiddle(t *testing.T) {
	read := strings.Repeat("A", 31) + "N" + strings.Repeat("A", 31)
	got := canonicalsOf(t, read)
	if len(got) != 2 {
		t.Fatalf("expected 2 k-mers (one on each side of N), got %d", len(got))
	}
	if !got[0].Equal(got[1]) {
		t.Fatalf("expected identical canonical k-mers on both sides of N")
	}
}

func TestRestartProbesEveryShift(t *testing.T) {
	// One invalid base near the very start forces START to probe every
	// subsequent shift, not just jump by K.
	read := "N" + strings.Repeat("A", 31)
	got := canonicalsOf(t, read)
	if len(got) != 1 {
		t.Fatalf("expected 1 k-mer, got %d", len(got))
	}
}

func TestReverseReadYieldsReverseKmer(t *testing.T) {
	a := canonicalsOf(t, "CCCC"+strings.Repeat("A", 27))
	b := canonicalsOf(t, strings.Repeat("A", 27)+"CCCC")
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected single k-mer from each read")
	}
	if got := a[0].Reverse(); !got.Equal(b[0]) {
		t.Fatalf("expected reverse of %s to be %s, got %s", a[0], b[0], got)
	}
}
