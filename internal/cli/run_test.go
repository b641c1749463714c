package cli

import (
	"bufio"
	"os"
	"strings"
	"testing"

	"github.com/jaxonwang/kmerforge/internal/aggregate"
)

func TestWriteHistogramDecimalList(t *testing.T) {
	dir := t.TempDir()
	out := dir + "/hist.txt"

	var hist aggregate.Histogram
	hist.Add(1)
	hist.Add(1)
	hist.Add(3)

	if err := writeHistogram(out, hist, false); err != nil {
		t.Fatalf("writeHistogram: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	want := []string{"2", "0", "1"}
	if strings.Join(lines, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", lines, want)
	}
}

func TestStoreFactoryProducesWorkingStores(t *testing.T) {
	factory := storeFactory("map", false, 16)
	s := factory(0)
	s.Add([]uint64{1, 1, 2})
	h := s.Histogram()
	if h.TotalKmers() != 3 {
		t.Fatalf("expected 3 total k-mers, got %d", h.TotalKmers())
	}

	sortFactory := storeFactory("sort", false, 16)
	ss := sortFactory(0)
	ss.Add([]uint64{1, 1, 2})
	sh := ss.Histogram()
	if sh.TotalKmers() != 3 {
		t.Fatalf("expected 3 total k-mers from sort store, got %d", sh.TotalKmers())
	}
}
