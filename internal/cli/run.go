package cli

import (
	"context"
	"fmt"
	"os"
	"sync"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shenwei356/stable"
	"github.com/spf13/cobra"

	"github.com/jaxonwang/kmerforge/internal/aggregate"
	"github.com/jaxonwang/kmerforge/internal/extract"
	"github.com/jaxonwang/kmerforge/internal/fabric"
	"github.com/jaxonwang/kmerforge/internal/kmer"
	"github.com/jaxonwang/kmerforge/internal/partition"
	"github.com/jaxonwang/kmerforge/internal/seqio"
	"github.com/jaxonwang/kmerforge/internal/shuffle"
)

func runJob(cmd *cobra.Command, args []string) {
	path := args[0]
	checkInputFile(path)

	k := getFlagPositiveInt(cmd, "kmer-len")
	if k > kmer.DNA.MaxK() {
		checkError(fmt.Errorf("k=%d exceeds the max k of %d for a 64-bit word", k, kmer.DNA.MaxK()))
	}
	p := getFlagPositiveInt(cmd, "threads")
	verbose := getFlagBool(cmd, "verbose")

	partitionerName := getFlagString(cmd, "partitioner")
	policy, ok := partition.ByName(partitionerName)
	if !ok {
		checkError(fmt.Errorf("unknown --partitioner %q, want \"mix\" or \"hash\"", partitionerName))
	}

	driver := getFlagString(cmd, "driver")
	if driver != "root" && driver != "ioparallel" {
		checkError(fmt.Errorf("unknown --driver %q, want \"root\" or \"ioparallel\"", driver))
	}
	if driver == "ioparallel" && isStdin(path) && p > 1 {
		checkError(fmt.Errorf("--driver ioparallel needs to reopen the input per peer, which stdin cannot do; use --driver root or pass a file path"))
	}

	hint := uint(getFlagPositiveInt(cmd, "esti-kmer-num"))
	aggregatorName := getFlagString(cmd, "aggregator")
	usePrefilter := getFlagBool(cmd, "prefilter")
	newStore := storeFactory(aggregatorName, usePrefilter, hint)

	cfg := shuffle.Config{
		Extractor:        extract.New(kmer.DNA, k),
		Partitioner:      policy,
		ChunkSize:        getFlagPositiveInt(cmd, "chunk-size"),
		BucketFlushBytes: getFlagPositiveInt(cmd, "bucket-flush-bytes"),
	}

	world := fabric.NewWorld(p)
	registry := shuffle.NewRegistry(world, newStore)

	if verbose {
		log.Infof("counting %d-mers from %s with %d simulated peer(s), driver=%s, aggregator=%s, partitioner=%s",
			k, path, p, driver, aggregatorName, partitionerName)
	}

	ctx := context.Background()
	var err error
	switch driver {
	case "root":
		err = runRootDriver(ctx, path, world, cfg, registry)
	case "ioparallel":
		err = runIOParallelDriver(ctx, path, world, cfg, registry)
	}
	checkError(err)

	hist := mergeHistograms(world, registry)
	if verbose {
		log.Infof("%s distinct k-mers, %s total k-mers observed",
			humanize.Comma(int64(hist.DistinctKmers())), humanize.Comma(int64(hist.TotalKmers())))
	}

	outFile := getFlagString(cmd, "out-file")
	checkError(writeHistogram(outFile, hist, getFlagBool(cmd, "table")))
}

func storeFactory(aggregatorName string, usePrefilter bool, hint uint) func(peer int) aggregate.Store {
	switch aggregatorName {
	case "map", "":
		if usePrefilter {
			return func(peer int) aggregate.Store { return aggregate.NewPrefilterStore(hint) }
		}
		return func(peer int) aggregate.Store { return aggregate.NewMapStore(int(hint)) }
	case "sort":
		return func(peer int) aggregate.Store { return aggregate.NewSortStore(int(hint)) }
	default:
		checkError(fmt.Errorf("unknown --aggregator %q, want \"map\" or \"sort\"", aggregatorName))
		return nil
	}
}

func runRootDriver(ctx context.Context, path string, world *fabric.World, cfg shuffle.Config, registry *fabric.Registry[shuffle.StoreCell]) error {
	r, err := seqio.Open(path, os.Stdin)
	if err != nil {
		return errors.Wrapf(err, "fail to open %s", path)
	}
	defer r.Close()
	it := seqio.NewIterator(r)
	return shuffle.RootDispatch(ctx, world, it, cfg, registry)
}

func runIOParallelDriver(ctx context.Context, path string, world *fabric.World, cfg shuffle.Config, registry *fabric.Registry[shuffle.StoreCell]) error {
	p := world.WorldSize()
	var wg sync.WaitGroup
	errs := make([]error, p)
	for peer := 0; peer < p; peer++ {
		peer := peer
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := seqio.Open(path, os.Stdin)
			if err != nil {
				errs[peer] = errors.Wrapf(err, "peer %d: fail to open %s", peer, path)
				return
			}
			defer r.Close()
			it := seqio.NewIterator(r)
			errs[peer] = shuffle.IOParallel(ctx, world, peer, it, cfg, registry)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeHistograms(world *fabric.World, registry *fabric.Registry[shuffle.StoreCell]) aggregate.Histogram {
	var total aggregate.Histogram
	for i := 0; i < world.WorldSize(); i++ {
		cell := registry.Local(i)
		total.Merge(cell.Store.Histogram())
	}
	return total
}

func writeHistogram(outFile string, hist aggregate.Histogram, asTable bool) error {
	outfh, gw, w, err := outStream(outFile)
	if err != nil {
		return err
	}
	defer func() {
		outfh.Flush()
		if gw != nil {
			gw.Close()
		}
		w.Close()
	}()

	if !asTable {
		for _, c := range hist {
			fmt.Fprintf(outfh, "%d\n", c)
		}
		return nil
	}

	style := &stable.TableStyle{
		Name:      "plain",
		HeaderRow: stable.RowStyle{Begin: "", Sep: "  ", End: ""},
		DataRow:   stable.RowStyle{Begin: "", Sep: "  ", End: ""},
		Padding:   "",
	}
	columns := []stable.Column{
		{Header: "multiplicity", Align: stable.AlignRight},
		{Header: "distinct-kmers", Align: stable.AlignRight},
	}
	tbl := stable.New()
	tbl.HeaderWithFormat(columns)
	for i, c := range hist {
		tbl.AddRow([]interface{}{i + 1, humanize.Comma(int64(c))})
	}
	_, err = outfh.Write(tbl.Render(style))
	return err
}
