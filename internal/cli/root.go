// Package cli wires the k-mer counting job (internal/seqio, extract,
// partition, shuffle, aggregate, fabric) into a cobra command, following
// the teacher's unikmer/cmd/root.go + count.go shape, collapsed to one
// command: every flag is a local flag on RootCmd.
package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is the build version, following the teacher's VERSION-in-root
// convention.
const Version = "0.1.0"

// RootCmd is the job command itself: spec.md §6 mandates a single
// positional argument (the input path) rather than a verb-subcommand
// CLI, so the counting logic lives directly on RootCmd.Run instead of a
// child command the way the teacher's toolkit does it for each of its
// many subcommands.
var RootCmd = &cobra.Command{
	Use:   "kmerforge [input.fasta|input.fastq|input.fasta.gz|-]",
	Short: "distributed canonical k-mer frequency histogram",
	Long: fmt.Sprintf(`kmerforge - distributed canonical k-mer frequency counter

Reads a single FASTA or FASTQ file (optionally gzipped, "-" for stdin),
extracts canonical k-mers, shuffles them across a simulated peer fabric
by partition key, and prints the resulting frequency histogram.

Version: %s
`, Version),
	Args: cobra.ExactArgs(1),
	Run:  runJob,
}

// Execute runs RootCmd; called once from cmd/kmerforge/main.go.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	defaultThreads := runtime.NumCPU()
	if defaultThreads > 4 {
		defaultThreads = 4
	}

	RootCmd.Flags().IntP("kmer-len", "k", 31, "k-mer length (<= 32)")
	RootCmd.Flags().IntP("threads", "j", defaultThreads, "simulated peer count (world size)")
	RootCmd.Flags().String("aggregator", "map", `CountStore mode: "map" or "sort"`)
	RootCmd.Flags().String("partitioner", "mix", `partition policy: "mix" or "hash"`)
	RootCmd.Flags().String("driver", "ioparallel", `shuffle driver: "ioparallel" or "root"`)
	RootCmd.Flags().Int("chunk-size", 4096, "reads per dispatched chunk (root driver only)")
	RootCmd.Flags().Int("bucket-flush-bytes", 1<<18, "per-destination bucket flush threshold, in bytes")
	RootCmd.Flags().Bool("prefilter", false, "front the map aggregator with a scalable Bloom filter, dropping first-seen singletons before they enter the hash table")
	RootCmd.Flags().Int("esti-kmer-num", 1_000_000, "estimated distinct k-mer count, used to size the map/prefilter")
	RootCmd.Flags().StringP("out-file", "o", "-", `histogram output file ("-" for stdout, suffix .gz for gzipped out)`)
	RootCmd.Flags().Bool("table", false, "pretty-print the histogram as a table instead of a bare decimal list")
	RootCmd.Flags().BoolP("verbose", "v", false, "print verbose progress information")
}
