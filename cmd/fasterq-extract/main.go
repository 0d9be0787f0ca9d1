package main

/*
fasterq-extract reads spots out of a table previously built with sra/kvtable
and emits FASTQ or FASTA records under one of eight layout modes, splitting
the row range across worker threads.
*/

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/ncbi/fasterq/extract"
	"github.com/ncbi/fasterq/sra/kvtable"
)

var (
	mode                = flag.String("mode", "split-spot", "Layout mode: whole-spot, split-spot, split-file, split-3; each may be prefixed 'fasta-' to drop quality (default fastq)")
	fasta               = flag.Bool("fasta", false, "Emit FASTA instead of FASTQ")
	numThreads          = flag.Int("threads", runtime.NumCPU(), "Number of worker threads")
	tempDir             = flag.String("temp-dir", "", "Directory to write partition files to (default os.TempDir())")
	accession           = flag.String("accession", "SRR", "Accession name used in partition file names")
	rowIDAsName         = flag.Bool("rowid-as-name", false, "Use the spot's row id as the defline name instead of NAME")
	skipTech            = flag.Bool("skip-technical", false, "Drop technical (non-biological) fragments")
	minReadLen          = flag.Uint("min-read-len", 0, "Minimum fragment length to keep")
	terminateOnInvalid  = flag.Bool("terminate-on-invalid", false, "Abort the run on an I1/I2 invariant violation instead of continuing best-effort")
	filterBases         = flag.String("bases", "", "IUPAC base restriction set (e.g. ACGT); empty accepts any base")
	printReadNr         = flag.Bool("print-read-nr", false, "Include \"read=<n>\" in the defline")
	fast                = flag.Bool("fast", false, "Use the fast path: FastaSplitSpot layout, single shared output")
	output              = flag.String("output", "", "Fast-path output file; empty writes to stdout")
)

func fasterqExtractUsage() {
	fmt.Printf("Usage: %s [OPTIONS] table-path\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func parseMode(name string, fastaFlag bool) (extract.LayoutMode, error) {
	if strings.HasPrefix(name, "fasta-") {
		fastaFlag = true
		name = strings.TrimPrefix(name, "fasta-")
	}
	switch name {
	case "whole-spot":
		if fastaFlag {
			return extract.FastaWholeSpot, nil
		}
		return extract.FastqWholeSpot, nil
	case "split-spot":
		if fastaFlag {
			return extract.FastaSplitSpot, nil
		}
		return extract.FastqSplitSpot, nil
	case "split-file":
		if fastaFlag {
			return extract.FastaSplitFile, nil
		}
		return extract.FastqSplitFile, nil
	case "split-3":
		if fastaFlag {
			return extract.FastaSplit3, nil
		}
		return extract.FastqSplit3, nil
	default:
		return 0, fmt.Errorf("unknown -mode %q", name)
	}
}

func main() {
	flag.Usage = fasterqExtractUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Missing positional argument (table-path required); please check flag syntax")
	}
	tablePath := flag.Arg(0)

	layout, err := parseMode(*mode, *fasta)
	if err != nil {
		log.Fatalf("%v", err)
	}

	jo := extract.JoinOptions{
		RowIDAsName:        *rowIDAsName,
		SkipTech:           *skipTech,
		MinReadLen:         uint32(*minReadLen),
		TerminateOnInvalid: *terminateOnInvalid,
		FilterBases:        *filterBases,
		PrintReadNr:        *printReadNr,
	}

	table, err := kvtable.Open(tablePath)
	if err != nil {
		log.Fatalf("open %v: %v", tablePath, err)
	}
	defer table.Close()

	ctx := vcontext.Background()

	var stats extract.JoinStats
	if *fast {
		ex := &extract.Extractor{Accession: *accession}
		stats, err = ex.RunFast(ctx, table, jo, *numThreads, *output)
	} else {
		dir := *tempDir
		if dir == "" {
			dir = os.TempDir()
		}
		ex := &extract.Extractor{Accession: *accession, TempDir: dir}
		registry := &extract.TempRegistry{}
		stats, err = ex.RunPartitioned(ctx, table, layout, jo, *numThreads, registry)
		if err == nil {
			for _, p := range registry.Paths() {
				log.Printf("wrote %s (thread %d, dst %d)", p.Path, p.ThreadID, p.DstID)
			}
		}
	}
	if err != nil {
		log.Panicf("%v", err)
	}
	summary := stats.Summary()
	log.Printf("spots_read=%d reads_read=%d reads_written=%d reads_too_short=%d reads_technical=%d reads_zero_length=%d reads_invalid=%d written_fraction=%.4f",
		stats.SpotsRead, stats.ReadsRead, stats.ReadsWritten, stats.ReadsTooShort, stats.ReadsTechnical, stats.ReadsZeroLength, stats.ReadsInvalid, summary.WrittenFraction)
}
