package extract

import "github.com/ncbi/fasterq/sra"

// JoinOptions controls how a spot is filtered, named, and split into
// records.
type JoinOptions struct {
	// RowIDAsName causes emitted records to use the spot's row id as the
	// defline name instead of the NAME column. Forced true by
	// Extractor when the source table has no NAME column.
	RowIDAsName bool
	// SkipTech causes technical (non-biological) fragments to be dropped.
	SkipTech bool
	// MinReadLen is the minimum fragment length to keep; 0 means "keep any
	// non-empty fragment" (the filter still requires length > 0).
	MinReadLen uint32
	// TerminateOnInvalid causes an I1/I2 invariant violation to abort the
	// run with ErrInvalidSpot instead of best-effort continuing.
	TerminateOnInvalid bool
	// FilterBases, when non-empty, restricts accepted bases to this IUPAC
	// set (see BaseFilter).
	FilterBases string
	// PrintReadNr includes "read=<n>" in the FASTQ/FASTA defline.
	PrintReadNr bool
	// PrintName is kept for parity with the source tool's flag surface. No
	// code reads it: the writers always print the spot name, or the row id
	// when the record carries no name.
	PrintName bool
}

// minLen returns the effective minimum fragment length: spec.md requires
// "length >= max(min_read_len, 1)", i.e. a zero-configured MinReadLen still
// rejects zero-length fragments (handled separately as "zero length", not
// "too short" -- see Format).
func (o JoinOptions) minLen() uint32 {
	if o.MinReadLen > 0 {
		return o.MinReadLen
	}
	return 1
}

// LayoutMode selects one of the eight FASTQ/FASTA output layouts.
type LayoutMode int

const (
	FastqWholeSpot LayoutMode = iota
	FastqSplitSpot
	FastqSplitFile
	FastqSplit3
	FastaWholeSpot
	FastaSplitSpot
	FastaSplitFile
	FastaSplit3
)

// String implements fmt.Stringer.
func (m LayoutMode) String() string {
	switch m {
	case FastqWholeSpot:
		return "FastqWholeSpot"
	case FastqSplitSpot:
		return "FastqSplitSpot"
	case FastqSplitFile:
		return "FastqSplitFile"
	case FastqSplit3:
		return "FastqSplit3"
	case FastaWholeSpot:
		return "FastaWholeSpot"
	case FastaSplitSpot:
		return "FastaSplitSpot"
	case FastaSplitFile:
		return "FastaSplitFile"
	case FastaSplit3:
		return "FastaSplit3"
	default:
		return "LayoutMode(?)"
	}
}

// IsFastq reports whether the mode emits quality lines.
func (m LayoutMode) IsFastq() bool {
	return m == FastqWholeSpot || m == FastqSplitSpot || m == FastqSplitFile || m == FastqSplit3
}

// IsWholeSpot reports whether the mode emits one record per spot rather than
// one per fragment.
func (m LayoutMode) IsWholeSpot() bool {
	return m == FastqWholeSpot || m == FastaWholeSpot
}

// IsSplitFile reports whether the mode routes dst_id by fragment index
// (1-based, every fragment its own stream).
func (m LayoutMode) IsSplitFile() bool {
	return m == FastqSplitFile || m == FastaSplitFile
}

// IsSplit3 reports whether the mode uses the paired/unpaired dst_id rule of
// spec.md's Split-3 layout.
func (m LayoutMode) IsSplit3() bool {
	return m == FastqSplit3 || m == FastaSplit3
}

// columnOptsFor returns the column-presence mask the SpotSource should
// request for the given mode and options, mirroring
// perform_fastq_*_join()'s fastq_iter_opt_t setup in the source tool.
func columnOptsFor(mode LayoutMode, jo JoinOptions) sra.ColumnOpts {
	// ReadLen is always fetched: JoinStats.ReadsRead counts fragments
	// (len(read_len)) even in whole-spot mode, where the fragment split
	// itself is never used to slice bases.
	req := sra.ColumnOpts{
		WithReadLen: true,
		WithName:    !jo.RowIDAsName,
		WithQuality: mode.IsFastq(),
	}
	switch {
	case mode.IsWholeSpot():
		req.WithReadType = jo.SkipTech
	case mode.IsSplit3():
		req.WithReadType = true
	default:
		req.WithReadType = jo.SkipTech
	}
	return req
}
