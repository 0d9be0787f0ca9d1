package extract

import "gonum.org/v1/gonum/stat"

// JoinStats accumulates the counters defined in spec.md's data model. All
// fields are additive; Merge combines two JoinStats field-wise, the way
// fusion.Stats.Merge combines per-worker counters in the teacher repo.
type JoinStats struct {
	SpotsRead       uint64
	ReadsRead       uint64
	ReadsWritten    uint64
	ReadsZeroLength uint64
	ReadsTooShort   uint64
	ReadsTechnical  uint64
	ReadsInvalid    uint64

	// readLens samples emitted fragment lengths for Summary(); it is not
	// part of the spec's counter set. Merge concatenates the samples of both
	// operands, so a merged JoinStats summarizes every worker's emissions.
	readLens []float64
}

// Merge adds the field values of two JoinStats and returns a new JoinStats,
// mirroring fusion.Stats.Merge in the teacher repo. It is associative and
// commutative.
func (s JoinStats) Merge(o JoinStats) JoinStats {
	s.SpotsRead += o.SpotsRead
	s.ReadsRead += o.ReadsRead
	s.ReadsWritten += o.ReadsWritten
	s.ReadsZeroLength += o.ReadsZeroLength
	s.ReadsTooShort += o.ReadsTooShort
	s.ReadsTechnical += o.ReadsTechnical
	s.ReadsInvalid += o.ReadsInvalid
	s.readLens = append(append([]float64{}, s.readLens...), o.readLens...)
	return s
}

// Summary is a derived, non-authoritative view over JoinStats for operators
// watching a long-running extraction; it does not feed back into any
// counting rule.
type Summary struct {
	WrittenFraction   float64
	TechnicalFraction float64
	MeanReadLen       float64
}

// Summary computes descriptive rates from the accumulated counters and any
// sampled fragment lengths, using gonum/stat for the mean the way the wider
// retrieval pack (kortschak-ins, kortschak-loopy, erunyan6-Lab_Buddy) uses
// gonum for descriptive statistics.
func (s JoinStats) Summary() Summary {
	var sum Summary
	if s.ReadsRead > 0 {
		sum.WrittenFraction = float64(s.ReadsWritten) / float64(s.ReadsRead)
		sum.TechnicalFraction = float64(s.ReadsTechnical) / float64(s.ReadsRead)
	}
	if len(s.readLens) > 0 {
		sum.MeanReadLen = stat.Mean(s.readLens, nil)
	}
	return sum
}
