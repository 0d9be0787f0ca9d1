package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ncbi/fasterq/sra"
)

func TestJoinStatsMergeIsFieldwiseSum(t *testing.T) {
	a := JoinStats{SpotsRead: 1, ReadsRead: 2, ReadsWritten: 1, ReadsTechnical: 1}
	b := JoinStats{SpotsRead: 3, ReadsRead: 4, ReadsTooShort: 2, ReadsInvalid: 1}
	got := a.Merge(b)

	assert.Equal(t, uint64(4), got.SpotsRead)
	assert.Equal(t, uint64(6), got.ReadsRead)
	assert.Equal(t, uint64(1), got.ReadsWritten)
	assert.Equal(t, uint64(1), got.ReadsTechnical)
	assert.Equal(t, uint64(2), got.ReadsTooShort)
	assert.Equal(t, uint64(1), got.ReadsInvalid)
}

func TestJoinStatsMergeIsCommutative(t *testing.T) {
	a := JoinStats{SpotsRead: 5, ReadsWritten: 2}
	b := JoinStats{SpotsRead: 7, ReadsTechnical: 3}
	assert.Equal(t, a.Merge(b), b.Merge(a))
}

func TestSummaryFractionsOverReadsRead(t *testing.T) {
	s := JoinStats{ReadsRead: 10, ReadsWritten: 7, ReadsTechnical: 3}
	sum := s.Summary()
	assert.InDelta(t, 0.7, sum.WrittenFraction, 1e-9)
	assert.InDelta(t, 0.3, sum.TechnicalFraction, 1e-9)
}

func TestSummaryMeanReadLenFromFormattedEmissions(t *testing.T) {
	rec := sra.SpotRecord{
		RowID:    1,
		Read:     []byte("AAAATTTT"),
		Quality:  []byte("!!!!####"),
		ReadLen:  []uint32{4, 4},
		ReadType: []byte{1, 1},
	}
	_, stats, err := Format(rec, JoinOptions{}, FastqSplitSpot, NewBaseFilter(""))
	assert.NoError(t, err)
	assert.InDelta(t, 4.0, stats.Summary().MeanReadLen, 1e-9)
}

func TestSummaryZeroReadsReadIsZeroNotNaN(t *testing.T) {
	var s JoinStats
	sum := s.Summary()
	assert.Equal(t, 0.0, sum.WrittenFraction)
	assert.Equal(t, 0.0, sum.TechnicalFraction)
	assert.Equal(t, 0.0, sum.MeanReadLen)
}
