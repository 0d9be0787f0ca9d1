package extract

import (
	"github.com/pkg/errors"

	"github.com/ncbi/fasterq/sra"
)

// readTypeBiological is bit 0 of a READ_TYPE byte; unset means technical.
const readTypeBiological byte = 1

// FormattedRecord is one emitted fragment or whole-spot record. Name/HasName
// mirror SpotRecord: when HasName is false the writer falls back to RowID as
// the defline name.
type FormattedRecord struct {
	RowID        int64
	DstID        uint32
	ReadID1Based uint32
	Name         string
	HasName      bool
	Bases        []byte
	Quality      []byte
	HasQuality   bool
}

// Format implements the RecordFormatter skeleton shared by all eight layout
// modes: validate I1/I2/I3, then split rec into zero or more FormattedRecords
// according to mode, applying JoinOptions' filters and filter along the way.
// It never retains rec's slices past the call: every returned Bases/Quality
// is a subslice of rec's own buffers, copied into a writer buffer by the
// caller before the next SpotSource.Next.
func Format(rec sra.SpotRecord, jo JoinOptions, mode LayoutMode, filter *BaseFilter) ([]FormattedRecord, JoinStats, error) {
	stats := JoinStats{SpotsRead: 1, ReadsRead: uint64(len(rec.ReadLen))}

	invalid := false
	if rec.Quality != nil && len(rec.Read) != len(rec.Quality) {
		invalid = true
	}
	if len(rec.ReadLen) < 1 || sumReadLen(rec.ReadLen) != len(rec.Read) {
		invalid = true
	}
	if invalid {
		stats.ReadsInvalid++
		if jo.TerminateOnInvalid {
			return nil, stats, errors.Wrapf(ErrInvalidSpot, "row %d", rec.RowID)
		}
	}

	if mode.IsWholeSpot() {
		rec, ok := formatWholeSpot(rec, jo, filter, &stats)
		if !ok {
			return nil, stats, nil
		}
		return []FormattedRecord{rec}, stats, nil
	}
	if mode.IsSplit3() {
		return formatSplit3(rec, jo, filter, &stats), stats, nil
	}
	return formatSplit(rec, jo, mode, filter, &stats), stats, nil
}

func sumReadLen(readLen []uint32) int {
	var n int
	for _, l := range readLen {
		n += int(l)
	}
	return n
}

func sliceClamped(b []byte, start, end int) []byte {
	if start < 0 {
		start = 0
	}
	if start > len(b) {
		start = len(b)
	}
	if end > len(b) {
		end = len(b)
	}
	if end < start {
		end = start
	}
	return b[start:end]
}

// formatWholeSpot implements filter1: the spot's concatenated read is kept
// or dropped as a single unit.
func formatWholeSpot(rec sra.SpotRecord, jo JoinOptions, filter *BaseFilter, stats *JoinStats) (FormattedRecord, bool) {
	n := len(rec.Read)
	if n < int(jo.minLen()) {
		if n == 0 {
			stats.ReadsZeroLength++
		} else {
			stats.ReadsTooShort++
		}
		return FormattedRecord{}, false
	}
	if jo.SkipTech {
		if len(rec.ReadType) == 0 || rec.ReadType[0]&readTypeBiological == 0 {
			stats.ReadsTechnical++
			return FormattedRecord{}, false
		}
	}
	if !filter.Accept(rec.Read) {
		return FormattedRecord{}, false
	}
	stats.ReadsWritten++
	stats.readLens = append(stats.readLens, float64(n))
	return FormattedRecord{
		RowID:        rec.RowID,
		DstID:        1,
		ReadID1Based: 1,
		Name:         rec.Name,
		HasName:      rec.HasName,
		Bases:        rec.Read,
		Quality:      rec.Quality,
		HasQuality:   rec.Quality != nil,
	}, true
}

// formatSplit implements the per-fragment filter for SplitSpot (dst_id
// always 0) and SplitFile (dst_id = fragment index + 1).
func formatSplit(rec sra.SpotRecord, jo JoinOptions, mode LayoutMode, filter *BaseFilter, stats *JoinStats) []FormattedRecord {
	var out []FormattedRecord
	rawOffset := 0
	for i, rl := range rec.ReadLen {
		start := rawOffset
		end := rawOffset + int(rl)
		rawOffset = end

		if rl == 0 {
			stats.ReadsZeroLength++
			continue
		}
		if jo.SkipTech {
			if len(rec.ReadType) <= i || rec.ReadType[i]&readTypeBiological == 0 {
				stats.ReadsTechnical++
				continue
			}
		}
		if rl < jo.minLen() {
			stats.ReadsTooShort++
			continue
		}
		bases := sliceClamped(rec.Read, start, end)
		if !filter.Accept(bases) || !filter.Accept(rec.Read) {
			continue
		}
		stats.ReadsWritten++
		stats.readLens = append(stats.readLens, float64(rl))
		var quality []byte
		if rec.Quality != nil {
			quality = sliceClamped(rec.Quality, start, end)
		}
		var dstID uint32
		if mode.IsSplitFile() {
			dstID = uint32(i) + 1
		}
		out = append(out, FormattedRecord{
			RowID:        rec.RowID,
			DstID:        dstID,
			ReadID1Based: uint32(i) + 1,
			Name:         rec.Name,
			HasName:      rec.HasName,
			Bases:        bases,
			Quality:      quality,
			HasQuality:   rec.Quality != nil,
		})
	}
	return out
}

// formatSplit3 implements the paired/unpaired routing rule: dst_id 0 when
// fewer than two biological fragments qualify, otherwise 1, 2, ... in the
// order fragments pass the per-fragment filter.
func formatSplit3(rec sra.SpotRecord, jo JoinOptions, filter *BaseFilter, stats *JoinStats) []FormattedRecord {
	validBioReads := 0
	for i, rl := range rec.ReadLen {
		if rl == 0 {
			continue
		}
		if len(rec.ReadType) <= i || rec.ReadType[i]&readTypeBiological == 0 {
			continue
		}
		if jo.MinReadLen > 0 && rl < jo.MinReadLen {
			continue
		}
		validBioReads++
	}

	var out []FormattedRecord
	var writeID uint32
	rawOffset := 0
	for i, rl := range rec.ReadLen {
		start := rawOffset
		end := rawOffset + int(rl)
		rawOffset = end

		if rl == 0 {
			stats.ReadsZeroLength++
			continue
		}
		if jo.SkipTech {
			if len(rec.ReadType) <= i || rec.ReadType[i]&readTypeBiological == 0 {
				stats.ReadsTechnical++
				continue
			}
		}
		if rl < jo.minLen() {
			stats.ReadsTooShort++
			continue
		}
		var dstID uint32
		if validBioReads >= 2 {
			writeID++
			dstID = writeID
		}

		bases := sliceClamped(rec.Read, start, end)
		if !filter.Accept(bases) || !filter.Accept(rec.Read) {
			continue
		}
		stats.ReadsWritten++
		stats.readLens = append(stats.readLens, float64(rl))
		var quality []byte
		if rec.Quality != nil {
			quality = sliceClamped(rec.Quality, start, end)
		}
		out = append(out, FormattedRecord{
			RowID:        rec.RowID,
			DstID:        dstID,
			ReadID1Based: uint32(i) + 1,
			Name:         rec.Name,
			HasName:      rec.HasName,
			Bases:        bases,
			Quality:      quality,
			HasQuality:   rec.Quality != nil,
		})
	}
	return out
}
