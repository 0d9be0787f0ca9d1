package extract

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ncbi/fasterq/sra"
)

// SpotSource adapts an sra.Table/Cursor pair into the lazy, bounded sequence
// a worker pulls SpotRecords from. It owns exactly one Cursor for the life of
// the worker and is never shared across goroutines.
type SpotSource struct {
	cursor sra.Cursor
	rec    sra.SpotRecord
}

// OpenSpotSource opens a cursor over table for [firstRow, firstRow+rowCount)
// with the column set mode and options require.
func OpenSpotSource(ctx context.Context, table sra.Table, firstRow, rowCount int64, mode LayoutMode, jo JoinOptions) (*SpotSource, error) {
	cur, err := table.NewCursor(ctx, firstRow, rowCount, columnOptsFor(mode, jo))
	if err != nil {
		return nil, errors.Wrap(ErrSourceOpen, err.Error())
	}
	return &SpotSource{cursor: cur}, nil
}

// Next advances to the next spot, reporting whether one is available. A
// false return with a non-nil Err indicates a mid-stream read failure
// (ErrSourceRead); a false return with a nil Err means the range is
// exhausted.
func (s *SpotSource) Next() bool {
	if !s.cursor.Next() {
		return false
	}
	s.rec = s.cursor.Record()
	return true
}

// Record returns the spot at the current position. Valid only until the next
// call to Next; callers must not retain its slices.
func (s *SpotSource) Record() sra.SpotRecord {
	return s.rec
}

// Err returns the wrapped cursor error, if Next's last return was false
// because of a read failure.
func (s *SpotSource) Err() error {
	if err := s.cursor.Err(); err != nil {
		return errors.Wrap(ErrSourceRead, err.Error())
	}
	return nil
}

// Close releases the underlying cursor.
func (s *SpotSource) Close() error {
	return s.cursor.Close()
}
