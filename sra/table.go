// Package sra defines the interface the extractor uses to pull spots out of
// a columnar sequencing-data store. The store itself (table open, cursor,
// row-range queries) is an external collaborator; this package only
// specifies the shape it must have and ships an in-memory reference
// implementation (package memtable) for tests.
package sra

import "context"

// ColumnOpts selects which columns a Cursor should decode. Reading fewer
// columns lets an implementation skip work for columns the caller doesn't
// need.
type ColumnOpts struct {
	WithReadLen  bool
	WithName     bool
	WithReadType bool
	WithQuality  bool
}

// SpotRecord is one row of the source table: a spot comprising one or more
// fragments ("reads").
//
// Read and Quality are concatenated across all fragments in the spot; ReadLen
// gives the length of each fragment in order, so sum(ReadLen) should equal
// len(Read). ReadType carries a per-fragment bit 0 BIOLOGICAL flag and is
// only populated when ColumnOpts.WithReadType was requested.
//
// A SpotRecord is only valid until the Cursor that produced it is advanced
// again; callers must not retain its slices past one iteration.
type SpotRecord struct {
	RowID int64

	Read    []byte
	Quality []byte

	Name    string
	HasName bool

	ReadLen []uint32

	ReadType    []byte
	HasReadType bool
}

// NumReads returns the number of fragments in the spot.
func (r *SpotRecord) NumReads() int {
	return len(r.ReadLen)
}

// Table is a handle to one column-store table, opened for a particular
// accession. Thread safe: NewCursor may be called concurrently from
// multiple goroutines, each receiving an independent Cursor.
type Table interface {
	// RowCount returns the total number of rows (spots) in the table.
	RowCount(ctx context.Context) (int64, error)

	// HasName reports whether the table carries a NAME column at all. The
	// extractor uses this during option normalization: when false,
	// JoinOptions.RowIDAsName is forced on regardless of its input value.
	HasName() bool

	// NewCursor opens a cursor bounded to [firstRow, firstRow+rowCount), with
	// the requested columns decoded. The cursor is owned exclusively by the
	// caller; it is never shared across goroutines.
	NewCursor(ctx context.Context, firstRow, rowCount int64, opts ColumnOpts) (Cursor, error)
}

// Cursor is a finite, non-restartable, single-goroutine iterator over
// SpotRecords in a row sub-range.
type Cursor interface {
	// Next advances the cursor and reports whether a record is available.
	// Once Next returns false, it never returns true again.
	Next() bool

	// Record returns the spot at the current cursor position. Valid only
	// after Next returned true, and only until the next call to Next.
	Record() SpotRecord

	// Err returns the error that caused Next to return false, or nil if the
	// cursor was simply exhausted.
	Err() error

	// Close releases cursor resources. Safe to call after partial iteration.
	Close() error
}
