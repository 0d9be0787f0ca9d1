// Package memtable is an in-memory sra.Table, used by tests and small
// examples in place of a real column-store table.
package memtable

import (
	"context"

	"github.com/ncbi/fasterq/sra"
)

// Table is a fixed slice of sra.SpotRecord served as an sra.Table. Row ids in
// Rows need not be contiguous, but NewCursor indexes by position, not by
// RowID value: firstRow is an offset into Rows, matching the row-range
// contract real column stores use (rows are addressed by ordinal, not by an
// application-level id).
type Table struct {
	Rows    []sra.SpotRecord
	NoNames bool // when true, HasName reports false regardless of Rows content.
}

// HasName reports whether any row carries a name, unless NoNames forces the
// table to behave as a nameless table for testing the normalization step in
// extract.Extractor.
func (t *Table) HasName() bool {
	if t.NoNames {
		return false
	}
	for _, r := range t.Rows {
		if r.HasName {
			return true
		}
	}
	return false
}

// RowCount returns len(t.Rows).
func (t *Table) RowCount(ctx context.Context) (int64, error) {
	return int64(len(t.Rows)), nil
}

// NewCursor returns a cursor over Rows[firstRow : firstRow+rowCount], with
// fields not requested in opts zeroed out so that callers can't accidentally
// depend on incidental data.
func (t *Table) NewCursor(ctx context.Context, firstRow, rowCount int64, opts sra.ColumnOpts) (sra.Cursor, error) {
	if firstRow < 0 || rowCount < 0 || firstRow+rowCount > int64(len(t.Rows)) {
		return nil, errOutOfRange
	}
	return &cursor{
		rows: t.Rows[firstRow : firstRow+rowCount],
		opts: opts,
		pos:  -1,
	}, nil
}

type cursor struct {
	rows []sra.SpotRecord
	opts sra.ColumnOpts
	pos  int
}

func (c *cursor) Next() bool {
	c.pos++
	return c.pos < len(c.rows)
}

func (c *cursor) Record() sra.SpotRecord {
	r := c.rows[c.pos]
	if !c.opts.WithReadLen {
		r.ReadLen = nil
	}
	if !c.opts.WithName {
		r.Name, r.HasName = "", false
	}
	if !c.opts.WithReadType {
		r.ReadType, r.HasReadType = nil, false
	}
	if !c.opts.WithQuality {
		r.Quality = nil
	}
	return r
}

func (c *cursor) Err() error   { return nil }
func (c *cursor) Close() error { return nil }

type rangeError string

func (e rangeError) Error() string { return string(e) }

const errOutOfRange rangeError = "memtable: row range out of bounds"
