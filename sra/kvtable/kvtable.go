// Package kvtable implements an sra.Table backed by modernc.org/kv, an
// embedded ordered key-value store. It exists to exercise the extractor
// against a real storage engine in tests and benchmarks without requiring
// the actual (out of scope) column-store library: rows are stored as
// gob-encoded sra.SpotRecord values keyed by big-endian row ordinal.
package kvtable

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
	"modernc.org/kv"

	"github.com/ncbi/fasterq/sra"
)

// Table is an sra.Table whose rows live in a modernc.org/kv database.
type Table struct {
	db       *kv.DB
	rowCount int64
	hasName  bool
}

// Create makes a new kv-backed table at path and writes rows in order
// starting at row 0. It fails if a file already exists at path.
func Create(path string, rows []sra.SpotRecord) (*Table, error) {
	db, err := kv.Create(path, &kv.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "kvtable: create %s", path)
	}
	t := &Table{db: db}
	for i, r := range rows {
		if r.HasName {
			t.hasName = true
		}
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(r); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "kvtable: encode row %d", i)
		}
		if err := db.Set(rowKey(int64(i)), buf.Bytes()); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "kvtable: write row %d", i)
		}
	}
	t.rowCount = int64(len(rows))
	return t, nil
}

// Open opens an existing kv-backed table previously written by Create.
// rowCount and hasName are rediscovered by scanning the database once.
func Open(path string) (*Table, error) {
	db, err := kv.Open(path, &kv.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "kvtable: open %s", path)
	}
	t := &Table{db: db}
	it, err := db.SeekFirst()
	if err != nil && err != io.EOF {
		db.Close()
		return nil, errors.Wrap(err, "kvtable: seek first")
	}
	for err == nil {
		var k, v []byte
		k, v, err = it.Next()
		if err != nil {
			break
		}
		var r sra.SpotRecord
		if decErr := gob.NewDecoder(bytes.NewReader(v)).Decode(&r); decErr != nil {
			db.Close()
			return nil, errors.Wrap(decErr, "kvtable: decode row")
		}
		if r.HasName {
			t.hasName = true
		}
		if n := rowIndex(k) + 1; n > t.rowCount {
			t.rowCount = n
		}
	}
	if err != io.EOF {
		db.Close()
		return nil, errors.Wrap(err, "kvtable: scan")
	}
	return t, nil
}

// Close closes the underlying kv database.
func (t *Table) Close() error {
	return t.db.Close()
}

// HasName reports whether any stored row carries a spot name.
func (t *Table) HasName() bool { return t.hasName }

// RowCount returns the number of rows written to the table.
func (t *Table) RowCount(ctx context.Context) (int64, error) {
	return t.rowCount, nil
}

// NewCursor returns a cursor reading rows [firstRow, firstRow+rowCount) from
// the kv database in order.
func (t *Table) NewCursor(ctx context.Context, firstRow, rowCount int64, opts sra.ColumnOpts) (sra.Cursor, error) {
	if firstRow < 0 || rowCount < 0 || firstRow+rowCount > t.rowCount {
		return nil, errors.Errorf("kvtable: row range [%d,%d) out of bounds (table has %d rows)", firstRow, firstRow+rowCount, t.rowCount)
	}
	return &cursor{db: t.db, next: firstRow, limit: firstRow + rowCount, opts: opts}, nil
}

type cursor struct {
	db    *kv.DB
	next  int64
	limit int64
	opts  sra.ColumnOpts
	rec   sra.SpotRecord
	err   error
}

func (c *cursor) Next() bool {
	if c.err != nil || c.next >= c.limit {
		return false
	}
	v, err := c.db.Get(nil, rowKey(c.next))
	if err != nil {
		c.err = errors.Wrapf(err, "kvtable: read row %d", c.next)
		return false
	}
	if v == nil {
		c.err = errors.Errorf("kvtable: missing row %d", c.next)
		return false
	}
	var r sra.SpotRecord
	if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&r); err != nil {
		c.err = errors.Wrapf(err, "kvtable: decode row %d", c.next)
		return false
	}
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
	c.rec = r
	c.next++
	return true
}

func (c *cursor) Record() sra.SpotRecord { return c.rec }
func (c *cursor) Err() error             { return c.err }
func (c *cursor) Close() error           { return nil }

func rowKey(row int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(row))
	return b[:]
}

func rowIndex(key []byte) int64 {
	return int64(binary.BigEndian.Uint64(key))
}
