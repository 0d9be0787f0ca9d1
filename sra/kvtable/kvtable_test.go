package kvtable

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncbi/fasterq/sra"
)

func testRows() []sra.SpotRecord {
	return []sra.SpotRecord{
		{RowID: 0, Read: []byte("ACGT"), Quality: []byte("IIII"), ReadLen: []uint32{4}, ReadType: []byte{1}, Name: "r0", HasName: true},
		{RowID: 1, Read: []byte("TTTTGGGG"), Quality: []byte("!!!!####"), ReadLen: []uint32{4, 4}, ReadType: []byte{1, 1}, Name: "r1", HasName: true},
	}
}

func TestCreateAndOpenRoundTrips(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(dir, "table.kv")

	created, err := Create(path, testRows())
	require.NoError(t, err)
	require.NoError(t, created.Close())

	tbl, err := Open(path)
	require.NoError(t, err)
	defer tbl.Close()

	n, err := tbl.RowCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.True(t, tbl.HasName())
}

func TestCursorReadsRowsInOrder(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(dir, "table.kv")

	tbl, err := Create(path, testRows())
	require.NoError(t, err)
	defer tbl.Close()

	cur, err := tbl.NewCursor(context.Background(), 0, 2, sra.ColumnOpts{WithReadLen: true, WithName: true, WithQuality: true})
	require.NoError(t, err)
	defer cur.Close()

	require.True(t, cur.Next())
	assert.Equal(t, "r0", cur.Record().Name)
	assert.Equal(t, []byte("ACGT"), cur.Record().Read)

	require.True(t, cur.Next())
	assert.Equal(t, "r1", cur.Record().Name)
	assert.Equal(t, []uint32{4, 4}, cur.Record().ReadLen)

	assert.False(t, cur.Next())
	assert.NoError(t, cur.Err())
}

func TestNewCursorRejectsOutOfRange(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(dir, "table.kv")

	tbl, err := Create(path, testRows())
	require.NoError(t, err)
	defer tbl.Close()

	_, err = tbl.NewCursor(context.Background(), 0, 10, sra.ColumnOpts{})
	assert.Error(t, err)
}
