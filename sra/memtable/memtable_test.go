package memtable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncbi/fasterq/sra"
)

func TestTableRowCountAndCursorRange(t *testing.T) {
	tbl := &Table{Rows: []sra.SpotRecord{
		{RowID: 1, Read: []byte("AAAA"), ReadLen: []uint32{4}, Name: "a", HasName: true},
		{RowID: 2, Read: []byte("CCCC"), ReadLen: []uint32{4}, Name: "b", HasName: true},
		{RowID: 3, Read: []byte("GGGG"), ReadLen: []uint32{4}, Name: "c", HasName: true},
	}}
	ctx := context.Background()

	n, err := tbl.RowCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.True(t, tbl.HasName())

	cur, err := tbl.NewCursor(ctx, 1, 2, sra.ColumnOpts{WithReadLen: true, WithName: true})
	require.NoError(t, err)
	defer cur.Close()

	require.True(t, cur.Next())
	assert.Equal(t, "b", cur.Record().Name)
	require.True(t, cur.Next())
	assert.Equal(t, "c", cur.Record().Name)
	assert.False(t, cur.Next())
	assert.NoError(t, cur.Err())
}

func TestTableNewCursorRejectsOutOfRange(t *testing.T) {
	tbl := &Table{Rows: []sra.SpotRecord{{RowID: 1}}}
	_, err := tbl.NewCursor(context.Background(), 0, 5, sra.ColumnOpts{})
	assert.Error(t, err)
}

func TestTableNoNamesForcesHasNameFalse(t *testing.T) {
	tbl := &Table{
		Rows:    []sra.SpotRecord{{RowID: 1, Name: "x", HasName: true}},
		NoNames: true,
	}
	assert.False(t, tbl.HasName())
}

func TestCursorStripsUnrequestedColumns(t *testing.T) {
	tbl := &Table{Rows: []sra.SpotRecord{
		{RowID: 1, Read: []byte("ACGT"), Quality: []byte("IIII"), ReadLen: []uint32{4}, ReadType: []byte{1}, Name: "x", HasName: true},
	}}
	cur, err := tbl.NewCursor(context.Background(), 0, 1, sra.ColumnOpts{})
	require.NoError(t, err)
	require.True(t, cur.Next())
	rec := cur.Record()
	assert.Nil(t, rec.ReadLen)
	assert.False(t, rec.HasName)
	assert.Nil(t, rec.ReadType)
	assert.Nil(t, rec.Quality)
	assert.Equal(t, []byte("ACGT"), rec.Read) // Read itself is always present
}
