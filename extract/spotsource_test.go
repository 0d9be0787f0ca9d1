package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncbi/fasterq/sra"
	"github.com/ncbi/fasterq/sra/memtable"
)

func TestSpotSourceIteratesBoundedRange(t *testing.T) {
	tbl := &memtable.Table{Rows: []sra.SpotRecord{
		{RowID: 1, Read: []byte("A"), ReadLen: []uint32{1}},
		{RowID: 2, Read: []byte("C"), ReadLen: []uint32{1}},
		{RowID: 3, Read: []byte("G"), ReadLen: []uint32{1}},
	}}
	src, err := OpenSpotSource(context.Background(), tbl, 1, 2, FastqWholeSpot, JoinOptions{})
	require.NoError(t, err)
	defer src.Close()

	var rowIDs []int64
	for src.Next() {
		rowIDs = append(rowIDs, src.Record().RowID)
	}
	require.NoError(t, src.Err())
	assert.Equal(t, []int64{2, 3}, rowIDs)
}

func TestOpenSpotSourceWrapsOpenError(t *testing.T) {
	tbl := &memtable.Table{Rows: []sra.SpotRecord{{RowID: 1, Read: []byte("A"), ReadLen: []uint32{1}}}}
	_, err := OpenSpotSource(context.Background(), tbl, 0, 10, FastqWholeSpot, JoinOptions{})
	require.Error(t, err)
	assert.True(t, isErrKind(err, ErrSourceOpen))
}
