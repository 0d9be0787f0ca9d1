package extract

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiWriterPreservesPerProducerOrder(t *testing.T) {
	var buf bytes.Buffer
	mw := NewMultiWriter(&buf, 4)
	ctx := context.Background()

	var wg sync.WaitGroup
	producer := func(prefix byte, n int) {
		defer wg.Done()
		for i := 0; i < n; i++ {
			require.NoError(t, mw.Enqueue(ctx, []byte{prefix, byte(i)}))
		}
	}
	wg.Add(2)
	go producer('A', 50)
	go producer('B', 50)
	wg.Wait()

	require.NoError(t, mw.Close())
	out := buf.Bytes()
	assert.Equal(t, 200, len(out))

	// Each block is a producer tag followed by that producer's sequence
	// number. Within each producer's own contribution, order is preserved:
	// per tag the sequence numbers appear as 0, 1, 2, ..., and there are
	// exactly 50 blocks of each tag.
	var countA, countB int
	for i := 0; i+1 < len(out); i += 2 {
		switch out[i] {
		case 'A':
			assert.Equal(t, byte(countA), out[i+1])
			countA++
		case 'B':
			assert.Equal(t, byte(countB), out[i+1])
			countB++
		}
	}
	assert.Equal(t, 50, countA)
	assert.Equal(t, 50, countB)
}

func TestMultiWriterDefaultCapacity(t *testing.T) {
	var buf bytes.Buffer
	mw := NewMultiWriter(&buf, 0)
	assert.Equal(t, defaultMultiWriterCapacity, cap(mw.queue))
	require.NoError(t, mw.Close())
}

func TestMultiWriterSurfacesWriteError(t *testing.T) {
	mw := NewMultiWriter(failingWriter{}, 1)
	ctx := context.Background()
	require.NoError(t, mw.Enqueue(ctx, []byte("x")))
	err := mw.Close()
	require.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, assertErr
}

var assertErr = &writeErr{"boom"}

type writeErr struct{ msg string }

func (e *writeErr) Error() string { return e.msg }
