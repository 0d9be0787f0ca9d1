package extract

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// defaultMultiWriterCapacity is the bounded queue depth spec.md fixes for the
// fast path.
const defaultMultiWriterCapacity = 200

// MultiWriter is the fast path's single shared output sink: producers
// (workers) enqueue encoded blocks, one consumer goroutine dequeues and
// writes them in arrival order. Order across producers is not preserved;
// order within one producer is, since each producer's blocks are enqueued in
// the order it calls Enqueue. Grounded on the teacher's ShardedBAMWriter, but
// with a plain bounded channel in place of syncqueue.OrderedQueue since the
// fast path never needs global ordering.
type MultiWriter struct {
	queue chan []byte
	done  chan struct{}

	wg      sync.WaitGroup
	writeMu sync.Mutex
	writeErr error
}

// NewMultiWriter starts a consumer goroutine writing blocks from its queue to
// dst, in arrival order. capacity <= 0 uses defaultMultiWriterCapacity.
func NewMultiWriter(dst io.Writer, capacity int) *MultiWriter {
	if capacity <= 0 {
		capacity = defaultMultiWriterCapacity
	}
	m := &MultiWriter{
		queue: make(chan []byte, capacity),
		done:  make(chan struct{}),
	}
	m.wg.Add(1)
	go m.consume(dst)
	return m
}

func (m *MultiWriter) consume(dst io.Writer) {
	defer m.wg.Done()
	defer close(m.done)
	for block := range m.queue {
		if m.writeErrLocked() != nil {
			continue // drain the queue so producers don't deadlock after a write failure
		}
		if _, err := dst.Write(block); err != nil {
			m.setWriteErr(errors.Wrap(ErrWriteFail, err.Error()))
		}
	}
}

func (m *MultiWriter) writeErrLocked() error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return m.writeErr
}

func (m *MultiWriter) setWriteErr(err error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	if m.writeErr == nil {
		m.writeErr = err
	}
}

// Enqueue appends block to the queue, blocking while the queue is full
// (backpressure) or until ctx is done.
func (m *MultiWriter) Enqueue(ctx context.Context, block []byte) error {
	select {
	case m.queue <- block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals the consumer to drain and terminate, then waits for it. It
// returns the first write error the consumer observed, if any.
func (m *MultiWriter) Close() error {
	close(m.queue)
	m.wg.Wait()
	return m.writeErrLocked()
}
