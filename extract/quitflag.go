package extract

import "sync/atomic"

// QuitFlag is a shared cancellation signal polled by every worker at spot
// boundaries, the same role `draining` plays in the teacher's sortShardWriter:
// a plain int32 toggled with sync/atomic rather than a channel, since any
// number of goroutines need to check it cheaply and often.
type QuitFlag struct {
	flag int32
}

// Set marks the flag so that Get returns true from now on. Idempotent.
func (q *QuitFlag) Set() {
	atomic.StoreInt32(&q.flag, 1)
}

// Get reports whether Set has been called.
func (q *QuitFlag) Get() bool {
	return atomic.LoadInt32(&q.flag) != 0
}
