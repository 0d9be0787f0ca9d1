package extract

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuitFlagSetIsStickyAndConcurrentSafe(t *testing.T) {
	q := &QuitFlag{}
	assert.False(t, q.Get())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Set()
		}()
	}
	wg.Wait()

	assert.True(t, q.Get())
	q.Set()
	assert.True(t, q.Get())
}
