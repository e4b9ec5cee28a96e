// ABOUTME: Tests for the in-flight guard.
// ABOUTME: Covers rejection while held, release, and concurrent acquirers.
package inflight

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRejectsWhileHeld(t *testing.T) {
	g := New()

	release, ok := g.Acquire("task:1")
	require.True(t, ok)
	assert.True(t, g.Busy("task:1"))

	_, ok = g.Acquire("task:1")
	assert.False(t, ok, "second acquire of a held key must fail")

	other, ok := g.Acquire("task:2")
	assert.True(t, ok, "distinct keys are independent")
	other()

	release()
	assert.False(t, g.Busy("task:1"))

	again, ok := g.Acquire("task:1")
	assert.True(t, ok, "key is free after release")
	again()
}

func TestReleaseIsIdempotent(t *testing.T) {
	g := New()

	first, ok := g.Acquire("k")
	require.True(t, ok)
	first()

	second, ok := g.Acquire("k")
	require.True(t, ok)

	first()
	assert.True(t, g.Busy("k"), "stale release must not free a newer holder")
	second()
	assert.False(t, g.Busy("k"))
}

func TestConcurrentAcquireSingleWinner(t *testing.T) {
	g := New()
	start := make(chan struct{})
	var wins atomic.Int32
	var wg sync.WaitGroup

	releases := make(chan func(), 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if release, ok := g.Acquire("homework:7"); ok {
				wins.Add(1)
				releases <- release
			}
		}()
	}
	close(start)
	wg.Wait()
	close(releases)

	assert.Equal(t, int32(1), wins.Load())
	for release := range releases {
		release()
	}
	assert.False(t, g.Busy("homework:7"))
}
