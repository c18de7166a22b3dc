package parallel

import "sync/atomic"
import "testing"

import "github.com/stretchr/testify/assert"

func TestForEachVisitsEveryIndexOnce(t *testing.T) {
	for _, limit := range []int{-1, 0, 1, 3, 64} {
		var visits [257]atomic.Int32
		ForEach(len(visits), limit, func(i int) {
			visits[i].Add(1)
		})
		for i := range visits {
			assert.Equal(t, int32(1), visits[i].Load(), "limit %d index %d", limit, i)
		}
	}
}

func TestForEachBoundsConcurrency(t *testing.T) {
	const limit = 4
	var running, peak atomic.Int32
	ForEach(200, limit, func(i int) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
	})
	assert.LessOrEqual(t, peak.Load(), int32(limit))
}

func TestForEachEmpty(t *testing.T) {
	ForEach(0, 4, func(i int) {
		t.Fatal("body called for empty range")
	})
}

func TestThreads(t *testing.T) {
	assert.Greater(t, Threads(), 0)
}
