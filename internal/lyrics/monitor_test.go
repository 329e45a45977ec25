package lyrics

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonitorFiresOnLineChange(t *testing.T) {
	lines := Parse("[00:00.00] a\n[00:00.10] b\n[00:00.20] c")
	var pos atomic.Int64

	var mu sync.Mutex
	var seen []int
	m := NewMonitor(lines, func() int64 { return pos.Load() }, func(idx int, line Line) {
		mu.Lock()
		seen = append(seen, idx)
		mu.Unlock()
	})
	defer m.Stop()

	pos.Store(50)
	time.Sleep(120 * time.Millisecond)
	pos.Store(150)
	time.Sleep(120 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, seen, 0)
	assert.Contains(t, seen, 1)
}

func TestMonitorDoesNotRefireForSameIndex(t *testing.T) {
	lines := Parse("[00:00.00] a")
	var calls atomic.Int64
	m := NewMonitor(lines, func() int64 { return 10 }, func(idx int, line Line) {
		calls.Add(1)
	})
	defer m.Stop()

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}

func TestMonitorSetLinesResetsTracking(t *testing.T) {
	m := NewMonitor(nil, func() int64 { return 0 }, func(idx int, line Line) {})
	defer m.Stop()
	time.Sleep(80 * time.Millisecond)

	m.SetLines(Parse("[00:00.00] new"))
	m.mu.Lock()
	assert.Equal(t, -2, m.lastIndex)
	m.mu.Unlock()
}
