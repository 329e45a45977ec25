package lyrics

import (
	"sync"
	"time"
)

// pollInterval polls well above spec.md §4.11's "at least 10 Hz"
// floor, matching SPEC_FULL.md's 20 Hz choice.
const pollInterval = 50 * time.Millisecond

// PositionFunc returns the current playback position in milliseconds;
// the Control Surface wires this to the engine's AudioState.
type PositionFunc func() int64

// LineChangeFunc is called whenever the active line index changes,
// including the transition to -1 (before the first line) on seek.
type LineChangeFunc func(index int, line Line)

// Monitor polls PositionFunc on a ticker and reports line-index
// transitions; it recomputes the index on every tick but calls back
// only when the index actually moved, so seeking backward across many
// lines fires exactly one callback.
type Monitor struct {
	mu       sync.Mutex
	lines    []Line
	position PositionFunc
	onChange LineChangeFunc

	lastIndex int

	stop chan struct{}
	done chan struct{}
}

// NewMonitor starts polling immediately in its own goroutine.
func NewMonitor(lines []Line, position PositionFunc, onChange LineChangeFunc) *Monitor {
	m := &Monitor{
		lines:     lines,
		position:  position,
		onChange:  onChange,
		lastIndex: -2, // sentinel distinct from -1 (before first line) so the first tick always fires
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go m.run()
	return m
}

// SetLines replaces the active lyric document (e.g. on load_track) and
// resets the tracked index so the next tick re-evaluates from scratch.
func (m *Monitor) SetLines(lines []Line) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = lines
	m.lastIndex = -2
}

func (m *Monitor) run() {
	defer close(m.done)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

func (m *Monitor) tick() {
	m.mu.Lock()
	lines := m.lines
	lastIndex := m.lastIndex
	pos := m.position()
	idx := IndexAt(lines, pos)
	if idx == lastIndex {
		m.mu.Unlock()
		return
	}
	m.lastIndex = idx
	m.mu.Unlock()

	var line Line
	if idx >= 0 {
		line = lines[idx]
	}
	if m.onChange != nil {
		m.onChange(idx, line)
	}
}

// Stop halts the polling goroutine and waits for it to exit.
func (m *Monitor) Stop() {
	close(m.stop)
	<-m.done
}
