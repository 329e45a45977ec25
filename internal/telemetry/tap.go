// Package telemetry turns raw output samples into the spectrum,
// peak-amplitude, and stats snapshots the Control Surface serves to
// the shell, without ever touching the realtime output callback's
// locking or allocation budget.
package telemetry

import (
	"math"
	"sync/atomic"
)

// TapSize is the number of trailing samples kept for analysis,
// spec.md's fixed N = 2048.
const TapSize = 2048

// Tap is a wait-free single-writer circular buffer of mono-mixed
// samples. The output callback is the sole writer (Write); any number
// of telemetry readers may call Samples concurrently. Generalizes the
// teacher's mutex-guarded tap into something legal to call from a
// realtime callback, since locking there is forbidden.
type Tap struct {
	buf []atomic.Uint64 // math.Float64bits of each mono sample
	pos atomic.Uint64
}

// NewTap returns a Tap holding size samples (TapSize if size <= 0).
func NewTap(size int) *Tap {
	if size <= 0 {
		size = TapSize
	}
	return &Tap{buf: make([]atomic.Uint64, size)}
}

// Write records one stereo frame's mono mix. Output-callback only;
// performs no locking or allocation.
func (t *Tap) Write(l, r float32) {
	mono := float64(l+r) / 2
	p := t.pos.Add(1) - 1
	t.buf[p%uint64(len(t.buf))].Store(math.Float64bits(mono))
}

// Samples returns up to n of the most recent samples, oldest first.
// May race a concurrent Write by at most one sample's staleness,
// which is acceptable for visualization.
func (t *Tap) Samples(n int) []float64 {
	if n > len(t.buf) {
		n = len(t.buf)
	}
	out := make([]float64, n)
	end := t.pos.Load()
	size := uint64(len(t.buf))
	start := end - uint64(n)
	for i := 0; i < n; i++ {
		out[i] = math.Float64frombits(t.buf[(start+uint64(i))%size].Load())
	}
	return out
}
