package engine

import (
	"math"
	"sync/atomic"

	"github.com/aurelia-audio/aurelia/internal/ring"
	"github.com/aurelia-audio/aurelia/internal/telemetry"
)

// gainStepPerSample bounds how fast the output's play/pause and
// track-switch envelopes move per sample, so a full 0->1 or 1->0
// sweep takes on the order of a few milliseconds at typical output
// rates (e.g. ~4ms at 48kHz) without a zipper or click.
const gainStepPerSample = 0.005

// output is the realtime consumer side of the ring: it implements
// gopxl/beep/v2's Streamer interface so the speaker package's OS
// audio callback drives it directly. It is wait-free: Stream never
// locks, allocates, or performs I/O, per spec.md §5's output-callback
// rules. Generalizes the teacher's Ctrl+volumeStreamer+Tap chain of
// beep.Streamer wrappers into a single stage, since the DSP chain now
// runs on the producer side of a ring buffer rather than inline in a
// beep.Streamer pipeline.
type output struct {
	buf   *ring.Buffer
	state *AudioState
	tap   *telemetry.Tap

	scratch []ring.Frame // pre-sized once; Stream never grows or allocates it

	gain       float64
	playTarget atomic.Uint64 // math.Float64bits; 1 = playing, 0 = paused
	fadeTarget atomic.Uint64 // math.Float64bits; track-switch envelope
}

func newOutput(buf *ring.Buffer, state *AudioState, tap *telemetry.Tap, maxCallbackFrames int) *output {
	o := &output{
		buf:     buf,
		state:   state,
		tap:     tap,
		scratch: make([]ring.Frame, maxCallbackFrames),
		gain:    1,
	}
	o.playTarget.Store(math.Float64bits(1))
	o.fadeTarget.Store(math.Float64bits(1))
	return o
}

// SetPlaying moves the play/pause envelope target; Stream ramps
// toward it over the next several hundred samples rather than
// stepping instantly, avoiding a click.
func (o *output) SetPlaying(playing bool) {
	v := 0.0
	if playing {
		v = 1.0
	}
	o.playTarget.Store(math.Float64bits(v))
}

// SetFadeTarget drives the track-switch fade envelope; LoadTrack sets
// it to 0 before tearing down the old producer and back to 1 right
// after starting the new one.
func (o *output) SetFadeTarget(v float64) {
	o.fadeTarget.Store(math.Float64bits(v))
}

// Stream implements beep.Streamer. Underflow (the ring has fewer
// frames than requested) yields silence for the remainder; it never
// blocks or signals an error.
func (o *output) Stream(samples [][2]float64) (int, bool) {
	n := len(samples)
	if n > len(o.scratch) {
		n = len(o.scratch)
	}
	got := o.buf.Pop(o.scratch[:n])

	volume := o.state.VolumeLinear()
	target := math.Float64frombits(o.playTarget.Load()) * math.Float64frombits(o.fadeTarget.Load())

	for i := 0; i < got; i++ {
		o.gain = stepToward(o.gain, target, gainStepPerSample)
		l := float32(float64(o.scratch[i][0]) * volume * o.gain)
		r := float32(float64(o.scratch[i][1]) * volume * o.gain)
		samples[i][0] = float64(l)
		samples[i][1] = float64(r)
		o.tap.Write(l, r)
	}
	for i := got; i < n; i++ {
		samples[i][0] = 0
		samples[i][1] = 0
		o.tap.Write(0, 0)
	}
	if n < len(samples) {
		for i := n; i < len(samples); i++ {
			samples[i][0] = 0
			samples[i][1] = 0
		}
	}
	return len(samples), true
}

// Err always returns nil: the output callback never propagates
// errors, per spec.md §7's propagation policy.
func (o *output) Err() error { return nil }

func stepToward(cur, target, step float64) float64 {
	if cur < target {
		cur += step
		if cur > target {
			cur = target
		}
	} else if cur > target {
		cur -= step
		if cur < target {
			cur = target
		}
	}
	return cur
}
