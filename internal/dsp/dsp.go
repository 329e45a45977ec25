// Package dsp implements the fixed-order node chain the audio engine
// runs on every block of decoded PCM: PreAmp, Tone, AutoEQ, UserEQ,
// Balance, StereoExpansion, Spatial, Reverb, SoftLimiter.
package dsp

import "math"

// Frame is one interleaved stereo sample pair in [-1, 1]. Defined as
// an alias so engine/ring/decode/resample can pass the same slice
// through every stage without per-call conversions.
type Frame = [2]float32

// Node processes a block of frames in place. Nodes never fail: bad
// input is clamped, never rejected.
type Node interface {
	ProcessBlock(frames []Frame)
}

// sanitize clamps non-finite samples to 0, matching the chain's input
// guarantee that NaN/Inf never propagates past the first node.
func sanitize(frames []Frame) {
	for i := range frames {
		for ch := 0; ch < 2; ch++ {
			v := frames[i][ch]
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				frames[i][ch] = 0
			}
		}
	}
}

func clampF64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
