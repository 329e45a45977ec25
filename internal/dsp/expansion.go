package dsp

import (
	"math"
	"sync/atomic"
)

const crossfeedDelayMs = 0.3

// StereoExpansion implements headphone crossfeed: each channel
// receives a low-passed, short-delayed copy of the opposite channel
// summed at amount weight. At amount == 0 the node is pass-through.
type StereoExpansion struct {
	amount atomic.Uint64 // math.Float64bits

	delayL, delayR []float32
	writePos       int
	lpL, lpR       float32 // one-pole lowpass state for the crossfed signal

	sampleRate float64
}

// NewStereoExpansion builds a disabled (amount = 0) crossfeed node.
func NewStereoExpansion(sampleRate float64) *StereoExpansion {
	e := &StereoExpansion{sampleRate: sampleRate}
	e.SetAmount(0)
	e.allocDelay()
	return e
}

func (e *StereoExpansion) allocDelay() {
	n := int(crossfeedDelayMs/1000*e.sampleRate) + 1
	if n < 1 {
		n = 1
	}
	e.delayL = make([]float32, n)
	e.delayR = make([]float32, n)
	e.writePos = 0
}

// SetAmount sets the crossfeed weight, clamped to [0, 1].
func (e *StereoExpansion) SetAmount(amount float64) {
	amount = clampF64(amount, 0, 1)
	e.amount.Store(math.Float64bits(amount))
}

// Amount returns the current crossfeed weight.
func (e *StereoExpansion) Amount() float64 {
	return math.Float64frombits(e.amount.Load())
}

func (e *StereoExpansion) retune(sampleRate float64) {
	e.sampleRate = sampleRate
	e.allocDelay()
}

// ProcessBlock mixes a delayed, low-passed copy of the opposite
// channel into each channel.
func (e *StereoExpansion) ProcessBlock(frames []Frame) {
	amount := e.Amount()
	if amount == 0 {
		return
	}
	g := float32(amount)
	n := len(e.delayL)
	const lpCoeff = 0.35 // fixed one-pole smoothing for the crossfed path

	for i := range frames {
		l, r := frames[i][0], frames[i][1]

		delayedR := e.delayR[e.writePos]
		delayedL := e.delayL[e.writePos]
		e.delayL[e.writePos] = l
		e.delayR[e.writePos] = r
		e.writePos = (e.writePos + 1) % n

		e.lpL += lpCoeff * (delayedR - e.lpL)
		e.lpR += lpCoeff * (delayedL - e.lpR)

		frames[i][0] = l + g*e.lpL
		frames[i][1] = r + g*e.lpR
	}
}
