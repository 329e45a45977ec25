package dsp

import (
	"math"
	"sync/atomic"
)

// PreAmp applies a scalar gain in dB ahead of the rest of the chain.
// Default 0 dB (unity).
type PreAmp struct {
	gainDB atomic.Uint64 // math.Float64bits
}

// NewPreAmp returns a PreAmp at 0 dB.
func NewPreAmp() *PreAmp {
	p := &PreAmp{}
	p.SetGainDB(0)
	return p
}

// SetGainDB sets the gain, clamped to a sane ±24 dB range.
func (p *PreAmp) SetGainDB(db float64) {
	db = clampF64(db, -24, 24)
	p.gainDB.Store(math.Float64bits(db))
}

// GainDB returns the current gain.
func (p *PreAmp) GainDB() float64 {
	return math.Float64frombits(p.gainDB.Load())
}

// ProcessBlock applies the linear gain to every frame.
func (p *PreAmp) ProcessBlock(frames []Frame) {
	db := p.GainDB()
	if db == 0 {
		return
	}
	g := float32(math.Pow(10, db/20))
	for i := range frames {
		frames[i][0] *= g
		frames[i][1] *= g
	}
}
