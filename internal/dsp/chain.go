package dsp

import "sync"

// EQBand is one of the ten fixed UserEQ bands.
type EQBand struct {
	Index  int
	FreqHz float64
	GainDB float64
	Q      float64
}

// Chain runs the fixed node order every block: PreAmp, Tone, AutoEQ,
// UserEQ, Balance, StereoExpansion, Spatial, Reverb, SoftLimiter.
// The mutex serializes Retune only; the nodes' SetX methods do not take
// it. ProcessBlock itself never locks.
type Chain struct {
	mu sync.Mutex

	PreAmp     *PreAmp
	Tone       *Tone
	AutoEQ     *AutoEQ
	UserEQ     *UserEQ
	Balance    *Balance
	Expansion  *StereoExpansion
	Spatial    *Spatial
	Reverb     *Reverb
	Limiter    *SoftLimiter
	sampleRate float64

	ordered []Node
}

// NewChain builds the fixed-order chain for a given sample rate.
func NewChain(sampleRate float64) *Chain {
	c := &Chain{
		PreAmp:     NewPreAmp(),
		Tone:       NewTone(sampleRate),
		AutoEQ:     NewAutoEQ(),
		UserEQ:     NewUserEQ(sampleRate),
		Balance:    NewBalance(),
		Expansion:  NewStereoExpansion(sampleRate),
		Spatial:    NewSpatial(sampleRate),
		Reverb:     NewReverb(sampleRate),
		Limiter:    NewSoftLimiter(),
		sampleRate: sampleRate,
	}
	c.ordered = []Node{
		c.PreAmp, c.Tone, c.AutoEQ, c.UserEQ, c.Balance,
		c.Expansion, c.Spatial, c.Reverb, c.Limiter,
	}
	return c
}

// SampleRate returns the rate the chain's filters were derived for.
func (c *Chain) SampleRate() float64 { return c.sampleRate }

// Retune rebuilds every node's coefficients for a new stream sample
// rate, e.g. after a track loads at a different native rate than the
// previous one and the device can open it bit-transparently.
func (c *Chain) Retune(sampleRate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sampleRate = sampleRate
	c.Tone.retune(sampleRate)
	c.UserEQ.retune(sampleRate)
	c.Expansion.retune(sampleRate)
	c.Spatial.retune(sampleRate)
	c.Reverb.retune(sampleRate)
}

// ProcessBlock clamps non-finite input, then runs every node in
// order. Never allocates, never locks: the chain's mutex is taken only
// by Retune.
func (c *Chain) ProcessBlock(frames []Frame) {
	sanitize(frames)
	for _, n := range c.ordered {
		n.ProcessBlock(frames)
	}
}
