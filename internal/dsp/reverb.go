package dsp

// ReverbParams are the user-facing reverb controls, all normalized to
// [0,1] except predelay and lowpass cutoff, which are physical units.
type ReverbParams struct {
	RoomSize   float64 // [0,1]
	Damping    float64 // [0,1]
	PredelayMs float64 // [0,100]
	LowpassHz  float64 // [200,20000]
	Decay      float64 // [0,1]
	WetMix     float64 // [0,1]
}

// ReverbPresets are named bundles of ReverbParams.
var ReverbPresets = map[string]ReverbParams{
	"Off":       {RoomSize: 0, Damping: 0, PredelayMs: 0, LowpassHz: 20000, Decay: 0, WetMix: 0},
	"Room":      {RoomSize: 0.25, Damping: 0.4, PredelayMs: 5, LowpassHz: 10000, Decay: 0.3, WetMix: 0.15},
	"Hall":      {RoomSize: 0.6, Damping: 0.35, PredelayMs: 20, LowpassHz: 8000, Decay: 0.6, WetMix: 0.3},
	"Plate":     {RoomSize: 0.4, Damping: 0.2, PredelayMs: 2, LowpassHz: 12000, Decay: 0.5, WetMix: 0.25},
	"Cathedral": {RoomSize: 0.95, Damping: 0.5, PredelayMs: 45, LowpassHz: 6000, Decay: 0.85, WetMix: 0.4},
}

// combTuningL are the classic Freeverb comb delay lengths in samples
// at 44.1kHz; combTuningR is offset slightly (+23 samples) to
// decorrelate the two channels, again per the Freeverb reference
// design.
var combTuningL = [8]int{1116, 1188, 1277, 1356, 1422, 1499, 1617, 1640}
var combTuningR = [8]int{1116 + 23, 1188 + 23, 1277 + 23, 1356 + 23, 1422 + 23, 1499 + 23, 1617 + 23, 1640 + 23}
var allpassTuningL = [4]int{556, 441, 341, 225}
var allpassTuningR = [4]int{556 + 23, 441 + 23, 341 + 23, 225 + 23}

const referenceSR = 44100.0

type comb struct {
	buf      []float32
	pos      int
	feedback float32
	damp1    float32
	damp2    float32
	filterS  float32
}

func newComb(length int, feedback, damp float32) *comb {
	return &comb{buf: make([]float32, length), feedback: feedback, damp1: damp, damp2: 1 - damp}
}

func (c *comb) process(x float32) float32 {
	out := c.buf[c.pos]
	c.filterS = out*c.damp2 + c.filterS*c.damp1
	c.buf[c.pos] = x + c.filterS*c.feedback
	c.pos = (c.pos + 1) % len(c.buf)
	return out
}

type allpass struct {
	buf []float32
	pos int
}

func newAllpass(length int) *allpass {
	return &allpass{buf: make([]float32, length)}
}

func (a *allpass) process(x float32) float32 {
	const feedback = 0.5
	buffered := a.buf[a.pos]
	out := -x + buffered
	a.buf[a.pos] = x + buffered*feedback
	a.pos = (a.pos + 1) % len(a.buf)
	return out
}

type reverbChannel struct {
	combs    [8]*comb
	allpasss [4]*allpass
	lowpass  Biquad
}

// Reverb is a Freeverb-style network: eight parallel comb filters with
// per-comb delay lengths scaled from the Freeverb reference tuning,
// each feeding back through a one-pole damping filter, followed by
// four series allpass filters. A predelay line precedes the network;
// a final second-order (biquad) lowpass, not a one-pole filter, limits
// the wet band.
type Reverb struct {
	params     ReverbParams
	sampleRate float64

	predelay    []float32
	predelayPos int

	left, right reverbChannel
}

// NewReverb builds a Reverb node with wet_mix 0 (effectively off).
func NewReverb(sampleRate float64) *Reverb {
	r := &Reverb{sampleRate: sampleRate}
	r.rebuild(ReverbParams{LowpassHz: 20000})
	return r
}

func scaledLength(base int, sampleRate float64) int {
	n := int(float64(base) * sampleRate / referenceSR)
	if n < 1 {
		n = 1
	}
	return n
}

func (r *Reverb) rebuild(p ReverbParams) {
	r.params = p
	// feedback sets each comb's sustain: roomSize picks the base (a
	// bigger room rings longer), decay biases it further up toward a
	// longer tail. Folded in once here rather than per-sample, and
	// clamped well short of 1 so the comb stays stable.
	feedback := float32(clampF64(0.28+0.5*clampF64(p.RoomSize, 0, 1)+0.2*clampF64(p.Decay, 0, 1), 0, 0.95))
	damp := float32(clampF64(p.Damping, 0, 1))

	for i := 0; i < 8; i++ {
		r.left.combs[i] = newComb(scaledLength(combTuningL[i], r.sampleRate), feedback, damp)
		r.right.combs[i] = newComb(scaledLength(combTuningR[i], r.sampleRate), feedback, damp)
	}
	for i := 0; i < 4; i++ {
		r.left.allpasss[i] = newAllpass(scaledLength(allpassTuningL[i], r.sampleRate))
		r.right.allpasss[i] = newAllpass(scaledLength(allpassTuningR[i], r.sampleRate))
	}

	lp := clampF64(p.LowpassHz, 200, 20000)
	r.left.lowpass.SetParams(Params{Shape: LowPass, FreqHz: lp, Q: 0.707, SampleR: r.sampleRate})
	r.right.lowpass.SetParams(Params{Shape: LowPass, FreqHz: lp, Q: 0.707, SampleR: r.sampleRate})

	predelaySamples := int(p.PredelayMs / 1000 * r.sampleRate)
	if predelaySamples < 1 {
		predelaySamples = 1
	}
	r.predelay = make([]float32, predelaySamples)
	r.predelayPos = 0
}

// SetParams clamps and applies new reverb parameters, rebuilding the
// comb/allpass network (new delay-line lengths require fresh buffers).
func (r *Reverb) SetParams(p ReverbParams) {
	p.RoomSize = clampF64(p.RoomSize, 0, 1)
	p.Damping = clampF64(p.Damping, 0, 1)
	p.PredelayMs = clampF64(p.PredelayMs, 0, 100)
	p.LowpassHz = clampF64(p.LowpassHz, 200, 20000)
	p.Decay = clampF64(p.Decay, 0, 1)
	p.WetMix = clampF64(p.WetMix, 0, 1)
	r.rebuild(p)
}

// Params returns the current reverb parameters.
func (r *Reverb) Params() ReverbParams { return r.params }

// LoadPreset applies a named preset; returns false if the name is
// unknown (the node's parameters are left unchanged).
func (r *Reverb) LoadPreset(name string) bool {
	p, ok := ReverbPresets[name]
	if !ok {
		return false
	}
	r.SetParams(p)
	return true
}

func (r *Reverb) retune(sampleRate float64) {
	r.sampleRate = sampleRate
	r.rebuild(r.params)
}

func (r *Reverb) wetChannel(ch *reverbChannel, x float32) float32 {
	var sum float32
	for _, c := range ch.combs {
		sum += c.process(x)
	}
	for _, a := range ch.allpasss {
		sum = a.process(sum)
	}
	return ch.lowpass.Process(sum)
}

// ProcessBlock mixes dry and wet signal per wet_mix, after routing the
// mono-summed input through a predelay line and the comb/allpass
// network.
func (r *Reverb) ProcessBlock(frames []Frame) {
	wet := float32(r.params.WetMix)
	if wet == 0 {
		return
	}
	dry := 1 - wet
	n := len(r.predelay)

	for i := range frames {
		mono := (frames[i][0] + frames[i][1]) / 2
		delayed := r.predelay[r.predelayPos]
		r.predelay[r.predelayPos] = mono
		r.predelayPos = (r.predelayPos + 1) % n

		wetL := r.wetChannel(&r.left, delayed)
		wetR := r.wetChannel(&r.right, delayed)

		frames[i][0] = dry*frames[i][0] + wet*wetL
		frames[i][1] = dry*frames[i][1] + wet*wetR
	}
}
