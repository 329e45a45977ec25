package dsp

// NumEQBands is the fixed number of parametric EQ bands; all ten
// exist unconditionally regardless of whether a band has been tuned
// away from its default.
const NumEQBands = 10

// DefaultEQFreqs are the default center frequencies (Hz) for the ten
// UserEQ bands, spanning the audible range.
var DefaultEQFreqs = [NumEQBands]float64{60, 150, 400, 1000, 2400, 4000, 6000, 9000, 13000, 16000}

// UserEQ is ten independent peaking biquads. Left and right channels
// share parameters but hold independent filter state (StereoBiquad).
type UserEQ struct {
	bands      [NumEQBands]*StereoBiquad
	sampleRate float64
}

// NewUserEQ builds a UserEQ with all ten bands at their default
// frequency, 0 dB gain, Q = 1.0.
func NewUserEQ(sampleRate float64) *UserEQ {
	u := &UserEQ{sampleRate: sampleRate}
	for i := range u.bands {
		u.bands[i] = NewStereoBiquad()
		u.SetBand(EQBand{Index: i, FreqHz: DefaultEQFreqs[i], GainDB: 0, Q: 1.0})
	}
	return u
}

// SetBand clamps and applies one band's parameters. Index out of
// [0,9] is a no-op (callers validate via ValidationError before
// reaching here; see internal/control).
func (u *UserEQ) SetBand(b EQBand) {
	if b.Index < 0 || b.Index >= NumEQBands {
		return
	}
	freq := clampF64(b.FreqHz, 20, 20000)
	gain := clampF64(b.GainDB, -24, 24)
	q := clampF64(b.Q, 0.1, 18.0)
	u.bands[b.Index].SetParams(Params{Shape: Peaking, FreqHz: freq, Q: q, GainDB: gain, SampleR: u.sampleRate})
}

// Band returns the current, clamped parameters for one band.
func (u *UserEQ) Band(i int) EQBand {
	if i < 0 || i >= NumEQBands {
		return EQBand{}
	}
	p := u.bands[i].Params()
	return EQBand{Index: i, FreqHz: p.FreqHz, GainDB: p.GainDB, Q: p.Q}
}

// Bands returns a snapshot of all ten bands.
func (u *UserEQ) Bands() [NumEQBands]EQBand {
	var out [NumEQBands]EQBand
	for i := range out {
		out[i] = u.Band(i)
	}
	return out
}

func (u *UserEQ) retune(sampleRate float64) {
	u.sampleRate = sampleRate
	for i := range u.bands {
		b := u.Band(i)
		u.SetBand(b)
	}
}

// ProcessBlock runs all ten bands in series.
func (u *UserEQ) ProcessBlock(frames []Frame) {
	for _, b := range u.bands {
		b.ProcessBlock(frames)
	}
}
