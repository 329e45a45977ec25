package dsp

const (
	toneBassHz   = 100
	toneTrebleHz = 10000
	toneShelfQ   = 0.707 // Butterworth-flat shelf Q
)

// Tone is an independent bass/treble pair: a low-shelf around 100 Hz
// and a high-shelf around 10 kHz, each ±12 dB.
type Tone struct {
	bass, treble *StereoBiquad
	sampleRate   float64
}

// NewTone builds a neutral (0 dB) Tone node for sampleRate.
func NewTone(sampleRate float64) *Tone {
	t := &Tone{
		bass:       NewStereoBiquad(),
		treble:     NewStereoBiquad(),
		sampleRate: sampleRate,
	}
	t.SetBass(0)
	t.SetTreble(0)
	return t
}

// SetBass sets the low-shelf gain in dB, clamped to ±12 dB.
func (t *Tone) SetBass(db float64) {
	db = clampF64(db, -12, 12)
	t.bass.SetParams(Params{Shape: LowShelf, FreqHz: toneBassHz, Q: toneShelfQ, GainDB: db, SampleR: t.sampleRate})
}

// SetTreble sets the high-shelf gain in dB, clamped to ±12 dB.
func (t *Tone) SetTreble(db float64) {
	db = clampF64(db, -12, 12)
	t.treble.SetParams(Params{Shape: HighShelf, FreqHz: toneTrebleHz, Q: toneShelfQ, GainDB: db, SampleR: t.sampleRate})
}

// Bass returns the current bass gain in dB.
func (t *Tone) Bass() float64 { return t.bass.Params().GainDB }

// Treble returns the current treble gain in dB.
func (t *Tone) Treble() float64 { return t.treble.Params().GainDB }

func (t *Tone) retune(sampleRate float64) {
	t.sampleRate = sampleRate
	t.SetBass(t.Bass())
	t.SetTreble(t.Treble())
}

// ProcessBlock runs the bass shelf then the treble shelf.
func (t *Tone) ProcessBlock(frames []Frame) {
	t.bass.ProcessBlock(frames)
	t.treble.ProcessBlock(frames)
}
