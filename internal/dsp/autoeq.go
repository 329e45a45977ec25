package dsp

import "fmt"

// AutoEQProfile is a named ten-band correction curve for a headphone
// model, gains only — frequency and Q stay at UserEQ's defaults.
type AutoEQProfile struct {
	Model   string
	GainsDB [NumEQBands]float64
}

// builtinProfiles ships a small illustrative table; a real deployment
// would load a much larger catalog from the library store's settings
// table or a bundled asset.
var builtinProfiles = map[string]AutoEQProfile{
	"HD 600": {Model: "HD 600", GainsDB: [NumEQBands]float64{1.5, 1.0, 0, -0.5, -1.0, 0.5, 1.5, 2.0, 1.0, 0}},
	"DT 880": {Model: "DT 880", GainsDB: [NumEQBands]float64{0.5, 0, -0.5, -1.5, -1.0, 0, 1.0, 3.0, 2.0, -1.0}},
	"WH-1000XM4": {Model: "WH-1000XM4", GainsDB: [NumEQBands]float64{2.0, 1.5, 0.5, -1.0, -2.0, -1.0, 0.5, 1.0, 0.5, -0.5}},
}

// AutoEQ holds the currently activated profile, if any. It never
// processes audio itself: activating a profile programs its gains
// straight into the UserEQ node below it in the chain, and AutoEQ's
// own chain slot is always a pass-through. This matches spec.md's
// "bypassing its own slot when absent" framing, generalized slightly:
// the slot is a no-op whether or not a profile is active, since the
// actual filtering happens in UserEQ either way.
type AutoEQ struct {
	active string
}

// NewAutoEQ returns an AutoEQ with no profile active.
func NewAutoEQ() *AutoEQ { return &AutoEQ{} }

// Profiles returns the available built-in profile names.
func Profiles() []string {
	names := make([]string, 0, len(builtinProfiles))
	for n := range builtinProfiles {
		names = append(names, n)
	}
	return names
}

// Activate programs model's gain table into userEQ's ten bands,
// leaving each band's frequency and Q untouched, and records model as
// the active profile.
func (a *AutoEQ) Activate(model string, userEQ *UserEQ) error {
	profile, ok := builtinProfiles[model]
	if !ok {
		return fmt.Errorf("autoeq: unknown headphone model %q", model)
	}
	for i, g := range profile.GainsDB {
		cur := userEQ.Band(i)
		userEQ.SetBand(EQBand{Index: i, FreqHz: cur.FreqHz, GainDB: g, Q: cur.Q})
	}
	a.active = model
	return nil
}

// ActiveProfile returns the currently activated model name, or "" if
// none.
func (a *AutoEQ) ActiveProfile() string { return a.active }

// ProcessBlock is a pass-through; see the AutoEQ doc comment.
func (a *AutoEQ) ProcessBlock(frames []Frame) {}
