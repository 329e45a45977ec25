package dsp

import "math"

// FrequencyPoint is one sample of a magnitude response curve.
type FrequencyPoint struct {
	FrequencyHz float64
	MagnitudeDB float64
}

// FrequencyResponseDB evaluates the combined magnitude response of all
// ten UserEQ bands at numPoints log-spaced frequencies from 20Hz to
// 20kHz, for the EQ graph a shell renders.
func (u *UserEQ) FrequencyResponseDB(numPoints int) []FrequencyPoint {
	if numPoints < 2 {
		numPoints = 2
	}
	const (
		lo = 20.0
		hi = 20000.0
	)
	logLo, logHi := math.Log10(lo), math.Log10(hi)
	step := (logHi - logLo) / float64(numPoints-1)

	out := make([]FrequencyPoint, numPoints)
	for i := 0; i < numPoints; i++ {
		freq := math.Pow(10, logLo+step*float64(i))
		mag := 0.0
		for _, b := range u.bands {
			mag += magnitudeDB(b.Params(), freq)
		}
		out[i] = FrequencyPoint{FrequencyHz: freq, MagnitudeDB: mag}
	}
	return out
}

// magnitudeDB evaluates |H(e^jw)| in dB for one biquad section's
// transfer function at freq, re-deriving the coefficients rather than
// reaching into the atomic-guarded internal state.
func magnitudeDB(p Params, freq float64) float64 {
	c := p.derive()
	w := 2 * math.Pi * freq / p.SampleR
	cosW, sinW := math.Cos(w), math.Sin(w)
	cos2W, sin2W := math.Cos(2*w), math.Sin(2*w)

	numRe := c.b0 + c.b1*cosW + c.b2*cos2W
	numIm := -c.b1*sinW - c.b2*sin2W
	denRe := 1 + c.a1*cosW + c.a2*cos2W
	denIm := -c.a1*sinW - c.a2*sin2W

	numMag := math.Hypot(numRe, numIm)
	denMag := math.Hypot(denRe, denIm)
	if denMag == 0 {
		return 0
	}
	return 20 * math.Log10(numMag/denMag)
}
