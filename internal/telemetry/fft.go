package telemetry

import (
	"math"
	"math/cmplx"

	"github.com/madelynnblue/go-dsp/fft"
)

// FFTSize is the analysis window length.
const FFTSize = TapSize

// NumBands is the fixed number of log-spaced spectrum bands reported
// to the shell.
const NumBands = 10

const dBFloor = -100.0

var bandEdgesHz = [NumBands + 1]float64{20, 100, 200, 400, 800, 1600, 3200, 6400, 12800, 16000, 20000}

// Spectrum is one analysis snapshot.
type Spectrum struct {
	BandsDB       [NumBands]float64
	PeakAmplitude float64
}

// Analyzer applies a Hann window and a real FFT to tap snapshots,
// binning the magnitude spectrum logarithmically into dBFS, floored
// at -100 dB. Grounded on the teacher's ui.Visualizer.Analyze, lifted
// out of the UI package and converted from a normalized 0-1 bar-chart
// scale to calibrated dBFS so the shell decides how to render it.
type Analyzer struct {
	sampleRate float64
	window     [FFTSize]float64
	buf        [FFTSize]float64
}

// NewAnalyzer builds an Analyzer for a fixed output sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	a := &Analyzer{sampleRate: sampleRate}
	for i := range a.window {
		a.window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(FFTSize-1)))
	}
	return a
}

// Analyze runs the FFT over samples (at most FFTSize are used; fewer
// are zero-padded) and returns the binned spectrum.
func (a *Analyzer) Analyze(samples []float64) Spectrum {
	n := len(samples)
	if n > FFTSize {
		n = FFTSize
	}
	var peak float64
	for i := 0; i < FFTSize; i++ {
		if i < n {
			if av := math.Abs(samples[i]); av > peak {
				peak = av
			}
			a.buf[i] = samples[i] * a.window[i]
		} else {
			a.buf[i] = 0
		}
	}

	spectrum := fft.FFTReal(a.buf[:])
	binHz := a.sampleRate / float64(FFTSize)
	halfLen := len(spectrum) / 2

	var out Spectrum
	out.PeakAmplitude = peak
	for b := 0; b < NumBands; b++ {
		lo := int(bandEdgesHz[b] / binHz)
		hi := int(bandEdgesHz[b+1] / binHz)
		if lo < 1 {
			lo = 1
		}
		if hi >= halfLen {
			hi = halfLen - 1
		}
		var sum float64
		count := 0
		for i := lo; i <= hi; i++ {
			sum += cmplx.Abs(spectrum[i])
			count++
		}
		if count > 0 {
			sum /= float64(count)
		}
		// A full-scale sine peaks at FFTSize/4 under the Hann window;
		// scale so that reads as 0 dBFS.
		sum *= 4 / float64(FFTSize)
		db := dBFloor
		if sum > 0 {
			db = 20 * math.Log10(sum)
		}
		if db < dBFloor {
			db = dBFloor
		}
		out.BandsDB[b] = db
	}
	return out
}
