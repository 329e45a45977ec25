package telemetry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTapRoundTrip(t *testing.T) {
	tap := NewTap(8)
	for i := 0; i < 8; i++ {
		tap.Write(float32(i), float32(i))
	}
	got := tap.Samples(8)
	for i, v := range got {
		assert.InDelta(t, float64(i), v, 1e-6)
	}
}

func TestTapWrapsAround(t *testing.T) {
	tap := NewTap(4)
	for i := 0; i < 10; i++ {
		tap.Write(float32(i), float32(i))
	}
	got := tap.Samples(4)
	assert.Equal(t, []float64{6, 7, 8, 9}, got)
}

func TestAnalyzeSilenceFloorsAtMinusHundred(t *testing.T) {
	a := NewAnalyzer(44100)
	samples := make([]float64, FFTSize)
	spec := a.Analyze(samples)
	for _, db := range spec.BandsDB {
		assert.Equal(t, dBFloor, db)
	}
	assert.Equal(t, 0.0, spec.PeakAmplitude)
}

func TestAnalyzeToneRaisesItsBand(t *testing.T) {
	a := NewAnalyzer(44100)
	samples := make([]float64, FFTSize)
	freq := 1000.0
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / 44100)
	}
	spec := a.Analyze(samples)
	assert.InDelta(t, 1.0, spec.PeakAmplitude, 0.05)
	// Band index 5 covers 1600-3200Hz... the 1kHz tone should land
	// in band 4 (800-1600Hz); its level should clear the floor.
	assert.Greater(t, spec.BandsDB[4], dBFloor+10)
}
