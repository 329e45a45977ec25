package dsp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBiquadCoefficientDeterminism(t *testing.T) {
	p := Params{Shape: Peaking, FreqHz: 1000, Q: 1.0, GainDB: 6, SampleR: 44100}
	a := NewBiquad()
	b := NewBiquad()
	a.SetParams(p)
	b.SetParams(p)

	ca := a.coeffs.Load()
	cb := b.coeffs.Load()
	require.NotNil(t, ca)
	require.NotNil(t, cb)
	assert.Equal(t, *ca, *cb)
}

func TestSoftLimiterBounded(t *testing.T) {
	lim := NewSoftLimiter()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100000; i++ {
		x := float32((rng.Float64()*2 - 1) * 50)
		y := lim.Process(x)
		assert.Less(t, math.Abs(float64(y)), 1.0)
	}
	// Also finite-but-huge inputs must stay bounded.
	for _, x := range []float32{1e6, -1e6, 3.4e38, -3.4e38} {
		y := lim.Process(x)
		assert.Less(t, math.Abs(float64(y)), 1.0)
	}
}

func TestSoftLimiterIdentityBelowThreshold(t *testing.T) {
	lim := NewSoftLimiter()
	assert.InDelta(t, 0.5, lim.Process(0.5), 1e-6)
	assert.InDelta(t, -0.5, lim.Process(-0.5), 1e-6)
}

func TestChainClampsNonFiniteInput(t *testing.T) {
	c := NewChain(44100)
	frames := []Frame{
		{float32(math.NaN()), float32(math.Inf(1))},
		{0.1, -0.1},
	}
	c.ProcessBlock(frames)
	for _, f := range frames {
		for _, v := range f {
			assert.False(t, math.IsNaN(float64(v)))
			assert.False(t, math.IsInf(float64(v), 0))
		}
	}
}

func TestUserEQBandRoundTrip(t *testing.T) {
	eq := NewUserEQ(44100)
	eq.SetBand(EQBand{Index: 3, FreqHz: 1200, GainDB: 6, Q: 2})
	got := eq.Band(3)
	assert.Equal(t, 1200.0, got.FreqHz)
	assert.Equal(t, 6.0, got.GainDB)
	assert.Equal(t, 2.0, got.Q)
}

func TestUserEQBandClamps(t *testing.T) {
	eq := NewUserEQ(44100)
	eq.SetBand(EQBand{Index: 0, FreqHz: 999999, GainDB: 999, Q: 999})
	got := eq.Band(0)
	assert.Equal(t, 20000.0, got.FreqHz)
	assert.Equal(t, 24.0, got.GainDB)
	assert.Equal(t, 18.0, got.Q)
}

func TestBalanceEqualGainSum(t *testing.T) {
	b := NewBalance()
	b.SetPan(-1)
	gL, gR := b.Gains()
	assert.InDelta(t, 1.0, gL, 1e-9)
	assert.InDelta(t, 0.0, gR, 1e-9)

	b.SetPan(1)
	gL, gR = b.Gains()
	assert.InDelta(t, 0.0, gL, 1e-9)
	assert.InDelta(t, 1.0, gR, 1e-9)
}

func TestStereoExpansionPassthroughAtZero(t *testing.T) {
	e := NewStereoExpansion(44100)
	frames := []Frame{{0.3, -0.2}, {0.1, 0.1}}
	want := append([]Frame{}, frames...)
	e.ProcessBlock(frames)
	assert.Equal(t, want, frames)
}

func TestReverbPassthroughAtZeroWetMix(t *testing.T) {
	r := NewReverb(44100)
	frames := []Frame{{0.3, -0.2}, {0.1, 0.1}}
	want := append([]Frame{}, frames...)
	r.ProcessBlock(frames)
	assert.Equal(t, want, frames)
}

func TestReverbPresetRoundTrip(t *testing.T) {
	r := NewReverb(44100)
	require.True(t, r.LoadPreset("Hall"))
	assert.Equal(t, ReverbPresets["Hall"], r.Params())
}

func TestSpatialPassthroughWithNoSources(t *testing.T) {
	s := NewSpatial(44100)
	frames := []Frame{{0.3, -0.2}}
	want := append([]Frame{}, frames...)
	s.ProcessBlock(frames)
	assert.Equal(t, want, frames)
}

func TestAutoEQActivateProgramsUserEQ(t *testing.T) {
	userEQ := NewUserEQ(44100)
	a := NewAutoEQ()
	require.NoError(t, a.Activate("HD 600", userEQ))
	assert.Equal(t, "HD 600", a.ActiveProfile())
	profile := builtinProfiles["HD 600"]
	for i, want := range profile.GainsDB {
		assert.Equal(t, want, userEQ.Band(i).GainDB)
	}
}
