package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyResponseFlatAtDefault(t *testing.T) {
	u := NewUserEQ(44100)
	points := u.FrequencyResponseDB(32)
	require.Len(t, points, 32)
	for _, p := range points {
		assert.InDelta(t, 0, p.MagnitudeDB, 0.5)
	}
}

func TestFrequencyResponseShowsBoostNearBandCenter(t *testing.T) {
	u := NewUserEQ(44100)
	u.SetBand(EQBand{Index: 3, FreqHz: 1000, GainDB: 12, Q: 1.0})
	points := u.FrequencyResponseDB(200)

	var peak float64
	for _, p := range points {
		if p.MagnitudeDB > peak {
			peak = p.MagnitudeDB
		}
	}
	assert.Greater(t, peak, 6.0)
}

func TestFrequencyResponseSpansRange(t *testing.T) {
	u := NewUserEQ(44100)
	points := u.FrequencyResponseDB(10)
	assert.InDelta(t, 20, points[0].FrequencyHz, 0.01)
	assert.InDelta(t, 20000, points[len(points)-1].FrequencyHz, 1)
}
