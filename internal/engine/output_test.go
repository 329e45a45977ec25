package engine

import (
	"testing"

	"github.com/aurelia-audio/aurelia/internal/ring"
	"github.com/aurelia-audio/aurelia/internal/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestOutputStreamUnderflowYieldsSilence(t *testing.T) {
	buf := ring.NewBuffer(16)
	state := NewAudioState()
	tap := telemetry.NewTap(64)
	out := newOutput(buf, state, tap, 64)

	samples := make([][2]float64, 8)
	n, ok := out.Stream(samples)
	assert.Equal(t, 8, n)
	assert.True(t, ok)
	for _, s := range samples {
		assert.Equal(t, [2]float64{0, 0}, s)
	}
}

func TestOutputStreamAppliesVolume(t *testing.T) {
	buf := ring.NewBuffer(16)
	buf.Push([]ring.Frame{{1, 1}, {1, 1}, {1, 1}, {1, 1}})
	state := NewAudioState()
	state.SetVolumeLinear(0.5)
	tap := telemetry.NewTap(64)
	out := newOutput(buf, state, tap, 64)
	out.gain = 1 // skip the ramp for a deterministic assertion
	out.SetPlaying(true)

	samples := make([][2]float64, 4)
	out.Stream(samples)
	for _, s := range samples {
		assert.InDelta(t, 0.5, s[0], 1e-6)
		assert.InDelta(t, 0.5, s[1], 1e-6)
	}
}

func TestOutputNeverReportsError(t *testing.T) {
	buf := ring.NewBuffer(16)
	out := newOutput(buf, NewAudioState(), telemetry.NewTap(64), 64)
	assert.NoError(t, out.Err())
}

func TestStepTowardConverges(t *testing.T) {
	v := 0.0
	for i := 0; i < 1000; i++ {
		v = stepToward(v, 1.0, gainStepPerSample)
	}
	assert.InDelta(t, 1.0, v, 1e-9)
}
