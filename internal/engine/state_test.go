package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudioStateDefaults(t *testing.T) {
	s := NewAudioState()
	assert.Equal(t, Empty, s.State())
	assert.Equal(t, 1.0, s.VolumeLinear())
	assert.Equal(t, int64(0), s.CurrentFrame())
}

func TestAudioStateVolumeClamped(t *testing.T) {
	s := NewAudioState()
	s.SetVolumeLinear(5)
	assert.Equal(t, 1.0, s.VolumeLinear())
	s.SetVolumeLinear(-1)
	assert.Equal(t, 0.0, s.VolumeLinear())
}

func TestAudioStateBitTransparent(t *testing.T) {
	s := NewAudioState()
	s.fileSR.Store(s.outputSR.Load())
	assert.True(t, s.BitTransparent())
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe(1)
	b.Publish(DeviceLost{})
	b.Publish(DeviceLost{}) // buffer full, must not block
	select {
	case ev := <-ch:
		assert.IsType(t, DeviceLost{}, ev)
	default:
		t.Fatal("expected first event to be delivered")
	}
}
