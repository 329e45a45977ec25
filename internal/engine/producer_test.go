package engine

import (
	"io"
	"testing"
	"time"

	"github.com/aurelia-audio/aurelia/internal/decode"
	"github.com/aurelia-audio/aurelia/internal/dsp"
	"github.com/aurelia-audio/aurelia/internal/ring"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDecoder serves a fixed number of silent frames then io.EOF,
// standing in for a real decode.Decoder in producer tests.
type fakeDecoder struct {
	meta      decode.Metadata
	remaining int64
	closed    bool
}

func newFakeDecoder(totalFrames int64, sampleRate int) *fakeDecoder {
	return &fakeDecoder{
		meta: decode.Metadata{
			SampleRate:  sampleRate,
			Channels:    2,
			TotalFrames: totalFrames,
		},
		remaining: totalFrames,
	}
}

func (d *fakeDecoder) Metadata() decode.Metadata { return d.meta }

func (d *fakeDecoder) ReadFrames(dst []decode.Frame) (int, error) {
	n := int64(len(dst))
	if n > d.remaining {
		n = d.remaining
	}
	for i := int64(0); i < n; i++ {
		dst[i] = decode.Frame{0.1, -0.1}
	}
	d.remaining -= n
	if d.remaining == 0 {
		return int(n), io.EOF
	}
	return int(n), nil
}

func (d *fakeDecoder) SeekFrame(n int64) error {
	d.remaining = d.meta.TotalFrames - n
	return nil
}

func (d *fakeDecoder) CurrentFrame() int64 { return d.meta.TotalFrames - d.remaining }

func (d *fakeDecoder) Close() error { d.closed = true; return nil }

func testLogger() zerolog.Logger { return zerolog.Nop() }

func TestProducerRunsToEOFAndMarksLoaded(t *testing.T) {
	dec := newFakeDecoder(1000, 44100)
	buf := ring.NewBuffer(4096)
	chain := dsp.NewChain(44100)
	state := NewAudioState()
	state.totalFrames.Store(1000)
	state.setState(Playing)
	bus := NewBus()

	p := newProducer(dec, chain, buf, state, bus, state.Generation(), 44100, testLogger())
	done := make(chan struct{})
	go func() {
		p.run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not finish")
	}

	assert.Equal(t, Loaded, state.State())
	assert.Equal(t, int64(1000), state.CurrentFrame())
	assert.True(t, dec.closed == false) // producer doesn't close the final decoder itself; engine does
}

func TestProducerSeekRepositions(t *testing.T) {
	dec := newFakeDecoder(1_000_000, 44100)
	buf := ring.NewBuffer(4096)
	chain := dsp.NewChain(44100)
	state := NewAudioState()
	state.totalFrames.Store(1_000_000)
	bus := NewBus()

	p := newProducer(dec, chain, buf, state, bus, state.Generation(), 44100, testLogger())
	p.requestSeek(500)

	done := make(chan struct{})
	go func() {
		p.run()
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	p.requestStop()
	<-done

	assert.GreaterOrEqual(t, state.CurrentFrame(), int64(500))
}

func TestProducerGaplessHandoffSwapsDecoder(t *testing.T) {
	first := newFakeDecoder(300, 44100)
	second := newFakeDecoder(300, 44100)
	buf := ring.NewBuffer(8192)
	chain := dsp.NewChain(44100)
	state := NewAudioState()
	state.totalFrames.Store(300)
	bus := NewBus()

	p := newProducer(first, chain, buf, state, bus, state.Generation(), 44100, testLogger())
	p.queueNextTrack("next.flac", second)

	done := make(chan struct{})
	go func() {
		p.run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer did not finish")
	}

	require.True(t, first.closed)
	assert.Same(t, second, p.dec)
}
