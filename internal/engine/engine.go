// Package engine owns the output stream, the producer thread, the DSP
// chain, the decoder, the ring buffer, and the playback-state machine.
// It is the sole component that ever opens an output device or a
// decoder; the Control Surface (internal/control) talks to it through
// this package's exported methods only.
package engine

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/aurelia-audio/aurelia/internal/decode"
	"github.com/aurelia-audio/aurelia/internal/dsp"
	"github.com/aurelia-audio/aurelia/internal/ring"
	"github.com/aurelia-audio/aurelia/internal/telemetry"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"
)

const (
	ringCapacityMs   = 250
	deviceRetryDelay = 200 * time.Millisecond
	deviceRetryLimit = 2 * time.Second
)

// DeviceError reports a failure to open or recover the output device.
type DeviceError struct{ Err error }

func (e *DeviceError) Error() string { return fmt.Sprintf("engine: device error: %v", e.Err) }
func (e *DeviceError) Unwrap() error { return e.Err }

// Engine is the audio engine: owns the DSP chain, the decoder
// producer thread, the ring buffer, and the output stream.
type Engine struct {
	// mu guards load_track and preset application only, per spec.md
	// §5; play/pause/seek/set_volume go through atomics/channels.
	mu sync.Mutex

	sampleRate float64
	buf        *ring.Buffer
	chain      *dsp.Chain
	state      *AudioState
	bus        *Bus
	tap        *telemetry.Tap
	analyzer   *telemetry.Analyzer
	out        *output
	log        zerolog.Logger

	prod *producer

	currentPath string
	deviceName  string
}

// New opens the output device at sampleRate and returns a ready,
// Empty-state Engine.
func New(sampleRate float64, log zerolog.Logger) (*Engine, error) {
	bufFrames := int(sampleRate * ringCapacityMs / 1000)
	buf := ring.NewBuffer(bufFrames)

	e := &Engine{
		sampleRate: sampleRate,
		buf:        buf,
		chain:      dsp.NewChain(sampleRate),
		state:      NewAudioState(),
		bus:        NewBus(),
		tap:        telemetry.NewTap(telemetry.TapSize),
		analyzer:   telemetry.NewAnalyzer(sampleRate),
		log:        log,
		deviceName: "default",
	}
	e.state.outputSR.Store(math.Float64bits(sampleRate))

	sr := beep.SampleRate(int(sampleRate))
	callbackFrames := sr.N(time.Second / 10)
	e.out = newOutput(buf, e.state, e.tap, callbackFrames*2)

	if err := e.openDevice(sr, callbackFrames); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) openDevice(sr beep.SampleRate, callbackFrames int) error {
	if err := speaker.Init(sr, callbackFrames); err != nil {
		return &DeviceError{Err: err}
	}
	speaker.Play(e.out)
	return nil
}

// Chain exposes the DSP chain for preset/parameter commands (EQ,
// tone, balance, expansion, spatial, reverb). The Control Surface is
// the only caller.
func (e *Engine) Chain() *dsp.Chain { return e.chain }

// State returns the current playback state machine value.
func (e *Engine) State() PlaybackState { return e.state.State() }

// Events returns a subscription to engine-level events.
func (e *Engine) Events(buffer int) <-chan Event { return e.bus.Subscribe(buffer) }

// PublishEvent fans ev out to every Events subscriber. Exported so the
// Control Surface can carry library-changed and lyrics-line-changed
// notifications over the same event stream as playback-fault and
// device-lost, without the engine needing to know about the library
// or lyrics packages.
func (e *Engine) PublishEvent(ev Event) { e.bus.Publish(ev) }

// LoadTrack opens path, tears down any in-flight producer, and starts
// a new one. If a previous track was playing, the output is faded out
// over ~20ms first (spec.md §4.6).
func (e *Engine) LoadTrack(path string) (decode.Metadata, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dec, err := decode.Open(path)
	if err != nil {
		return decode.Metadata{}, err
	}
	meta := dec.Metadata()

	if e.state.State() == Playing {
		e.out.SetFadeTarget(0)
		time.Sleep(trackFadeDuration)
	}

	if e.prod != nil {
		e.prod.requestStop()
		e.prod.dec.Close()
		e.prod = nil
	}
	e.buf.Reset()

	gen := e.state.generation.Add(1)
	e.state.totalFrames.Store(meta.TotalFrames)
	e.state.fileSR.Store(math.Float64bits(float64(meta.SampleRate)))
	e.state.setCurrentFrame(0)
	e.state.setState(Loaded)
	e.state.isPlaying.Store(false)
	e.currentPath = path

	e.prod = newProducer(dec, e.chain, e.buf, e.state, e.bus, gen, e.sampleRate, e.log)
	go e.prod.run()

	e.out.SetPlaying(false)
	e.out.SetFadeTarget(1)

	return meta, nil
}

const trackFadeDuration = 20 * time.Millisecond

// Play resumes production (it never stopped) and un-mutes the output
// envelope.
func (e *Engine) Play() {
	switch e.state.State() {
	case Loaded, Paused:
		e.state.setState(Playing)
		e.state.isPlaying.Store(true)
		e.out.SetPlaying(true)
	}
}

// Pause mutes the output envelope; the producer keeps refilling the
// ring so resume is instant.
func (e *Engine) Pause() {
	if e.state.State() == Playing {
		e.state.setState(Paused)
		e.state.isPlaying.Store(false)
		e.out.SetPlaying(false)
	}
}

// Seek drains the ring and asks the producer to reposition the
// decoder to the given offset.
func (e *Engine) Seek(seconds float64) error {
	if e.prod == nil {
		return nil
	}
	if seconds < 0 {
		seconds = 0
	}
	frame := int64(seconds * e.state.FileSampleRate())
	e.prod.requestSeek(frame)
	return nil
}

// SetVolume sets the post-chain linear gain applied in the output
// callback, clamped to [0, 1].
func (e *Engine) SetVolume(linear float64) { e.state.SetVolumeLinear(linear) }

// Volume returns the current linear volume.
func (e *Engine) Volume() float64 { return e.state.VolumeLinear() }

// SetNextTrack opens path for look-ahead decoding and hands it to the
// producer; the producer performs the gapless swap when the current
// track reaches end of stream.
func (e *Engine) SetNextTrack(path string) error {
	dec, err := decode.Open(path)
	if err != nil {
		return err
	}
	e.mu.Lock()
	prod := e.prod
	e.mu.Unlock()
	if prod == nil {
		dec.Close()
		return nil
	}
	prod.queueNextTrack(path, dec)
	return nil
}

// CurrentPath returns the path of the most recently loaded track.
func (e *Engine) CurrentPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentPath
}

// AudioState exposes the underlying atomic state for read-only
// telemetry queries (current_frame, total_frames, sample rates).
func (e *Engine) AudioState() *AudioState { return e.state }

// Stats returns the get_audio_stats payload.
func (e *Engine) Stats() telemetry.Stats {
	return telemetry.Stats{
		DeviceName:        e.deviceName,
		FileSampleRate:    e.state.FileSampleRate(),
		OutputSampleRate:  e.state.OutputSampleRate(),
		LatencyMsEstimate: float64(e.buf.Len()) / e.sampleRate * 1000,
		RingBytes:         e.buf.Cap() * 8, // 2 channels * 4 bytes/float32
	}
}

// Spectrum runs the FFT analyzer over the latest tap snapshot.
func (e *Engine) Spectrum() telemetry.Spectrum {
	return e.analyzer.Analyze(e.tap.Samples(telemetry.TapSize))
}

// Close shuts down the producer and releases the output device.
// Waits up to 1s for the producer to join before returning, per
// spec.md §5's shutdown budget.
func (e *Engine) Close() {
	e.mu.Lock()
	prod := e.prod
	e.prod = nil
	e.mu.Unlock()

	if prod != nil {
		done := make(chan struct{})
		go func() {
			prod.requestStop()
			prod.dec.Close()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			e.log.Warn().Msg("producer did not join within shutdown budget")
		}
	}
	speaker.Close()
}

// NotifyDeviceLost is the engine's entry point for a platform-level
// device-disconnect signal. Detecting the disconnect itself is a
// windowing/OS concern out of this package's scope (spec.md's
// "Out of scope" list excludes platform specifics); whatever shell
// layer receives the OS notification calls this to trigger recovery.
// Runs the retry loop in its own goroutine since it may block for up
// to the retry window and must never stall a command dispatch.
func (e *Engine) NotifyDeviceLost() {
	go e.recoverDevice()
}

// recoverDevice attempts to reopen the default output device with the
// same target rate. If unavailable within the retry window, it
// transitions to Stopped and emits DeviceLost.
func (e *Engine) recoverDevice() bool {
	sr := beep.SampleRate(int(e.sampleRate))
	callbackFrames := sr.N(time.Second / 10)
	ok := retryUntil(func() error {
		return e.openDevice(sr, callbackFrames)
	}, deviceRetryDelay, deviceRetryLimit)
	if ok {
		return true
	}
	e.state.setState(Stopped)
	e.bus.Publish(DeviceLost{})
	return false
}

// retryUntil calls attempt, sleeping delay between failures, until it
// succeeds or limit has elapsed. Factored out of recoverDevice so the
// retry/timeout behavior is testable without a real output device.
func retryUntil(attempt func() error, delay, limit time.Duration) bool {
	deadline := time.Now().Add(limit)
	for {
		if err := attempt(); err == nil {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		time.Sleep(delay)
	}
}
