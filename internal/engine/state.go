package engine

import (
	"math"
	"sync/atomic"
)

// PlaybackState is one node of the Empty -> Loaded -> Playing <->
// Paused -> Stopped machine.
type PlaybackState int32

const (
	Empty PlaybackState = iota
	Loaded
	Playing
	Paused
	Stopped
)

func (s PlaybackState) String() string {
	switch s {
	case Empty:
		return "empty"
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// AudioState is the process-scoped playback state spec.md §3 defines.
// Every field is an atomic scalar so the output callback and command
// handlers never block each other; the current path is kept on Engine
// instead, guarded by its mutex.
type AudioState struct {
	state        atomic.Int32
	isPlaying    atomic.Bool
	volumeLinear atomic.Uint64 // math.Float64bits, default 1.0
	currentFrame atomic.Int64
	totalFrames  atomic.Int64
	fileSR       atomic.Uint64 // math.Float64bits
	outputSR     atomic.Uint64 // math.Float64bits

	generation atomic.Int64 // bumped on every load_track; supersedes in-flight loads
}

// NewAudioState returns a state in Empty with unity volume.
func NewAudioState() *AudioState {
	s := &AudioState{}
	s.state.Store(int32(Empty))
	s.volumeLinear.Store(math.Float64bits(1.0))
	return s
}

func (s *AudioState) State() PlaybackState { return PlaybackState(s.state.Load()) }
func (s *AudioState) setState(p PlaybackState) { s.state.Store(int32(p)) }

func (s *AudioState) IsPlaying() bool { return s.isPlaying.Load() }

func (s *AudioState) VolumeLinear() float64 { return math.Float64frombits(s.volumeLinear.Load()) }
func (s *AudioState) SetVolumeLinear(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.volumeLinear.Store(math.Float64bits(v))
}

func (s *AudioState) CurrentFrame() int64      { return s.currentFrame.Load() }
func (s *AudioState) setCurrentFrame(n int64)  { s.currentFrame.Store(n) }
func (s *AudioState) TotalFrames() int64       { return s.totalFrames.Load() }
func (s *AudioState) FileSampleRate() float64  { return math.Float64frombits(s.fileSR.Load()) }
func (s *AudioState) OutputSampleRate() float64 {
	return math.Float64frombits(s.outputSR.Load())
}

// BitTransparent reports whether the output device is consuming the
// file's native rate without resampling.
func (s *AudioState) BitTransparent() bool {
	return s.FileSampleRate() == s.OutputSampleRate()
}

// Generation returns the current load generation. A producer stops
// once the generation it was started with has been superseded; frames
// themselves carry no generation tag.
func (s *AudioState) Generation() int64 { return s.generation.Load() }
