package dsp

import (
	"math"
	"sync/atomic"
)

// SpatialSource places one virtual audio source in a listener-centric
// room. Azimuth is measured clockwise from straight ahead (0deg); a
// source directly behind the listener at 1m is azimuth=180, distance=1.
type SpatialSource struct {
	ID         string
	AzimuthDeg float64
	DistanceM  float64
	GainDB     float64
}

const maxITDSeconds = 0.0007 // ~0.7ms, a typical human ITD upper bound

// Spatial applies per-source azimuth/distance gain, an interaural
// time difference delay, and a symmetric shelving filter standing in
// for a full HRTF. With no sources configured it is pass-through
// (spatial=off). The node treats the incoming stereo frame as a
// shared mono bed it re-spatializes per source and sums; with one
// source at azimuth 0, 0 dB and at most 1 m away, each channel carries
// the mono bed scaled by cos(pi/4) ~ 0.707 (an equal-power centre).
type Spatial struct {
	sources atomic.Pointer[[]SpatialSource]

	delay      []float32
	writePos   int
	shelfL     Biquad
	shelfR     Biquad
	sampleRate float64
}

// NewSpatial builds a Spatial node with no sources (pass-through).
func NewSpatial(sampleRate float64) *Spatial {
	s := &Spatial{sampleRate: sampleRate}
	empty := []SpatialSource{}
	s.sources.Store(&empty)
	s.allocDelay()
	s.shelfL.SetParams(Params{Shape: HighShelf, FreqHz: 6000, Q: 0.707, GainDB: 0, SampleR: sampleRate})
	s.shelfR.SetParams(Params{Shape: HighShelf, FreqHz: 6000, Q: 0.707, GainDB: 0, SampleR: sampleRate})
	return s
}

func (s *Spatial) allocDelay() {
	n := int(maxITDSeconds*s.sampleRate) + 1
	s.delay = make([]float32, n)
	s.writePos = 0
}

// SetSources atomically replaces the configured source list.
func (s *Spatial) SetSources(sources []SpatialSource) {
	cp := make([]SpatialSource, len(sources))
	copy(cp, sources)
	s.sources.Store(&cp)
}

// Sources returns the currently configured sources.
func (s *Spatial) Sources() []SpatialSource {
	if p := s.sources.Load(); p != nil {
		return *p
	}
	return nil
}

func (s *Spatial) retune(sampleRate float64) {
	s.sampleRate = sampleRate
	s.allocDelay()
}

// ProcessBlock re-spatializes the mono sum of the input across all
// configured sources, or passes through untouched when none are
// configured.
func (s *Spatial) ProcessBlock(frames []Frame) {
	sources := s.Sources()
	if len(sources) == 0 {
		return
	}
	n := len(s.delay)

	for i := range frames {
		mono := (frames[i][0] + frames[i][1]) / 2

		s.delay[s.writePos] = mono
		s.writePos = (s.writePos + 1) % n

		var outL, outR float32
		for _, src := range sources {
			az := src.AzimuthDeg * math.Pi / 180
			// Equal-power pan from azimuth: 0deg centered, 90deg hard right, -90/270 hard left.
			panPos := math.Sin(az)
			gL := float32(math.Cos((panPos + 1) * math.Pi / 4))
			gR := float32(math.Sin((panPos + 1) * math.Pi / 4))

			distGain := float32(1 / math.Max(1, src.DistanceM))
			srcGain := float32(math.Pow(10, src.GainDB/20)) * distGain

			itdSamples := int(math.Abs(panPos) * maxITDSeconds * s.sampleRate)
			delayed := s.delay[(s.writePos-1-itdSamples+2*n)%n]

			if panPos >= 0 {
				// source to the right: left ear hears the delayed copy
				outL += s.shelfL.Process(delayed) * gL * srcGain
				outR += mono * gR * srcGain
			} else {
				outR += s.shelfR.Process(delayed) * gR * srcGain
				outL += mono * gL * srcGain
			}
		}

		count := float32(len(sources))
		frames[i][0] = outL / count
		frames[i][1] = outR / count
	}
}
