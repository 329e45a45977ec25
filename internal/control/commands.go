// Package control is the single entry point every outer shell talks
// to: a typed command surface in front of the engine, library,
// scanner, enrichment, and lyrics packages. It generalizes the
// teacher's pattern of a UI calling player.Player methods directly
// into a dispatcher a real IPC transport (out of scope here) can sit
// behind instead of a TUI event loop.
package control

import "fmt"

// ValidationError rejects a command's arguments before any state
// mutation, per spec.md §7.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return "control: validation: " + e.Message }

func rangeErr(field string, v, lo, hi float64) error {
	return &ValidationError{Message: fmt.Sprintf("%s=%v out of range [%v,%v]", field, v, lo, hi)}
}

// TrackInfo is load_track's ack payload.
type TrackInfo struct {
	Artist          string
	Title           string
	DurationSeconds float64
	CoverArtMIME    string
	CoverArtData    []byte
}

// EQBandUpdate is update_eq_band's argument set.
type EQBandUpdate struct {
	Index  int
	FreqHz float64
	GainDB float64
	Q      float64
}

func (u EQBandUpdate) validate() error {
	if u.Index < 0 || u.Index > 9 {
		return rangeErr("index", float64(u.Index), 0, 9)
	}
	if u.FreqHz < 20 || u.FreqHz > 20000 {
		return rangeErr("freq_hz", u.FreqHz, 20, 20000)
	}
	if u.GainDB < -24 || u.GainDB > 24 {
		return rangeErr("gain_db", u.GainDB, -24, 24)
	}
	if u.Q < 0.1 || u.Q > 18.0 {
		return rangeErr("q", u.Q, 0.1, 18.0)
	}
	return nil
}

// FrequencyResponsePoint mirrors dsp.FrequencyPoint for the wire.
type FrequencyResponsePoint struct {
	FrequencyHz float64
	MagnitudeDB float64
}

// VibeData is get_vibe_data/get_fft_data's payload.
type VibeData struct {
	Spectrum [10]float64
	PeakAmp  float64
}

// AudioStats is get_audio_stats's payload.
type AudioStats struct {
	DeviceName        string
	FileSampleRate    float64
	OutputSampleRate  float64
	LatencyMsEstimate float64
	RingBytes         int
}

// ScanAck is scan_library's immediate ack; progress follows via
// library-changed events. ScanID correlates this call with whichever
// log lines and events the scan produces, since scans run detached
// from the call that started them.
type ScanAck struct {
	Started bool
	ScanID  string
}

// LyricsLine is one entry of get_lyrics_lines' response.
type LyricsLine struct {
	TimestampMs int64
	Text        string
}
