package control

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aurelia-audio/aurelia/internal/dsp"
	"github.com/aurelia-audio/aurelia/internal/engine"
	"github.com/aurelia-audio/aurelia/internal/enrich"
	"github.com/aurelia-audio/aurelia/internal/library"
	"github.com/aurelia-audio/aurelia/internal/lyrics"
	"github.com/aurelia-audio/aurelia/internal/playlist"
	"github.com/aurelia-audio/aurelia/internal/scanner"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Surface is the single object an outer shell holds: every command in
// spec.md §6's table is a method here. It owns no audio or database
// state itself, only the wiring between the packages that do.
type Surface struct {
	// mu guards lyricsMon swap-out on load_track; every other command
	// reaches straight through to the owning package's own locking.
	mu sync.Mutex

	eng          *engine.Engine
	store        *library.Store
	artCache     *library.ArtCache
	scan         *scanner.Scanner
	enrichWorker *enrich.Worker
	list         *playlist.Playlist

	lyricsMon   *lyrics.Monitor
	lyricsLines []lyrics.Line

	log zerolog.Logger
}

// NewSurface wires the engine, library, scanner, enrichment, and
// lyrics packages behind one dispatcher. sc may be nil if a shell
// never calls scan_library (e.g. a minimal file-player embedding).
func NewSurface(eng *engine.Engine, store *library.Store, artCache *library.ArtCache, sc *scanner.Scanner, ew *enrich.Worker, log zerolog.Logger) *Surface {
	return &Surface{
		eng:          eng,
		store:        store,
		artCache:     artCache,
		scan:         sc,
		enrichWorker: ew,
		list:         playlist.New(),
		log:          log.With().Str("component", "control").Logger(),
	}
}

// LoadTrack opens path on the engine, resolves a sibling .lrc file if
// one exists, and restarts the lyrics monitor against the new track's
// position, per spec.md §4.11.
func (s *Surface) LoadTrack(path string) (TrackInfo, error) {
	meta, err := s.eng.LoadTrack(path)
	if err != nil {
		return TrackInfo{}, err
	}

	s.mu.Lock()
	s.lyricsLines = loadLyricsFor(path)
	if s.lyricsMon != nil {
		s.lyricsMon.Stop()
		s.lyricsMon = nil
	}
	if len(s.lyricsLines) > 0 {
		s.lyricsMon = lyrics.NewMonitor(s.lyricsLines, s.positionMs, s.onLyricsLineChange)
	}
	s.mu.Unlock()

	return TrackInfo{
		Artist:          meta.Artist,
		Title:           meta.Title,
		DurationSeconds: meta.DurationSecs,
		CoverArtMIME:    meta.ArtMIME,
		CoverArtData:    meta.ArtBytes,
	}, nil
}

// loadLyricsFor resolves <audio>.<lrc-extension> beside path and
// parses it; a missing or unreadable file simply means no lyrics.
func loadLyricsFor(path string) []lyrics.Line {
	ext := filepath.Ext(path)
	lrcPath := strings.TrimSuffix(path, ext) + ".lrc"
	data, err := os.ReadFile(lrcPath)
	if err != nil {
		return nil
	}
	return lyrics.Parse(string(data))
}

// positionMs converts the engine's current_frame/file_sr into
// milliseconds for the lyrics monitor's PositionFunc.
func (s *Surface) positionMs() int64 {
	st := s.eng.AudioState()
	sr := st.FileSampleRate()
	if sr <= 0 {
		return 0
	}
	return int64(float64(st.CurrentFrame()) / sr * 1000)
}

// onLyricsLineChange publishes a lyrics-line-changed event onto the
// engine's event bus, since the Control Surface is the only package
// that knows about both the engine and the lyrics monitor.
func (s *Surface) onLyricsLineChange(index int, line lyrics.Line) {
	if index < 0 {
		s.eng.PublishEvent(engine.LyricsLineChanged{})
		return
	}
	idx := index
	ts := line.Timestamp
	text := line.Text
	s.eng.PublishEvent(engine.LyricsLineChanged{Index: &idx, Timestamp: &ts, Text: &text})
}

// GetLyricsLines returns the currently loaded track's lyric lines.
func (s *Surface) GetLyricsLines() []LyricsLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LyricsLine, len(s.lyricsLines))
	for i, l := range s.lyricsLines {
		out[i] = LyricsLine{TimestampMs: l.Timestamp, Text: l.Text}
	}
	return out
}

// Play resumes playback.
func (s *Surface) Play() { s.eng.Play() }

// Pause mutes the output envelope.
func (s *Surface) Pause() { s.eng.Pause() }

// Seek repositions playback to seconds, clamped to >= 0 by the engine.
func (s *Surface) Seek(seconds float64) error { return s.eng.Seek(seconds) }

// SetVolume sets the linear post-chain gain, rejecting values outside
// [0,1] before any mutation.
func (s *Surface) SetVolume(linear float32) error {
	v := float64(linear)
	if v < 0 || v > 1 {
		return rangeErr("volume", v, 0, 1)
	}
	s.eng.SetVolume(v)
	return nil
}

// SetNextTrack hands path to the engine for gapless look-ahead.
func (s *Surface) SetNextTrack(path string) error {
	if err := s.eng.SetNextTrack(path); err != nil {
		return err
	}
	return nil
}

// Position returns the current playback position.
func (s *Surface) Position() time.Duration {
	st := s.eng.AudioState()
	sr := st.FileSampleRate()
	if sr <= 0 {
		return 0
	}
	return time.Duration(float64(st.CurrentFrame()) / sr * float64(time.Second))
}

// Duration returns the loaded track's total duration.
func (s *Surface) Duration() time.Duration {
	st := s.eng.AudioState()
	sr := st.FileSampleRate()
	if sr <= 0 {
		return 0
	}
	return time.Duration(float64(st.TotalFrames()) / sr * float64(time.Second))
}

// IsPlaying reports whether the engine is in the Playing state.
func (s *Surface) IsPlaying() bool { return s.eng.State() == engine.Playing }

// IsPaused reports whether the engine is in the Paused state.
func (s *Surface) IsPaused() bool { return s.eng.State() == engine.Paused }

// TrackFinished reports whether the loaded track ran to its natural
// end: the producer returns to Loaded at EOF (see internal/engine's
// producer), current_frame caught up to total_frames.
func (s *Surface) TrackFinished() bool {
	st := s.eng.AudioState()
	return s.eng.State() == engine.Loaded && st.TotalFrames() > 0 && st.CurrentFrame() >= st.TotalFrames()
}

// Volume returns the current linear volume in [0,1].
func (s *Surface) Volume() float64 { return s.eng.Volume() }

// PlaylistTracks returns the current play order for a shell's
// playlist view.
func (s *Surface) PlaylistTracks() []playlist.Track { return s.list.Tracks() }

// PlaylistIndex returns the catalog index of the currently selected
// track, or -1 if the playlist is empty.
func (s *Surface) PlaylistIndex() int { return s.list.Index() }

// PlaylistCurrent returns the currently selected track.
func (s *Surface) PlaylistCurrent() (playlist.Track, int) { return s.list.Current() }

// PlaylistShuffled reports the playlist's in-process shuffle state.
func (s *Surface) PlaylistShuffled() bool { return s.list.Shuffled() }

// PlaylistRepeat returns the playlist's repeat mode.
func (s *Surface) PlaylistRepeat() playlist.RepeatMode { return s.list.Repeat() }

// CycleRepeat advances the playlist's repeat mode Off -> All -> One.
func (s *Surface) CycleRepeat() { s.list.CycleRepeat() }

// GetEQBands returns a snapshot of all ten UserEQ bands.
func (s *Surface) GetEQBands() [dsp.NumEQBands]EQBand {
	bands := s.eng.Chain().UserEQ.Bands()
	var out [dsp.NumEQBands]EQBand
	for i, b := range bands {
		out[i] = EQBand{Index: b.Index, FreqHz: b.FreqHz, GainDB: b.GainDB, Q: b.Q}
	}
	return out
}

// EQBand mirrors dsp.EQBand for the wire.
type EQBand struct {
	Index  int
	FreqHz float64
	GainDB float64
	Q      float64
}

// UpdateEQBand validates u and, if valid, applies it to the live
// chain. Validation happens before any mutation, per spec.md §7.
func (s *Surface) UpdateEQBand(u EQBandUpdate) error {
	if err := u.validate(); err != nil {
		return err
	}
	s.eng.Chain().UserEQ.SetBand(dsp.EQBand{Index: u.Index, FreqHz: u.FreqHz, GainDB: u.GainDB, Q: u.Q})
	return nil
}

// GetEQFrequencyResponse evaluates the combined UserEQ magnitude
// response at numPoints log-spaced frequencies.
func (s *Surface) GetEQFrequencyResponse(numPoints int) []FrequencyResponsePoint {
	pts := s.eng.Chain().UserEQ.FrequencyResponseDB(numPoints)
	out := make([]FrequencyResponsePoint, len(pts))
	for i, p := range pts {
		out[i] = FrequencyResponsePoint{FrequencyHz: p.FrequencyHz, MagnitudeDB: p.MagnitudeDB}
	}
	return out
}

// SetTone sets the bass/treble shelf gains, each clamped to ±12dB by
// the Tone node itself; out-of-range values are rejected here first so
// a caller sees the same validation behavior as the EQ commands.
func (s *Surface) SetTone(bassDB, trebleDB float64) error {
	if bassDB < -12 || bassDB > 12 {
		return rangeErr("bass_db", bassDB, -12, 12)
	}
	if trebleDB < -12 || trebleDB > 12 {
		return rangeErr("treble_db", trebleDB, -12, 12)
	}
	s.eng.Chain().Tone.SetBass(bassDB)
	s.eng.Chain().Tone.SetTreble(trebleDB)
	return nil
}

// SetBalance sets the stereo pan, val in [-1, 1].
func (s *Surface) SetBalance(val float64) error {
	if val < -1 || val > 1 {
		return rangeErr("val", val, -1, 1)
	}
	s.eng.Chain().Balance.SetPan(val)
	return nil
}

// SetExpansion sets the headphone crossfeed amount, val in [0, 1].
func (s *Surface) SetExpansion(val float64) error {
	if val < 0 || val > 1 {
		return rangeErr("val", val, 0, 1)
	}
	s.eng.Chain().Expansion.SetAmount(val)
	return nil
}

// SetReverbParams applies p after the Reverb node's own clamping.
func (s *Surface) SetReverbParams(p dsp.ReverbParams) {
	s.eng.Chain().Reverb.SetParams(p)
}

// GetReverbParams returns the live reverb parameters.
func (s *Surface) GetReverbParams() dsp.ReverbParams {
	return s.eng.Chain().Reverb.Params()
}

// LoadReverbPreset applies a named preset; false if unknown.
func (s *Surface) LoadReverbPreset(name string) bool {
	return s.eng.Chain().Reverb.LoadPreset(name)
}

// ActivateAutoEQProfile programs a headphone model's gain table into
// UserEQ via the AutoEQ node.
func (s *Surface) ActivateAutoEQProfile(model string) error {
	return s.eng.Chain().AutoEQ.Activate(model, s.eng.Chain().UserEQ)
}

// GetVibeData and GetFFTData both surface the latest FFT snapshot;
// spec.md §4.9 names them as two aliases of the same payload.
func (s *Surface) GetVibeData() VibeData { return s.spectrumToVibe() }
func (s *Surface) GetFFTData() VibeData  { return s.spectrumToVibe() }

func (s *Surface) spectrumToVibe() VibeData {
	spec := s.eng.Spectrum()
	var out VibeData
	n := len(out.Spectrum)
	for i := 0; i < n && i < len(spec.BandsDB); i++ {
		out.Spectrum[i] = spec.BandsDB[i]
	}
	out.PeakAmp = spec.PeakAmplitude
	return out
}

// GetAudioStats returns device/sample-rate/latency telemetry.
func (s *Surface) GetAudioStats() AudioStats {
	st := s.eng.Stats()
	return AudioStats{
		DeviceName:        st.DeviceName,
		FileSampleRate:    st.FileSampleRate,
		OutputSampleRate:  st.OutputSampleRate,
		LatencyMsEstimate: st.LatencyMsEstimate,
		RingBytes:         st.RingBytes,
	}
}

// ScanLibrary starts an asynchronous scan of root, returning
// immediately; progress and completion are reported via
// library-changed events (spec.md §6's scan_library row).
func (s *Surface) ScanLibrary(root string) ScanAck {
	if s.scan == nil {
		return ScanAck{Started: false}
	}
	scanID := uuid.New().String()
	log := s.log.With().Str("scan_id", scanID).Logger()
	go func() {
		res, err := s.scan.ScanRoot(root)
		if err != nil {
			log.Error().Str("root", root).Err(err).Msg("scan failed")
			return
		}
		if err := s.RefreshPlaylist(); err != nil {
			log.Warn().Err(err).Msg("playlist refresh after scan failed")
		}
		log.Info().Int("added", len(res.Added)).Int("updated", len(res.Updated)).Msg("scan complete")
		s.eng.PublishEvent(engine.LibraryChanged{Added: res.Added, Updated: res.Updated})
	}()
	return ScanAck{Started: true, ScanID: scanID}
}

// GetLibraryTracks returns every cataloged track row.
func (s *Surface) GetLibraryTracks() ([]library.Track, error) {
	return s.store.ListTracks()
}

// FastSearch runs the catalog's full-text + prefix search.
func (s *Surface) FastSearch(query string) (library.SearchResult, error) {
	return s.store.FastSearch(query)
}

// ToggleShuffle applies enabled to the in-memory play order and
// persists it as a setting, so a restarted shell resumes the same
// mode.
func (s *Surface) ToggleShuffle(enabled bool) error {
	s.list.SetShuffle(enabled)
	return s.store.SetSetting("shuffle_enabled", strconv.FormatBool(enabled))
}

// ShuffleEnabled reports the persisted shuffle flag, defaulting false.
func (s *Surface) ShuffleEnabled() bool {
	v, ok := s.store.GetSetting("shuffle_enabled")
	if !ok {
		return false
	}
	enabled, _ := strconv.ParseBool(v)
	return enabled
}

// RefreshPlaylist rebuilds the play order from the current catalog,
// preserving shuffle/repeat mode. Called after load and after every
// completed scan_library.
func (s *Surface) RefreshPlaylist() error {
	rows, err := s.store.ListTracks()
	if err != nil {
		return err
	}
	tracks := make([]playlist.Track, 0, len(rows))
	for _, r := range rows {
		if r.Corrupted {
			continue
		}
		tracks = append(tracks, playlist.FromLibraryTrack(playlist.LibraryRow{
			Path: r.Path, Title: r.Title, Artist: r.Artist, DurationSeconds: r.DurationSeconds,
		}))
	}
	s.list.Replace(tracks)
	return nil
}

// NextTrack advances the play order and hands the resulting path to
// SetNextTrack for a gapless handoff; ok is false at the end of the
// list with repeat off.
func (s *Surface) NextTrack() (playlist.Track, bool) {
	tr, ok := s.list.Next()
	if !ok {
		return playlist.Track{}, false
	}
	if err := s.eng.SetNextTrack(tr.Path); err != nil {
		s.log.Warn().Str("path", tr.Path).Err(err).Msg("gapless look-ahead failed")
	}
	return tr, true
}

// PreviousTrack moves the play order back one entry.
func (s *Surface) PreviousTrack() (playlist.Track, bool) {
	return s.list.Prev()
}

// EnqueueEnrichment schedules art/lyrics lookups for path; the scanner
// calls this indirectly via its EnqueueFunc, wired in by whatever
// constructs the Surface alongside the Scanner and Worker.
func (s *Surface) EnqueueEnrichment(path string) {
	if s.enrichWorker == nil {
		return
	}
	s.enrichWorker.Enqueue(enrich.Task{Path: path, Kind: enrich.ArtLookup})
	s.enrichWorker.Enqueue(enrich.Task{Path: path, Kind: enrich.LyricsLookup})
}

// Close tears down the lyrics monitor, the engine, and the enrichment
// worker in that order.
func (s *Surface) Close() {
	s.mu.Lock()
	if s.lyricsMon != nil {
		s.lyricsMon.Stop()
		s.lyricsMon = nil
	}
	s.mu.Unlock()

	s.eng.Close()
	if s.enrichWorker != nil {
		s.enrichWorker.Stop()
	}
}

