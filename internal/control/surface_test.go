package control

import (
	"path/filepath"
	"testing"

	"github.com/aurelia-audio/aurelia/internal/library"
	"github.com/aurelia-audio/aurelia/internal/lyrics"
	"github.com/aurelia-audio/aurelia/internal/playlist"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A Surface's command methods validate arguments before touching the
// engine (spec.md §7), so out-of-range calls never dereference s.eng
// and are safe to exercise against a Surface with no engine attached.

func TestSetVolumeRejectsOutOfRange(t *testing.T) {
	s := &Surface{log: zerolog.Nop()}
	assert.Error(t, s.SetVolume(1.5))
	assert.Error(t, s.SetVolume(-0.1))
}

func TestSetBalanceRejectsOutOfRange(t *testing.T) {
	s := &Surface{log: zerolog.Nop()}
	assert.Error(t, s.SetBalance(2))
	assert.Error(t, s.SetBalance(-2))
}

func TestSetExpansionRejectsOutOfRange(t *testing.T) {
	s := &Surface{log: zerolog.Nop()}
	assert.Error(t, s.SetExpansion(1.5))
	assert.Error(t, s.SetExpansion(-0.5))
}

func TestSetToneRejectsOutOfRange(t *testing.T) {
	s := &Surface{log: zerolog.Nop()}
	assert.Error(t, s.SetTone(-20, 0))
	assert.Error(t, s.SetTone(0, 20))
}

func TestScanLibraryWithoutScannerReportsNotStarted(t *testing.T) {
	s := &Surface{log: zerolog.Nop()}
	ack := s.ScanLibrary("/music")
	assert.False(t, ack.Started)
}

func openTestSurfaceStore(t *testing.T) *library.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "library.db")
	st, err := library.Open(dbPath, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestToggleShuffleRoundTrips(t *testing.T) {
	st := openTestSurfaceStore(t)
	s := &Surface{store: st, list: playlist.New(), log: zerolog.Nop()}

	assert.False(t, s.ShuffleEnabled())
	require.NoError(t, s.ToggleShuffle(true))
	assert.True(t, s.ShuffleEnabled())
	assert.True(t, s.list.Shuffled())
	require.NoError(t, s.ToggleShuffle(false))
	assert.False(t, s.ShuffleEnabled())
	assert.False(t, s.list.Shuffled())
}

func TestRefreshPlaylistSkipsCorruptedRows(t *testing.T) {
	st := openTestSurfaceStore(t)
	s := &Surface{store: st, list: playlist.New(), log: zerolog.Nop()}

	_, err := st.SaveTrack(library.Track{Path: "/music/a.flac", Title: "A"})
	require.NoError(t, err)
	_, err = st.SaveTrack(library.Track{Path: "/music/broken.flac", Corrupted: true})
	require.NoError(t, err)

	require.NoError(t, s.RefreshPlaylist())
	assert.Equal(t, 1, s.list.Len())
	cur, _ := s.list.Current()
	assert.Equal(t, "A", cur.Title)
}

func TestFastSearchDelegatesToStore(t *testing.T) {
	st := openTestSurfaceStore(t)
	s := &Surface{store: st, log: zerolog.Nop()}

	_, err := st.SaveTrack(library.Track{Path: "/music/a.flac", Title: "Clair de Lune", Artist: "Debussy"})
	require.NoError(t, err)

	res, err := s.FastSearch("Clair")
	require.NoError(t, err)
	require.Len(t, res.Tracks, 1)
	assert.Equal(t, "Clair de Lune", res.Tracks[0].Title)
}

func TestPlaylistAccessorsReflectUnderlyingPlaylist(t *testing.T) {
	s := &Surface{list: playlist.New(), log: zerolog.Nop()}
	s.list.Add(
		playlist.Track{Path: "/a.flac", Title: "A"},
		playlist.Track{Path: "/b.flac", Title: "B"},
	)

	assert.Len(t, s.PlaylistTracks(), 2)
	assert.Equal(t, 0, s.PlaylistIndex())
	assert.False(t, s.PlaylistShuffled())
	assert.Equal(t, playlist.RepeatOff, s.PlaylistRepeat())

	s.CycleRepeat()
	assert.Equal(t, playlist.RepeatAll, s.PlaylistRepeat())

	cur, idx := s.PlaylistCurrent()
	assert.Equal(t, 0, idx)
	assert.Equal(t, "A", cur.Title)
}

func TestGetLyricsLinesReturnsLoadedDocument(t *testing.T) {
	s := &Surface{lyricsLines: []lyrics.Line{{Timestamp: 1000, Text: "hello"}, {Timestamp: 2000, Text: "world"}}}
	lines := s.GetLyricsLines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1000), lines[0].TimestampMs)
	assert.Equal(t, "world", lines[1].Text)
}

func TestLoadLyricsForMissingFileReturnsNil(t *testing.T) {
	lines := loadLyricsFor(filepath.Join(t.TempDir(), "missing.flac"))
	assert.Nil(t, lines)
}
