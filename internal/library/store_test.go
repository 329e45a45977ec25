package library

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "library.db")
	s, err := Open(dbPath, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveTrackInsertsThenUpdates(t *testing.T) {
	s := openTestStore(t)

	t1, err := s.SaveTrack(Track{Path: "/music/a.flac", Title: "A", Artist: "X"})
	require.NoError(t, err)
	assert.NotZero(t, t1.ID)
	assert.False(t, t1.AddedAt.IsZero())

	t2, err := s.SaveTrack(Track{Path: "/music/a.flac", Title: "A", Artist: "X"})
	require.NoError(t, err)
	assert.Equal(t, t1.ID, t2.ID)
	assert.Equal(t, t1.AddedAt, t2.AddedAt)
}

func TestSaveTrackIdempotentRowCount(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 2; i++ {
		_, err := s.SaveTrack(Track{Path: "/music/b.flac", Title: "B", Artist: "Y"})
		require.NoError(t, err)
	}
	tracks, err := s.ListTracks()
	require.NoError(t, err)
	assert.Len(t, tracks, 1)
}

func TestSaveTrackUnchangedRescanLeavesUpdatedAtAlone(t *testing.T) {
	s := openTestStore(t)

	t1, err := s.SaveTrack(Track{Path: "/music/d.flac", Title: "D", Artist: "Z"})
	require.NoError(t, err)

	t2, err := s.SaveTrack(Track{Path: "/music/d.flac", Title: "D", Artist: "Z"})
	require.NoError(t, err)
	assert.Equal(t, t1.UpdatedAt, t2.UpdatedAt)

	t3, err := s.SaveTrack(Track{Path: "/music/d.flac", Title: "D2", Artist: "Z"})
	require.NoError(t, err)
	assert.True(t, t3.UpdatedAt.After(t2.UpdatedAt) || t3.UpdatedAt.Equal(t2.UpdatedAt))
	assert.Equal(t, "D2", t3.Title)
}

func TestSaveTrackMarksCorrupted(t *testing.T) {
	s := openTestStore(t)
	tr, err := s.SaveTrack(Track{Path: "/music/broken.flac", Corrupted: true})
	require.NoError(t, err)
	assert.True(t, tr.Corrupted)
}

func TestDeleteTrackRemovesRow(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SaveTrack(Track{Path: "/music/c.flac", Title: "C"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTrack("/music/c.flac"))
	_, err = s.GetTrack("/music/c.flac")
	assert.Error(t, err)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SetSetting("last_output_device", "default"))
	v, ok := s.GetSetting("last_output_device")
	assert.True(t, ok)
	assert.Equal(t, "default", v)

	_, ok = s.GetSetting("missing_key")
	assert.False(t, ok)
}

func TestFastSearchFindsByTitleAndPrefixesArtist(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SaveTrack(Track{Path: "/music/d.flac", Title: "Moonlight Sonata", Artist: "Beethoven", Album: "Piano Sonatas"})
	require.NoError(t, err)
	_, err = s.SaveTrack(Track{Path: "/music/e.flac", Title: "Fur Elise", Artist: "Beethoven", Album: "Piano Works"})
	require.NoError(t, err)

	res, err := s.FastSearch("moonlight")
	require.NoError(t, err)
	require.Len(t, res.Tracks, 1)
	assert.Equal(t, "Moonlight Sonata", res.Tracks[0].Title)

	res, err = s.FastSearch("Beetho")
	require.NoError(t, err)
	assert.Contains(t, res.Artists, "Beethoven")
}
