package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTracks() []Track {
	return []Track{
		{Path: "/a.flac", Artist: "A", Title: "One"},
		{Path: "/b.flac", Artist: "B", Title: "Two"},
		{Path: "/c.flac", Artist: "C", Title: "Three"},
	}
}

func TestFromLibraryTrackCopiesFields(t *testing.T) {
	tr := FromLibraryTrack(LibraryRow{Path: "/a.flac", Title: "One", Artist: "A", DurationSeconds: 3.5})
	assert.Equal(t, Track{Path: "/a.flac", Title: "One", Artist: "A", DurationSeconds: 3.5}, tr)
}

func TestDisplayNameFallsBackToTitleOnly(t *testing.T) {
	assert.Equal(t, "A - One", Track{Artist: "A", Title: "One"}.DisplayName())
	assert.Equal(t, "One", Track{Title: "One"}.DisplayName())
}

func TestNextAdvancesSequentiallyThenStopsAtEnd(t *testing.T) {
	p := New()
	p.Add(sampleTracks()...)

	cur, idx := p.Current()
	assert.Equal(t, 0, idx)
	assert.Equal(t, "One", cur.Title)

	next, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, "Two", next.Title)

	next, ok = p.Next()
	require.True(t, ok)
	assert.Equal(t, "Three", next.Title)

	_, ok = p.Next()
	assert.False(t, ok)
}

func TestRepeatAllWrapsAndRepeatOneHolds(t *testing.T) {
	p := New()
	p.Add(sampleTracks()...)
	p.CycleRepeat() // Off -> All
	require.Equal(t, RepeatAll, p.Repeat())

	p.Next()
	p.Next()
	wrapped, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, "One", wrapped.Title)

	p.CycleRepeat() // All -> One
	held, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, "One", held.Title)
}

func TestSetShufflePreservesCurrentTrackAtHead(t *testing.T) {
	p := New()
	p.Add(sampleTracks()...)
	p.Next() // move to "Two"

	cur, _ := p.Current()
	require.Equal(t, "Two", cur.Title)

	p.SetShuffle(true)
	assert.True(t, p.Shuffled())
	cur, _ = p.Current()
	assert.Equal(t, "Two", cur.Title, "current track stays selected across a shuffle")

	p.SetShuffle(false)
	assert.False(t, p.Shuffled())
	cur, _ = p.Current()
	assert.Equal(t, "Two", cur.Title, "current track stays selected after un-shuffling")
}

func TestSetShuffleIsIdempotent(t *testing.T) {
	p := New()
	p.Add(sampleTracks()...)
	p.SetShuffle(true)
	order := append([]int(nil), p.order...)
	p.SetShuffle(true)
	assert.Equal(t, order, p.order)
}

func TestReplaceResetsPositionAndKeepsMode(t *testing.T) {
	p := New()
	p.Add(sampleTracks()...)
	p.Next()
	p.CycleRepeat()

	p.Replace([]Track{{Path: "/d.flac", Title: "Four"}})
	assert.Equal(t, 1, p.Len())
	cur, idx := p.Current()
	assert.Equal(t, 0, idx)
	assert.Equal(t, "Four", cur.Title)
	assert.Equal(t, RepeatAll, p.Repeat())
}

func TestSetIndexMovesPositionToMatchingTrack(t *testing.T) {
	p := New()
	p.Add(sampleTracks()...)
	p.SetIndex(2)
	cur, idx := p.Current()
	assert.Equal(t, 2, idx)
	assert.Equal(t, "Three", cur.Title)
}
