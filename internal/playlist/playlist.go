// Package playlist manages an ordered track list with shuffle and
// repeat support, built from catalog rows instead of bare filesystem
// paths.
package playlist

import "math/rand"

// RepeatMode controls playlist repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

func (r RepeatMode) String() string {
	switch r {
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Off"
	}
}

// Track is the playback-order unit; FromLibraryTrack builds one from a
// catalog row so the playlist never has to re-derive tags from a path.
type Track struct {
	Path            string
	Title           string
	Artist          string
	DurationSeconds float64
}

// LibraryRow is the subset of library.Track a Track is built from.
// Defined here rather than importing internal/library directly, so
// the playlist package stays usable against any source of rows
// (library scans, a bare directory walk, a test fixture).
type LibraryRow struct {
	Path            string
	Title           string
	Artist          string
	DurationSeconds float64
}

// FromLibraryTrack converts a catalog row into a playlist Track.
func FromLibraryTrack(row LibraryRow) Track {
	return Track{Path: row.Path, Title: row.Title, Artist: row.Artist, DurationSeconds: row.DurationSeconds}
}

// DisplayName returns a formatted display string for the track.
func (t Track) DisplayName() string {
	if t.Artist != "" {
		return t.Artist + " - " + t.Title
	}
	return t.Title
}

// Playlist manages an ordered list of tracks with shuffle and repeat
// support.
type Playlist struct {
	tracks  []Track
	order   []int // indices into tracks, shuffled or sequential
	pos     int   // current position in order
	shuffle bool
	repeat  RepeatMode
}

// New creates an empty Playlist.
func New() *Playlist {
	return &Playlist{}
}

// Add appends tracks to the playlist.
func (p *Playlist) Add(tracks ...Track) {
	start := len(p.tracks)
	p.tracks = append(p.tracks, tracks...)
	for i := start; i < len(p.tracks); i++ {
		p.order = append(p.order, i)
	}
}

// Replace swaps the entire track set, e.g. after a rescan, preserving
// shuffle/repeat mode but resetting position to the start.
func (p *Playlist) Replace(tracks []Track) {
	p.tracks = tracks
	p.order = make([]int, len(tracks))
	for i := range p.order {
		p.order[i] = i
	}
	p.pos = 0
	if p.shuffle && len(p.tracks) > 0 {
		p.doShuffle()
	}
}

// Len returns the number of tracks.
func (p *Playlist) Len() int { return len(p.tracks) }

// at returns the track at order[pos], the lookup every positioning
// method below needs once it has settled on a pos.
func (p *Playlist) at() Track { return p.tracks[p.order[p.pos]] }

// Current returns the currently selected track and its index.
func (p *Playlist) Current() (Track, int) {
	if len(p.tracks) == 0 {
		return Track{}, -1
	}
	return p.at(), p.order[p.pos]
}

// Index returns the track index of the current position.
func (p *Playlist) Index() int {
	if len(p.order) == 0 {
		return -1
	}
	return p.order[p.pos]
}

// Next advances to the next track. Returns false if at end with repeat off.
func (p *Playlist) Next() (Track, bool) {
	if len(p.tracks) == 0 {
		return Track{}, false
	}
	if p.repeat == RepeatOne {
		return p.at(), true
	}
	if p.pos+1 < len(p.order) {
		p.pos++
		return p.at(), true
	}
	if p.repeat == RepeatAll {
		p.pos = 0
		if p.shuffle {
			p.doShuffle()
		}
		return p.at(), true
	}
	return Track{}, false
}

// Prev moves to the previous track. Wraps around with RepeatAll.
func (p *Playlist) Prev() (Track, bool) {
	if len(p.tracks) == 0 {
		return Track{}, false
	}
	if p.pos > 0 {
		p.pos--
		return p.at(), true
	}
	if p.repeat == RepeatAll {
		p.pos = len(p.order) - 1
		return p.at(), true
	}
	return p.at(), true
}

// SetIndex sets the current position to the given track index.
func (p *Playlist) SetIndex(i int) {
	for pos, idx := range p.order {
		if idx == i {
			p.pos = pos
			return
		}
	}
}

// Tracks returns all tracks in the playlist.
func (p *Playlist) Tracks() []Track { return p.tracks }

// SetShuffle enables or disables shuffle mode, matching spec.md §6's
// toggle_shuffle(enabled) command (the teacher's ToggleShuffle took no
// argument and flipped a bool; a shell needs to set an explicit
// state instead). Uses Fisher-Yates shuffle, preserving the current
// track at position 0.
func (p *Playlist) SetShuffle(enabled bool) {
	if enabled == p.shuffle {
		return
	}
	p.shuffle = enabled
	if len(p.tracks) == 0 {
		return
	}
	if p.shuffle {
		p.doShuffle()
		return
	}
	cur := p.order[p.pos]
	p.order = make([]int, len(p.tracks))
	for i := range p.order {
		p.order[i] = i
	}
	p.pos = cur
}

func (p *Playlist) doShuffle() {
	cur := p.order[p.pos]
	others := make([]int, 0, len(p.tracks)-1)
	for i := range len(p.tracks) {
		if i != cur {
			others = append(others, i)
		}
	}
	for i := len(others) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		others[i], others[j] = others[j], others[i]
	}
	p.order = make([]int, 0, len(p.tracks))
	p.order = append(p.order, cur)
	p.order = append(p.order, others...)
	p.pos = 0
}

// CycleRepeat cycles through Off -> All -> One.
func (p *Playlist) CycleRepeat() {
	p.repeat = (p.repeat + 1) % 3
}

// Shuffled returns whether shuffle is enabled.
func (p *Playlist) Shuffled() bool { return p.shuffle }

// Repeat returns the current repeat mode.
func (p *Playlist) Repeat() RepeatMode { return p.repeat }
