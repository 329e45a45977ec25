// Package library is the embedded catalog: tracks, albums, settings,
// full-text search, and the on-disk art cache. It is the only package
// that opens the SQLite database; every other package reaches the
// catalog through the Store's exported methods.
package library

import "time"

// Track is a catalog row. Path is the uniqueness key (canonical
// absolute path); Corrupted is set by the scanner when decode.Open
// fails on the file.
type Track struct {
	ID              uint `gorm:"primarykey"`
	Path            string `gorm:"uniqueIndex;not null"`
	Title           string
	Artist          string
	Album           string
	Genre           string
	DurationSeconds float64
	SampleRate      int
	Channels        int
	ArtURL          string
	Corrupted       bool
	AddedAt         time.Time
	UpdatedAt       time.Time
}

// TableName pins the GORM table name so the FTS5 mirroring triggers
// created in Open can reference it by a stable name.
func (Track) TableName() string { return "tracks" }

// Album is a distinct (name, artist) grouping surfaced by fast_search
// and the library browser; ArtURL is copied from its lead track.
type Album struct {
	ID     uint `gorm:"primarykey"`
	Name   string `gorm:"index:idx_album_name_artist,unique"`
	Artist string `gorm:"index:idx_album_name_artist,unique"`
	ArtURL string
}

func (Album) TableName() string { return "albums" }

// Setting is a single key/value row for small persisted preferences
// that don't warrant their own table (last output device, last
// volume, window geometry hints from the shell).
type Setting struct {
	Key   string `gorm:"primarykey"`
	Value string
}

func (Setting) TableName() string { return "settings" }
