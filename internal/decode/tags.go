package decode

import (
	"os"

	"github.com/dhowden/tag"
)

// ReadTags extracts title/artist/album and embedded art from path's
// container tags (ID3v2, FLAC Vorbis comments, etc). It opens its own
// handle independent of any Decoder's reader so callers (Open, and
// the library scanner directly) can use it without coordinating seek
// position with an in-progress decode. A tag-read failure is not
// fatal: the zero Metadata is returned so the caller can still play
// the file with Scanner's filename-fingerprint fallback for title/artist.
func ReadTags(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, &IoError{Err: err}
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Metadata{}, nil
	}

	meta := Metadata{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
	}
	if pic := m.Picture(); pic != nil {
		meta.ArtMIME = pic.MIMEType
		meta.ArtBytes = pic.Data
	}
	return meta, nil
}

// MergeTags overlays tag-sourced fields (title/artist/album/art) onto
// an already-opened decoder's technical metadata (sample rate,
// channels, duration), preferring tag values when present.
func MergeTags(base Metadata, tags Metadata) Metadata {
	if tags.Title != "" {
		base.Title = tags.Title
	}
	if tags.Artist != "" {
		base.Artist = tags.Artist
	}
	if tags.Album != "" {
		base.Album = tags.Album
	}
	if len(tags.ArtBytes) > 0 {
		base.ArtMIME = tags.ArtMIME
		base.ArtBytes = tags.ArtBytes
	}
	return base
}
