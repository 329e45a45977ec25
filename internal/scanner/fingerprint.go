// Package scanner walks music roots, reads tags, writes art-cache
// entries, upserts catalog rows, and watches for filesystem changes.
package scanner

import (
	"path/filepath"
	"strings"
)

// fingerprintFromPath splits "Artist - Title" style filenames, the
// fallback used when a file carries no usable tags. Lifted from the
// teacher's playlist.TrackFromPath and generalized to return the two
// fields independently instead of a playlist.Track.
func fingerprintFromPath(path string) (artist, title string) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.SplitN(name, " - ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return "", name
}

// audioExtensions is the set of file extensions the scanner considers
// for decoding; anything else is skipped without opening the file.
var audioExtensions = map[string]bool{
	".flac": true,
	".wav":  true,
	".mp3":  true,
}

func isAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}
