package library

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"
)

// artThumbSize is the on-disk thumbnail edge length spec.md §3 pins
// for art cache entries.
const artThumbSize = 256

// ArtCache stores resized album art under dir, keyed by the SHA-256
// hash of the track's canonical absolute path so repeated scans of
// the same file reuse the same cache entry.
type ArtCache struct {
	dir string
}

// NewArtCache ensures dir exists and returns a cache rooted there.
func NewArtCache(dir string) (*ArtCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("library: art cache dir: %w", err)
	}
	return &ArtCache{dir: dir}, nil
}

// KeyFor returns the cache key (and file path) for trackPath, without
// requiring the art bytes to exist yet.
func (c *ArtCache) KeyFor(trackPath string) (key, path string) {
	sum := sha256.Sum256([]byte(trackPath))
	key = hex.EncodeToString(sum[:])
	return key, filepath.Join(c.dir, key+".jpg")
}

// Store decodes raw image bytes (typically embedded art extracted by
// decode.ReadTags), resizes them to a square artThumbSize JPEG with
// golang.org/x/image/draw, and writes it under trackPath's cache key.
// Returns the asset URL a track row's ArtURL field should hold.
func (c *ArtCache) Store(trackPath string, raw []byte) (string, error) {
	src, _, err := image.Decode(boundedReader(raw))
	if err != nil {
		return "", fmt.Errorf("library: decode art: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, artThumbSize, artThumbSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	_, path := c.KeyFor(trackPath)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("library: create art file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, dst, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("library: encode art: %w", err)
	}
	return "asset://art/" + filepath.Base(path), nil
}

// Has reports whether trackPath already has a cached thumbnail.
func (c *ArtCache) Has(trackPath string) bool {
	_, path := c.KeyFor(trackPath)
	_, err := os.Stat(path)
	return err == nil
}

func boundedReader(b []byte) *byteReader { return &byteReader{b: b} }

// byteReader is a minimal io.Reader over a byte slice; avoids pulling
// in bytes.Reader's Seek/Write surface this package never needs.
type byteReader struct {
	b   []byte
	pos int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}
