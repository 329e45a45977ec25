package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aurelia-audio/aurelia/internal/library"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScanner(t *testing.T, enqueue EnqueueFunc) *Scanner {
	t.Helper()
	store, err := library.Open(filepath.Join(t.TempDir(), "lib.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	art, err := library.NewArtCache(t.TempDir())
	require.NoError(t, err)

	return New(store, art, enqueue, 4, zerolog.Nop())
}

func TestScanRootMarksUndecodableFilesCorrupted(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "not-really-audio.flac"), []byte("not a flac file"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.txt"), []byte("ignore me"), 0o644))

	var enqueued []string
	s := newTestScanner(t, func(path string) { enqueued = append(enqueued, path) })

	res, err := s.ScanRoot(root)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scanned) // .txt is never dispatched
	assert.Equal(t, 1, res.Corrupted)
	assert.Empty(t, enqueued)

	tr, err := s.store.GetTrack(filepath.Join(root, "not-really-audio.flac"))
	require.NoError(t, err)
	assert.True(t, tr.Corrupted)
}

func TestScanRootSkipsNonAudioExtensions(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "artwork"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "artwork", "cover.jpg"), []byte{0xFF, 0xD8}, 0o644))

	s := newTestScanner(t, nil)
	res, err := s.ScanRoot(root)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Scanned)
}
