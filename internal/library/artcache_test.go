package library

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestArtCacheStoreAndHas(t *testing.T) {
	cache, err := NewArtCache(t.TempDir())
	require.NoError(t, err)

	trackPath := "/music/album/track.flac"
	assert.False(t, cache.Has(trackPath))

	url, err := cache.Store(trackPath, sampleJPEG(t))
	require.NoError(t, err)
	assert.Contains(t, url, "asset://art/")
	assert.True(t, cache.Has(trackPath))

	_, path := cache.KeyFor(trackPath)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestArtCacheKeyForIsStableAndDeterministic(t *testing.T) {
	cache, err := NewArtCache(t.TempDir())
	require.NoError(t, err)

	k1, p1 := cache.KeyFor("/music/a.flac")
	k2, p2 := cache.KeyFor("/music/a.flac")
	assert.Equal(t, k1, k2)
	assert.Equal(t, p1, p2)
	assert.Equal(t, filepath.Join(cache.dir, k1+".jpg"), p1)

	k3, _ := cache.KeyFor("/music/b.flac")
	assert.NotEqual(t, k1, k3)
}
