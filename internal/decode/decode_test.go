package decode

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeFLAC(t *testing.T) {
	data := append([]byte("fLaC"), make([]byte, 20)...)
	k, err := probe(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, FLAC, k)
}

func TestProbeWAV(t *testing.T) {
	data := make([]byte, 16)
	copy(data[0:4], "RIFF")
	copy(data[8:12], "WAVE")
	k, err := probe(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, WAV, k)
}

func TestProbeMP3FrameSync(t *testing.T) {
	data := []byte{0xFF, 0xFB, 0x90, 0x00}
	data = append(data, make([]byte, 20)...)
	k, err := probe(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, MP3, k)
}

func TestProbeID3(t *testing.T) {
	data := append([]byte("ID3"), make([]byte, 20)...)
	k, err := probe(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, MP3, k)
}

func TestProbeUnknown(t *testing.T) {
	data := append([]byte("JUNK"), make([]byte, 20)...)
	_, err := probe(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestProbeTooShortIsCorrupt(t *testing.T) {
	_, err := probe(bytes.NewReader([]byte{0x01, 0x02}))
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestProbeRewindsReader(t *testing.T) {
	data := append([]byte("fLaC"), make([]byte, 20)...)
	r := bytes.NewReader(data)
	_, err := probe(r)
	assert.NoError(t, err)
	pos, err := r.Seek(0, io.SeekCurrent)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), pos)
}

func TestMergeTagsPrefersTagFields(t *testing.T) {
	base := Metadata{Title: "", Artist: "", SampleRate: 44100}
	tags := Metadata{Title: "Song", Artist: "Band"}
	merged := MergeTags(base, tags)
	assert.Equal(t, "Song", merged.Title)
	assert.Equal(t, "Band", merged.Artist)
	assert.Equal(t, 44100, merged.SampleRate)
}

func TestMergeTagsLeavesBaseWhenTagsEmpty(t *testing.T) {
	base := Metadata{Title: "Fallback", SampleRate: 96000}
	merged := MergeTags(base, Metadata{})
	assert.Equal(t, "Fallback", merged.Title)
	assert.Equal(t, 96000, merged.SampleRate)
}
