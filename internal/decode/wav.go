package decode

import (
	"io"
	"math"

	"github.com/go-audio/wav"
)

// wavDecoder reads the whole PCM payload once at open time. WAV has no
// internal compression to amortize, so this costs one linear pass and
// lets seek/read stay allocation-free afterward.
type wavDecoder struct {
	closeFn func() error
	meta    Metadata
	frames  []Frame
	cur     int64
}

// wavFormatIEEEFloat is the WAVE_FORMAT_IEEE_FLOAT format tag (3).
// FullPCMBuffer's buf.Data holds integer samples, so a float-tagged
// file would have its raw bit pattern reinterpreted as an integer
// amplitude below; reject it instead of decoding garbage.
const wavFormatIEEEFloat = 3

func newWavDecoder(r io.ReadSeeker, closeFn func() error) (Decoder, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		closeFn()
		return nil, ErrCorrupt
	}
	if dec.WavAudioFormat == wavFormatIEEEFloat {
		closeFn()
		return nil, ErrCorrupt
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		closeFn()
		return nil, ErrCorrupt
	}
	srcChannels := buf.Format.NumChannels
	if srcChannels < 1 {
		srcChannels = 1
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	maxVal := float64(int64(1) << (bitDepth - 1))

	nFrames := len(buf.Data) / srcChannels
	frames := make([]Frame, nFrames)
	for i := 0; i < nFrames; i++ {
		l := float32(float64(buf.Data[i*srcChannels]) / maxVal)
		var rr float32
		if srcChannels >= 2 {
			rr = float32(float64(buf.Data[i*srcChannels+1]) / maxVal)
		} else {
			rr = l
		}
		frames[i] = Frame{clip(l), clip(rr)}
	}

	d := &wavDecoder{
		closeFn: closeFn,
		frames:  frames,
		meta: Metadata{
			SampleRate:   buf.Format.SampleRate,
			Channels:     2,
			TotalFrames:  int64(nFrames),
			DurationSecs: float64(nFrames) / float64(buf.Format.SampleRate),
		},
	}
	return d, nil
}

func clip(v float32) float32 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func (d *wavDecoder) Metadata() Metadata { return d.meta }

func (d *wavDecoder) ReadFrames(dst []Frame) (int, error) {
	if d.cur >= int64(len(d.frames)) {
		return 0, io.EOF
	}
	n := copy(dst, d.frames[d.cur:])
	d.cur += int64(n)
	if d.cur >= int64(len(d.frames)) {
		return n, io.EOF
	}
	return n, nil
}

func (d *wavDecoder) SeekFrame(n int64) error {
	if n < 0 {
		n = 0
	}
	if n > int64(len(d.frames)) {
		n = int64(len(d.frames))
	}
	d.cur = n
	return nil
}

func (d *wavDecoder) CurrentFrame() int64 { return d.cur }

func (d *wavDecoder) Close() error { return d.closeFn() }
