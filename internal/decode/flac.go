package decode

import (
	"io"

	"github.com/mewkiz/flac"
)

type flacDecoder struct {
	stream  *flac.Stream
	closeFn func() error
	meta    Metadata

	curFrame    int64
	pending     [][2]int32 // leftover samples from the last-decoded FLAC frame
	maxVal      float32
}

func newFlacDecoder(r io.ReadSeeker, closeFn func() error) (Decoder, error) {
	stream, err := flac.NewSeek(r)
	if err != nil {
		closeFn()
		return nil, ErrCorrupt
	}
	info := stream.Info
	channels := int(info.NChannels)
	if channels < 1 {
		channels = 1
	}
	maxVal := float32(int64(1) << (info.BitsPerSample - 1))
	d := &flacDecoder{
		stream:  stream,
		closeFn: closeFn,
		maxVal:  maxVal,
		meta: Metadata{
			SampleRate:   int(info.SampleRate),
			Channels:     channels,
			TotalFrames:  int64(info.NSamples),
			DurationSecs: float64(info.NSamples) / float64(info.SampleRate),
		},
	}
	return d, nil
}

// fillPending decodes the next FLAC frame into d.pending, duplicating
// mono subframes to stereo per spec.
func (d *flacDecoder) fillPending() error {
	f, err := d.stream.Next()
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return ErrCorrupt
	}
	n := int(f.BlockSize)
	d.pending = make([][2]int32, n)
	if len(f.Subframes) == 1 {
		sub := f.Subframes[0]
		for i := 0; i < n; i++ {
			v := sub.Samples[i]
			d.pending[i][0] = v
			d.pending[i][1] = v
		}
	} else {
		l, r := f.Subframes[0], f.Subframes[1]
		for i := 0; i < n; i++ {
			d.pending[i][0] = l.Samples[i]
			d.pending[i][1] = r.Samples[i]
		}
	}
	return nil
}

func (d *flacDecoder) Metadata() Metadata { return d.meta }

func (d *flacDecoder) ReadFrames(dst []Frame) (int, error) {
	filled := 0
	for filled < len(dst) {
		if len(d.pending) == 0 {
			if err := d.fillPending(); err != nil {
				if err == io.EOF {
					return filled, io.EOF
				}
				return filled, err
			}
		}
		n := len(dst) - filled
		if n > len(d.pending) {
			n = len(d.pending)
		}
		for i := 0; i < n; i++ {
			dst[filled+i][0] = float32(d.pending[i][0]) / d.maxVal
			dst[filled+i][1] = float32(d.pending[i][1]) / d.maxVal
		}
		d.pending = d.pending[n:]
		filled += n
		d.curFrame += int64(n)
	}
	return filled, nil
}

func (d *flacDecoder) SeekFrame(n int64) error {
	if n < 0 {
		n = 0
	}
	pos, err := d.stream.Seek(uint64(n))
	if err != nil {
		return &IoError{Err: err}
	}
	d.pending = nil
	d.curFrame = int64(pos)
	return nil
}

func (d *flacDecoder) CurrentFrame() int64 { return d.curFrame }

func (d *flacDecoder) Close() error {
	d.stream.Close()
	return d.closeFn()
}
