package decode

import (
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
)

// readCloser adapts an io.ReadSeeker plus an independent close
// function into the io.ReadCloser gopxl/beep/v2/mp3.Decode expects.
type readCloser struct {
	io.ReadSeeker
	closeFn func() error
}

func (rc readCloser) Close() error { return rc.closeFn() }

type mp3Decoder struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	meta     Metadata
	buf      [][2]float64
}

func newMP3Decoder(r io.ReadSeeker, closeFn func() error) (Decoder, error) {
	streamer, format, err := mp3.Decode(readCloser{ReadSeeker: r, closeFn: closeFn})
	if err != nil {
		closeFn()
		return nil, ErrCorrupt
	}
	channels := format.NumChannels
	if channels < 1 {
		channels = 1
	}
	d := &mp3Decoder{
		streamer: streamer,
		format:   format,
		meta: Metadata{
			SampleRate:  int(format.SampleRate),
			Channels:    channels,
			TotalFrames: int64(streamer.Len()),
			DurationSecs: format.SampleRate.D(streamer.Len()).Seconds(),
		},
	}
	return d, nil
}

func (d *mp3Decoder) Metadata() Metadata { return d.meta }

func (d *mp3Decoder) ReadFrames(dst []Frame) (int, error) {
	if cap(d.buf) < len(dst) {
		d.buf = make([][2]float64, len(dst))
	}
	buf := d.buf[:len(dst)]
	n, ok := d.streamer.Stream(buf)
	for i := 0; i < n; i++ {
		dst[i][0] = float32(buf[i][0])
		dst[i][1] = float32(buf[i][1])
	}
	if !ok {
		if err := d.streamer.Err(); err != nil {
			return n, &IoError{Err: err}
		}
		return n, io.EOF
	}
	return n, nil
}

func (d *mp3Decoder) SeekFrame(n int64) error {
	total := int64(d.streamer.Len())
	if n < 0 {
		n = 0
	}
	if n >= total {
		n = total - 1
	}
	return d.streamer.Seek(int(n))
}

func (d *mp3Decoder) CurrentFrame() int64 { return int64(d.streamer.Position()) }

func (d *mp3Decoder) Close() error { return d.streamer.Close() }
