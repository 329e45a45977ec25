package engine

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/aurelia-audio/aurelia/internal/decode"
	"github.com/aurelia-audio/aurelia/internal/dsp"
	"github.com/aurelia-audio/aurelia/internal/resample"
	"github.com/aurelia-audio/aurelia/internal/ring"
	"github.com/rs/zerolog"
)

const (
	minBlockFrames = 256
	maxBlockFrames = 2048
)

// lookahead is the look-ahead track queued by set_next_track,
// exchanged between the control dispatcher and the producer goroutine
// through an atomic pointer since decode.Decoder is not itself
// synchronized for concurrent access.
type lookahead struct {
	path string
	dec  decode.Decoder
}

// producer is the single thread reading decoded frames, resampling
// when required, running the DSP chain, and writing into the ring.
// It is the only mutator of the ring's write side, per spec.md §4.6,
// and the only goroutine that ever touches dec.
type producer struct {
	dec       decode.Decoder
	next      atomic.Pointer[lookahead]
	resampler *resample.Resampler
	chain     *dsp.Chain
	buf       *ring.Buffer
	state     *AudioState
	bus       *Bus

	generation int64
	outputSR   float64
	log        zerolog.Logger

	seekReq chan int64 // buffered 1; engine.Seek sends, run() applies
	stop    chan struct{}
	done    chan struct{}
}

func newProducer(dec decode.Decoder, chain *dsp.Chain, buf *ring.Buffer, state *AudioState, bus *Bus, generation int64, outputSR float64, log zerolog.Logger) *producer {
	p := &producer{
		dec:        dec,
		chain:      chain,
		buf:        buf,
		state:      state,
		bus:        bus,
		generation: generation,
		outputSR:   outputSR,
		log:        log,
		seekReq:    make(chan int64, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	p.configureResampler(dec.Metadata())
	return p
}

func (p *producer) configureResampler(meta decode.Metadata) {
	if !resample.Engaged(float64(meta.SampleRate), p.outputSR) {
		p.resampler = nil
		return
	}
	r, err := resample.New(float64(meta.SampleRate), p.outputSR)
	if err != nil {
		p.log.Warn().Err(err).Msg("resampler init failed, falling back to bit-transparent path")
		p.resampler = nil
		return
	}
	p.resampler = r
}

// queueNextTrack records the look-ahead target, already opened by the
// caller; the run loop switches to it when the current decoder reaches
// end of stream. dec must not be touched by the caller again afterward.
func (p *producer) queueNextTrack(path string, dec decode.Decoder) {
	p.next.Store(&lookahead{path: path, dec: dec})
}

// requestSeek asks the producer to reposition to frame n, replacing
// any not-yet-applied pending seek.
func (p *producer) requestSeek(frame int64) {
	for {
		select {
		case p.seekReq <- frame:
			return
		default:
		}
		select {
		case <-p.seekReq:
		default:
		}
	}
}

func (p *producer) requestStop() {
	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
	<-p.done
}

// run is the producer's body; call it in its own goroutine.
func (p *producer) run() {
	defer close(p.done)
	block := make([]decode.Frame, maxBlockFrames)

	for {
		select {
		case <-p.stop:
			return
		case frame := <-p.seekReq:
			p.buf.Reset()
			if err := p.dec.SeekFrame(frame); err != nil {
				p.log.Warn().Err(err).Msg("seek failed")
			} else {
				p.state.setCurrentFrame(frame)
			}
			continue
		default:
		}
		if p.state.Generation() != p.generation {
			return
		}

		blockLen := clampInt(p.buf.Free(), minBlockFrames, maxBlockFrames)
		n, err := p.dec.ReadFrames(block[:blockLen])
		frames := block[:n]

		if p.resampler != nil && n > 0 {
			frames = p.resampler.Process(frames)
		}

		if len(frames) > 0 {
			p.chain.ProcessBlock(frames)
			p.pushBlocking(frames)
			p.state.setCurrentFrame(p.state.CurrentFrame() + int64(n))
		}

		if err == io.EOF && p.maybeGaplessHandoff() {
			continue
		}

		if err == io.EOF {
			p.state.setState(Loaded)
			p.state.setCurrentFrame(p.state.TotalFrames())
			return
		}
		if err != nil {
			p.log.Error().Err(err).Msg("decode error, aborting track")
			p.state.setState(Loaded)
			p.state.setCurrentFrame(p.state.TotalFrames())
			p.bus.Publish(PlaybackFault{Code: "decode-error", Message: err.Error()})
			return
		}
	}
}

// maybeGaplessHandoff switches to the look-ahead decoder; run calls it
// when the current decoder reports end of stream, and it swaps only if
// current_frame has reached 95% of total_frames. The next track's
// frames then follow in the same ring without restarting the output
// stream. Nothing is decoded ahead into a separate buffer: the
// look-ahead decoder is only opened (by SetNextTrack) before the swap.
func (p *producer) maybeGaplessHandoff() bool {
	nt := p.next.Load()
	if nt == nil {
		return false
	}
	total := p.state.TotalFrames()
	if total <= 0 || float64(p.state.CurrentFrame())/float64(total) < 0.95 {
		return false
	}

	p.dec.Close()
	p.dec = nt.dec
	p.next.Store(nil)

	meta := p.dec.Metadata()
	p.state.totalFrames.Store(meta.TotalFrames)
	p.state.fileSR.Store(math.Float64bits(float64(meta.SampleRate)))
	p.state.setCurrentFrame(0)
	p.generation = p.state.generation.Add(1)
	p.configureResampler(meta)
	return true
}

// pushBlocking writes frames into the ring, spinning then parking in
// short sleeps while the ring is full, per spec.md §5's bounded-park
// rule (never longer than roughly one buffer period per attempt).
func (p *producer) pushBlocking(frames []decode.Frame) {
	for len(frames) > 0 {
		n := p.buf.Push(frames)
		frames = frames[n:]
		if len(frames) > 0 {
			select {
			case <-p.stop:
				return
			default:
				time.Sleep(time.Millisecond)
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
