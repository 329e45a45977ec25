// Package ring provides a single-producer, single-consumer lock-free
// queue of audio frames. The producer (decode/DSP pipeline) and the
// consumer (the realtime output callback) never block each other:
// the consumer's Pop path touches no mutex and performs no syscall,
// which is the property the output callback needs to avoid underruns.
package ring

import "sync/atomic"

// Frame is a decoded, DSP-processed stereo sample pair.
type Frame = [2]float32

// Buffer is a fixed-capacity circular SPSC queue of Frame. Capacity is
// rounded up to the next power of two so index wrapping is a mask, not
// a modulo.
type Buffer struct {
	mask uint64
	buf  []Frame

	// writeIdx is only ever written by the producer, read by both.
	writeIdx atomic.Uint64
	_        [56]byte // keeps writeIdx and readIdx on separate cache lines
	// readIdx is only ever written by the consumer, read by both.
	readIdx atomic.Uint64
}

// NewBuffer returns a Buffer that can hold at least capacity frames.
func NewBuffer(capacity int) *Buffer {
	n := nextPow2(capacity)
	return &Buffer{
		mask: uint64(n - 1),
		buf:  make([]Frame, n),
	}
}

func nextPow2(n int) int {
	if n < 2 {
		return 2
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Cap returns the buffer's total slot count.
func (b *Buffer) Cap() int { return len(b.buf) }

// Len returns the number of frames currently queued. Safe to call
// from either side; the result may be stale by the time it's used.
func (b *Buffer) Len() int {
	return int(b.writeIdx.Load() - b.readIdx.Load())
}

// Free returns the number of slots available to Push.
func (b *Buffer) Free() int {
	return b.Cap() - b.Len()
}

// Push writes as many frames from src as fit without overwriting
// unread data, returning the count actually written. Producer-only.
func (b *Buffer) Push(src []Frame) int {
	w := b.writeIdx.Load()
	r := b.readIdx.Load()
	free := b.Cap() - int(w-r)
	n := len(src)
	if n > free {
		n = free
	}
	for i := 0; i < n; i++ {
		b.buf[(w+uint64(i))&b.mask] = src[i]
	}
	b.writeIdx.Store(w + uint64(n))
	return n
}

// Pop reads as many frames into dst as are available, returning the
// count actually read. Consumer-only, wait-free: no loop, no CAS, no
// syscall.
func (b *Buffer) Pop(dst []Frame) int {
	r := b.readIdx.Load()
	w := b.writeIdx.Load()
	avail := int(w - r)
	n := len(dst)
	if n > avail {
		n = avail
	}
	for i := 0; i < n; i++ {
		dst[i] = b.buf[(r+uint64(i))&b.mask]
	}
	b.readIdx.Store(r + uint64(n))
	return n
}

// Reset drops all queued frames. Must only be called when the
// producer is quiesced (e.g. on seek/stop) — it is not itself
// synchronized against concurrent Push/Pop.
func (b *Buffer) Reset() {
	b.readIdx.Store(0)
	b.writeIdx.Store(0)
}
