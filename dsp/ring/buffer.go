package ring

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/cwbudde/algo-rtaudio/dsp/core"
)

// MaxCapacity is the largest capacity New accepts (2^30 samples, 4 GiB).
const MaxCapacity = 1 << 30

// Buffer is a fixed-capacity SPSC queue of float32 samples.
//
// Both cursors are unbounded counters; the physical slot is cursor & mask.
// write-read is always in [0, capacity]. The writer publishes samples by
// storing the write cursor after the copy, and the reader loads the write
// cursor before touching the slots, so a sample is never observed before
// it is complete. Go atomics are sequentially consistent, which is at least
// as strong as the release/acquire pair this protocol needs.
type Buffer struct {
	_     cpu.CacheLinePad
	write atomic.Uint64 // owned by the producer
	_     cpu.CacheLinePad
	read  atomic.Uint64 // owned by the consumer
	_     cpu.CacheLinePad

	data []float32
	mask uint64
}

// New allocates a zeroed Buffer holding capacity samples.
func New(capacity int) (*Buffer, error) {
	if !core.IsPowerOfTwo(capacity) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	if capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: %d samples exceeds %d", ErrAllocation, capacity, MaxCapacity)
	}

	data, err := allocate(capacity)
	if err != nil {
		return nil, err
	}

	return &Buffer{
		data: data,
		mask: uint64(capacity - 1),
	}, nil
}

// allocate converts a refused allocation into ErrAllocation instead of
// letting the runtime panic escape the constructor.
func allocate(n int) (data []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("%w: %d samples: %v", ErrAllocation, n, r)
		}
	}()

	return make([]float32, n), nil
}

// Cap returns the fixed capacity in samples.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// ReadAvailable returns the number of samples ready to be read.
// Exact on the consumer goroutine; an estimate anywhere else.
func (b *Buffer) ReadAvailable() int {
	w := b.write.Load()
	r := b.read.Load()

	return int(w - r)
}

// WriteAvailable returns the number of free slots.
// Exact on the producer goroutine; an estimate anywhere else.
func (b *Buffer) WriteAvailable() int {
	w := b.write.Load()
	r := b.read.Load()

	return len(b.data) - int(w-r)
}

// Write copies up to len(p) samples into the buffer and returns how many
// were written. Producer goroutine only.
func (b *Buffer) Write(p []float32) int {
	w := b.write.Load()
	r := b.read.Load()

	n := min(len(p), len(b.data)-int(w-r))
	if n <= 0 {
		return 0
	}

	pos := int(w & b.mask)
	first := copy(b.data[pos:], p[:n])
	if first < n {
		copy(b.data, p[first:n])
	}

	// Publish: the store makes the copied samples visible to the reader.
	b.write.Store(w + uint64(n))

	return n
}

// Read copies up to len(p) samples out of the buffer and returns how many
// were read. Consumer goroutine only.
func (b *Buffer) Read(p []float32) int {
	r := b.read.Load()
	w := b.write.Load()

	n := min(len(p), int(w-r))
	if n <= 0 {
		return 0
	}

	pos := int(r & b.mask)
	first := copy(p[:n], b.data[pos:])
	if first < n {
		copy(p[first:n], b.data)
	}

	b.read.Store(r + uint64(n))

	return n
}

// Reset zeroes both cursors and the storage. It must only be called while
// neither the producer nor the consumer is active.
func (b *Buffer) Reset() {
	b.write.Store(0)
	b.read.Store(0)
	clear(b.data)
}
