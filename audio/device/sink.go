package device

import (
	"context"
	"sync"
	"sync/atomic"
)

// CaptureSink records everything written to it.
type CaptureSink struct {
	mu      sync.Mutex
	samples []float32
	pacer   *Pacer
	closed  atomic.Bool
}

// NewCaptureSink returns a sink with room for capacity samples before it
// grows. A nil pacer means unpaced.
func NewCaptureSink(capacity int, pacer *Pacer) *CaptureSink {
	if pacer == nil {
		pacer = NewPacer(0, 0)
	}
	return &CaptureSink{samples: make([]float32, 0, capacity), pacer: pacer}
}

// WritePeriod appends a copy of src.
func (s *CaptureSink) WritePeriod(ctx context.Context, src []float32) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	if err := s.pacer.Wait(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.samples = append(s.samples, src...)
	s.mu.Unlock()

	return len(src), nil
}

// Samples returns a copy of everything written so far.
func (s *CaptureSink) Samples() []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]float32(nil), s.samples...)
}

// Len returns the number of samples written so far.
func (s *CaptureSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.samples)
}

// Close stops the sink. Samples stays readable.
func (s *CaptureSink) Close() error {
	s.closed.Store(true)
	return nil
}

// DiscardSink accepts and drops every period, counting samples.
type DiscardSink struct {
	pacer   *Pacer
	written atomic.Int64
	closed  atomic.Bool
}

// NewDiscardSink returns a sink that drops audio. A nil pacer means unpaced.
func NewDiscardSink(pacer *Pacer) *DiscardSink {
	if pacer == nil {
		pacer = NewPacer(0, 0)
	}
	return &DiscardSink{pacer: pacer}
}

// WritePeriod drops src.
func (s *DiscardSink) WritePeriod(ctx context.Context, src []float32) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	if err := s.pacer.Wait(ctx); err != nil {
		return 0, err
	}

	s.written.Add(int64(len(src)))

	return len(src), nil
}

// Written returns the number of samples accepted.
func (s *DiscardSink) Written() int64 { return s.written.Load() }

// Close stops the sink.
func (s *DiscardSink) Close() error {
	s.closed.Store(true)
	return nil
}
