package device

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/cwbudde/algo-rtaudio/dsp/core"
	"github.com/cwbudde/algo-rtaudio/dsp/signal"
)

// Default test tone.
const (
	DefaultToneHz        = 440.0
	DefaultToneAmplitude = 0.3
)

// ToneSource is an endless sine capture device.
type ToneSource struct {
	osc    *signal.Oscillator
	pacer  *Pacer
	closed atomic.Bool
}

// NewToneSource returns a tone source at freqHz and amplitude. When paced
// is true ReadPeriod waits for the period boundary of periodFrames.
func NewToneSource(sampleRate, freqHz float64, amplitude float32, periodFrames int, paced bool) *ToneSource {
	rate := 0.0
	if paced {
		rate = sampleRate
	}

	return &ToneSource{
		osc:   signal.NewOscillator(sampleRate, freqHz, amplitude),
		pacer: NewPacer(rate, periodFrames),
	}
}

// Oscillator exposes the tone generator for retuning.
func (s *ToneSource) Oscillator() *signal.Oscillator { return s.osc }

// ReadPeriod fills dst with the next len(dst) tone samples.
func (s *ToneSource) ReadPeriod(ctx context.Context, dst []float32) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	if err := s.pacer.Wait(ctx); err != nil {
		return 0, err
	}

	s.osc.Fill(dst)

	return len(dst), nil
}

// Close stops the source.
func (s *ToneSource) Close() error {
	s.closed.Store(true)
	return nil
}

// ClipSource plays a buffer of samples once and then reports io.EOF.
type ClipSource struct {
	samples []float32
	pos     int
	pacer   *Pacer
	closed  atomic.Bool
}

// NewClipSource plays samples. A non-nil pacer paces the reads.
func NewClipSource(samples []float32, pacer *Pacer) *ClipSource {
	if pacer == nil {
		pacer = NewPacer(0, 0)
	}
	return &ClipSource{samples: samples, pacer: pacer}
}

// Remaining returns the number of samples not yet read.
func (s *ClipSource) Remaining() int { return len(s.samples) - s.pos }

// ReadPeriod copies up to len(dst) samples. The final short period is
// returned with io.EOF.
func (s *ClipSource) ReadPeriod(ctx context.Context, dst []float32) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}

	if err := s.pacer.Wait(ctx); err != nil {
		return 0, err
	}

	n := core.CopyInto(dst, s.samples[s.pos:])
	s.pos += n

	if s.pos >= len(s.samples) {
		return n, io.EOF
	}

	return n, nil
}

// Close stops the source.
func (s *ClipSource) Close() error {
	s.closed.Store(true)
	return nil
}
