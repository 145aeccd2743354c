package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cwbudde/algo-rtaudio/audio/device"
)

const testRate = 48000.0

// idleSource never delivers audio.
type idleSource struct{}

func (idleSource) ReadPeriod(ctx context.Context, _ []float32) (int, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

func (idleSource) Close() error { return nil }

// failingSource reports err on the first read.
type failingSource struct{ err error }

func (s failingSource) ReadPeriod(context.Context, []float32) (int, error) { return 0, s.err }

func (failingSource) Close() error { return nil }

// stuckSink accepts nothing until the context ends.
type stuckSink struct{ calls atomic.Int64 }

func (s *stuckSink) WritePeriod(ctx context.Context, _ []float32) (int, error) {
	s.calls.Add(1)
	<-ctx.Done()
	return 0, ctx.Err()
}

func (*stuckSink) Close() error { return nil }

// gatedSink holds the first write until ready reports true, then records
// like a CaptureSink.
type gatedSink struct {
	*device.CaptureSink
	ready  func() bool
	opened atomic.Bool
}

func (s *gatedSink) WritePeriod(ctx context.Context, src []float32) (int, error) {
	for !s.opened.Load() {
		if s.ready() {
			s.opened.Store(true)
			break
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}

	return s.CaptureSink.WritePeriod(ctx, src)
}

var errBoom = errors.New("boom")

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached within 5s")
		}
		time.Sleep(time.Millisecond)
	}
}

func ramp(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i%200)/200 - 0.5
	}
	return out
}
