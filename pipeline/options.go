package pipeline

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-rtaudio/dsp/core"
	"github.com/cwbudde/algo-rtaudio/internal/logging"
)

// ErrInvalidOptions is wrapped by option validation errors.
var ErrInvalidOptions = errors.New("pipeline: invalid options")

// Options sizes the stream.
type Options struct {
	// Period is the number of samples moved per device call and processed
	// per chain call.
	Period int
	// RingCapacity is the ring size in samples, a power of two holding at
	// least two periods.
	RingCapacity int
	// PrefillPeriods of silence are queued before playback starts so that
	// capture jitter does not underrun the first blocks.
	PrefillPeriods int
	// LogEvery rate-limits overflow and underrun warnings: the first one
	// and then every LogEvery-th one is logged.
	LogEvery int64
	// Log receives lifecycle and fault messages. Nil discards them.
	Log logrus.FieldLogger
}

// DefaultOptions returns 256-sample periods, an 8192-sample ring and four
// periods of prefill.
func DefaultOptions() Options {
	return Options{
		Period:         core.DefaultProcessorConfig().BlockSize,
		RingCapacity:   8192,
		PrefillPeriods: 4,
		LogEvery:       100,
	}
}

func (o Options) validate() error {
	switch {
	case o.Period <= 0:
		return fmt.Errorf("%w: period %d", ErrInvalidOptions, o.Period)
	case !core.IsPowerOfTwo(o.RingCapacity):
		return fmt.Errorf("%w: ring capacity %d is not a power of two", ErrInvalidOptions, o.RingCapacity)
	case o.RingCapacity < 2*o.Period:
		return fmt.Errorf("%w: ring capacity %d holds fewer than two periods", ErrInvalidOptions, o.RingCapacity)
	case o.PrefillPeriods < 0 || o.PrefillPeriods*o.Period > o.RingCapacity:
		return fmt.Errorf("%w: prefill of %d periods does not fit the ring", ErrInvalidOptions, o.PrefillPeriods)
	}

	return nil
}

func (o Options) logger() logrus.FieldLogger {
	if o.Log == nil {
		return logging.Discard()
	}
	return o.Log
}

// Stats counts what a run moved and what it lost.
type Stats struct {
	Periods        int64 // blocks processed by the chain
	Captured       int64 // samples read from the source
	Played         int64 // samples accepted by the sink
	Overflows      int64 // capture periods that did not fit the ring
	DroppedSamples int64
	Underruns      int64 // playback blocks padded with silence
	SilenceSamples int64 // padding, excluding the prefill
	ParamUpdates   int64
}

// counters is the shared, concurrently updated form of Stats. Each field
// has a single writer goroutine.
type counters struct {
	periods        atomic.Int64
	captured       atomic.Int64
	played         atomic.Int64
	overflows      atomic.Int64
	droppedSamples atomic.Int64
	underruns      atomic.Int64
	silenceSamples atomic.Int64
	paramUpdates   atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Periods:        c.periods.Load(),
		Captured:       c.captured.Load(),
		Played:         c.played.Load(),
		Overflows:      c.overflows.Load(),
		DroppedSamples: c.droppedSamples.Load(),
		Underruns:      c.underruns.Load(),
		SilenceSamples: c.silenceSamples.Load(),
		ParamUpdates:   c.paramUpdates.Load(),
	}
}
