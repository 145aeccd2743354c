package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-rtaudio/audio/device"
	"github.com/cwbudde/algo-rtaudio/dsp/core"
	"github.com/cwbudde/algo-rtaudio/dsp/effectchain"
	"github.com/cwbudde/algo-rtaudio/dsp/ring"
	"github.com/cwbudde/algo-rtaudio/internal/logging"
)

var (
	// ErrRunning is returned by Run while another Run is active.
	ErrRunning = errors.New("pipeline: already running")
	// ErrNilStage is returned when a chain, source or sink is missing.
	ErrNilStage = errors.New("pipeline: nil chain, source or sink")
)

// Realtime streams a Source through a Chain into a Sink.
type Realtime struct {
	chain *effectchain.Chain
	src   device.Source
	sink  device.Sink
	ring  *ring.Buffer
	opts  Options
	log   logrus.FieldLogger

	updateMu sync.Mutex
	updates  chan effectchain.Params

	stats   counters
	running atomic.Bool

	// Period buffers, kept across runs. captureBuf belongs to the capture
	// goroutine, playBuf to prefill and then playback.
	captureBuf []float32
	playBuf    []float32
}

// NewRealtime wires src, chain and sink with a ring sized by opts. The
// caller keeps ownership of src and sink.
func NewRealtime(chain *effectchain.Chain, src device.Source, sink device.Sink, opts Options) (*Realtime, error) {
	if chain == nil || src == nil || sink == nil {
		return nil, ErrNilStage
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}

	rb, err := ring.New(opts.RingCapacity)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	return &Realtime{
		chain:   chain,
		src:     src,
		sink:    sink,
		ring:    rb,
		opts:    opts,
		log:     opts.logger(),
		updates: make(chan effectchain.Params, 1),
	}, nil
}

// Update validates p and hands it to the playback goroutine, which applies
// it between two blocks. Only the most recent pending update is kept.
func (r *Realtime) Update(p effectchain.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.updateMu.Lock()
	defer r.updateMu.Unlock()

	select {
	case <-r.updates:
	default:
	}

	r.updates <- p

	return nil
}

// Stats returns the counters of the current or last run. It is safe to
// call while Run is active.
func (r *Realtime) Stats() Stats {
	return r.stats.snapshot()
}

// Run streams until ctx is done or the source reports io.EOF. After EOF
// the samples still queued in the ring are played before Run returns.
// Cancellation is a normal stop and returns a nil error.
func (r *Realtime) Run(ctx context.Context) (Stats, error) {
	if !r.running.CompareAndSwap(false, true) {
		return Stats{}, ErrRunning
	}
	defer r.running.Store(false)

	r.reset()
	r.prefill()

	r.log.WithFields(logrus.Fields{
		"period":   r.opts.Period,
		"capacity": r.ring.Cap(),
		"prefill":  r.ring.ReadAvailable(),
	}).Info("stream started")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg         sync.WaitGroup
		captureErr error
	)

	captureDone := make(chan struct{})

	wg.Add(1)

	go func() {
		defer wg.Done()
		defer close(captureDone)

		captureErr = r.capture(ctx)
		if captureErr != nil {
			cancel()
		}
	}()

	playErr := r.playback(ctx, captureDone)

	cancel()
	wg.Wait()

	stats := r.stats.snapshot()

	r.log.WithFields(logrus.Fields{
		"periods":   stats.Periods,
		"overflows": stats.Overflows,
		"underruns": stats.Underruns,
	}).Info("stream stopped")

	return stats, errors.Join(captureErr, playErr)
}

func (r *Realtime) reset() {
	r.ring.Reset()

	r.stats.periods.Store(0)
	r.stats.captured.Store(0)
	r.stats.played.Store(0)
	r.stats.overflows.Store(0)
	r.stats.droppedSamples.Store(0)
	r.stats.underruns.Store(0)
	r.stats.silenceSamples.Store(0)
	r.stats.paramUpdates.Store(0)
}

func (r *Realtime) prefill() {
	r.playBuf = core.EnsureLen(r.playBuf, r.opts.Period)
	silence := r.playBuf
	core.Zero(silence)

	for range r.opts.PrefillPeriods {
		r.ring.Write(silence)
	}
}

// capture is the producer: it owns the write side of the ring.
func (r *Realtime) capture(ctx context.Context) error {
	r.captureBuf = core.EnsureLen(r.captureBuf, r.opts.Period)
	buf := r.captureBuf

	for {
		n, err := r.src.ReadPeriod(ctx, buf)

		if n > 0 {
			w := r.ring.Write(buf[:n])
			r.stats.captured.Add(int64(n))

			if w < n {
				overflows := r.stats.overflows.Add(1)
				r.stats.droppedSamples.Add(int64(n - w))

				if logging.Every(overflows, r.opts.LogEvery) {
					r.log.WithFields(logrus.Fields{
						"dropped":   n - w,
						"overflows": overflows,
					}).Warn("ring overflow, capture samples dropped")
				}
			}
		}

		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			r.log.WithField("captured", r.stats.captured.Load()).Debug("capture reached end of stream")
			return nil
		case ctx.Err() != nil:
			return nil
		default:
			return fmt.Errorf("pipeline: capture: %w", err)
		}
	}
}

// playback is the consumer: it owns the read side of the ring and the chain.
func (r *Realtime) playback(ctx context.Context, captureDone <-chan struct{}) error {
	block := core.EnsureLen(r.playBuf, r.opts.Period)

	for ctx.Err() == nil {
		r.applyUpdate()

		// Checked before reading so a final write made just before the
		// producer exited is seen by this Read.
		finished := closed(captureDone)

		n := r.ring.Read(block)

		if finished && n < len(block) {
			if n == 0 {
				return nil
			}
			return r.play(ctx, block[:n])
		}

		if n < len(block) {
			missing := len(block) - n
			core.Zero(block[n:])

			underruns := r.stats.underruns.Add(1)
			r.stats.silenceSamples.Add(int64(missing))

			if logging.Every(underruns, r.opts.LogEvery) {
				r.log.WithFields(logrus.Fields{
					"missing":   missing,
					"period":    r.stats.periods.Load(),
					"underruns": underruns,
				}).Warn("ring underrun, block padded with silence")
			}
		}

		if err := r.play(ctx, block); err != nil {
			return err
		}
	}

	return nil
}

func (r *Realtime) play(ctx context.Context, block []float32) error {
	r.chain.Process(block)
	r.stats.periods.Add(1)

	n, err := r.sink.WritePeriod(ctx, block)
	r.stats.played.Add(int64(n))

	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("pipeline: playback: %w", err)
	}

	return nil
}

func (r *Realtime) applyUpdate() {
	select {
	case p := <-r.updates:
		r.chain.Configure(p)
		r.stats.paramUpdates.Add(1)
		r.log.WithField("period", r.stats.periods.Load()).Debug("chain parameters applied")
	default:
	}
}

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
