package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-rtaudio/audio/audiofile"
	"github.com/cwbudde/algo-rtaudio/dsp/effectchain"
	"github.com/cwbudde/algo-rtaudio/dsp/ring"
)

// ErrSampleRateMismatch is returned by Batch when the clip and the chain
// run at different rates.
var ErrSampleRateMismatch = errors.New("pipeline: sample rate mismatch")

// Batch renders clip through chain on the calling goroutine. Every period
// passes through a ring exactly as on the real-time path, with this
// goroutine acting as both producer and consumer, so there is no prefill,
// overflow or underrun. Multi-channel clips are mixed to mono first.
func Batch(ctx context.Context, clip *audiofile.Clip, chain *effectchain.Chain, opts Options) (*audiofile.Clip, Stats, error) {
	var stats Stats

	if clip == nil || chain == nil {
		return nil, stats, ErrNilStage
	}

	if err := opts.validate(); err != nil {
		return nil, stats, err
	}

	if err := clip.Validate(); err != nil {
		return nil, stats, fmt.Errorf("pipeline: %w", err)
	}

	if float64(clip.SampleRate) != chain.SampleRate() {
		return nil, stats, fmt.Errorf("%w: clip %d Hz, chain %g Hz", ErrSampleRateMismatch, clip.SampleRate, chain.SampleRate())
	}

	rb, err := ring.New(opts.RingCapacity)
	if err != nil {
		return nil, stats, fmt.Errorf("pipeline: %w", err)
	}

	mono := clip.Mono()
	in := mono.Samples
	out := make([]float32, 0, len(in))
	block := make([]float32, opts.Period)

	for off := 0; off < len(in); off += opts.Period {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		w := rb.Write(in[off:min(off+opts.Period, len(in))])
		stats.Captured += int64(w)

		n := rb.Read(block[:w])
		chain.Process(block[:n])

		out = append(out, block[:n]...)
		stats.Periods++
		stats.Played += int64(n)
	}

	opts.logger().WithFields(logrus.Fields{
		"frames":  len(out),
		"periods": stats.Periods,
	}).Debug("batch rendered")

	return &audiofile.Clip{Samples: out, SampleRate: mono.SampleRate, Channels: 1}, stats, nil
}
