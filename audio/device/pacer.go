package device

import (
	"context"
	"time"

	"github.com/cwbudde/algo-rtaudio/dsp/core"
)

// Pacer releases callers on a fixed period grid starting at the first Wait.
// Deadlines are absolute, so a late caller is released immediately and the
// grid does not drift.
type Pacer struct {
	period time.Duration
	next   time.Time
	timer  *time.Timer
}

// NewPacer returns a Pacer for periods of frames at sampleRate. A
// non-positive sampleRate or frames yields a Pacer that never waits.
func NewPacer(sampleRate float64, frames int) *Pacer {
	stream := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: frames}
	return &Pacer{period: stream.BlockDuration()}
}

// Period returns the wall-clock length of one period, or 0 if unpaced.
func (p *Pacer) Period() time.Duration { return p.period }

// Wait blocks until the next period boundary or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.period <= 0 {
		return ctx.Err()
	}

	now := time.Now()
	if p.next.IsZero() {
		p.next = now
	}

	d := p.next.Sub(now)
	p.next = p.next.Add(p.period)

	if d <= 0 {
		return ctx.Err()
	}

	if p.timer == nil {
		p.timer = time.NewTimer(d)
	} else {
		p.timer.Reset(d)
	}

	select {
	case <-ctx.Done():
		p.timer.Stop()
		return ctx.Err()
	case <-p.timer.C:
		return nil
	}
}

// Reset restarts the grid at the next Wait.
func (p *Pacer) Reset() {
	p.next = time.Time{}
}
