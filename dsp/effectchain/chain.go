package effectchain

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rtaudio/dsp/effects"
	"github.com/cwbudde/algo-rtaudio/dsp/effects/dynamics"
	"github.com/cwbudde/algo-rtaudio/dsp/filter/biquad"
)

// ErrUnknownStage is returned when a Stage value is outside the fixed set.
var ErrUnknownStage = errors.New("effectchain: unknown stage")

// Stage identifies one slot of the chain.
type Stage int

const (
	// StageGain is the input gain.
	StageGain Stage = iota
	// StageFilter is the lowpass/highpass biquad.
	StageFilter
	// StageCompressor is the feed-forward compressor.
	StageCompressor

	numStages
)

// Stages returns every stage in processing order.
func Stages() []Stage {
	return []Stage{StageGain, StageFilter, StageCompressor}
}

func (s Stage) String() string {
	switch s {
	case StageGain:
		return "gain"
	case StageFilter:
		return "filter"
	case StageCompressor:
		return "compressor"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

func (s Stage) valid() bool {
	return s >= 0 && s < numStages
}

// Chain runs Gain, Filter and Compressor in that order over a block.
// Disabled stages are skipped and their state is left untouched.
//
// A Chain is driven by one goroutine at a time.
type Chain struct {
	params Params

	gain   *effects.Gain
	filter *biquad.Section
	comp   *dynamics.Compressor

	stages  [numStages]effects.Effect
	enabled [numStages]bool
}

// New returns a passthrough chain: every stage is built from
// DefaultParams(sampleRate) and disabled.
func New(sampleRate float64) *Chain {
	p := DefaultParams(sampleRate)

	c := &Chain{
		params: p,
		gain:   effects.NewGain(p.Gain.GainDB),
		filter: biquad.NewSection(p.Filter.coefficients(p.SampleRate)),
		comp:   dynamics.NewCompressor(p.Compressor.toDynamics(p.SampleRate)),
	}

	c.stages = [numStages]effects.Effect{c.gain, c.filter, c.comp}

	return c
}

// Process applies each enabled stage to block in place.
func (c *Chain) Process(block []float32) {
	if len(block) == 0 {
		return
	}

	for i, fx := range c.stages {
		if c.enabled[i] {
			fx.Process(block)
		}
	}
}

// SetEnabled switches a stage on or off. A stage that is switched on from
// off is reset first.
func (c *Chain) SetEnabled(stage Stage, on bool) error {
	if !stage.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStage, int(stage))
	}

	if on && !c.enabled[stage] {
		c.stages[stage].Reset()
	}

	c.enabled[stage] = on
	c.params.setEnabled(stage, on)

	return nil
}

// Enabled reports whether stage is active. Unknown stages report false.
func (c *Chain) Enabled(stage Stage) bool {
	return stage.valid() && c.enabled[stage]
}

// Reset clears the state of every stage, enabled or not.
func (c *Chain) Reset() {
	for _, fx := range c.stages {
		fx.Reset()
	}
}

// SampleRate returns the rate the filter and compressor are designed for.
func (c *Chain) SampleRate() float64 { return c.params.SampleRate }

// Gain returns the gain stage.
func (c *Chain) Gain() *effects.Gain { return c.gain }

// Filter returns the biquad stage.
func (c *Chain) Filter() *biquad.Section { return c.filter }

// Compressor returns the compressor stage.
func (c *Chain) Compressor() *dynamics.Compressor { return c.comp }

// MagnitudeDB returns the small-signal magnitude response at freqHz of the
// enabled linear stages (gain and filter). The compressor is level
// dependent and not included.
func (c *Chain) MagnitudeDB(freqHz float64) float64 {
	db := 0.0

	if c.enabled[StageGain] {
		db += 20 * math.Log10(float64(c.gain.Linear()))
	}

	if c.enabled[StageFilter] {
		db += c.filter.MagnitudeDB(freqHz, c.params.SampleRate)
	}

	return db
}
