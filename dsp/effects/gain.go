package effects

import "github.com/cwbudde/algo-rtaudio/dsp/core"

// Gain scales samples by a fixed linear factor. It has no state across blocks.
type Gain struct {
	db     float64
	linear float32
}

var _ Effect = (*Gain)(nil)

// NewGain returns a Gain of db decibels. 0 dB is unity.
func NewGain(db float64) *Gain {
	g := &Gain{}
	g.SetGainDB(db)

	return g
}

// SetGainDB sets the gain in decibels. The new factor applies from the next
// Process call.
func (g *Gain) SetGainDB(db float64) {
	g.db = db
	g.linear = float32(core.DBToLinear(db))
}

// GainDB returns the configured gain in decibels.
func (g *Gain) GainDB() float64 { return g.db }

// Linear returns the linear factor applied to each sample.
func (g *Gain) Linear() float32 { return g.linear }

// Process multiplies every sample by the linear gain.
func (g *Gain) Process(block []float32) {
	k := g.linear
	for i := range block {
		block[i] *= k
	}
}

// Reset is a no-op; Gain keeps no runtime state.
func (g *Gain) Reset() {}
