package effectchain

// Configure applies p to every stage, including the enabled flags.
//
// State is kept across the change except where the old state no longer
// describes the new stream:
//   - filter history is cleared when the mode or sample rate changes
//   - the compressor envelope is cleared when the sample rate changes
//   - a stage that goes from disabled to enabled is cleared
//
// p is not validated; see Params.Validate.
func (c *Chain) Configure(p Params) {
	old := c.params
	rateChanged := p.SampleRate != old.SampleRate

	c.gain.SetGainDB(p.Gain.GainDB)

	if p.Filter != old.Filter || rateChanged {
		c.filter.SetCoefficients(p.Filter.coefficients(p.SampleRate))
	}

	if p.Filter.Mode != old.Filter.Mode || rateChanged {
		c.filter.Reset()
	}

	c.comp.Configure(p.Compressor.toDynamics(p.SampleRate))

	if rateChanged {
		c.comp.Reset()
	}

	c.params = p

	for _, stage := range Stages() {
		on := p.enabled(stage)
		if on && !c.enabled[stage] {
			c.stages[stage].Reset()
		}

		c.enabled[stage] = on
	}
}

// Params returns the configuration currently applied.
func (c *Chain) Params() Params {
	return c.params
}
