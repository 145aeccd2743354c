package biquad

import "github.com/cwbudde/algo-rtaudio/dsp/core"

// Section is a single biquad with Direct Form I state.
type Section struct {
	Coefficients

	x1, x2 float32 // input history
	y1, y2 float32 // output history
}

// NewSection returns a Section with the given coefficients and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// NewLowPass returns a zero-state Section running LowPass(sampleRate, cutoffHz, q).
func NewLowPass(sampleRate, cutoffHz, q float64) *Section {
	return NewSection(LowPass(sampleRate, cutoffHz, q))
}

// NewHighPass returns a zero-state Section running HighPass(sampleRate, cutoffHz, q).
func NewHighPass(sampleRate, cutoffHz, q float64) *Section {
	return NewSection(HighPass(sampleRate, cutoffHz, q))
}

// SetCoefficients swaps the transfer function and keeps the history, so a
// parameter sweep continues from the current state. Call Reset as well when
// the change is discontinuous.
func (s *Section) SetCoefficients(c Coefficients) {
	s.Coefficients = c
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float32) float32 {
	y := s.B0*x + s.B1*s.x1 + s.B2*s.x2 - s.A1*s.y1 - s.A2*s.y2

	s.x2, s.x1 = s.x1, x
	s.y2, s.y1 = s.y1, y

	return y
}

// ProcessBlock filters block in place. Zero-alloc.
func (s *Section) ProcessBlock(block []float32) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	x1, x2, y1, y2 := s.x1, s.x2, s.y1, s.y2

	for i, x := range block {
		y := b0*x + b1*x1 + b2*x2 - a1*y1 - a2*y2
		x2, x1 = x1, x
		y2, y1 = y1, y
		block[i] = y
	}

	s.x1, s.x2 = x1, x2
	s.y1, s.y2 = core.FlushDenormal(y1), core.FlushDenormal(y2)
}

// Process implements effects.Effect.
func (s *Section) Process(block []float32) {
	s.ProcessBlock(block)
}

// Reset clears the four history values. Coefficients are kept.
func (s *Section) Reset() {
	s.x1, s.x2 = 0, 0
	s.y1, s.y2 = 0, 0
}

// State returns the history as [x1, x2, y1, y2].
func (s *Section) State() [4]float32 {
	return [4]float32{s.x1, s.x2, s.y1, s.y2}
}

// SetState restores a history previously returned by State.
func (s *Section) SetState(state [4]float32) {
	s.x1, s.x2, s.y1, s.y2 = state[0], state[1], state[2], state[3]
}
