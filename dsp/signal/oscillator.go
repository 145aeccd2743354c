package signal

import "math"

// Oscillator is a streaming sine source. Phase carries across Fill calls,
// so consecutive blocks join without a discontinuity.
type Oscillator struct {
	sampleRate float64
	freqHz     float64
	amplitude  float32

	phase float64 // radians in [0, 2pi)
	step  float64 // radians per sample
}

// NewOscillator returns an oscillator at freqHz and peak amplitude, starting
// at phase zero.
func NewOscillator(sampleRate, freqHz float64, amplitude float32) *Oscillator {
	o := &Oscillator{sampleRate: sampleRate, amplitude: amplitude}
	o.SetFrequency(freqHz)

	return o
}

// SetFrequency changes the pitch without resetting the phase.
func (o *Oscillator) SetFrequency(freqHz float64) {
	o.freqHz = freqHz
	o.step = 2 * math.Pi * freqHz / o.sampleRate
}

// SetAmplitude changes the peak amplitude.
func (o *Oscillator) SetAmplitude(amplitude float32) { o.amplitude = amplitude }

// Frequency returns the current pitch in Hz.
func (o *Oscillator) Frequency() float64 { return o.freqHz }

// Amplitude returns the peak amplitude.
func (o *Oscillator) Amplitude() float32 { return o.amplitude }

// Phase returns the current phase in radians.
func (o *Oscillator) Phase() float64 { return o.phase }

// Fill overwrites dst with the next len(dst) samples.
func (o *Oscillator) Fill(dst []float32) {
	phase := o.phase
	for i := range dst {
		dst[i] = o.amplitude * float32(math.Sin(phase))
		phase += o.step
		if phase >= 2*math.Pi {
			phase -= 2 * math.Pi
		}
	}
	o.phase = phase
}

// Reset returns the phase to zero.
func (o *Oscillator) Reset() { o.phase = 0 }
