package level

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-rtaudio/dsp/core"
	"github.com/cwbudde/algo-rtaudio/dsp/window"
)

var (
	// ErrEmpty is returned when there are no samples to analyze.
	ErrEmpty = errors.New("level: empty input")
	// ErrInvalidFrequency is returned for frequencies outside (0, rate/2).
	ErrInvalidFrequency = errors.New("level: frequency out of range")
)

// paddingFactor zero-pads the FFT so the peak search lands within an
// eighth of a resolution bin of the tone.
const paddingFactor = 4

// ToneAmplitude estimates the peak amplitude of a sinusoid at freqHz.
//
// The samples are Hann windowed and zero-padded, and the largest bin
// magnitude near freqHz is divided by the window's coherent gain. For tones
// below a couple of resolution bins the estimate is biased by leakage from
// DC; give it enough periods.
func ToneAmplitude(samples []float32, sampleRate, freqHz float64) (float64, error) {
	n := len(samples)
	if n == 0 {
		return 0, ErrEmpty
	}

	if sampleRate <= 0 || freqHz <= 0 || freqHz >= sampleRate/2 {
		return 0, fmt.Errorf("%w: %g Hz at %g Hz", ErrInvalidFrequency, freqHz, sampleRate)
	}

	fftSize := core.NextPowerOfTwo(paddingFactor * n)

	win := window.Generate(window.TypeHann, n)
	windowed := make([]float64, n)
	for i, v := range samples {
		windowed[i] = float64(v)
	}

	if err := window.ApplyCoefficientsInPlace(windowed, win); err != nil {
		return 0, fmt.Errorf("level: %w", err)
	}

	coherent, err := window.CoherentGain(win)
	if err != nil {
		return 0, fmt.Errorf("level: %w", err)
	}

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return 0, fmt.Errorf("level: fft plan of %d: %w", fftSize, err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return 0, fmt.Errorf("level: fft: %w", err)
	}

	half := fftSize/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)
	for i := range half {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, half)
	vecmath.Magnitude(mag, re, im)

	binHz := sampleRate / float64(fftSize)
	center := int(math.Round(freqHz / binHz))
	lo := max(center-paddingFactor, 1)
	hi := min(center+paddingFactor, half-1)

	peak := 0.0
	for k := lo; k <= hi; k++ {
		peak = math.Max(peak, mag[k])
	}

	return 2 * peak / (coherent * float64(n)), nil
}
