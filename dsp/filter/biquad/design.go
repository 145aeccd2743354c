package biquad

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for unrecognized names.
var ErrUnknownMode = errors.New("biquad: unknown filter mode")

// Mode selects the response shape of a cookbook design.
type Mode int

const (
	// ModeLowPass passes content below the cutoff.
	ModeLowPass Mode = iota
	// ModeHighPass passes content above the cutoff.
	ModeHighPass
)

// String returns the canonical config name of m.
func (m Mode) String() string {
	switch m {
	case ModeLowPass:
		return "lowpass"
	case ModeHighPass:
		return "highpass"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a config name to a Mode. Matching is case-insensitive and
// accepts the short forms "lp" and "hp".
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lowpass", "low-pass", "lp":
		return ModeLowPass, nil
	case "highpass", "high-pass", "hp":
		return ModeHighPass, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// Coefficients holds a normalized transfer function (a0 == 1):
//
//	y[n] = B0*x[n] + B1*x[n-1] + B2*x[n-2] - A1*y[n-1] - A2*y[n-2]
type Coefficients struct {
	B0, B1, B2 float32 // feedforward
	A1, A2     float32 // feedback
}

// LowPass designs a cookbook lowpass at cutoffHz with quality factor q.
//
// Inputs are not validated; sampleRate > 0, 0 < cutoffHz < sampleRate/2
// and q > 0 are the caller's responsibility.
func LowPass(sampleRate, cutoffHz, q float64) Coefficients {
	cosW0, alpha := prewarp(sampleRate, cutoffHz, q)
	a0 := 1 + alpha

	return Coefficients{
		B0: float32((1 - cosW0) / 2 / a0),
		B1: float32((1 - cosW0) / a0),
		B2: float32((1 - cosW0) / 2 / a0),
		A1: float32(-2 * cosW0 / a0),
		A2: float32((1 - alpha) / a0),
	}
}

// HighPass designs a cookbook highpass at cutoffHz with quality factor q.
// Same domain rules as LowPass.
func HighPass(sampleRate, cutoffHz, q float64) Coefficients {
	cosW0, alpha := prewarp(sampleRate, cutoffHz, q)
	a0 := 1 + alpha

	return Coefficients{
		B0: float32((1 + cosW0) / 2 / a0),
		B1: float32(-(1 + cosW0) / a0),
		B2: float32((1 + cosW0) / 2 / a0),
		A1: float32(-2 * cosW0 / a0),
		A2: float32((1 - alpha) / a0),
	}
}

// Design dispatches to LowPass or HighPass. Unknown modes yield a
// passthrough.
func Design(mode Mode, sampleRate, cutoffHz, q float64) Coefficients {
	switch mode {
	case ModeLowPass:
		return LowPass(sampleRate, cutoffHz, q)
	case ModeHighPass:
		return HighPass(sampleRate, cutoffHz, q)
	default:
		return Coefficients{B0: 1}
	}
}

func prewarp(sampleRate, cutoffHz, q float64) (cosW0, alpha float64) {
	w0 := 2 * math.Pi * cutoffHz / sampleRate
	sinW0, cosW0 := math.Sincos(w0)

	return cosW0, sinW0 / (2 * q)
}
