package level

import (
	"math"

	"github.com/cwbudde/algo-rtaudio/dsp/core"
)

// MinDBFS is returned by ToDBFS for zero or negative input.
const MinDBFS = -200.0

// Peak returns the largest absolute sample value.
func Peak(samples []float32) float32 {
	var peak float32
	for _, v := range samples {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}

// RMS returns the root-mean-square of samples, accumulated in float64.
// Empty input yields 0.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, v := range samples {
		sum += float64(v) * float64(v)
	}

	return math.Sqrt(sum / float64(len(samples)))
}

// ToDBFS converts a linear amplitude to dB relative to full scale (1.0).
func ToDBFS(linear float64) float64 {
	if linear <= 0 {
		return MinDBFS
	}

	return math.Max(core.LinearToDB(linear), MinDBFS)
}

// Report summarizes the level of one buffer.
type Report struct {
	Samples  int
	Peak     float64
	RMS      float64
	PeakDBFS float64
	RMSDBFS  float64
	CrestDB  float64 // PeakDBFS - RMSDBFS, 0 for silence
	Clipped  int     // samples with |x| >= 1
}

// Analyze computes a Report for samples.
func Analyze(samples []float32) Report {
	r := Report{
		Samples: len(samples),
		Peak:    float64(Peak(samples)),
		RMS:     RMS(samples),
	}

	for _, v := range samples {
		if v >= 1 || v <= -1 {
			r.Clipped++
		}
	}

	r.PeakDBFS = ToDBFS(r.Peak)
	r.RMSDBFS = ToDBFS(r.RMS)

	if r.RMS > 0 {
		r.CrestDB = r.PeakDBFS - r.RMSDBFS
	}

	return r
}
