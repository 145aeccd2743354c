// Package effects defines the block-processing contract shared by all
// streaming effects and provides the Gain stage.
//
// Subpackages:
//   - github.com/cwbudde/algo-rtaudio/dsp/effects/dynamics
//
// The biquad filter lives in github.com/cwbudde/algo-rtaudio/dsp/filter/biquad
// and satisfies [Effect] as well.
//
// Effects own their coefficients and state, process in place, never
// allocate on the hot path and are not safe for concurrent use: one
// goroutine drives a given instance.
package effects
