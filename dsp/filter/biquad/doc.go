// Package biquad provides a second-order IIR filter section with
// lowpass and highpass designs.
//
// Coefficients come from the audio-EQ cookbook formulas and are normalized
// so that a0 is 1 and not stored. A [Section] runs them in Direct Form I and
// keeps two input and two output history values, which carry across calls to
// [Section.ProcessBlock] so a stream can be filtered in arbitrary block sizes.
package biquad
