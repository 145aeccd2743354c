// Package level measures signal level: sample peak, RMS, dBFS conversion
// and the amplitude of a single tone read off a windowed FFT.
package level
