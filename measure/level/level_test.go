package level

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-rtaudio/dsp/filter/biquad"
	"github.com/cwbudde/algo-rtaudio/internal/testutil"
)

func TestPeak(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want float32
	}{
		{"empty", nil, 0},
		{"positive", []float32{0.1, 0.5, 0.2}, 0.5},
		{"negative", []float32{0.1, -0.75, 0.2}, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Peak(tt.in); got != tt.want {
				t.Fatalf("Peak() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Fatalf("RMS(nil) = %v", got)
	}

	if got := RMS(testutil.DC(-0.5, 100)); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("RMS(DC) = %v, want 0.5", got)
	}

	// 4800 samples hold whole periods of 440 Hz at 48 kHz.
	sine := testutil.DeterministicSine(440, 48000, 0.3, 4800)
	if got, want := RMS(sine), 0.3/math.Sqrt2; math.Abs(got-want) > 1e-4 {
		t.Fatalf("RMS(sine) = %v, want %v", got, want)
	}
}

func TestToDBFS(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1, 0},
		{0.1, -20},
		{10, 20},
		{0, MinDBFS},
		{-1, MinDBFS},
		{1e-20, MinDBFS},
	}

	for _, tt := range tests {
		if got := ToDBFS(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ToDBFS(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAnalyze(t *testing.T) {
	r := Analyze([]float32{0.5, -1, 1.2, 0})

	if r.Samples != 4 || r.Clipped != 2 {
		t.Fatalf("Samples = %d, Clipped = %d", r.Samples, r.Clipped)
	}
	if math.Abs(r.Peak-1.2) > 1e-6 {
		t.Fatalf("Peak = %v, want 1.2", r.Peak)
	}
	if r.CrestDB <= 0 {
		t.Fatalf("CrestDB = %v, want > 0", r.CrestDB)
	}

	silent := Analyze(make([]float32, 16))
	if silent.PeakDBFS != MinDBFS || silent.CrestDB != 0 {
		t.Fatalf("silent report = %+v", silent)
	}
}

func TestToneAmplitude(t *testing.T) {
	tests := []struct {
		name      string
		freq      float64
		amplitude float64
		n         int
	}{
		{"440 Hz", 440, 0.3, 4800},
		{"1 kHz", 1000, 0.8, 4096},
		{"off grid", 1234.5, 0.5, 3000},
		{"high", 15000, 0.25, 4800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testutil.DeterministicSine(tt.freq, 48000, tt.amplitude, tt.n)

			got, err := ToneAmplitude(in, 48000, tt.freq)
			if err != nil {
				t.Fatalf("ToneAmplitude() error = %v", err)
			}
			if math.Abs(got-tt.amplitude) > 0.02*tt.amplitude {
				t.Fatalf("ToneAmplitude() = %v, want %v", got, tt.amplitude)
			}
		})
	}
}

func TestToneAmplitudeErrors(t *testing.T) {
	if _, err := ToneAmplitude(nil, 48000, 440); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty input error = %v, want ErrEmpty", err)
	}

	in := testutil.Ones(64)
	for _, f := range []float64{0, -5, 24000, 30000} {
		if _, err := ToneAmplitude(in, 48000, f); !errors.Is(err, ErrInvalidFrequency) {
			t.Errorf("freq %v error = %v, want ErrInvalidFrequency", f, err)
		}
	}
}

func TestToneAmplitudeThroughLowPass(t *testing.T) {
	const sr = 48000.0

	in := testutil.DeterministicSine(15000, sr, 1, 9600)
	s := biquad.NewLowPass(sr, 1000, 0.707)
	s.ProcessBlock(in)

	// Measure after the transient has died out.
	got, err := ToneAmplitude(in[4800:], sr, 15000)
	if err != nil {
		t.Fatal(err)
	}

	want := math.Sqrt(s.MagnitudeSquared(15000, sr))
	if math.Abs(got-want) > 0.05*want {
		t.Fatalf("attenuated amplitude = %v, analytic |H| = %v", got, want)
	}
}
