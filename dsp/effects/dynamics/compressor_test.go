package dynamics

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-rtaudio/internal/testutil"
)

func TestDefaultCompressorParams(t *testing.T) {
	p := DefaultCompressorParams(48000)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"ThresholdDB", p.ThresholdDB, -20},
		{"Ratio", p.Ratio, 4},
		{"AttackMs", p.AttackMs, 10},
		{"ReleaseMs", p.ReleaseMs, 100},
		{"SampleRate", p.SampleRate, 48000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %f, want %f", tt.name, tt.got, tt.want)
			}
		})
	}

	if err := p.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestCompressorParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CompressorParams)
		wantErr bool
	}{
		{"defaults", func(*CompressorParams) {}, false},
		{"positive threshold", func(p *CompressorParams) { p.ThresholdDB = 6 }, false},
		{"NaN threshold", func(p *CompressorParams) { p.ThresholdDB = math.NaN() }, true},
		{"ratio 1", func(p *CompressorParams) { p.Ratio = 1 }, true},
		{"ratio 0.5", func(p *CompressorParams) { p.Ratio = 0.5 }, true},
		{"ratio +Inf", func(p *CompressorParams) { p.Ratio = math.Inf(1) }, true},
		{"zero attack", func(p *CompressorParams) { p.AttackMs = 0 }, true},
		{"negative release", func(p *CompressorParams) { p.ReleaseMs = -1 }, true},
		{"zero rate", func(p *CompressorParams) { p.SampleRate = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultCompressorParams(48000)
			tt.mutate(&p)

			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("Validate() error %v does not wrap ErrInvalidParams", err)
			}
		})
	}
}

func TestCompressorCoefficients(t *testing.T) {
	c := NewCompressor(DefaultCompressorParams(48000))

	if got := c.Threshold(); math.Abs(float64(got)-0.1) > 1e-7 {
		t.Errorf("Threshold() = %v, want 0.1", got)
	}

	wantAttack := math.Exp(-1 / (10 * 0.001 * 48000))
	if got := c.AttackCoeff(); math.Abs(float64(got)-wantAttack) > 1e-7 {
		t.Errorf("AttackCoeff() = %v, want %v", got, wantAttack)
	}

	wantRelease := math.Exp(-1 / (100 * 0.001 * 48000))
	if got := c.ReleaseCoeff(); math.Abs(float64(got)-wantRelease) > 1e-7 {
		t.Errorf("ReleaseCoeff() = %v, want %v", got, wantRelease)
	}

	if c.Envelope() != 0 {
		t.Errorf("initial envelope = %v, want 0", c.Envelope())
	}
}

func TestCompressorSteadyStateAboveThreshold(t *testing.T) {
	tests := []struct {
		name        string
		thresholdDB float64
		ratio       float64
		magnitude   float32
	}{
		{"defaults", -20, 4, 0.5},
		{"gentle", -12, 2, 0.9},
		{"hard", -30, 10, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultCompressorParams(48000)
			p.ThresholdDB = tt.thresholdDB
			p.Ratio = tt.ratio
			c := NewCompressor(p)

			// Alternating sign keeps the magnitude constant.
			block := make([]float32, 48000)
			for i := range block {
				block[i] = tt.magnitude
				if i%2 == 1 {
					block[i] = -tt.magnitude
				}
			}

			c.Process(block)

			thr := math.Pow(10, tt.thresholdDB/20)
			want := math.Pow(float64(tt.magnitude)/thr, 1/tt.ratio)
			got := math.Abs(float64(block[len(block)-1])) / thr

			if math.Abs(got-want) > 1e-3*want {
				t.Fatalf("output/T = %v, want (M/T)^(1/ratio) = %v", got, want)
			}
		})
	}
}

func TestCompressorBelowThresholdIsUnity(t *testing.T) {
	c := NewCompressor(DefaultCompressorParams(48000))
	in := testutil.DeterministicSine(440, 48000, 0.05, 4800)
	out := append([]float32(nil), in...)

	c.Process(out)

	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestCompressorEnvelopeNeverExceedsInputPeak(t *testing.T) {
	c := NewCompressor(DefaultCompressorParams(48000))
	block := testutil.DeterministicNoise(9, 0.8, 9600)

	for _, x := range block {
		c.ProcessSample(x)
		if c.Envelope() > 0.8+1e-6 {
			t.Fatalf("envelope %v above input peak", c.Envelope())
		}
	}
}

func TestCompressorRelease(t *testing.T) {
	c := NewCompressor(DefaultCompressorParams(48000))
	c.Process(testutil.DC(0.5, 48000))

	start := float64(c.Envelope())

	// 100 ms of silence is one release time constant.
	c.Process(make([]float32, 4800))

	want := start * math.Exp(-1)
	if got := float64(c.Envelope()); math.Abs(got-want) > 1e-3 {
		t.Fatalf("envelope after one release time constant = %v, want %v", got, want)
	}
}

func TestCompressorBlockSplitContinuity(t *testing.T) {
	in := testutil.DeterministicNoise(21, 0.9, 3000)

	whole := append([]float32(nil), in...)
	NewCompressor(DefaultCompressorParams(48000)).Process(whole)

	split := append([]float32(nil), in...)
	c := NewCompressor(DefaultCompressorParams(48000))
	for _, block := range testutil.Blocks(split, 128) {
		c.Process(block)
	}

	testutil.RequireSliceNearlyEqual(t, split, whole, 0)
}

func TestCompressorConfigureKeepsEnvelope(t *testing.T) {
	c := NewCompressor(DefaultCompressorParams(48000))
	c.Process(testutil.DC(0.7, 1000))
	before := c.Envelope()

	p := c.Params()
	p.Ratio = 8
	p.ThresholdDB = -6
	c.Configure(p)

	if c.Envelope() != before {
		t.Fatalf("Configure changed envelope: %v -> %v", before, c.Envelope())
	}
	if c.Params() != p {
		t.Fatalf("Params() = %+v, want %+v", c.Params(), p)
	}
}

func TestCompressorReset(t *testing.T) {
	c := NewCompressor(DefaultCompressorParams(48000))
	c.Process(testutil.DC(0.7, 1000))

	c.Reset()

	if c.Envelope() != 0 {
		t.Fatalf("Envelope() after Reset = %v, want 0", c.Envelope())
	}
}

func TestGainForLevel(t *testing.T) {
	c := NewCompressor(DefaultCompressorParams(48000))

	if g := c.GainForLevel(0.05); g != 1 {
		t.Fatalf("gain below threshold = %v, want 1", g)
	}
	if g := c.GainForLevel(c.Threshold()); g != 1 {
		t.Fatalf("gain at threshold = %v, want 1", g)
	}

	prev := float32(1)
	for _, level := range []float32{0.11, 0.2, 0.5, 1, 2} {
		g := c.GainForLevel(level)
		if g > prev || g <= 0 {
			t.Fatalf("gain %v at level %v not in (0, %v]", g, level, prev)
		}
		prev = g
	}

	// 20 dB over threshold at 4:1 is 15 dB of reduction.
	if g := c.GainForLevel(1); math.Abs(20*math.Log10(float64(g))+15) > 1e-3 {
		t.Fatalf("gain at 0 dBFS = %v dB, want -15 dB", 20*math.Log10(float64(g)))
	}
}

func TestCompressorMetrics(t *testing.T) {
	c := NewCompressor(DefaultCompressorParams(48000))
	c.Process(testutil.DC(1, 48000))

	m := c.Metrics()
	if m.InputPeak != 1 {
		t.Errorf("InputPeak = %v, want 1", m.InputPeak)
	}
	// The envelope starts at zero, so the first samples pass untouched.
	if m.OutputPeak != 1 {
		t.Errorf("OutputPeak = %v, want 1", m.OutputPeak)
	}
	if db := m.GainReductionDB(); math.Abs(db-15) > 0.05 {
		t.Errorf("GainReductionDB() = %v, want ~15", db)
	}

	c.ResetMetrics()
	if got := c.Metrics(); got != (CompressorMetrics{MinGain: 1}) {
		t.Errorf("Metrics() after ResetMetrics = %+v", got)
	}
	if got := c.Metrics().GainReductionDB(); got != 0 {
		t.Errorf("GainReductionDB() with no reduction = %v, want 0", got)
	}
}
