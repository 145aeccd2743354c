package dynamics

import (
	"errors"
	"fmt"
	"math"
)

const (
	// Default compressor parameters
	defaultCompressorThresholdDB = -20.0
	defaultCompressorRatio       = 4.0
	defaultCompressorAttackMs    = 10.0
	defaultCompressorReleaseMs   = 100.0
)

// ErrInvalidParams is wrapped by CompressorParams.Validate.
var ErrInvalidParams = errors.New("dynamics: invalid compressor parameters")

// CompressorParams is the configuration surface of a Compressor.
type CompressorParams struct {
	ThresholdDB float64 // level above which gain is reduced
	Ratio       float64 // input:output slope above threshold
	AttackMs    float64 // envelope rise time constant
	ReleaseMs   float64 // envelope fall time constant
	SampleRate  float64 // Hz
}

// DefaultCompressorParams returns -20 dB, 4:1, 10 ms attack, 100 ms release.
func DefaultCompressorParams(sampleRate float64) CompressorParams {
	return CompressorParams{
		ThresholdDB: defaultCompressorThresholdDB,
		Ratio:       defaultCompressorRatio,
		AttackMs:    defaultCompressorAttackMs,
		ReleaseMs:   defaultCompressorReleaseMs,
		SampleRate:  sampleRate,
	}
}

// Validate reports whether p lies in the domain the gain computer is
// defined on. The compressor itself never calls it.
func (p CompressorParams) Validate() error {
	switch {
	case !isFinite(p.ThresholdDB):
		return fmt.Errorf("%w: threshold must be finite: %f", ErrInvalidParams, p.ThresholdDB)
	case !isFinite(p.Ratio) || p.Ratio <= 1:
		return fmt.Errorf("%w: ratio must be > 1: %f", ErrInvalidParams, p.Ratio)
	case !isFinite(p.AttackMs) || p.AttackMs <= 0:
		return fmt.Errorf("%w: attack must be > 0 ms: %f", ErrInvalidParams, p.AttackMs)
	case !isFinite(p.ReleaseMs) || p.ReleaseMs <= 0:
		return fmt.Errorf("%w: release must be > 0 ms: %f", ErrInvalidParams, p.ReleaseMs)
	case !isFinite(p.SampleRate) || p.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive and finite: %f", ErrInvalidParams, p.SampleRate)
	}

	return nil
}

// CompressorMetrics holds metering information since the last ResetMetrics.
type CompressorMetrics struct {
	InputPeak  float32 // largest input magnitude
	OutputPeak float32 // largest output magnitude
	MinGain    float32 // smallest applied gain (largest reduction)
}

// GainReductionDB returns the largest reduction as a non-negative dB value.
func (m CompressorMetrics) GainReductionDB() float64 {
	if m.MinGain <= 0 || m.MinGain >= 1 {
		return 0
	}

	return -20 * math.Log10(float64(m.MinGain))
}

// Compressor is a mono feed-forward compressor.
//
// Per sample, the envelope moves toward |x| with the attack coefficient
// when rising and the release coefficient when falling:
//
//	env = coef*env + (1-coef)*|x|
//
// Above the linear threshold T the gain is (env/T)^(1/ratio - 1), so a
// steady input of magnitude M settles at T*(M/T)^(1/ratio).
//
// Not safe for concurrent use.
type Compressor struct {
	params CompressorParams

	// Cached from params
	threshold    float32
	exponent     float64 // 1/ratio - 1
	attackCoeff  float32
	releaseCoeff float32

	envelope float32

	metrics CompressorMetrics
}

// NewCompressor returns a Compressor configured with p and a zero envelope.
// p is not validated.
func NewCompressor(p CompressorParams) *Compressor {
	c := &Compressor{}
	c.Configure(p)
	c.ResetMetrics()

	return c
}

// Configure recomputes the cached coefficients. The envelope is kept.
func (c *Compressor) Configure(p CompressorParams) {
	c.params = p
	c.threshold = float32(mathPower10(p.ThresholdDB / 20))
	c.exponent = 1/p.Ratio - 1
	c.attackCoeff = timeConstant(p.AttackMs, p.SampleRate)
	c.releaseCoeff = timeConstant(p.ReleaseMs, p.SampleRate)
}

// Params returns the current configuration.
func (c *Compressor) Params() CompressorParams { return c.params }

// Threshold returns the linear threshold.
func (c *Compressor) Threshold() float32 { return c.threshold }

// Envelope returns the current envelope value.
func (c *Compressor) Envelope() float32 { return c.envelope }

// AttackCoeff returns exp(-1/(attack_ms*0.001*rate)).
func (c *Compressor) AttackCoeff() float32 { return c.attackCoeff }

// ReleaseCoeff returns exp(-1/(release_ms*0.001*rate)).
func (c *Compressor) ReleaseCoeff() float32 { return c.releaseCoeff }

// GainForLevel evaluates the static gain curve at envelope level env.
func (c *Compressor) GainForLevel(env float32) float32 {
	if env <= c.threshold {
		return 1
	}

	return float32(mathPow(float64(env/c.threshold), c.exponent))
}

// ProcessSample compresses one sample.
func (c *Compressor) ProcessSample(x float32) float32 {
	level := abs32(x)

	coeff := c.releaseCoeff
	if level > c.envelope {
		coeff = c.attackCoeff
	}

	c.envelope = coeff*c.envelope + (1-coeff)*level

	gain := c.GainForLevel(c.envelope)
	y := x * gain

	c.updateMetrics(level, abs32(y), gain)

	return y
}

// Process compresses block in place.
func (c *Compressor) Process(block []float32) {
	for i, x := range block {
		block[i] = c.ProcessSample(x)
	}

	if c.envelope < envelopeFloor {
		c.envelope = 0
	}
}

// Reset clears the envelope. Metrics are kept; see ResetMetrics.
func (c *Compressor) Reset() {
	c.envelope = 0
}

// Metrics returns metering values since the last ResetMetrics.
func (c *Compressor) Metrics() CompressorMetrics {
	return c.metrics
}

// ResetMetrics clears metering state.
func (c *Compressor) ResetMetrics() {
	c.metrics = CompressorMetrics{MinGain: 1}
}

func (c *Compressor) updateMetrics(in, out, gain float32) {
	if in > c.metrics.InputPeak {
		c.metrics.InputPeak = in
	}

	if out > c.metrics.OutputPeak {
		c.metrics.OutputPeak = out
	}

	if gain < c.metrics.MinGain {
		c.metrics.MinGain = gain
	}
}

// envelopeFloor is where a decaying envelope is snapped to zero so the
// release tail never goes subnormal.
const envelopeFloor = 1e-25

func timeConstant(ms, sampleRate float64) float32 {
	return float32(mathExp(-1 / (ms * 0.001 * sampleRate)))
}

func abs32(x float32) float32 {
	return math.Float32frombits(math.Float32bits(x) &^ (1 << 31))
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
