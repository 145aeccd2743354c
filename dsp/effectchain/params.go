package effectchain

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-rtaudio/dsp/effects/dynamics"
	"github.com/cwbudde/algo-rtaudio/dsp/filter/biquad"
)

const (
	defaultFilterCutoffHz = 2000.0
	defaultFilterQ        = 0.707
)

// ErrInvalidParams is wrapped by Params.Validate.
var ErrInvalidParams = errors.New("effectchain: invalid parameters")

// Params is the full configuration surface of a Chain.
type Params struct {
	SampleRate float64
	Gain       GainParams
	Filter     FilterParams
	Compressor CompressorParams
}

// GainParams configures the gain stage.
type GainParams struct {
	Enabled bool
	GainDB  float64
}

// FilterParams configures the biquad stage.
type FilterParams struct {
	Enabled  bool
	Mode     biquad.Mode
	CutoffHz float64
	Q        float64
}

// CompressorParams configures the compressor stage. The sample rate is
// taken from Params.
type CompressorParams struct {
	Enabled     bool
	ThresholdDB float64
	Ratio       float64
	AttackMs    float64
	ReleaseMs   float64
}

// DefaultParams returns 0 dB gain, a 2 kHz lowpass at Q 0.707 and a
// -20 dB 4:1 compressor with 10/100 ms time constants, all disabled.
func DefaultParams(sampleRate float64) Params {
	comp := dynamics.DefaultCompressorParams(sampleRate)

	return Params{
		SampleRate: sampleRate,
		Gain:       GainParams{GainDB: 0},
		Filter: FilterParams{
			Mode:     biquad.ModeLowPass,
			CutoffHz: defaultFilterCutoffHz,
			Q:        defaultFilterQ,
		},
		Compressor: CompressorParams{
			ThresholdDB: comp.ThresholdDB,
			Ratio:       comp.Ratio,
			AttackMs:    comp.AttackMs,
			ReleaseMs:   comp.ReleaseMs,
		},
	}
}

// Validate checks the numeric domains the stages are defined on. Disabled
// stages are checked too, since enabling one must not need a re-validation.
func (p Params) Validate() error {
	if !finite(p.SampleRate) || p.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive and finite: %f", ErrInvalidParams, p.SampleRate)
	}

	if !finite(p.Gain.GainDB) {
		return fmt.Errorf("%w: gain must be finite: %f", ErrInvalidParams, p.Gain.GainDB)
	}

	if p.Filter.Mode != biquad.ModeLowPass && p.Filter.Mode != biquad.ModeHighPass {
		return fmt.Errorf("%w: filter mode %v", ErrInvalidParams, p.Filter.Mode)
	}

	if nyquist := p.SampleRate / 2; !finite(p.Filter.CutoffHz) || p.Filter.CutoffHz <= 0 || p.Filter.CutoffHz >= nyquist {
		return fmt.Errorf("%w: filter cutoff must be in (0, %g) Hz: %f", ErrInvalidParams, nyquist, p.Filter.CutoffHz)
	}

	if !finite(p.Filter.Q) || p.Filter.Q <= 0 {
		return fmt.Errorf("%w: filter Q must be > 0: %f", ErrInvalidParams, p.Filter.Q)
	}

	if err := p.Compressor.toDynamics(p.SampleRate).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	return nil
}

func (p *Params) setEnabled(stage Stage, on bool) {
	switch stage {
	case StageGain:
		p.Gain.Enabled = on
	case StageFilter:
		p.Filter.Enabled = on
	case StageCompressor:
		p.Compressor.Enabled = on
	}
}

func (p Params) enabled(stage Stage) bool {
	switch stage {
	case StageGain:
		return p.Gain.Enabled
	case StageFilter:
		return p.Filter.Enabled
	case StageCompressor:
		return p.Compressor.Enabled
	default:
		return false
	}
}

func (f FilterParams) coefficients(sampleRate float64) biquad.Coefficients {
	return biquad.Design(f.Mode, sampleRate, f.CutoffHz, f.Q)
}

func (c CompressorParams) toDynamics(sampleRate float64) dynamics.CompressorParams {
	return dynamics.CompressorParams{
		ThresholdDB: c.ThresholdDB,
		Ratio:       c.Ratio,
		AttackMs:    c.AttackMs,
		ReleaseMs:   c.ReleaseMs,
		SampleRate:  sampleRate,
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
