package effectchain

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-rtaudio/dsp/effects/dynamics"
	"github.com/cwbudde/algo-rtaudio/dsp/filter/biquad"
)

func TestDefaultParams(t *testing.T) {
	t.Parallel()

	p := DefaultParams(44100)

	if p.SampleRate != 44100 {
		t.Errorf("SampleRate = %v", p.SampleRate)
	}
	if p.Gain.Enabled || p.Filter.Enabled || p.Compressor.Enabled {
		t.Error("default stages should be disabled")
	}
	if p.Gain.GainDB != 0 {
		t.Errorf("GainDB = %v, want 0", p.Gain.GainDB)
	}
	if p.Filter != (FilterParams{Mode: biquad.ModeLowPass, CutoffHz: 2000, Q: 0.707}) {
		t.Errorf("Filter = %+v", p.Filter)
	}
	if p.Compressor != (CompressorParams{ThresholdDB: -20, Ratio: 4, AttackMs: 10, ReleaseMs: 100}) {
		t.Errorf("Compressor = %+v", p.Compressor)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults", func(*Params) {}, false},
		{"highpass", func(p *Params) { p.Filter.Mode = biquad.ModeHighPass }, false},
		{"zero rate", func(p *Params) { p.SampleRate = 0 }, true},
		{"NaN gain", func(p *Params) { p.Gain.GainDB = math.NaN() }, true},
		{"unknown mode", func(p *Params) { p.Filter.Mode = biquad.Mode(5) }, true},
		{"cutoff at nyquist", func(p *Params) { p.Filter.CutoffHz = 24000 }, true},
		{"zero cutoff", func(p *Params) { p.Filter.CutoffHz = 0 }, true},
		{"zero q", func(p *Params) { p.Filter.Q = 0 }, true},
		{"ratio 1", func(p *Params) { p.Compressor.Ratio = 1 }, true},
		{"disabled stage still checked", func(p *Params) {
			p.Compressor.Enabled = false
			p.Compressor.AttackMs = -1
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := DefaultParams(48000)
			tt.mutate(&p)

			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("error %v does not wrap ErrInvalidParams", err)
			}
		})
	}
}

func TestParamsValidateWrapsCompressorError(t *testing.T) {
	t.Parallel()

	p := DefaultParams(48000)
	p.Compressor.ReleaseMs = 0

	if err := p.Validate(); !errors.Is(err, dynamics.ErrInvalidParams) {
		t.Fatalf("Validate() error = %v, want dynamics.ErrInvalidParams in chain", err)
	}
}
