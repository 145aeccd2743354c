// Package config loads the YAML configuration of the rtfx tool.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-rtaudio/dsp/core"
	"github.com/cwbudde/algo-rtaudio/dsp/effectchain"
	"github.com/cwbudde/algo-rtaudio/dsp/filter/biquad"
	"github.com/cwbudde/algo-rtaudio/internal/logging"
)

// ErrInvalidConfig is wrapped by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the top-level configuration.
type Config struct {
	Audio   AudioConfig   `yaml:"audio"`
	Effects EffectsConfig `yaml:"effects"`
	Tone    ToneConfig    `yaml:"tone"`
	Logging LoggingConfig `yaml:"logging"`
}

// AudioConfig sizes the stream and the ring between the two threads.
type AudioConfig struct {
	SampleRate     int `yaml:"sample_rate"`
	Period         int `yaml:"period"`
	RingCapacity   int `yaml:"ring_capacity"`
	PrefillPeriods int `yaml:"prefill_periods"`
}

// EffectsConfig holds one section per chain stage.
type EffectsConfig struct {
	Gain       GainConfig       `yaml:"gain"`
	Filter     FilterConfig     `yaml:"filter"`
	Compressor CompressorConfig `yaml:"compressor"`
}

// GainConfig configures the input gain stage.
type GainConfig struct {
	Enabled bool    `yaml:"enabled"`
	DB      float64 `yaml:"db"`
}

// FilterConfig configures the biquad stage. Mode is parsed by
// biquad.ParseMode.
type FilterConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Mode     string  `yaml:"mode"`
	CutoffHz float64 `yaml:"cutoff_hz"`
	Q        float64 `yaml:"q"`
}

// CompressorConfig configures the compressor stage.
type CompressorConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ThresholdDB float64 `yaml:"threshold_db"`
	Ratio       float64 `yaml:"ratio"`
	AttackMs    float64 `yaml:"attack_ms"`
	ReleaseMs   float64 `yaml:"release_ms"`
}

// ToneConfig drives the built-in test tone source.
type ToneConfig struct {
	FrequencyHz float64       `yaml:"frequency_hz"`
	Amplitude   float64       `yaml:"amplitude"`
	Duration    time.Duration `yaml:"duration"`
}

// LoggingConfig selects the log level and the encoding.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the stream layout of the passthrough tool: 48 kHz,
// 256-sample periods, an 8192-sample ring prefilled with four periods, a
// 440 Hz tone at 0.3 and every effect disabled.
func Default() *Config {
	stream := core.DefaultProcessorConfig()
	p := effectchain.DefaultParams(stream.SampleRate)

	return &Config{
		Audio: AudioConfig{
			SampleRate:     int(stream.SampleRate),
			Period:         stream.BlockSize,
			RingCapacity:   8192,
			PrefillPeriods: 4,
		},
		Effects: EffectsConfig{
			Gain: GainConfig{DB: p.Gain.GainDB},
			Filter: FilterConfig{
				Mode:     p.Filter.Mode.String(),
				CutoffHz: p.Filter.CutoffHz,
				Q:        p.Filter.Q,
			},
			Compressor: CompressorConfig{
				ThresholdDB: p.Compressor.ThresholdDB,
				Ratio:       p.Compressor.Ratio,
				AttackMs:    p.Compressor.AttackMs,
				ReleaseMs:   p.Compressor.ReleaseMs,
			},
		},
		Tone: ToneConfig{
			FrequencyHz: 440,
			Amplitude:   0.3,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads and validates the file at path. Keys missing from the file
// keep their Default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are an error.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the stream layout and the effect parameters.
func (c *Config) Validate() error {
	a := c.Audio

	if a.SampleRate <= 0 {
		return fmt.Errorf("%w: audio.sample_rate must be > 0: %d", ErrInvalidConfig, a.SampleRate)
	}
	if a.Period <= 0 {
		return fmt.Errorf("%w: audio.period must be > 0: %d", ErrInvalidConfig, a.Period)
	}
	if !core.IsPowerOfTwo(a.RingCapacity) {
		return fmt.Errorf("%w: audio.ring_capacity must be a power of two: %d", ErrInvalidConfig, a.RingCapacity)
	}
	if a.RingCapacity < 2*a.Period {
		return fmt.Errorf("%w: audio.ring_capacity %d holds fewer than two periods of %d",
			ErrInvalidConfig, a.RingCapacity, a.Period)
	}
	if a.PrefillPeriods < 0 || a.PrefillPeriods*a.Period > a.RingCapacity {
		return fmt.Errorf("%w: audio.prefill_periods %d does not fit the ring", ErrInvalidConfig, a.PrefillPeriods)
	}

	if c.Tone.FrequencyHz <= 0 || c.Tone.FrequencyHz >= float64(a.SampleRate)/2 {
		return fmt.Errorf("%w: tone.frequency_hz must be in (0, %d): %f",
			ErrInvalidConfig, a.SampleRate/2, c.Tone.FrequencyHz)
	}
	if c.Tone.Amplitude < 0 || c.Tone.Amplitude > 1 {
		return fmt.Errorf("%w: tone.amplitude must be in [0, 1]: %f", ErrInvalidConfig, c.Tone.Amplitude)
	}
	if c.Tone.Duration < 0 {
		return fmt.Errorf("%w: tone.duration must not be negative: %s", ErrInvalidConfig, c.Tone.Duration)
	}

	if _, err := logging.New(io.Discard, c.loggingOptions()); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalidConfig, err)
	}

	p, err := c.ChainParams()
	if err != nil {
		return err
	}

	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// ChainParams converts the effects section into chain parameters.
func (c *Config) ChainParams() (effectchain.Params, error) {
	mode, err := biquad.ParseMode(c.Effects.Filter.Mode)
	if err != nil {
		return effectchain.Params{}, fmt.Errorf("%w: effects.filter.mode: %w", ErrInvalidConfig, err)
	}

	e := c.Effects

	return effectchain.Params{
		SampleRate: float64(c.Audio.SampleRate),
		Gain: effectchain.GainParams{
			Enabled: e.Gain.Enabled,
			GainDB:  e.Gain.DB,
		},
		Filter: effectchain.FilterParams{
			Enabled:  e.Filter.Enabled,
			Mode:     mode,
			CutoffHz: e.Filter.CutoffHz,
			Q:        e.Filter.Q,
		},
		Compressor: effectchain.CompressorParams{
			Enabled:     e.Compressor.Enabled,
			ThresholdDB: e.Compressor.ThresholdDB,
			Ratio:       e.Compressor.Ratio,
			AttackMs:    e.Compressor.AttackMs,
			ReleaseMs:   e.Compressor.ReleaseMs,
		},
	}, nil
}

// ProcessorConfig returns the stream settings of the audio section.
func (c *Config) ProcessorConfig() core.ProcessorConfig {
	return core.ApplyProcessorOptions(
		core.WithSampleRate(float64(c.Audio.SampleRate)),
		core.WithBlockSize(c.Audio.Period),
	)
}

// LoggingOptions returns the options for logging.New.
func (c *Config) LoggingOptions() logging.Options { return c.loggingOptions() }

func (c *Config) loggingOptions() logging.Options {
	return logging.Options{Level: c.Logging.Level, JSON: c.Logging.JSON}
}
