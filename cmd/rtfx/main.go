// Command rtfx runs audio through the Gain → Filter → Compressor chain.
//
// Usage:
//
//	rtfx [flags]
//
// Without -in it simulates the real-time path: a paced test tone is
// captured, queued through the lock-free ring, processed period by period
// and played into a paced sink until -duration elapses or the process is
// interrupted. With -in the file is rendered offline.
//
// Examples:
//
//	rtfx -duration 2s
//	rtfx -config rtfx.yaml -watch
//	rtfx -in voice.wav -out voice-fx.wav -bits 24
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-rtaudio/audio/audiofile"
	"github.com/cwbudde/algo-rtaudio/audio/device"
	"github.com/cwbudde/algo-rtaudio/dsp/effectchain"
	"github.com/cwbudde/algo-rtaudio/internal/config"
	"github.com/cwbudde/algo-rtaudio/internal/logging"
	"github.com/cwbudde/algo-rtaudio/measure/level"
	"github.com/cwbudde/algo-rtaudio/pipeline"
)

const defaultDuration = 5 * time.Second

// Frequencies at which the linear response of the chain is reported.
var responseFreqs = []float64{100, 1000, 4000, 10000}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type options struct {
	configPath string
	watch      bool
	in         string
	out        string
	duration   time.Duration
	toneHz     float64
	bits       int
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("rtfx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "YAML config file (defaults are used when empty)")
	fs.BoolVar(&o.watch, "watch", false, "reload -config on change and apply new effect parameters live")
	fs.StringVar(&o.in, "in", "", "render this audio file offline instead of the real-time tone")
	fs.StringVar(&o.out, "out", "", "write the processed audio to this WAV file")
	fs.DurationVar(&o.duration, "duration", 0, "real-time run length (default tone.duration or 5s)")
	fs.Float64Var(&o.toneHz, "tone-hz", 0, "test tone frequency in Hz (default tone.frequency_hz)")
	fs.IntVar(&o.bits, "bits", 16, "bit depth of -out: 16, 24 or 32")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: rtfx [flags]\n\n")
		fmt.Fprintf(stderr, "Runs audio through the gain, filter and compressor chain.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.watch && o.configPath == "" {
		return o, errors.New("-watch needs -config")
	}
	if o.duration < 0 {
		return o, fmt.Errorf("negative -duration %s", o.duration)
	}

	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	if opts.toneHz > 0 {
		cfg.Tone.FrequencyHz = opts.toneHz
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("-tone-hz: %w", err)
		}
	}

	log, err := logging.New(stderr, cfg.LoggingOptions())
	if err != nil {
		return err
	}

	var res *result
	if opts.in != "" {
		res, err = runBatch(ctx, cfg, opts, log)
	} else {
		res, err = runRealtime(ctx, cfg, opts, log)
	}

	if err != nil {
		return err
	}

	if opts.out != "" {
		if err := audiofile.WriteFile(opts.out, res.output, opts.bits); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.WithField("path", opts.out).Info("output written")
	}

	return printReport(stdout, res)
}

type result struct {
	mode   string
	chain  *effectchain.Chain
	stats  pipeline.Stats
	input  []float32
	output *audiofile.Clip
}

func pipelineOptions(cfg *config.Config, log logrus.FieldLogger) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Period = cfg.Audio.Period
	opts.RingCapacity = cfg.Audio.RingCapacity
	opts.PrefillPeriods = cfg.Audio.PrefillPeriods
	opts.Log = log

	return opts
}

func runBatch(ctx context.Context, cfg *config.Config, opts options, log logrus.FieldLogger) (*result, error) {
	clip, err := audiofile.ReadFile(opts.in)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	params, err := cfg.ChainParams()
	if err != nil {
		return nil, err
	}

	// The file decides the rate.
	params.SampleRate = float64(clip.SampleRate)
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("effects at %d Hz: %w", clip.SampleRate, err)
	}

	chain := effectchain.New(params.SampleRate)
	chain.Configure(params)

	log.WithFields(logrus.Fields{
		"path":     opts.in,
		"rate":     clip.SampleRate,
		"channels": clip.Channels,
		"duration": clip.Duration(),
	}).Info("rendering file")

	out, stats, err := pipeline.Batch(ctx, clip, chain, pipelineOptions(cfg, log))
	if err != nil {
		return nil, err
	}

	return &result{
		mode:   "batch",
		chain:  chain,
		stats:  stats,
		input:  clip.Mono().Samples,
		output: out,
	}, nil
}

func runRealtime(ctx context.Context, cfg *config.Config, opts options, log logrus.FieldLogger) (*result, error) {
	params, err := cfg.ChainParams()
	if err != nil {
		return nil, err
	}

	rate := params.SampleRate
	period := cfg.Audio.Period

	chain := effectchain.New(rate)
	chain.Configure(params)

	tone := device.NewToneSource(rate, cfg.Tone.FrequencyHz, float32(cfg.Tone.Amplitude), period, true)
	src := &tapSource{Source: tone}
	sink := device.NewCaptureSink(0, device.NewPacer(rate, period))

	defer src.Close()
	defer sink.Close()

	rt, err := pipeline.NewRealtime(chain, src, sink, pipelineOptions(cfg, log))
	if err != nil {
		return nil, err
	}

	duration := opts.duration
	if duration == 0 {
		duration = cfg.Tone.Duration
	}
	if duration == 0 {
		duration = defaultDuration
	}

	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	if opts.watch {
		updates, err := config.Watch(ctx, opts.configPath, log)
		if err != nil {
			return nil, err
		}

		go applyReloads(updates, rt, rate, log)
	}

	stats, err := rt.Run(ctx)
	if err != nil {
		return nil, err
	}

	return &result{
		mode:   "realtime",
		chain:  chain,
		stats:  stats,
		input:  src.tap,
		output: &audiofile.Clip{Samples: sink.Samples(), SampleRate: int(rate), Channels: 1},
	}, nil
}

// applyReloads forwards reloaded effect settings to rt. The stream layout
// is fixed for the lifetime of a run, so a changed rate is ignored.
func applyReloads(updates <-chan *config.Config, rt *pipeline.Realtime, rate float64, log logrus.FieldLogger) {
	for cfg := range updates {
		params, err := cfg.ChainParams()
		if err != nil {
			log.WithError(err).Warn("reload ignored")
			continue
		}

		if params.SampleRate != rate {
			log.WithFields(logrus.Fields{"running": rate, "configured": params.SampleRate}).
				Warn("sample rate change needs a restart, keeping the running rate")
			params.SampleRate = rate
		}

		if err := rt.Update(params); err != nil {
			log.WithError(err).Warn("reload ignored")
		}
	}
}

// tapSource records what it captures, for the input level report. Only the
// capture goroutine appends to tap; it is read after Run returns.
type tapSource struct {
	device.Source
	tap []float32
}

func (s *tapSource) ReadPeriod(ctx context.Context, dst []float32) (int, error) {
	n, err := s.Source.ReadPeriod(ctx, dst)
	if n > 0 {
		s.tap = append(s.tap, dst[:n]...)
	}
	return n, err
}

func printReport(w io.Writer, res *result) error {
	in := level.Analyze(res.input)
	out := level.Analyze(res.output.Samples)
	s := res.stats

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Mode\t%s\n", res.mode)
	fmt.Fprintf(tw, "Sample rate\t%g Hz\n", res.chain.SampleRate())
	fmt.Fprintf(tw, "Duration\t%s\n", res.output.Duration().Round(time.Millisecond))
	fmt.Fprintf(tw, "Periods\t%d\n", s.Periods)
	fmt.Fprintf(tw, "Overflows\t%d (%d samples dropped)\n", s.Overflows, s.DroppedSamples)
	fmt.Fprintf(tw, "Underruns\t%d (%d samples of silence)\n", s.Underruns, s.SilenceSamples)
	fmt.Fprintf(tw, "Parameter updates\t%d\n", s.ParamUpdates)
	fmt.Fprintf(tw, "Input peak / RMS\t%.1f / %.1f dBFS\n", in.PeakDBFS, in.RMSDBFS)
	fmt.Fprintf(tw, "Output peak / RMS\t%.1f / %.1f dBFS\n", out.PeakDBFS, out.RMSDBFS)
	fmt.Fprintf(tw, "Clipped samples\t%d\n", out.Clipped)

	var stages []string
	for _, st := range effectchain.Stages() {
		if res.chain.Enabled(st) {
			stages = append(stages, st.String())
		}
	}
	if len(stages) == 0 {
		stages = []string{"none"}
	}
	fmt.Fprintf(tw, "Stages\t%v\n", stages)

	for _, f := range responseFreqs {
		if f < res.chain.SampleRate()/2 {
			fmt.Fprintf(tw, "Response @ %g Hz\t%.1f dB\n", f, res.chain.MagnitudeDB(f))
		}
	}

	if res.chain.Enabled(effectchain.StageCompressor) {
		m := res.chain.Compressor().Metrics()
		fmt.Fprintf(tw, "Max gain reduction\t%.1f dB\n", m.GainReductionDB())
	}

	return tw.Flush()
}
