package audiofile

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/cwbudde/algo-rtaudio/dsp/core"
)

// pcmReader is the part of the go-audio wav and aiff decoders used here.
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

const pcmChunk = 4096

// readPCM drains dec into a Clip, scaling integers of bitDepth to [-1, 1).
func readPCM(dec pcmReader, bitDepth int) (*Clip, error) {
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing format", ErrInvalidFile)
	}

	clip := &Clip{SampleRate: format.SampleRate, Channels: format.NumChannels}
	buf := &goaudio.IntBuffer{
		Data:           make([]int, pcmChunk*format.NumChannels),
		Format:         format,
		SourceBitDepth: bitDepth,
	}

	for {
		n, err := dec.PCMBuffer(buf)
		for _, v := range buf.Data[:n] {
			clip.Samples = append(clip.Samples, float32(v)/scale)
		}

		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}

		if n == 0 || err != nil {
			break
		}
	}

	return clip, nil
}

func fullScale(bitDepth int) (float32, error) {
	switch bitDepth {
	case 16:
		return 1 << 15, nil
	case 24:
		return 1 << 23, nil
	case 32:
		return 1 << 31, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// toInts converts samples to integers of bitDepth, clamping to [-1, 1].
func toInts(samples []float32, bitDepth int) ([]int, error) {
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	maxInt := int(scale) - 1
	out := make([]int, len(samples))

	for i, x := range samples {
		v := int(float64(core.Clamp(x, -1, 1)) * float64(scale))
		out[i] = min(v, maxInt)
	}

	return out, nil
}
