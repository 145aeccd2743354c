package audiofile

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

type wavDecoder struct{}

func (wavDecoder) Decode(r io.Reader) (*Clip, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("reading wav data: %w", err)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a WAV file", ErrInvalidFile)
	}

	dec.ReadInfo()

	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: WAV encoding %d is not integer PCM", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	return readPCM(dec, int(dec.BitDepth))
}

// WriteWAV encodes clip as integer PCM WAV of bitDepth (16, 24 or 32).
// Samples outside [-1, 1] are clamped.
func WriteWAV(w io.WriteSeeker, clip *Clip, bitDepth int) error {
	if err := clip.Validate(); err != nil {
		return err
	}

	data, err := toInts(clip.Samples[:clip.Frames()*clip.Channels], bitDepth)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(w, clip.SampleRate, bitDepth, clip.Channels, wavFormatPCM)

	buf := &goaudio.IntBuffer{
		Data: data,
		Format: &goaudio.Format{
			NumChannels: clip.Channels,
			SampleRate:  clip.SampleRate,
		},
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: write wav: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finish wav: %w", err)
	}

	return nil
}

// WriteFile creates (or truncates) path and writes clip to it as WAV.
func WriteFile(path string, clip *Clip, bitDepth int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("audiofile: %w", cerr)
		}
	}()

	return WriteWAV(f, clip, bitDepth)
}
