package audiofile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// go-mp3 always produces 16-bit little-endian interleaved stereo.
const mp3Channels = 2

type mp3Reader interface {
	io.Reader
	SampleRate() int
}

type mp3Decoder struct{}

func (mp3Decoder) Decode(r io.Reader) (*Clip, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	return readMP3(dec)
}

func readMP3(dec mp3Reader) (*Clip, error) {
	raw, err := io.ReadAll(dec)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	clip := &Clip{
		SampleRate: dec.SampleRate(),
		Channels:   mp3Channels,
		Samples:    make([]float32, len(raw)/2),
	}

	for i := range clip.Samples {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		clip.Samples[i] = float32(v) / 32768
	}

	return clip, nil
}
