package audiofile

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type oggDecoder struct{}

func (oggDecoder) Decode(r io.Reader) (*Clip, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	return readOgg(dec)
}

// readOgg drains dec. Read fills whole frames and reports the number of
// samples it wrote.
func readOgg(dec oggReader) (*Clip, error) {
	channels := dec.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidFile, channels)
	}

	clip := &Clip{SampleRate: dec.SampleRate(), Channels: channels}
	buf := make([]float32, pcmChunk*channels)

	for {
		n, err := dec.Read(buf)
		clip.Samples = append(clip.Samples, buf[:n]...)

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}

		if n == 0 {
			break
		}
	}

	return clip, nil
}
