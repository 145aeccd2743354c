package audiofile

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
)

type aiffDecoder struct{}

func (aiffDecoder) Decode(r io.Reader) (*Clip, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, fmt.Errorf("reading aiff data: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not an AIFF file", ErrInvalidFile)
	}

	dec.ReadInfo()

	return readPCM(dec, int(dec.BitDepth))
}
