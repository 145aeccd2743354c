package audiofile

import "errors"

var (
	// ErrUnsupportedFormat indicates no decoder is registered for the format.
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")

	// ErrInvalidFile indicates the data is not a valid file of the claimed format.
	ErrInvalidFile = errors.New("audiofile: invalid file")

	// ErrUnsupportedBitDepth indicates a PCM bit depth other than 16, 24 or 32.
	ErrUnsupportedBitDepth = errors.New("audiofile: unsupported bit depth")

	// ErrEmptyClip indicates a clip without samples, channels or sample rate.
	ErrEmptyClip = errors.New("audiofile: empty clip")
)
