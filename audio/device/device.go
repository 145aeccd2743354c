package device

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed device.
var ErrClosed = errors.New("device: closed")

// Source delivers captured audio one period at a time.
//
// ReadPeriod blocks until dst is filled, the stream ends or ctx is done.
// It returns the number of samples written to dst. At the end of a finite
// stream it returns io.EOF, possibly together with a final short count.
type Source interface {
	ReadPeriod(ctx context.Context, dst []float32) (int, error)
	Close() error
}

// Sink consumes audio for playback one period at a time.
type Sink interface {
	WritePeriod(ctx context.Context, src []float32) (int, error)
	Close() error
}
