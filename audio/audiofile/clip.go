package audiofile

import (
	"fmt"
	"time"
)

// Clip is a decoded file held in memory. Samples are interleaved when
// Channels > 1.
type Clip struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Frames returns the number of sample instants.
func (c *Clip) Frames() int {
	if c.Channels <= 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the playing time of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// Validate reports ErrEmptyClip for a clip that cannot be played or written.
func (c *Clip) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrEmptyClip, c.SampleRate)
	case c.Channels <= 0:
		return fmt.Errorf("%w: %d channels", ErrEmptyClip, c.Channels)
	case c.Frames() == 0:
		return fmt.Errorf("%w: no frames", ErrEmptyClip)
	}
	return nil
}

// Mono returns a single-channel copy, averaging the channels of each frame.
// A mono clip is copied as is. A trailing partial frame is dropped.
func (c *Clip) Mono() *Clip {
	out := &Clip{SampleRate: c.SampleRate, Channels: 1}

	if c.Channels <= 1 {
		out.Samples = append([]float32(nil), c.Samples...)
		return out
	}

	frames := c.Frames()
	out.Samples = make([]float32, frames)
	scale := 1 / float32(c.Channels)

	for f := range frames {
		var sum float32
		for _, v := range c.Samples[f*c.Channels : (f+1)*c.Channels] {
			sum += v
		}
		out.Samples[f] = sum * scale
	}

	return out
}
