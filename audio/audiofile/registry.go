package audiofile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Decoder turns a complete encoded stream into a Clip.
type Decoder interface {
	Decode(r io.Reader) (*Clip, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Decoder{
		"wav":  wavDecoder{},
		"wave": wavDecoder{},
		"aiff": aiffDecoder{},
		"aif":  aiffDecoder{},
		"mp3":  mp3Decoder{},
		"ogg":  oggDecoder{},
	}
)

// Register installs d for the format name (a file extension without the
// dot). An existing entry is replaced.
func Register(format string, d Decoder) {
	registryMu.Lock()
	defer registryMu.Unlock()

	registry[normalizeFormat(format)] = d
}

// Formats lists the registered format names in sorted order.
func Formats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	slices.Sort(out)

	return out
}

// DecoderFor returns the decoder registered for format.
func DecoderFor(format string) (Decoder, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	d, ok := registry[normalizeFormat(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return d, nil
}

// Decode reads all of r as the given format.
func Decode(r io.Reader, format string) (*Clip, error) {
	d, err := DecoderFor(format)
	if err != nil {
		return nil, err
	}

	clip, err := d.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode %s: %w", normalizeFormat(format), err)
	}

	return clip, nil
}

// ReadFile decodes the file at path, choosing the decoder by extension.
func ReadFile(path string) (*Clip, error) {
	format := filepath.Ext(path)
	if _, err := DecoderFor(format); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	defer f.Close()

	clip, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return clip, nil
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
}

// readSeeker returns r itself when it can seek, or buffers it fully. The
// go-audio decoders need to seek between chunks.
func readSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(data), nil
}
