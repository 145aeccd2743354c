package audiofile_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-rtaudio/audio/audiofile"
)

func ExampleWriteFile() {
	dir, err := os.MkdirTemp("", "audiofile")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "click.wav")
	clip := &audiofile.Clip{
		Samples:    []float32{0, 0.5, 0, -0.5},
		SampleRate: 8000,
		Channels:   1,
	}

	if err := audiofile.WriteFile(path, clip, 16); err != nil {
		panic(err)
	}

	back, err := audiofile.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fmt.Println(back.Frames(), back.SampleRate, back.Samples)
	// Output:
	// 4 8000 [0 0.5 0 -0.5]
}
