package ring_test

import (
	"fmt"

	"github.com/cwbudde/algo-rtaudio/dsp/ring"
)

func ExampleBuffer() {
	rb, err := ring.New(8)
	if err != nil {
		panic(err)
	}

	written := rb.Write([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	fmt.Println("written:", written, "free:", rb.WriteAvailable())

	out := make([]float32, 3)
	n := rb.Read(out)
	fmt.Println("read:", out[:n], "left:", rb.ReadAvailable())

	// Output:
	// written: 8 free: 0
	// read: [1 2 3] left: 5
}
