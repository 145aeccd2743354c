package biquad

import (
	"fmt"
	"testing"
)

func BenchmarkProcessSample(b *testing.B) {
	s := NewLowPass(48000, 2000, 0.707)

	var x float32 = 1
	for b.Loop() {
		x = s.ProcessSample(x)
	}
	_ = x
}

func BenchmarkProcessBlock(b *testing.B) {
	for _, size := range []int{64, 256, 1024} {
		b.Run(fmt.Sprintf("N=%d", size), func(b *testing.B) {
			s := NewHighPass(48000, 120, 0.707)

			buf := make([]float32, size)
			for i := range buf {
				buf[i] = float32(i%97) * 0.01
			}

			b.SetBytes(int64(size * 4))
			b.ResetTimer()

			for range b.N {
				s.ProcessBlock(buf)
			}
		})
	}
}

func BenchmarkDesign(b *testing.B) {
	var c Coefficients
	for b.Loop() {
		c = Design(ModeLowPass, 48000, 2000, 0.707)
	}
	_ = c
}
