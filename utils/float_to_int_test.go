// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{"zero", 0, 0},
		{"full scale", 1, math.MaxInt16},
		{"negative full scale", -1, -math.MaxInt16},
		{"half", 0.5, 16383},
		{"negative half", -0.5, -16383},
		{"small", 0.001, 32},
		{"clamp high", 1.5, math.MaxInt16},
		{"clamp low", -100, -math.MaxInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Float32ToInt16(tt.input); got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFloat32ToInt16Monotonic(t *testing.T) {
	t.Parallel()

	prev := Float32ToInt16(-1.0)
	for f := -0.99; f <= 1.0; f += 0.01 {
		curr := Float32ToInt16(float32(f))
		if curr < prev {
			t.Fatalf("Float32ToInt16(%v) = %v, below previous %v", f, curr, prev)
		}
		if neg := Float32ToInt16(float32(-f)); curr+neg > 1 || curr+neg < -1 {
			t.Errorf("Float32ToInt16 not symmetric at %v: %v vs %v", f, curr, neg)
		}
		prev = curr
	}
}

func TestFloat32ToUint8(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input float32
		want  uint8
	}{
		{0, 128},
		{1, 255},
		{-1, 1},
		{0.5, 191},
		{-0.5, 65},
		{3, 255},
		{-3, 1},
	}

	for _, tt := range tests {
		if got := Float32ToUint8(tt.input); got != tt.want {
			t.Errorf("Float32ToUint8(%v) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestFloatRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []int16{0, 1, -1, 1000, -1000, math.MaxInt16, math.MinInt16 + 1} {
		got := Float32ToInt16(Int16ToFloat32(v))
		if d := int(got) - int(v); d > 1 || d < -1 {
			t.Errorf("Float32ToInt16(Int16ToFloat32(%d)) = %d", v, got)
		}
	}

	for v := range 256 {
		got := Float32ToUint8(Uint8ToFloat32(uint8(v)))
		if d := int(got) - v; v > 0 && (d > 1 || d < -1) {
			t.Errorf("Float32ToUint8(Uint8ToFloat32(%d)) = %d", v, got)
		}
	}
}

func BenchmarkPutFloats(b *testing.B) {
	src := make([]float32, 512)
	for i := range src {
		src[i] = float32(i%200-100) / 100
	}
	dst := make([]byte, len(src)*2)

	b.ReportAllocs()
	for range b.N {
		PutFloats(dst, 16, src)
	}
}
