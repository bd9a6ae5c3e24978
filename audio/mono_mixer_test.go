// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/sal/internal/audiotest"
)

func TestMonoMixer_MonoPassthrough(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantSource(8000, 1, 100, 0.5)
	mixer := NewMonoMixer(src)

	buf := make([]float32, 10)
	n, err := mixer.ReadSamples(buf)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 10 {
		t.Errorf("ReadSamples() n = %d, want 10", n)
	}
	for i := range n {
		if buf[i] != 0.5 {
			t.Errorf("buf[%d] = %v, want 0.5", i, buf[i])
		}
	}
}

func TestMonoMixer_StereoToMono(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(8000, 2, 100, func(sample int, channel int) float32 {
		if channel == 0 {
			return 0.4
		}
		return 0.6
	})

	mixer := NewMonoMixer(src)
	if mixer.Channels() != 1 {
		t.Errorf("MonoMixer.Channels() = %d, want 1", mixer.Channels())
	}

	buf := make([]float32, 10)
	n, err := mixer.ReadSamples(buf)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 10 {
		t.Errorf("ReadSamples() n = %d, want 10", n)
	}
	for i := range n {
		if math.Abs(float64(buf[i]-0.5)) > 0.001 {
			t.Errorf("buf[%d] = %v, want 0.5", i, buf[i])
		}
	}
}

func TestMonoMixer_MultiChannel(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(8000, 4, 10, func(sample int, channel int) float32 {
		return float32(channel) * 0.2
	})

	buf := make([]float32, 10)
	n, err := NewMonoMixer(src).ReadSamples(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 10 {
		t.Fatalf("ReadSamples() n = %d, want 10", n)
	}
	if math.Abs(float64(buf[0]-0.3)) > 0.001 {
		t.Errorf("buf[0] = %v, want 0.3", buf[0])
	}
}

func TestMonoMixer_Seek(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(8000, 2, 100, 100)
	mixer := NewMonoMixer(src)

	if mixer.Length() != 100 {
		t.Errorf("Length() = %d, want 100", mixer.Length())
	}
	if err := mixer.SeekFrame(40); err != nil {
		t.Fatalf("SeekFrame() error = %v", err)
	}

	buf := make([]float32, 1)
	if _, err := mixer.ReadSamples(buf); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if math.Abs(float64(buf[0]-0.4)) > 0.001 {
		t.Errorf("buf[0] = %v, want 0.4", buf[0])
	}
}

func TestMonoMixer_EOF(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 2, 3)
	mixer := NewMonoMixer(src)

	buf := make([]float32, 10)
	n, err := mixer.ReadSamples(buf)
	if n != 3 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() = %d, %v, want 3, EOF", n, err)
	}

	n, err = mixer.ReadSamples(buf)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() = %d, %v, want 0, EOF", n, err)
	}

	if err := mixer.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !src.Closed {
		t.Error("Close() did not close the source")
	}
}
