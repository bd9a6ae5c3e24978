// SPDX-License-Identifier: EPL-2.0

// Package tone synthesizes test tones as procedural samples.
package tone

import (
	"fmt"

	"github.com/ik5/sal"
	"github.com/ik5/sal/utils"
)

// Shape selects the waveform.
type Shape int

const (
	Square Shape = iota
	Sawtooth
)

func (s Shape) String() string {
	switch s {
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Tone describes a periodic waveform. Amplitude is in 16-bit units.
type Tone struct {
	Shape     Shape
	Frequency int
	Amplitude int16
}

// Default is a 440 Hz square wave at +-4000.
func Default() Tone {
	return Tone{Shape: Square, Frequency: 440, Amplitude: 4000}
}

// Period returns the length of one cycle in frames at rate.
func (t Tone) Period(rate int) int {
	return max(rate/t.Frequency, 1)
}

// At returns the value of frame n of the waveform at rate.
func (t Tone) At(n, rate int) int16 {
	period := t.Period(rate)
	phase := n % period
	if phase < 0 {
		phase += period
	}

	switch t.Shape {
	case Sawtooth:
		amp := int(t.Amplitude)
		if period == 1 {
			return int16(-amp)
		}
		return int16(-amp + 2*amp*phase/(period-1))
	default:
		if phase < period/2 {
			return t.Amplitude
		}
		return -t.Amplitude
	}
}

// New creates a procedural sample playing t on d. The voice cursor counts
// frames and the default loop region is one cycle, so playing with
// sal.LoopAlways sustains the tone.
func New(d *sal.Device, t Tone) (*sal.Sample, error) {
	if t.Frequency <= 0 || t.Frequency > d.Info().SampleRate/2 {
		return nil, fmt.Errorf("tone frequency %d Hz: %w", t.Frequency, sal.ErrInvalidParam)
	}

	return d.NewSample(0, provider{}, t, sal.WithLength(t.Period(d.Info().SampleRate)))
}

type provider struct{}

func (provider) Decode(v *sal.Voice, dst []byte) (bool, error) {
	t, ok := v.Sample().Args().(Tone)
	if !ok {
		return true, fmt.Errorf("tone: sample args are %T: %w", v.Sample().Args(), sal.ErrInvalidParam)
	}

	info := v.Device().Info()
	for off := 0; off+info.BytesPerFrame <= len(dst); off += info.BytesPerFrame {
		s := t.At(v.Cursor(), info.SampleRate)
		p := off
		for range info.Channels {
			p += utils.PutSample(dst[p:], info.Bits, s)
		}

		if !v.Advance(1) {
			return true, nil
		}
	}

	return false, nil
}

func (provider) Destroy(*sal.Device, *sal.Sample) {}
