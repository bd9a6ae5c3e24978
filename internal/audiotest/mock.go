// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fixtures shared by the package tests: synthetic
// seekable sources and loopback-backed devices.
package audiotest

import (
	"errors"
	"io"
)

// ErrInjected is returned by reads that were told to fail.
var ErrInjected = errors.New("audiotest: injected read failure")

// Waveform returns the value of one channel of one frame.
type Waveform func(frame, channel int) float32

// MockSource generates frames from a Waveform. It satisfies
// audio.SeekableSource without importing the audio package.
type MockSource struct {
	rate     int
	channels int
	frames   int
	pos      int
	wave     Waveform

	// FailReads makes the next reads return ErrInjected.
	FailReads int
	// HideLength makes Length report an unknown length.
	HideLength bool

	Seeks  int
	Closed bool
}

// NewMockSource creates a source of frames frames.
func NewMockSource(rate, channels, frames int, wave Waveform) *MockSource {
	return &MockSource{rate: rate, channels: channels, frames: frames, wave: wave}
}

func NewSilentSource(rate, channels, frames int) *MockSource {
	return NewConstantSource(rate, channels, frames, 0)
}

func NewConstantSource(rate, channels, frames int, value float32) *MockSource {
	return NewMockSource(rate, channels, frames, func(int, int) float32 { return value })
}

// NewRampSource holds frame/scale on every channel of each frame, so
// cursor positions can be read back from converted output.
func NewRampSource(rate, channels, frames int, scale float32) *MockSource {
	return NewMockSource(rate, channels, frames, func(frame, _ int) float32 {
		return float32(frame) / scale
	})
}

func (m *MockSource) SampleRate() int { return m.rate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.Closed = true
	return nil
}

// Position returns the next frame to be generated.
func (m *MockSource) Position() int { return m.pos }

func (m *MockSource) SeekFrame(frame int64) error {
	if frame < 0 || frame > int64(m.frames) {
		return io.ErrUnexpectedEOF
	}
	m.Seeks++
	m.pos = int(frame)

	return nil
}

func (m *MockSource) Length() int64 {
	if m.HideLength {
		return 0
	}

	return int64(m.frames)
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.FailReads > 0 {
		m.FailReads--
		return 0, ErrInjected
	}
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/m.channels, m.frames-m.pos)
	for f := range n {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.wave(m.pos+f, ch)
		}
	}
	m.pos += n

	if m.pos >= m.frames {
		return n * m.channels, io.EOF
	}

	return n * m.channels, nil
}
