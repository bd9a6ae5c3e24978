// SPDX-License-Identifier: EPL-2.0

package sal

import (
	"fmt"
	"unsafe"
)

// Version is the library version, 1.0.0 packed as 0xMMMMmmmm.
const Version uint32 = 0x00010000

// Format is the PCM layout a device mixes in. There is exactly one per
// device and it never changes after creation.
type Format struct {
	Channels   int
	Bits       int
	SampleRate int
}

// DefaultFormat is 16-bit stereo at 44.1 kHz.
func DefaultFormat() Format {
	return Format{Channels: 2, Bits: 16, SampleRate: 44100}
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz/%d-bit/%dch", f.SampleRate, f.Bits, f.Channels)
}

func (f Format) validate() error {
	if f.Bits != 8 && f.Bits != 16 {
		return fmt.Errorf("%d bits per sample: %w", f.Bits, ErrInvalidFormat)
	}
	if f.Channels != 1 && f.Channels != 2 {
		return fmt.Errorf("%d channels: %w", f.Channels, ErrInvalidFormat)
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("sample rate %d: %w", f.SampleRate, ErrInvalidFormat)
	}

	return nil
}

// DeviceInfo describes the format a backend negotiated. Callers querying
// it through Device.GetInfo must stamp Size with DeviceInfoSize first.
type DeviceInfo struct {
	Size           uint32
	Channels       int
	Bits           int
	SampleRate     int
	BytesPerSample int
	BytesPerFrame  int
	Name           string
}

// DeviceInfoSize is the expected value of DeviceInfo.Size.
const DeviceInfoSize = uint32(unsafe.Sizeof(DeviceInfo{}))

// Format returns the PCM layout described by the info.
func (di DeviceInfo) Format() Format {
	return Format{Channels: di.Channels, Bits: di.Bits, SampleRate: di.SampleRate}
}

// FramesToBytes converts a frame count into a byte count in this format.
func (di DeviceInfo) FramesToBytes(frames int) int {
	return frames * di.BytesPerFrame
}

// Silence is the byte value of a silent sample: 0x80 for unsigned 8-bit
// data and 0 for signed 16-bit data.
func (di DeviceInfo) Silence() byte {
	if di.Bits == 8 {
		return 0x80
	}

	return 0
}

func (di *DeviceInfo) derive() {
	di.Size = DeviceInfoSize
	di.BytesPerSample = di.Bits / 8
	di.BytesPerFrame = di.BytesPerSample * di.Channels
}
