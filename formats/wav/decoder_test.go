// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/ik5/sal"
)

// createWAVFile builds a canonical 44-byte-header WAV image.
func createWAVFile(sampleRate, channels, bitsPerSample int, samples []int16) []byte {
	buf := new(bytes.Buffer)

	numChannels := uint16(channels)
	bits := uint16(bitsPerSample)
	byteRate := uint32(sampleRate) * uint32(numChannels) * uint32(bits/8)
	blockAlign := uint16(numChannels) * uint16(bits/8)
	dataSize := uint32(len(samples) * int(bits/8))
	riffSize := 36 + dataSize

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, riffSize)
	buf.WriteString("WAVE")

	// fmt chunk
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16)) // chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))  // PCM format
	binary.Write(buf, binary.LittleEndian, numChannels)
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, byteRate)
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, bits)

	// data chunk
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)

	for _, s := range samples {
		switch bits {
		case 8:
			buf.WriteByte(uint8(s))
		case 32:
			binary.Write(buf, binary.LittleEndian, int32(s))
		default:
			binary.Write(buf, binary.LittleEndian, s)
		}
	}

	return buf.Bytes()
}

func TestDecoder_ValidWAVFile(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 16384, -16384, 0}
	wavData := createWAVFile(8000, 1, 16, samples)

	src, err := Decoder{}.Decode(bytes.NewReader(wavData))
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}

	if src.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", src.SampleRate())
	}
	if src.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", src.Channels())
	}

	buf := make([]float32, 8)
	n, err := src.ReadSamples(buf)
	if n != 4 || !errors.Is(err, io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v, want 4, EOF", n, err)
	}
	if buf[1] != 0.5 || buf[2] != -0.5 {
		t.Errorf("ReadSamples() = %v, want [0 0.5 -0.5 0]", buf[:n])
	}
}

func TestDecoder_StereoWAVFile(t *testing.T) {
	t.Parallel()

	samples := []int16{100, 200, 300, 400, 500, 600}
	wavData := createWAVFile(44100, 2, 16, samples)

	src, err := Decoder{}.Decode(bytes.NewReader(wavData))
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}

	if src.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", src.SampleRate())
	}
	if src.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", src.Channels())
	}

	seekable, ok := src.(interface{ Length() int64 })
	if !ok {
		t.Fatalf("Decode() returned %T, want a seekable source", src)
	}
	if seekable.Length() != 3 {
		t.Errorf("Length() = %d, want 3", seekable.Length())
	}
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	wavData := createWAVFile(8000, 1, 16, []int16{1, 2, 3})

	// Wrapping hides the Seek method of bytes.Reader.
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(wavData)))
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}
	if src.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", src.Channels())
	}
}

func TestDecoder_NotWAVFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte("NOT A WAV FILE DATA")},
		{"truncated", []byte("RIFF\x00")},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrNotWavFile) {
				t.Errorf("Decode() error = %v, want %v", err, ErrNotWavFile)
			}
			if !errors.Is(err, sal.ErrInvalidFormat) {
				t.Errorf("Decode() error = %v, want it to wrap %v", err, sal.ErrInvalidFormat)
			}
		})
	}
}

func TestDecoder_UnsupportedBitDepth(t *testing.T) {
	t.Parallel()

	wavData := createWAVFile(8000, 1, 32, []int16{1, 2, 3})

	_, err := Decoder{}.Decode(bytes.NewReader(wavData))
	if !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("Decode() error = %v, want %v", err, ErrUnsupportedBitDepth)
	}
}
