// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/sal"
	"github.com/ik5/sal/backend/loopback"
	"github.com/ik5/sal/internal/audiotest"
)

func deviceInfo(channels, bits, rate int) sal.DeviceInfo {
	bps := bits / 8
	return sal.DeviceInfo{
		Size:           sal.DeviceInfoSize,
		Channels:       channels,
		Bits:           bits,
		SampleRate:     rate,
		BytesPerSample: bps,
		BytesPerFrame:  bps * channels,
	}
}

func TestWriter_RoundTrip16(t *testing.T) {
	t.Parallel()

	pcm := []byte{0x00, 0x40, 0x00, 0xC0, 0xFF, 0x7F, 0x00, 0x80}
	ws := &audiotest.WriteSeeker{}
	if err := Encode(ws, deviceInfo(2, 16, 16000), pcm); err != nil {
		t.Fatalf("Encode() error = %v, want nil", err)
	}

	data := ws.Bytes()
	if string(data[0:4]) != "RIFF" {
		t.Errorf("RIFF marker = %q, want \"RIFF\"", string(data[0:4]))
	}
	if string(data[8:12]) != "WAVE" {
		t.Errorf("WAVE marker = %q, want \"WAVE\"", string(data[8:12]))
	}
	if !bytes.HasSuffix(data, pcm) {
		t.Errorf("file does not end with the PCM payload")
	}

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 16000 || src.Channels() != 2 {
		t.Errorf("decoded %d Hz %d ch, want 16000 Hz 2 ch", src.SampleRate(), src.Channels())
	}

	buf := make([]float32, 8)
	n, err := src.ReadSamples(buf)
	if n != 4 || !errors.Is(err, io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v, want 4, EOF", n, err)
	}
	want := []float32{0.5, -0.5, 32767.0 / 32768.0, -1}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestWriter_RoundTrip8(t *testing.T) {
	t.Parallel()

	pcm := []byte{0, 128, 255}
	ws := &audiotest.WriteSeeker{}
	if err := Encode(ws, deviceInfo(1, 8, 8000), pcm); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	d, _, _ := audiotest.NewDevice(t, sal.Format{Channels: 1, Bits: 8, SampleRate: 8000}, 1)
	s, err := Loader{}.Load(d, ws.Bytes())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(s.Data(), pcm) {
		t.Errorf("Data() = %v, want %v", s.Data(), pcm)
	}
}

func TestWriter_EmptyRecording(t *testing.T) {
	t.Parallel()

	ws := &audiotest.WriteSeeker{}
	w := NewWriter(ws, deviceInfo(1, 16, 8000))
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data := ws.Bytes()
	if len(data) != 44 {
		t.Errorf("empty WAV is %d bytes, want 44", len(data))
	}
}

func TestWriter_PartialFrame(t *testing.T) {
	t.Parallel()

	w := NewWriter(&audiotest.WriteSeeker{}, deviceInfo(2, 16, 8000))
	if _, err := w.Write([]byte{1, 2, 3}); !errors.Is(err, ErrShortWrite) {
		t.Errorf("Write() error = %v, want %v", err, ErrShortWrite)
	}
}

func TestWriter_RecordsLoopback(t *testing.T) {
	t.Parallel()

	ws := &audiotest.WriteSeeker{}
	format := sal.Format{Channels: 1, Bits: 16, SampleRate: 8000}
	rec := NewWriter(ws, deviceInfo(1, 16, 8000))
	b := loopback.New(rec)

	d, err := sal.NewDevice(nil, &sal.SystemParams{Backend: b}, format, 2)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	s, err := Loader{}.Load(d, createWAVFile(8000, 1, 16, []int16{100, 200, 300}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := d.Play(s, sal.VolumeMax, sal.PanCenter, 0, 0, 2); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := b.Render(8); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	loaded, err := Loader{}.Load(d, ws.Bytes())
	if err != nil {
		t.Fatalf("Load(recording) error = %v", err)
	}
	got := loaded.Data()
	want := []byte{100, 0, 200, 0, 44, 1, 100, 0, 200, 0, 44, 1, 0, 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("recording = %v, want %v", got, want)
	}
}
