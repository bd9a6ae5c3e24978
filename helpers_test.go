// SPDX-License-Identifier: EPL-2.0

package sal

import (
	"errors"
	"testing"
)

func init() {
	DisableLog()
}

// stubBackend negotiates exactly the requested format and never mixes on
// its own; tests drive MixChunk directly.
type stubBackend struct {
	openErr  error
	startErr error
	override *DeviceInfo
	opened   int
	started  int
	closed   int
}

func (b *stubBackend) Open(d *Device, sp *SystemParams, want Format) (DeviceInfo, error) {
	b.opened++
	if b.openErr != nil {
		return DeviceInfo{}, b.openErr
	}
	if b.override != nil {
		return *b.override, nil
	}

	return DeviceInfo{
		Channels:   want.Channels,
		Bits:       want.Bits,
		SampleRate: want.SampleRate,
		Name:       "stub",
	}, nil
}

func (b *stubBackend) Start(d *Device) error {
	b.started++
	return b.startErr
}

func (b *stubBackend) Close() error {
	b.closed++
	return nil
}

func newTestDevice(t *testing.T, format Format, voices int) *Device {
	t.Helper()

	d, err := NewDevice(nil, &SystemParams{Backend: &stubBackend{}}, format, voices)
	if err != nil {
		t.Fatalf("NewDevice() error = %v, want nil", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	return d
}

// countingProvider is a PCM provider that counts Destroy calls.
type countingProvider struct {
	PCM
	destroyed int
}

func (p *countingProvider) Destroy(*Device, *Sample) {
	p.destroyed++
}

// newPCMSample creates a sample holding the given 16-bit values.
func newPCMSample(t *testing.T, d *Device, p SampleProvider, values ...int16) *Sample {
	t.Helper()

	s, err := d.NewSample(len(values), p, nil)
	if err != nil {
		t.Fatalf("NewSample() error = %v, want nil", err)
	}
	for i, v := range values {
		s.Data()[2*i] = byte(uint16(v))
		s.Data()[2*i+1] = byte(uint16(v) >> 8)
	}

	return s
}

func wantErr(t *testing.T, name string, got, want error) {
	t.Helper()

	if !errors.Is(got, want) {
		t.Errorf("%s error = %v, want %v", name, got, want)
	}
}
