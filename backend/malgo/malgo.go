// SPDX-License-Identifier: EPL-2.0

//go:build cgo

package malgo

import (
	"fmt"
	"sync"

	"github.com/decred/slog"
	"github.com/gen2brain/malgo"

	"github.com/ik5/sal"
)

var log = slog.Disabled

// UseLogger sets the logger used by the package.
func UseLogger(logger slog.Logger) {
	log = logger
}

func init() {
	sal.RegisterBackend("malgo", func() sal.Backend { return New() })
}

const periods = 2

// Backend is a sal.Backend on a miniaudio playback device. miniaudio
// pulls audio from its own thread, which calls Device.MixChunk directly.
type Backend struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	name   string

	mu      sync.Mutex
	dev     *sal.Device
	bpf     int
	silence byte
}

func New() *Backend {
	return &Backend{}
}

func malgoFormat(bits int) (malgo.FormatType, error) {
	switch bits {
	case 8:
		return malgo.FormatU8, nil
	case 16:
		return malgo.FormatS16, nil
	}

	return 0, fmt.Errorf("malgo: %d bits: %w", bits, sal.ErrInvalidFormat)
}

func formatBits(f malgo.FormatType) (int, error) {
	switch f {
	case malgo.FormatU8:
		return 8, nil
	case malgo.FormatS16:
		return 16, nil
	}

	return 0, fmt.Errorf("malgo: negotiated format %d: %w", f, sal.ErrInvalidFormat)
}

func deviceConfig(sp *sal.SystemParams, want sal.Format) (malgo.DeviceConfig, error) {
	f, err := malgoFormat(want.Bits)
	if err != nil {
		return malgo.DeviceConfig{}, err
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = f
	cfg.Playback.Channels = uint32(want.Channels)
	cfg.SampleRate = uint32(want.SampleRate)
	cfg.PeriodSizeInFrames = uint32(max(sp.BufferFrames(want.SampleRate)/periods, 1))
	cfg.Periods = periods
	cfg.Alsa.NoMMap = 1

	return cfg, nil
}

// findDevice returns the playback device called name.
func findDevice(ctx *malgo.AllocatedContext, name string) (malgo.DeviceInfo, error) {
	devices, err := ctx.Devices(malgo.Playback)
	if err != nil {
		return malgo.DeviceInfo{}, fmt.Errorf("listing devices: %w: %w", sal.ErrSystemFailure, err)
	}

	for _, info := range devices {
		if info.Name() == name {
			return info, nil
		}
	}

	return malgo.DeviceInfo{}, fmt.Errorf("no playback device %q: %w", name, sal.ErrInvalidParam)
}

func (b *Backend) Open(d *sal.Device, sp *sal.SystemParams, want sal.Format) (sal.DeviceInfo, error) {
	cfg, err := deviceConfig(sp, want)
	if err != nil {
		return sal.DeviceInfo{}, err
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		log.Tracef("miniaudio: %s", msg)
	})
	if err != nil {
		return sal.DeviceInfo{}, fmt.Errorf("malgo: init context: %w: %w", sal.ErrSystemFailure, err)
	}

	info, err := b.openDevice(ctx, cfg, sp.DeviceName)
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return sal.DeviceInfo{}, fmt.Errorf("malgo: %w", err)
	}
	b.ctx = ctx

	if info.Format() != want {
		d.Warnf("malgo: asked for %v, device gave %v", want, info.Format())
	}

	return info, nil
}

func (b *Backend) openDevice(ctx *malgo.AllocatedContext, cfg malgo.DeviceConfig, name string) (sal.DeviceInfo, error) {
	b.name = "default"
	if name != "" && name != "default" {
		dev, err := findDevice(ctx, name)
		if err != nil {
			return sal.DeviceInfo{}, err
		}
		cfg.Playback.DeviceID = dev.ID.Pointer()
		b.name = name
	}

	device, err := malgo.InitDevice(ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: b.data,
	})
	if err != nil {
		return sal.DeviceInfo{}, fmt.Errorf("init device: %w: %w", sal.ErrSystemFailure, err)
	}

	bits, err := formatBits(device.PlaybackFormat())
	if err != nil {
		device.Uninit()
		return sal.DeviceInfo{}, err
	}

	info := sal.DeviceInfo{
		Channels:   int(device.PlaybackChannels()),
		Bits:       bits,
		SampleRate: int(device.SampleRate()),
		Name:       b.name,
	}
	b.device = device
	b.bpf = info.Channels * bits / 8
	if bits == 8 {
		b.silence = 0x80
	}

	log.Debugf("Opened miniaudio device %q (%v)", b.name, info.Format())

	return info, nil
}

// data is the miniaudio callback. It renders silence until Start has
// attached the device and after Close has detached it.
func (b *Backend) data(out, _ []byte, frames uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := min(int(frames)*b.bpf, len(out))
	if b.dev == nil {
		fill(out[:n], b.silence)
		return
	}

	if err := b.dev.MixChunk(out[:n]); err != nil {
		log.Errorf("Mixing for %q: %v", b.name, err)
	}
}

func fill(p []byte, v byte) {
	for i := range p {
		p[i] = v
	}
}

func (b *Backend) Start(d *sal.Device) error {
	b.mu.Lock()
	b.dev = d
	b.mu.Unlock()

	if err := b.device.Start(); err != nil {
		return fmt.Errorf("malgo: start %q: %w: %w", b.name, sal.ErrSystemFailure, err)
	}

	return nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	b.dev = nil
	b.mu.Unlock()

	if b.device != nil {
		// Uninit stops the device and waits for the callback to return.
		b.device.Uninit()
		b.device = nil
	}

	var err error
	if b.ctx != nil {
		if uerr := b.ctx.Uninit(); uerr != nil {
			err = fmt.Errorf("malgo: uninit context: %w: %w", sal.ErrSystemFailure, uerr)
		}
		b.ctx.Free()
		b.ctx = nil
	}

	return err
}
