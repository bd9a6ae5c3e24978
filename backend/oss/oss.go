// SPDX-License-Identifier: EPL-2.0

//go:build linux

package oss

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"github.com/decred/slog"
	"golang.org/x/sys/unix"

	"github.com/ik5/sal"
)

var log = slog.Disabled

// UseLogger sets the logger used by the package.
func UseLogger(logger slog.Logger) {
	log = logger
}

func init() {
	sal.RegisterBackend("oss", func() sal.Backend { return New() })
}

// DefaultDevice is opened when no device name is given.
const DefaultDevice = "/dev/dsp"

const fragments = 2

// Backend writes to an OSS DSP device.
type Backend struct {
	fd     int
	path   string
	buf    []byte
	thread sal.Thread
}

func New() *Backend {
	return &Backend{fd: -1}
}

func afmt(bits int) (int, error) {
	switch bits {
	case 8:
		return afmtU8, nil
	case 16:
		return afmtS16LE, nil
	}

	return 0, fmt.Errorf("oss: %d bits: %w", bits, sal.ErrInvalidFormat)
}

func afmtBits(f int) (int, error) {
	switch f {
	case afmtU8:
		return 8, nil
	case afmtS16LE:
		return 16, nil
	}

	return 0, fmt.Errorf("oss: negotiated format %#x: %w", f, sal.ErrInvalidFormat)
}

// fragmentArg encodes the SNDCTL_DSP_SETFRAGMENT argument: the fragment
// count in the high half and log2 of the fragment size, rounded up, in
// the low half.
func fragmentArg(count, size int) int {
	shift := bits.Len(uint(max(size, 16) - 1))
	return count<<16 | shift
}

func (b *Backend) Open(d *sal.Device, sp *sal.SystemParams, want sal.Format) (sal.DeviceInfo, error) {
	f, err := afmt(want.Bits)
	if err != nil {
		return sal.DeviceInfo{}, err
	}

	path := sp.DeviceName
	if path == "" || path == "default" {
		path = DefaultDevice
	}

	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return sal.DeviceInfo{}, fmt.Errorf("oss: opening %s: %w: %w", path, sal.ErrSystemFailure, err)
	}

	info, err := negotiate(d, fd, sp, want, f)
	if err != nil {
		_ = unix.Close(fd)
		return sal.DeviceInfo{}, fmt.Errorf("oss: %s: %w", path, err)
	}
	info.Name = path

	b.fd = fd
	b.path = path
	period := max(sp.BufferFrames(info.SampleRate)/fragments, 1)
	b.buf = make([]byte, period*info.Channels*info.Bits/8)

	log.Debugf("Opened %s: %v, %d byte periods", path, info.Format(), len(b.buf))

	return info, nil
}

// negotiate sets the fragment layout, then format, channels and rate, in
// the order OSS requires, and reads back what the driver accepted.
func negotiate(d *sal.Device, fd int, sp *sal.SystemParams, want sal.Format, f int) (sal.DeviceInfo, error) {
	frag := sp.BufferFrames(want.SampleRate) / fragments * want.Channels * want.Bits / 8
	if _, err := ioctlInt(fd, sndctlDspSetFragment, fragmentArg(fragments, frag)); err != nil {
		d.Warnf("oss: fragment size not set: %v", err)
	}

	gotFmt, err := ioctlInt(fd, sndctlDspSetFmt, f)
	if err != nil {
		return sal.DeviceInfo{}, fmt.Errorf("setting format: %w: %w", sal.ErrSystemFailure, err)
	}
	bitsPerSample, err := afmtBits(gotFmt)
	if err != nil {
		return sal.DeviceInfo{}, err
	}

	channels, err := ioctlInt(fd, sndctlDspChannels, want.Channels)
	if err != nil {
		return sal.DeviceInfo{}, fmt.Errorf("setting channels: %w: %w", sal.ErrSystemFailure, err)
	}

	rate, err := ioctlInt(fd, sndctlDspSpeed, want.SampleRate)
	if err != nil {
		return sal.DeviceInfo{}, fmt.Errorf("setting rate: %w: %w", sal.ErrSystemFailure, err)
	}

	info := sal.DeviceInfo{Channels: channels, Bits: bitsPerSample, SampleRate: rate}
	if info.Format() != want {
		d.Warnf("oss: asked for %v, driver gave %v", want, info.Format())
	}

	return info, nil
}

func (b *Backend) Start(d *sal.Device) error {
	th, err := d.Platform().Go(func(ctx context.Context) error {
		return b.run(ctx, d)
	})
	if err != nil {
		return fmt.Errorf("oss: starting delivery: %w: %w", sal.ErrSystemFailure, err)
	}
	b.thread = th

	return nil
}

func (b *Backend) run(ctx context.Context, d *sal.Device) error {
	for ctx.Err() == nil {
		if err := d.MixChunk(b.buf); err != nil {
			return err
		}

		if err := writeAll(b.fd, b.buf); err != nil {
			d.Errorf("oss: write to %s: %v", b.path, err)
			return fmt.Errorf("oss: write: %w: %w", sal.ErrSystemFailure, err)
		}
	}

	return ctx.Err()
}

func writeAll(fd int, p []byte) error {
	for len(p) > 0 {
		n, err := unix.Write(fd, p)
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			continue
		}
		if err != nil {
			return err
		}
		p = p[n:]
	}

	return nil
}

func (b *Backend) Close() error {
	var err error
	if b.thread != nil {
		err = b.thread.Stop()
		b.thread = nil
	}

	if b.fd >= 0 {
		if rerr := ioctlNone(b.fd, sndctlDspReset); rerr != nil {
			log.Debugf("Reset of %s failed: %v", b.path, rerr)
		}
		if cerr := unix.Close(b.fd); cerr != nil && err == nil {
			err = fmt.Errorf("oss: closing %s: %w: %w", b.path, sal.ErrSystemFailure, cerr)
		}
		b.fd = -1
	}

	return err
}
