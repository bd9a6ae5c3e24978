// SPDX-License-Identifier: EPL-2.0

package loopback

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/decred/slog"

	"github.com/ik5/sal"
)

var log = slog.Disabled

// UseLogger sets the logger used by the package.
func UseLogger(logger slog.Logger) {
	log = logger
}

func init() {
	sal.RegisterBackend("loopback", func() sal.Backend {
		return New(io.Discard, WithPeriod(0))
	})
}

// Option configures a Backend.
type Option func(*Backend)

// WithPeriod starts a delivery goroutine that mixes one chunk every
// period. Zero picks half the device buffer length.
func WithPeriod(period time.Duration) Option {
	return func(b *Backend) {
		b.realtime = true
		b.period = period
	}
}

// WithName sets the device name reported in DeviceInfo.
func WithName(name string) Option {
	return func(b *Backend) {
		b.name = name
	}
}

// Backend is a sal.Backend writing PCM to an io.Writer.
type Backend struct {
	w        io.Writer
	name     string
	realtime bool
	period   time.Duration

	mu     sync.Mutex
	dev    *sal.Device
	frames int
	buf    []byte
	thread sal.Thread
	frameN int64
}

// New returns a backend writing to w.
func New(w io.Writer, opts ...Option) *Backend {
	b := &Backend{w: w, name: "loopback"}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *Backend) Open(d *sal.Device, sp *sal.SystemParams, want sal.Format) (sal.DeviceInfo, error) {
	if b.w == nil {
		return sal.DeviceInfo{}, fmt.Errorf("loopback: nil writer: %w", sal.ErrInvalidParam)
	}

	name := b.name
	if sp.DeviceName != "" {
		name = sp.DeviceName
	}

	// Deliver half a buffer per period, like the hardware backends.
	b.frames = max(sp.BufferFrames(want.SampleRate)/2, 1)
	if b.period == 0 {
		b.period = sp.BufferLength / 2
		if b.period <= 0 {
			b.period = sal.DefaultBufferLength / 2
		}
	}
	b.dev = d
	b.buf = make([]byte, b.frames*want.Channels*want.Bits/8)

	return sal.DeviceInfo{
		Channels:   want.Channels,
		Bits:       want.Bits,
		SampleRate: want.SampleRate,
		Name:       name,
	}, nil
}

func (b *Backend) Start(d *sal.Device) error {
	if !b.realtime {
		return nil
	}

	th, err := d.Platform().Go(b.run)
	if err != nil {
		return fmt.Errorf("loopback: starting delivery: %w: %w", sal.ErrSystemFailure, err)
	}
	b.thread = th

	return nil
}

func (b *Backend) run(ctx context.Context) error {
	ticker := time.NewTicker(b.period)
	defer ticker.Stop()

	log.Debugf("Delivering %d frames every %v", b.frames, b.period)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := b.Render(b.frames); err != nil {
			return err
		}
	}
}

// Render mixes frames frames and writes them out.
func (b *Backend) Render(frames int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.dev == nil {
		return fmt.Errorf("loopback: not open: %w", sal.ErrInvalidParam)
	}

	n := b.dev.Info().FramesToBytes(frames)
	if cap(b.buf) < n {
		b.buf = make([]byte, n)
	}
	buf := b.buf[:n]

	if err := b.dev.MixChunk(buf); err != nil {
		return err
	}
	if _, err := b.w.Write(buf); err != nil {
		return fmt.Errorf("loopback: write: %w: %w", sal.ErrSystemFailure, err)
	}
	b.frameN += int64(frames)

	return nil
}

// Frames returns the number of frames written so far.
func (b *Backend) Frames() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.frameN
}

func (b *Backend) Close() error {
	var err error
	if b.thread != nil {
		err = b.thread.Stop()
		b.thread = nil
	}

	b.mu.Lock()
	b.dev = nil
	b.mu.Unlock()

	return err
}
