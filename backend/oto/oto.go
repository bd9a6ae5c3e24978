// SPDX-License-Identifier: EPL-2.0

//go:build !linux || cgo

package oto

import (
	"fmt"
	"sync"

	"github.com/decred/slog"
	"github.com/ebitengine/oto/v3"

	"github.com/ik5/sal"
)

var log = slog.Disabled

// UseLogger sets the logger used by the package.
func UseLogger(logger slog.Logger) {
	log = logger
}

func init() {
	sal.RegisterBackend("oto", func() sal.Backend { return New() })
}

// shared is the process wide oto context.
var shared struct {
	mu     sync.Mutex
	ctx    *oto.Context
	format sal.Format
	inUse  bool
}

func otoFormat(bits int) (oto.Format, error) {
	switch bits {
	case 8:
		return oto.FormatUnsignedInt8, nil
	case 16:
		return oto.FormatSignedInt16LE, nil
	}

	return 0, fmt.Errorf("oto: %d bits: %w", bits, sal.ErrInvalidFormat)
}

// acquire returns the shared context, creating it with format on first
// use.
func acquire(sp *sal.SystemParams, format sal.Format) (*oto.Context, sal.Format, error) {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.inUse {
		return nil, sal.Format{}, fmt.Errorf("oto: context held by another device: %w", sal.ErrAlreadyLocked)
	}

	if shared.ctx == nil {
		f, err := otoFormat(format.Bits)
		if err != nil {
			return nil, sal.Format{}, err
		}

		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       f,
			BufferSize:   sp.BufferLength,
		})
		if err != nil {
			return nil, sal.Format{}, fmt.Errorf("oto: new context: %w: %w", sal.ErrSystemFailure, err)
		}
		<-ready

		shared.ctx = ctx
		shared.format = format
	} else if err := shared.ctx.Resume(); err != nil {
		return nil, sal.Format{}, fmt.Errorf("oto: resume: %w: %w", sal.ErrSystemFailure, err)
	}

	shared.inUse = true

	return shared.ctx, shared.format, nil
}

func release() {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.ctx != nil {
		if err := shared.ctx.Suspend(); err != nil {
			log.Debugf("Suspending oto context: %v", err)
		}
	}
	shared.inUse = false
}

// Backend is a sal.Backend on an oto player. The player pulls audio
// through Read from oto's own goroutine.
type Backend struct {
	player *oto.Player
	frames int

	mu      sync.Mutex
	dev     *sal.Device
	bpf     int
	silence byte
	buf     []byte
	pending []byte
}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Open(d *sal.Device, sp *sal.SystemParams, want sal.Format) (sal.DeviceInfo, error) {
	if _, err := otoFormat(want.Bits); err != nil {
		return sal.DeviceInfo{}, err
	}

	ctx, got, err := acquire(sp, want)
	if err != nil {
		return sal.DeviceInfo{}, err
	}
	if got != want {
		d.Warnf("oto: context already runs at %v, asked for %v", got, want)
	}

	info := sal.DeviceInfo{
		Channels:   got.Channels,
		Bits:       got.Bits,
		SampleRate: got.SampleRate,
		Name:       "oto",
	}
	b.setFormat(info)
	b.frames = max(sp.BufferFrames(got.SampleRate)/2, 1)
	b.player = ctx.NewPlayer(b)
	b.player.SetBufferSize(b.frames * b.bpf)

	log.Debugf("Opened oto player (%v, %d frame buffer)", got, b.frames)

	return info, nil
}

func (b *Backend) setFormat(info sal.DeviceInfo) {
	b.bpf = info.Channels * info.Bits / 8
	b.silence = 0
	if info.Bits == 8 {
		b.silence = 0x80
	}
}

func (b *Backend) Start(d *sal.Device) error {
	b.mu.Lock()
	b.dev = d
	b.mu.Unlock()

	b.player.Play()

	return nil
}

// Read mixes whole frames and hands them out in the sizes oto asks for.
// Without an attached device it reads silence.
func (b *Backend) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.dev == nil || b.bpf == 0 {
		fill(p, b.silence)
		return len(p), nil
	}

	n := 0
	for n < len(p) {
		if len(b.pending) == 0 {
			frames := (len(p) - n + b.bpf - 1) / b.bpf
			size := frames * b.bpf
			if cap(b.buf) < size {
				b.buf = make([]byte, size)
			}
			if err := b.dev.MixChunk(b.buf[:size]); err != nil {
				return n, err
			}
			b.pending = b.buf[:size]
		}

		c := copy(p[n:], b.pending)
		b.pending = b.pending[c:]
		n += c
	}

	return n, nil
}

func fill(p []byte, v byte) {
	for i := range p {
		p[i] = v
	}
}

func (b *Backend) Close() error {
	// Taking the lock waits out a Read in progress.
	b.mu.Lock()
	b.dev = nil
	b.pending = nil
	b.mu.Unlock()

	var err error
	if b.player != nil {
		b.player.Pause()
		if cerr := b.player.Close(); cerr != nil {
			err = fmt.Errorf("oto: closing player: %w: %w", sal.ErrSystemFailure, cerr)
		}
		b.player = nil
		release()
	}

	return err
}
