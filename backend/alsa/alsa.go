// SPDX-License-Identifier: EPL-2.0

//go:build linux

package alsa

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"github.com/decred/slog"
	"github.com/gen2brain/alsa"

	"github.com/ik5/sal"
)

var log = slog.Disabled

// UseLogger sets the logger used by the package.
func UseLogger(logger slog.Logger) {
	log = logger
}

func init() {
	sal.RegisterBackend("alsa", func() sal.Backend { return New() })
}

const periodCount = 2

// Backend plays through an ALSA hardware PCM.
type Backend struct {
	pcm    *alsa.PCM
	name   string
	buf    []byte
	thread sal.Thread
}

func New() *Backend {
	return &Backend{}
}

// parseName splits "hw:CARD,DEVICE" into its numbers.
func parseName(name string) (card, device uint, err error) {
	if name == "" || name == "default" {
		return 0, 0, nil
	}

	rest, ok := strings.CutPrefix(name, "hw:")
	if !ok {
		return 0, 0, fmt.Errorf("alsa: device %q is not hw:CARD,DEVICE: %w", name, sal.ErrInvalidParam)
	}

	c, d, ok := strings.Cut(rest, ",")
	if !ok {
		d = "0"
	}

	cn, err := strconv.ParseUint(c, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("alsa: card %q: %w", c, sal.ErrInvalidParam)
	}
	dn, err := strconv.ParseUint(d, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("alsa: device %q: %w", d, sal.ErrInvalidParam)
	}

	return uint(cn), uint(dn), nil
}

func pcmFormat(bits int) (alsa.PcmFormat, error) {
	switch bits {
	case 8:
		return alsa.SNDRV_PCM_FORMAT_U8, nil
	case 16:
		return alsa.SNDRV_PCM_FORMAT_S16_LE, nil
	}

	return 0, fmt.Errorf("alsa: %d bits: %w", bits, sal.ErrInvalidFormat)
}

func formatBits(f alsa.PcmFormat) (int, error) {
	switch f {
	case alsa.SNDRV_PCM_FORMAT_U8:
		return 8, nil
	case alsa.SNDRV_PCM_FORMAT_S16_LE:
		return 16, nil
	}

	return 0, fmt.Errorf("alsa: negotiated format %d: %w", f, sal.ErrInvalidFormat)
}

// config asks for two periods of half the buffer length each.
func config(sp *sal.SystemParams, want sal.Format) (alsa.Config, error) {
	f, err := pcmFormat(want.Bits)
	if err != nil {
		return alsa.Config{}, err
	}

	period := max(sp.BufferFrames(want.SampleRate)/periodCount, 1)

	return alsa.Config{
		Channels:    uint32(want.Channels),
		Rate:        uint32(want.SampleRate),
		PeriodSize:  uint32(period),
		PeriodCount: periodCount,
		Format:      f,
	}, nil
}

func (b *Backend) Open(d *sal.Device, sp *sal.SystemParams, want sal.Format) (sal.DeviceInfo, error) {
	card, device, err := parseName(sp.DeviceName)
	if err != nil {
		return sal.DeviceInfo{}, err
	}

	cfg, err := config(sp, want)
	if err != nil {
		return sal.DeviceInfo{}, err
	}

	pcm, err := alsa.PcmOpen(card, device, alsa.PCM_OUT, &cfg)
	if err != nil {
		return sal.DeviceInfo{}, fmt.Errorf("alsa: opening hw:%d,%d: %w: %w", card, device, sal.ErrSystemFailure, err)
	}

	bits, err := formatBits(pcm.Format())
	if err != nil {
		_ = pcm.Close()
		return sal.DeviceInfo{}, err
	}

	info := sal.DeviceInfo{
		Channels:   int(pcm.Channels()),
		Bits:       bits,
		SampleRate: int(pcm.Rate()),
		Name:       fmt.Sprintf("hw:%d,%d", card, device),
	}
	if info.Format() != want {
		d.Warnf("alsa: asked for %v, card gave %v", want, info.Format())
	}

	b.pcm = pcm
	b.name = info.Name
	b.buf = make([]byte, int(pcm.PeriodSize())*info.Channels*bits/8)

	log.Debugf("Opened %s: period %d frames, buffer %d frames", b.name, pcm.PeriodSize(), pcm.BufferSize())

	return info, nil
}

func (b *Backend) Start(d *sal.Device) error {
	th, err := d.Platform().Go(func(ctx context.Context) error {
		return b.run(ctx, d)
	})
	if err != nil {
		return fmt.Errorf("alsa: starting delivery: %w: %w", sal.ErrSystemFailure, err)
	}
	b.thread = th

	return nil
}

// run mixes one period at a time. Write blocks until the card has room,
// which paces the loop.
func (b *Backend) run(ctx context.Context, d *sal.Device) error {
	for ctx.Err() == nil {
		if err := d.MixChunk(b.buf); err != nil {
			return err
		}

		if _, err := b.pcm.Write(b.buf); err != nil {
			if errors.Is(err, syscall.EPIPE) {
				log.Debugf("Underrun on %s, xruns %d", b.name, b.pcm.Xruns())
				continue
			}
			d.Errorf("alsa: write to %s: %v", b.name, err)

			return fmt.Errorf("alsa: write: %w: %w", sal.ErrSystemFailure, err)
		}
	}

	return ctx.Err()
}

func (b *Backend) Close() error {
	var err error
	if b.thread != nil {
		err = b.thread.Stop()
		b.thread = nil
	}

	if b.pcm != nil {
		if cerr := b.pcm.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("alsa: closing %s: %w: %w", b.name, sal.ErrSystemFailure, cerr)
		}
		b.pcm = nil
	}

	return err
}
