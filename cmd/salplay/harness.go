// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/sal"
	"github.com/ik5/sal/audio"
	"github.com/ik5/sal/formats/tone"
)

// harnessFormats are the device formats the test harness cycles through.
var harnessFormats = []sal.Format{
	{Channels: 2, Bits: 16, SampleRate: 44100},
	{Channels: 1, Bits: 16, SampleRate: 44100},
	{Channels: 1, Bits: 8, SampleRate: 22050},
	{Channels: 2, Bits: 8, SampleRate: 22050},
	{Channels: 1, Bits: 16, SampleRate: 22050},
	{Channels: 2, Bits: 16, SampleRate: 22050},
	{Channels: 1, Bits: 16, SampleRate: 11025},
	{Channels: 2, Bits: 16, SampleRate: 11025},
	{Channels: 1, Bits: 8, SampleRate: 11025},
	{Channels: 2, Bits: 8, SampleRate: 11025},
	{Channels: 1, Bits: 8, SampleRate: 44100},
	{Channels: 2, Bits: 8, SampleRate: 44100},
}

const (
	harnessVoices = 8
	sweepSteps    = 500
	sweepStride   = 128
)

type harnessTest struct {
	name string
	run  func(context.Context, *sal.Device) error
}

type harness struct {
	cfg *config
	reg *audio.Registry
	out io.Writer
}

// run opens a device in every harness format and runs the tone tests on
// it, followed by a panning test of every file given on the command line.
// A format the backend refuses is reported and skipped.
func (h *harness) run(ctx context.Context) error {
	fmt.Fprintf(h.out, "SAL version: 0x%08x\n", sal.Version)

	for _, f := range harnessFormats {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fmt.Fprintf(h.out, "Creating device (%d,%d,%d): ", f.Channels, f.Bits, f.SampleRate)
		dev, err := openDevice(h.cfg.systemParams(), f, harnessVoices)
		if err != nil {
			fmt.Fprintf(h.out, "failed (error = %d)\n", sal.Code(err))
			log.Debugf("Device %v: %v", f, err)
			continue
		}
		fmt.Fprintln(h.out, "ok")
		fmt.Fprintf(h.out, "device name = %s\n", dev.Info().Name)

		err = h.device(ctx, dev)
		if cerr := dev.Close(); cerr != nil {
			log.Warnf("Closing device: %v", cerr)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (h *harness) device(ctx context.Context, dev *sal.Device) error {
	tests := []harnessTest{
		{"Square tone test (panning)", h.tonePanning(tone.Square)},
		{"Sawtooth tone test (panning)", h.tonePanning(tone.Sawtooth)},
		{"Volume test (square tone)", h.toneVolume},
	}
	for _, file := range h.cfg.Args.Files {
		tests = append(tests, harnessTest{fmt.Sprintf("Panning test (%s)", file), h.filePanning(file)})
	}

	for _, t := range tests {
		fmt.Fprintf(h.out, "   %s: ", t.name)

		err := t.run(ctx, dev)
		switch {
		case ctx.Err() != nil:
			fmt.Fprintln(h.out, "interrupted")
			return ctx.Err()
		case err != nil:
			fmt.Fprintf(h.out, "FAILED (%v)\n", err)
			continue
		}

		fmt.Fprintln(h.out, "done")
		if err := sleep(ctx, dev, time.Duration(h.cfg.Pause)); err != nil {
			return err
		}
	}

	return nil
}

func (h *harness) tonePanning(shape tone.Shape) func(context.Context, *sal.Device) error {
	return func(ctx context.Context, dev *sal.Device) error {
		t := tone.Default()
		t.Shape = shape

		s, err := tone.New(dev, t)
		if err != nil {
			return err
		}
		defer destroy(dev, s)

		return h.panSweep(ctx, dev, s)
	}
}

func (h *harness) toneVolume(ctx context.Context, dev *sal.Device) error {
	s, err := tone.New(dev, tone.Default())
	if err != nil {
		return err
	}
	defer destroy(dev, s)

	return h.volumeSweep(ctx, dev, s)
}

func (h *harness) filePanning(path string) func(context.Context, *sal.Device) error {
	return func(ctx context.Context, dev *sal.Device) error {
		s, err := h.reg.LoadFile(dev, path)
		if err != nil {
			return err
		}
		defer destroy(dev, s)

		return h.panSweep(ctx, dev, s)
	}
}

// panSweep loops s while moving it from hard left towards hard right.
func (h *harness) panSweep(ctx context.Context, dev *sal.Device, s *sal.Sample) error {
	v, err := dev.Play(s, sal.VolumeMax, sal.PanHardLeft, 0, 0, sal.LoopAlways)
	if err != nil {
		return err
	}
	defer func() { _ = dev.Stop(v) }()

	for i := range sweepSteps {
		if err := dev.SetPan(v, int16(int(sal.PanHardLeft)+i*sweepStride)); err != nil {
			return err
		}
		if err := sleep(ctx, dev, time.Duration(h.cfg.Step)); err != nil {
			return err
		}
	}

	return nil
}

// volumeSweep loops s centered while fading it down from full volume.
func (h *harness) volumeSweep(ctx context.Context, dev *sal.Device, s *sal.Sample) error {
	v, err := dev.Play(s, sal.VolumeMax, sal.PanCenter, 0, 0, sal.LoopAlways)
	if err != nil {
		return err
	}
	defer func() { _ = dev.Stop(v) }()

	for i := range sweepSteps {
		if err := dev.SetVolume(v, uint16(int(sal.VolumeMax)-i*sweepStride)); err != nil {
			return err
		}
		if err := sleep(ctx, dev, time.Duration(h.cfg.Step)); err != nil {
			return err
		}
	}

	return nil
}

func destroy(dev *sal.Device, s *sal.Sample) {
	// A voice still ending keeps the sample alive; it is released with
	// the voice.
	if err := dev.DestroySample(s); err != nil && !errors.Is(err, sal.ErrInUse) {
		log.Warnf("Destroying sample: %v", err)
	}
}

// sleep pauses on the device clock unless ctx is done first.
func sleep(ctx context.Context, dev *sal.Device, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d > 0 {
		dev.Sleep(d)
	}

	return ctx.Err()
}
