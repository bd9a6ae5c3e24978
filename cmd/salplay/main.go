// SPDX-License-Identifier: EPL-2.0

// Command salplay plays sound files through a SAL device, records the mix
// to a WAV file, or runs the panning and volume test harness over every
// supported device format.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	flags "github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/sal"
	"github.com/ik5/sal/audio"
	"github.com/ik5/sal/backend/loopback"
	"github.com/ik5/sal/formats/aiff"
	"github.com/ik5/sal/formats/mp3"
	"github.com/ik5/sal/formats/vorbis"
	"github.com/ik5/sal/formats/wav"
	"github.com/ik5/sal/metrics"
)

const pollInterval = 10 * time.Millisecond

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.LogFile != "" {
		if err := initLogRotator(cfg.LogFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	defer closeLogRotator()

	if err := setLogLevels(cfg.DebugLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("%v", err)
		closeLogRotator()
		os.Exit(1)
	}
}

func newRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Loader{})
	reg.Register("aiff", aiff.Loader{})
	reg.Register("aif", aiff.Loader{})
	reg.Register("ogg", vorbis.Loader{})
	reg.Register("mp3", mp3.Loader{})

	return reg
}

// deviceCallbacks route device diagnostics to the log instead of the
// library default, which exits on errors.
func deviceCallbacks() *sal.Callbacks {
	return &sal.Callbacks{
		Size:    sal.CallbacksSize,
		Warning: func(msg string) { log.Warnf("%s", msg) },
		Error:   func(msg string) { log.Errorf("%s", msg) },
	}
}

func openDevice(sp *sal.SystemParams, f sal.Format, voices int) (*sal.Device, error) {
	return sal.NewDevice(deviceCallbacks(), sp, f, voices)
}

func run(ctx context.Context, cfg *config, out io.Writer) error {
	log.Debugf("Backends: %v", sal.Backends())

	reg := newRegistry()
	if cfg.Test {
		h := &harness{cfg: cfg, reg: reg, out: out}
		return h.run(ctx)
	}

	sp := cfg.systemParams()

	var rec *recording
	if cfg.Record != "" {
		var err error
		rec, err = newRecording(cfg.Record, cfg.format())
		if err != nil {
			return err
		}
		sp.Backend = rec.backend
	}

	dev, err := openDevice(sp, cfg.format(), cfg.Voices)
	if err != nil {
		if rec != nil {
			_ = rec.close()
		}
		return fmt.Errorf("opening device: %w", err)
	}
	log.Infof("Playing on %q (%v)", dev.Info().Name, dev.Info().Format())

	g, gctx := errgroup.WithContext(ctx)
	pctx, cancelMetrics := context.WithCancel(gctx)
	if cfg.Metrics != "" {
		mreg := metrics.NewRegistry(metrics.NewCollector(dev.Info().Name, dev))
		g.Go(func() error { return metrics.Serve(pctx, cfg.Metrics, mreg) })
	}

	g.Go(func() error {
		defer cancelMetrics()
		return playFiles(pctx, dev, reg, cfg.Args.Files, out)
	})
	err = g.Wait()

	if cerr := dev.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if rec != nil {
		if cerr := rec.close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}

// playFiles plays each file once, in order, and waits for it to finish.
// Files that fail to load are reported and skipped.
func playFiles(ctx context.Context, dev *sal.Device, reg *audio.Registry, files []string, out io.Writer) error {
	var errs []error
	for _, file := range files {
		if err := playFile(ctx, dev, reg, file); err != nil {
			if ctx.Err() != nil {
				return err
			}
			fmt.Fprintf(out, "%s: FAILED (%v)\n", file, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(out, "%s: done\n", file)
	}

	return errors.Join(errs...)
}

func playFile(ctx context.Context, dev *sal.Device, reg *audio.Registry, file string) error {
	s, err := reg.LoadFile(dev, file)
	if err != nil {
		return err
	}
	defer destroy(dev, s)

	v, err := dev.Play(s, sal.VolumeMax, sal.PanCenter, 0, 0, 1)
	if err != nil {
		return err
	}
	log.Debugf("Voice %d playing %s", v, file)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		// The voice slot cannot be reused while this is the only
		// caller of Play.
		st, err := dev.Status(v)
		if err != nil {
			return err
		}
		if st != sal.StatusPlaying {
			return nil
		}

		select {
		case <-ctx.Done():
			_ = dev.Stop(v)
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// recording mixes in real time into a WAV file instead of a sound card.
type recording struct {
	f       *os.File
	w       *wav.Writer
	backend *loopback.Backend
}

func newRecording(path string, f sal.Format) (*recording, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating recording: %w", err)
	}

	info := sal.DeviceInfo{
		Channels:       f.Channels,
		Bits:           f.Bits,
		SampleRate:     f.SampleRate,
		BytesPerSample: f.Bits / 8,
		BytesPerFrame:  f.Channels * f.Bits / 8,
	}
	w := wav.NewWriter(file, info)

	return &recording{
		f:       file,
		w:       w,
		backend: loopback.New(w, loopback.WithPeriod(0), loopback.WithName(path)),
	}, nil
}

func (r *recording) close() error {
	err := r.w.Close()
	if cerr := r.f.Close(); cerr != nil && err == nil {
		err = cerr
	}

	return err
}
