// SPDX-License-Identifier: EPL-2.0

package sal

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Thread is a running delivery loop started by Platform.Go.
type Thread interface {
	// Stop cancels the loop's context and waits for it to return. After
	// Stop returns the loop no longer touches the device.
	Stop() error
}

// Platform supplies the OS services a device and its backend need. One
// instance is bound to a device when it is created.
type Platform interface {
	NewMutex() (sync.Locker, error)
	Go(fn func(ctx context.Context) error) (Thread, error)
	Sleep(d time.Duration)
}

type defaultPlatform struct{}

// DefaultPlatform returns the platform built on the Go runtime.
func DefaultPlatform() Platform { return defaultPlatform{} }

func (defaultPlatform) NewMutex() (sync.Locker, error) {
	return &sync.Mutex{}, nil
}

func (defaultPlatform) Go(fn func(ctx context.Context) error) (Thread, error) {
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return fn(gctx) })

	return &thread{cancel: cancel, g: g}, nil
}

func (defaultPlatform) Sleep(d time.Duration) { time.Sleep(d) }

type thread struct {
	cancel context.CancelFunc
	g      *errgroup.Group
	once   sync.Once
	err    error
}

func (t *thread) Stop() error {
	t.once.Do(func() {
		t.cancel()
		err := t.g.Wait()
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		t.err = err
	})

	return t.err
}
