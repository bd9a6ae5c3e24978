// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"testing"

	"github.com/ik5/sal"
	"github.com/ik5/sal/backend/loopback"
)

// NewDevice opens a device on an offline loopback backend and closes it
// when the test ends. Audio is pulled with the returned backend's Render.
func NewDevice(tb testing.TB, format sal.Format, voices int) (*sal.Device, *loopback.Backend, *bytes.Buffer) {
	tb.Helper()

	out := &bytes.Buffer{}
	b := loopback.New(out)

	d, err := sal.NewDevice(&sal.Callbacks{
		Size:    sal.CallbacksSize,
		Warning: func(msg string) { tb.Logf("warning: %s", msg) },
		Error:   func(msg string) { tb.Errorf("device error: %s", msg) },
	}, &sal.SystemParams{Backend: b}, format, voices)
	if err != nil {
		tb.Fatalf("NewDevice() error = %v, want nil", err)
	}
	tb.Cleanup(func() { _ = d.Close() })

	return d, b, out
}
