// SPDX-License-Identifier: EPL-2.0

package sal

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// DefaultBufferLength is the output buffer duration used when
// SystemParams.BufferLength is zero.
const DefaultBufferLength = 50 * time.Millisecond

// Backend connects a device to an audio output. Open negotiates the
// format, Start installs the periodic delivery that calls
// Device.MixChunk, and Close stops delivery and releases everything.
// Open releases what it acquired before returning an error.
// Close is called exactly once and must not return while a MixChunk
// call it issued is still running.
type Backend interface {
	Open(d *Device, sp *SystemParams, want Format) (DeviceInfo, error)
	Start(d *Device) error
	Close() error
}

// SystemParams selects and configures the backend of a device.
type SystemParams struct {
	// Driver names a registered backend. Ignored when Backend is set.
	Driver string
	// Backend is used as is when non-nil.
	Backend Backend
	// DeviceName is passed to the backend, e.g. "default" or "/dev/dsp".
	DeviceName string
	// BufferLength is the duration of audio the backend buffers.
	BufferLength time.Duration
	// Platform defaults to DefaultPlatform.
	Platform Platform
}

func (sp *SystemParams) bufferLength() time.Duration {
	if sp.BufferLength <= 0 {
		return DefaultBufferLength
	}

	return sp.BufferLength
}

// BufferFrames is the number of frames of BufferLength at rate.
func (sp *SystemParams) BufferFrames(rate int) int {
	return int(sp.bufferLength() * time.Duration(rate) / time.Second)
}

var (
	backendsMu sync.RWMutex
	backends   = make(map[string]func() Backend)
)

// preferred is the order backends are tried in when no driver is named.
var preferred = []string{"alsa", "oss", "oto", "malgo"}

// RegisterBackend makes a backend available by name. It panics if the
// name is registered twice or newFn is nil.
func RegisterBackend(name string, newFn func() Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()

	if newFn == nil {
		panic("sal: RegisterBackend constructor is nil")
	}
	if _, dup := backends[name]; dup {
		panic("sal: RegisterBackend called twice for " + name)
	}

	backends[name] = newFn
}

// Backends returns the sorted names of the registered backends.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

func lookupBackend(sp *SystemParams) (Backend, error) {
	if sp.Backend != nil {
		return sp.Backend, nil
	}

	backendsMu.RLock()
	defer backendsMu.RUnlock()

	if sp.Driver != "" {
		newFn, ok := backends[sp.Driver]
		if !ok {
			return nil, fmt.Errorf("backend %q: %w", sp.Driver, ErrUnimplemented)
		}

		return newFn(), nil
	}

	for _, name := range preferred {
		if newFn, ok := backends[name]; ok {
			return newFn(), nil
		}
	}

	return nil, fmt.Errorf("no backend available: %w", ErrUnimplemented)
}
