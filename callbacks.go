// SPDX-License-Identifier: EPL-2.0

package sal

import (
	"fmt"
	"os"
	"unsafe"
)

// Callbacks overrides the memory and diagnostic hooks of a device.
//
// Size must be set to CallbacksSize. Alloc and Free must be supplied
// together or not at all. A nil Warning or Error falls back to the
// default, which logs; the default Error also terminates the process.
type Callbacks struct {
	Size    uint32
	Alloc   func(n int) []byte
	Free    func(b []byte)
	Warning func(msg string)
	Error   func(msg string)
}

// CallbacksSize is the expected value of Callbacks.Size.
const CallbacksSize = uint32(unsafe.Sizeof(Callbacks{}))

var (
	defaultExit = os.Exit
	exit        = defaultExit
)

func defaultAlloc(n int) []byte { return make([]byte, n) }

func defaultFree([]byte) {}

func defaultWarning(msg string) {
	log.Warnf("%s", msg)
}

func defaultError(msg string) {
	log.Criticalf("%s", msg)
	exit(1)
}

func defaultCallbacks() Callbacks {
	return Callbacks{
		Size:    CallbacksSize,
		Alloc:   defaultAlloc,
		Free:    defaultFree,
		Warning: defaultWarning,
		Error:   defaultError,
	}
}

// resolveCallbacks validates cb and fills in any missing hooks.
func resolveCallbacks(cb *Callbacks) (Callbacks, error) {
	if cb == nil {
		return defaultCallbacks(), nil
	}

	if cb.Size != CallbacksSize {
		return Callbacks{}, ErrWrongVersion
	}

	if (cb.Alloc == nil) != (cb.Free == nil) {
		return Callbacks{}, fmt.Errorf("alloc and free must be set together: %w", ErrInvalidParam)
	}

	out := *cb
	if out.Alloc == nil {
		out.Alloc = defaultAlloc
		out.Free = defaultFree
	}
	if out.Warning == nil {
		out.Warning = defaultWarning
	}
	if out.Error == nil {
		out.Error = defaultError
	}

	return out, nil
}
