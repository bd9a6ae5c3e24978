// SPDX-License-Identifier: EPL-2.0

package sal

import (
	"errors"
	"fmt"
)

// Error is a result code from the closed SAL error taxonomy. The numeric
// values are stable and match the codes reported by the C API.
type Error uint16

const (
	OK               Error = 0x0000
	ErrInvalidParam  Error = 0x0001
	ErrWrongVersion  Error = 0x0002
	ErrOutOfMemory   Error = 0x0003
	ErrSystemFailure Error = 0x0004
	ErrAlreadyLocked Error = 0x0005
	ErrInUse         Error = 0x0006
	ErrInvalidFormat Error = 0x0007
	ErrOutOfVoices   Error = 0x0101
	ErrUnimplemented Error = 0x1000
	ErrUnknown       Error = 0xFFFF
)

var errorText = map[Error]string{
	OK:               "ok",
	ErrInvalidParam:  "invalid parameter",
	ErrWrongVersion:  "wrong structure version",
	ErrOutOfMemory:   "out of memory",
	ErrSystemFailure: "system failure",
	ErrAlreadyLocked: "already locked",
	ErrInUse:         "resource in use",
	ErrInvalidFormat: "invalid format",
	ErrOutOfVoices:   "out of voices",
	ErrUnimplemented: "unimplemented",
	ErrUnknown:       "unknown error",
}

func (e Error) Error() string {
	if s, ok := errorText[e]; ok {
		return "sal: " + s
	}

	return fmt.Sprintf("sal: error 0x%04x", uint16(e))
}

// Code maps err to its taxonomy code. nil maps to OK and errors that do
// not wrap an Error map to ErrUnknown.
func Code(err error) Error {
	if err == nil {
		return OK
	}

	var e Error
	if errors.As(err, &e) {
		return e
	}

	return ErrUnknown
}
