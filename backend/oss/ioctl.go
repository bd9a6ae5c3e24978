// SPDX-License-Identifier: EPL-2.0

//go:build linux

package oss

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// iowr builds a read-write ioctl request code.
func iowr(typ, nr, size uintptr) uintptr {
	const (
		iocNrbits    = 8
		iocTypebits  = 8
		iocSizebits  = 14
		iocNrshift   = 0
		iocTypeshift = iocNrshift + iocNrbits
		iocSizeshift = iocTypeshift + iocTypebits
		iocDirshift  = iocSizeshift + iocSizebits
		iocReadWrite = 3
	)

	return (iocReadWrite << iocDirshift) | (typ << iocTypeshift) | (nr << iocNrshift) | (size << iocSizeshift)
}

var (
	sndctlDspReset       = uintptr('P'<<8 | 0)
	sndctlDspSpeed       = iowr('P', 2, 4)
	sndctlDspSetFmt      = iowr('P', 5, 4)
	sndctlDspChannels    = iowr('P', 6, 4)
	sndctlDspSetFragment = iowr('P', 10, 4)
)

const (
	afmtU8    = 0x00000008
	afmtS16LE = 0x00000010
)

// ioctlInt passes v to the driver and returns the value it wrote back.
func ioctlInt(fd int, req uintptr, v int) (int, error) {
	arg := int32(v)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&arg)))
	if errno != 0 {
		return 0, errno
	}

	return int(arg), nil
}

func ioctlNone(fd int, req uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, 0)
	if errno != 0 {
		return errno
	}

	return nil
}
