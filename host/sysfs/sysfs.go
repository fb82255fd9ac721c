// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import "io"

// ioctlCloser is a file handle that supports both Close and Ioctl.
type ioctlCloser interface {
	io.Closer
	Ioctl(op uint, data uintptr) error
}

// These constants mirror the Linux userland ioctl.h encoding (commonly
// packaged at /usr/include/asm-generic/ioctl.h). Only iow is needed: every
// ioctl this package issues is a "write" direction ioctl from the kernel's
// perspective (SPI mode/speed/bits-per-word configuration and the transfer
// itself).
const (
	iocNrbits   uint = 8
	iocTypebits uint = 8
	iocSizebits uint = 14

	iocNrshift   uint = 0
	iocTypeshift      = iocNrshift + iocNrbits
	iocSizeshift      = iocTypeshift + iocTypebits
	iocDirshift       = iocSizeshift + iocSizebits

	iocWrite uint = 1
)

// iow defines an ioctl with write (userland perspective) parameters. It
// corresponds to _IOW in the Linux userland API.
func iow(typ, nr, size uint) uint {
	return (iocWrite << iocDirshift) | (typ << iocTypeshift) | (nr << iocNrshift) | (size << iocSizeshift)
}
