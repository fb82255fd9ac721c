// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sysfs drives the stack's SPI bus and slave-select lines through
// the Linux devfs/sysfs interfaces, without going through a generic
// multi-device plugin framework: this package only ever has one consumer,
// the SPI engine, so it exposes exactly what that consumer needs.
package sysfs

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/brickd/brickd/conn/spi"
)

// NewSPI opens a SPI port via its devfs interface as described at
// https://www.kernel.org/doc/Documentation/spi/spidev and
// https://www.kernel.org/doc/Documentation/spi/spi-summary
//
// busNumber is the bus number as exported by devfs. For example if the path
// is /dev/spidev0.0, busNumber should be 0 and chipSelect should be 0.
func NewSPI(busNumber, chipSelect int) (*SPI, error) {
	if busNumber < 0 || busNumber >= 1<<16 {
		return nil, fmt.Errorf("sysfs-spi: invalid bus %d", busNumber)
	}
	if chipSelect < 0 || chipSelect > 255 {
		return nil, fmt.Errorf("sysfs-spi: invalid chip select %d", chipSelect)
	}
	f, err := os.OpenFile(fmt.Sprintf("/dev/spidev%d.%d", busNumber, chipSelect), os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("sysfs-spi: %v", err)
	}
	return &SPI{
		conn: spiConn{
			name: fmt.Sprintf("SPI%d.%d", busNumber, chipSelect),
			f:    ioctlFile{f},
		},
	}, nil
}

// SPI is an open SPI port bound to one devfs node.
//
// The resulting object is safe for concurrent use: the stack transport's
// enumeration and steady-state phases never run on more than one goroutine
// against the same port, but Close may race a final in-flight transaction
// during shutdown.
type SPI struct {
	conn spiConn
}

// Close closes the handle to the SPI driver. It is not a requirement to
// close before process termination.
func (s *SPI) Close() error {
	s.conn.mu.Lock()
	defer s.conn.mu.Unlock()
	if s.conn.f == nil {
		return nil
	}
	err := s.conn.f.Close()
	s.conn.f = nil
	if err != nil {
		return fmt.Errorf("sysfs-spi: %v", err)
	}
	return nil
}

func (s *SPI) String() string {
	return s.conn.String()
}

// Connect implements spi.Port.
//
// The stack bus is half-duplex: mode must include spi.HalfDuplex. maxHz is
// the bus clock in Hz, bits is the word size; the stack bus always uses
// 8-bit words.
func (s *SPI) Connect(maxHz int64, mode spi.Mode, bits int) (spi.Conn, error) {
	if maxHz <= 0 {
		return nil, fmt.Errorf("sysfs-spi: invalid speed %d", maxHz)
	}
	if mode&^(spi.Mode3|spi.HalfDuplex|spi.NoCS|spi.LSBFirst) != 0 {
		return nil, fmt.Errorf("sysfs-spi: invalid mode %v", mode)
	}
	if bits < 1 || bits >= 256 {
		return nil, fmt.Errorf("sysfs-spi: invalid bits %d", bits)
	}
	s.conn.mu.Lock()
	defer s.conn.mu.Unlock()
	if s.conn.connected {
		return nil, errors.New("sysfs-spi: Connect() can only be called exactly once")
	}
	s.conn.connected = true
	s.conn.maxHz = maxHz
	s.conn.bitsPerWord = uint8(bits)

	m := mode & spi.Mode3
	if mode&spi.HalfDuplex != 0 {
		m |= threeWire
	}
	if mode&spi.NoCS != 0 {
		m |= noCS
	}
	if mode&spi.LSBFirst != 0 {
		m |= lSBFirst
	}
	if err := s.conn.setFlag(spiIOCMode, uint64(m)); err != nil {
		return nil, fmt.Errorf("sysfs-spi: setting mode %v failed: %v", mode, err)
	}
	if err := s.conn.setFlag(spiIOCBitsPerWord, uint64(bits)); err != nil {
		return nil, fmt.Errorf("sysfs-spi: setting bits/word failed: %v", err)
	}
	if err := s.conn.setFlag(spiIOCMaxSpeedHz, uint64(maxHz)); err != nil {
		return nil, fmt.Errorf("sysfs-spi: setting max speed failed: %v", err)
	}
	return &s.conn, nil
}

//

// spiConn implements spi.Conn. Every Tx call is a single, fixed-size duplex
// transaction: the bus never carries variable-length or multi-segment
// transfers, so there is no packet list or heap-optimized batch here.
type spiConn struct {
	name string
	f    ioctlCloser

	mu          sync.Mutex
	maxHz       int64
	bitsPerWord uint8
	connected   bool
}

func (s *spiConn) String() string {
	return s.name
}

// Tx sends and receives data simultaneously over one ioctl transaction.
//
// w and r must be the same length; the stack engine always calls Tx with
// two 84-byte buffers.
func (s *spiConn) Tx(w, r []byte) error {
	if len(w) == 0 {
		return errors.New("sysfs-spi: Tx() with empty write buffer")
	}
	if len(r) != len(w) {
		return fmt.Errorf("sysfs-spi: Tx(): w and r must be the same size; got %d and %d bytes", len(w), len(r))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return errors.New("sysfs-spi: Tx() on a closed port")
	}
	var xfer spiIOCTransfer
	xfer.reset(w, r, uint32(s.maxHz), s.bitsPerWord)
	return s.f.Ioctl(spiIOCTx(1), uintptr(unsafe.Pointer(&xfer)))
}

func (s *spiConn) setFlag(op uint, arg uint64) error {
	return s.f.Ioctl(op, uintptr(unsafe.Pointer(&arg)))
}

const (
	lSBFirst  spi.Mode = 0x8  // SPI_LSB_FIRST
	threeWire spi.Mode = 0x10 // SPI_3WIRE: half-duplex, MOSI and MISO are shared
	noCS      spi.Mode = 0x40 // SPI_NO_CS: do not assert CS
)

// spidev driver IOCTL control codes.
//
// Constants and structure definition can be found at
// /usr/include/linux/spi/spidev.h.
const spiIOCMagic uint = 'k'

var (
	spiIOCMode        = iow(spiIOCMagic, 1, 1) // SPI_IOC_WR_MODE (8 bits)
	spiIOCBitsPerWord = iow(spiIOCMagic, 3, 1) // SPI_IOC_WR_BITS_PER_WORD
	spiIOCMaxSpeedHz  = iow(spiIOCMagic, 4, 4) // SPI_IOC_WR_MAX_SPEED_HZ
)

// spiIOCTx(l) calculates the equivalent of SPI_IOC_MESSAGE(l) to execute a
// transaction of l chained transfers.
func spiIOCTx(l int) uint {
	return iow(spiIOCMagic, 0, uint(l)*32)
}

// spiIOCTransfer is spi_ioc_transfer in linux/spi/spidev.h.
type spiIOCTransfer struct {
	tx          uint64 // pointer to write buffer
	rx          uint64 // pointer to read buffer
	length      uint32 // buffer length of tx and rx in bytes
	speedHz     uint32 // temporarily override the configured speed
	delayUsecs  uint16 // µs to sleep before deselecting after this transfer
	bitsPerWord uint8  // temporarily override the configured bits/word
	csChange    uint8  // true to deassert CS after this transfer
	txNBits     uint8
	rxNBits     uint8
	pad         uint16
}

func (x *spiIOCTransfer) reset(w, r []byte, speedHz uint32, bitsPerWord uint8) {
	*x = spiIOCTransfer{
		tx:          uint64(uintptr(unsafe.Pointer(&w[0]))),
		rx:          uint64(uintptr(unsafe.Pointer(&r[0]))),
		length:      uint32(len(w)),
		speedHz:     speedHz,
		bitsPerWord: bitsPerWord,
	}
}

var _ spi.Conn = &spiConn{}
var _ spi.Port = &SPI{}
var _ spi.PortCloser = &SPI{}
