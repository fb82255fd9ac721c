// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package spi defines the SPI protocol as used by the stack transport.
//
// As described in https://periph.io/x/periph/conn#hdr-Concepts, periph.io
// uses the concepts of Bus, Port and Conn. 'Bus' is not exposed, as it would
// be the SPI bus number without a CS line; on Linux that's not addressable
// on its own, so 'Port' is exposed directly instead.
//
// Use Port.Connect() to turn an uninitialized Port into a Conn.
package spi

import (
	"io"
	"strconv"

	"github.com/brickd/brickd/conn"
)

// Mode determines how communication is done.
//
// The bits can be OR'ed to change the parameters used for communication.
type Mode int

// Mode determines the SPI communication parameters.
//
// CPOL means the clock polarity. Idle is High when set.
//
// CPHA is the clock phase, sample on trailing edge when set.
const (
	Mode0 Mode = 0x0 // CPOL=0, CPHA=0
	Mode1 Mode = 0x1 // CPOL=0, CPHA=1
	Mode2 Mode = 0x2 // CPOL=1, CPHA=0
	Mode3 Mode = 0x3 // CPOL=1, CPHA=1

	// HalfDuplex specifies that MOSI and MISO use the same wire, and that
	// only one duplex is used at a time. The stack bus is wired this way.
	HalfDuplex Mode = 0x4
	// NoCS requests the driver to not use the CS line.
	NoCS Mode = 0x8
	// LSBFirst requests words to be clocked out LSB first instead of the
	// default MSB first.
	LSBFirst Mode = 0x10
)

func (m Mode) String() string {
	s := ""
	switch m & Mode3 {
	case Mode0:
		s = "Mode0"
	case Mode1:
		s = "Mode1"
	case Mode2:
		s = "Mode2"
	case Mode3:
		s = "Mode3"
	}
	m &^= Mode3
	if m&HalfDuplex != 0 {
		s += "|HalfDuplex"
	}
	m &^= HalfDuplex
	if m&NoCS != 0 {
		s += "|NoCS"
	}
	m &^= NoCS
	if m&LSBFirst != 0 {
		s += "|LSBFirst"
	}
	m &^= LSBFirst
	if m != 0 {
		s += "|0x" + strconv.FormatUint(uint64(m), 16)
	}
	return s
}

// Conn defines the interface a concrete SPI driver must implement.
//
// It is expected to also implement fmt.Stringer.
type Conn interface {
	conn.Conn
}

// Port is the interface given to device drivers to obtain a Conn.
type Port interface {
	// Connect sets the communication parameters of the connection.
	//
	// The device driver must call this function exactly once.
	//
	// maxHz must specify the maximum rated speed by the device's spec. mode
	// specifies the clock polarity/phase and whether the bus is half duplex.
	// bits is the number of bits per word; the stack bus always uses 8.
	Connect(maxHz int64, mode Mode, bits int) (Conn, error)
}

// PortCloser is a SPI port that can be closed.
type PortCloser interface {
	io.Closer
	Port
}
