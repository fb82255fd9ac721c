// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpio defines digital output pins.
//
// The daemon only ever drives pins, it never reads them: the slave-select
// lines of the SPI stack are the single GPIO consumer, so this package
// carries only the PinOut half of periph's original PinIO split.
package gpio

import (
	"errors"
	"fmt"
)

// Level is the level of the pin: Low or High.
type Level bool

const (
	// Low represents 0v.
	Low Level = false
	// High represents Vin, generally 3.3v or 5v.
	High Level = true
)

func (l Level) String() string {
	if l == Low {
		return "Low"
	}
	return "High"
}

// Pin is the common base of every digital pin, named or numbered.
type Pin interface {
	fmt.Stringer
	// Name returns the pin name, e.g. "GPIO6" or "P9_12".
	Name() string
	// Number returns the pin number as represented by the host, or -1 if
	// the pin has no natural number.
	Number() int
	// Function returns a user readable string representing the current
	// function of the pin, for diagnostics.
	Function() string
}

// PinOut is an output-only GPIO pin, the only direction this daemon drives.
type PinOut interface {
	Pin
	// Out sets the pin level. It is idempotent.
	Out(l Level) error
}

// RealPin is implemented by a pin that is an alias for another one, so
// callers can resolve aliases down to the concrete pin.
type RealPin interface {
	// Real returns the real pin behind an alias.
	Real() PinOut
}

// INVALID implements PinOut and fails on all access.
var INVALID PinOut = invalidPin{}

// BasicPin implements Pin as a pin carrying only a name, useful for testing
// or for documenting a pin that exists but cannot be driven by this process
// (e.g. it is a RS485/USB transport's own pin, out of scope here).
type BasicPin struct {
	Name_ string
}

func (b *BasicPin) String() string {
	return b.Name_
}

// Name implements Pin.
func (b *BasicPin) Name() string {
	return b.Name_
}

// Number implements Pin.
func (b *BasicPin) Number() int {
	return -1
}

// Function implements Pin.
func (b *BasicPin) Function() string {
	return ""
}

// Out implements PinOut.
func (b *BasicPin) Out(Level) error {
	return fmt.Errorf("%s cannot be used as output", b.Name_)
}

//

var errInvalidPin = errors.New("gpio: invalid pin")

type invalidPin struct{}

func (invalidPin) String() string   { return "INVALID" }
func (invalidPin) Name() string     { return "INVALID" }
func (invalidPin) Number() int      { return -1 }
func (invalidPin) Function() string { return "" }
func (invalidPin) Out(Level) error  { return errInvalidPin }

var _ PinOut = INVALID
