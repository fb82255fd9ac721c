// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/brickd/brickd/conn/gpio"
)

// NewPin exports GPIO number via /sys/class/gpio and returns an output-only
// pin for driving it.
//
// The stack engine only ever drives select lines low (select) and high
// (deselect); it never reads a GPIO back, so unlike a general-purpose sysfs
// GPIO driver this one does not implement In() or edge detection.
func NewPin(number int, name string) (*Pin, error) {
	if number < 0 {
		return nil, fmt.Errorf("sysfs-gpio: invalid pin number %d", number)
	}
	root := fmt.Sprintf("/sys/class/gpio/gpio%d/", number)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		if err := exportPin(number); err != nil {
			return nil, fmt.Errorf("sysfs-gpio: export gpio%d: %v", number, err)
		}
	}
	p := &Pin{number: number, name: name, root: root}
	if err := p.open(); err != nil {
		return nil, err
	}
	return p, nil
}

// Pin represents one sysfs-exported GPIO pin driven as an output.
type Pin struct {
	number int
	name   string
	root   string

	mu        sync.Mutex
	fDir      *os.File
	fValue    *os.File
	direction string
}

func (p *Pin) String() string {
	return p.name
}

// Name implements gpio.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number implements gpio.Pin.
func (p *Pin) Number() int {
	return p.number
}

// Function implements gpio.Pin.
func (p *Pin) Function() string {
	return "out/" + p.direction
}

// Out implements gpio.PinOut. It sets the line level; l == gpio.High
// deselects the slave, l == gpio.Low selects it, per the stack's
// active-low chip-select convention.
func (p *Pin) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fValue == nil {
		return fmt.Errorf("sysfs-gpio: Out(%s): pin not open", p.name)
	}
	b := []byte("0\n")
	if l {
		b = []byte("1\n")
	}
	if _, err := p.fValue.WriteAt(b, 0); err != nil {
		return fmt.Errorf("sysfs-gpio: Out(%s): %v", p.name, err)
	}
	return nil
}

func (p *Pin) open() error {
	fDir, err := os.OpenFile(p.root+"direction", os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("sysfs-gpio: %v", err)
	}
	if _, err := fDir.WriteAt([]byte("out\n"), 0); err != nil {
		fDir.Close()
		return fmt.Errorf("sysfs-gpio: set direction: %v", err)
	}
	p.direction = "out"
	fValue, err := os.OpenFile(p.root+"value", os.O_RDWR, 0600)
	if err != nil {
		fDir.Close()
		return fmt.Errorf("sysfs-gpio: %v", err)
	}
	p.fDir = fDir
	p.fValue = fValue
	return nil
}

func exportPin(number int) error {
	f, err := os.OpenFile("/sys/class/gpio/export", os.O_WRONLY, 0200)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(strconv.Itoa(number))
	return err
}

var _ gpio.PinOut = &Pin{}
