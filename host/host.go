// Copyright 2016 The PIO Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package host wires the concrete Linux sysfs/devfs drivers into the
// registries consumed by the rest of the daemon.
//
// Unlike a general-purpose board-support package that probes and registers
// every driver it can find, this Init only ever has one bus and one set of
// select lines to bring up, so it takes them as explicit parameters instead
// of auto-discovering hardware.
package host

import (
	"fmt"

	"github.com/brickd/brickd/conn/gpio/gpioreg"
	"github.com/brickd/brickd/conn/spi"
	"github.com/brickd/brickd/conn/spi/spireg"
	"github.com/brickd/brickd/host/sysfs"
)

// Config describes the hardware the daemon should bring up.
type Config struct {
	// SPIBus and SPIChipSelect identify the devfs node, e.g. /dev/spidev0.0.
	SPIBus        int
	SPIChipSelect int
	// SelectLines is the sysfs GPIO number of each slave's select line,
	// indexed by stack address (0..len(SelectLines)-1, at most 8).
	SelectLines []int
}

// Init opens the SPI port and exports every select-line GPIO, registering
// each with its respective registry so the rest of the daemon can look them
// up by name. It returns the registered SPI port name.
func Init(cfg Config) (string, error) {
	port, err := sysfs.NewSPI(cfg.SPIBus, cfg.SPIChipSelect)
	if err != nil {
		return "", fmt.Errorf("host: %v", err)
	}
	name := fmt.Sprintf("/dev/spidev%d.%d", cfg.SPIBus, cfg.SPIChipSelect)
	if err := spireg.Register(name, nil, cfg.SPIBus, func() (spi.PortCloser, error) { return port, nil }); err != nil {
		port.Close()
		return "", fmt.Errorf("host: %v", err)
	}
	for i, gpioNum := range cfg.SelectLines {
		pinName := fmt.Sprintf("CS%d", i)
		pin, err := sysfs.NewPin(gpioNum, pinName)
		if err != nil {
			return "", fmt.Errorf("host: select line %d: %v", i, err)
		}
		if err := gpioreg.Register(pin); err != nil {
			return "", fmt.Errorf("host: select line %d: %v", i, err)
		}
	}
	return name, nil
}
