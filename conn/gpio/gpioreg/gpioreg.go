// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpioreg defines a registry for the known digital output pins.
//
// host.Init registers one pin per slave-select line here at
// initialization; it never outlives the process so unregistration is not
// implemented, unlike the upstream package this one is adapted from.
package gpioreg

import (
	"errors"
	"strconv"
	"sync"

	"github.com/brickd/brickd/conn/gpio"
)

// ByName returns a GPIO pin from its name or one of its aliases. Pins are
// not looked up by number.
//
// Returns nil if the pin is not present.
func ByName(name string) gpio.PinOut {
	mu.Lock()
	defer mu.Unlock()
	if p, ok := byName[name]; ok {
		return p
	}
	if dest, ok := byAlias[name]; ok {
		if p := getByNameDeep(dest); p != nil {
			return &pinAlias{p, name}
		}
	}
	return nil
}

// All returns all the registered pins, in name order. Aliases are excluded.
func All() []gpio.PinOut {
	mu.Lock()
	defer mu.Unlock()
	out := make([]gpio.PinOut, 0, len(byName))
	for _, p := range byName {
		out = insertPinByName(out, p)
	}
	return out
}

// Register registers a GPIO pin.
//
// Registering the same pin name twice is an error.
func Register(p gpio.PinOut) error {
	name := p.Name()
	if len(name) == 0 {
		return errors.New("gpioreg: can't register a pin with no name")
	}
	if r, ok := p.(gpio.RealPin); ok {
		return errors.New("gpioreg: can't register pin " + strconv.Quote(name) + ", it is already an alias to " + strconv.Quote(r.Real().String()))
	}
	mu.Lock()
	defer mu.Unlock()
	if orig, ok := byName[name]; ok {
		return errors.New("gpioreg: can't register pin " + strconv.Quote(name) + " twice; already registered as " + strconv.Quote(orig.String()))
	}
	if dest, ok := byAlias[name]; ok {
		return errors.New("gpioreg: can't register pin " + strconv.Quote(name) + "; an alias already exists to: " + strconv.Quote(dest))
	}
	byName[name] = p
	return nil
}

// RegisterAlias registers an alias for a GPIO pin.
//
// It is valid to register an alias for a pin that has not itself been
// registered yet.
func RegisterAlias(alias string, dest string) error {
	if len(alias) == 0 {
		return errors.New("gpioreg: can't register an alias with no name")
	}
	if len(dest) == 0 {
		return errors.New("gpioreg: can't register alias " + strconv.Quote(alias) + " with no dest")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := byName[alias]; ok {
		return errors.New("gpioreg: can't register alias " + strconv.Quote(alias) + " for a pin that exists")
	}
	byAlias[alias] = dest
	return nil
}

//

var (
	mu      sync.Mutex
	byName  = map[string]gpio.PinOut{}
	byAlias = map[string]string{}
)

// pinAlias implements an alias for a PinOut.
type pinAlias struct {
	gpio.PinOut
	name string
}

func (a *pinAlias) String() string {
	return a.name + "(" + a.PinOut.Name() + ")"
}

// Name returns the alias's own name.
func (a *pinAlias) Name() string {
	return a.name
}

// Real returns the real pin behind the alias.
func (a *pinAlias) Real() gpio.PinOut {
	return a.PinOut
}

func getByNameDeep(name string) gpio.PinOut {
	if p, ok := byName[name]; ok {
		return p
	}
	if dest, ok := byAlias[name]; ok {
		if p := getByNameDeep(dest); p != nil {
			return p
		}
	}
	return nil
}

// insertPinByName inserts pin p into list l while keeping l ordered by name.
//
// Every pin this registry ever holds is named "CS<n>" for a single-digit
// stack address (0..slave.Count-1), so plain lexical order already sorts
// correctly; the natural-sort comparator upstream's general-purpose pin
// registry needs for names like "GPIO6" or "P9_12" has no pin name here
// that would need it.
func insertPinByName(l []gpio.PinOut, p gpio.PinOut) []gpio.PinOut {
	n := p.Name()
	i := search(len(l), func(i int) bool { return n < l[i].Name() })
	l = append(l, nil)
	copy(l[i+1:], l[i:])
	l[i] = p
	return l
}

// search implements the same algorithm as sort.Search().
//
// It was extracted to not depend on sort, which depends on reflect.
func search(n int, f func(int) bool) int {
	lo := 0
	for hi := n; lo < hi; {
		if i := int(uint(lo+hi) >> 1); !f(i) {
			lo = i + 1
		} else {
			hi = i
		}
	}
	return lo
}
