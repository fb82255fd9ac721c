// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package spi

import "testing"

func TestMode_String(t *testing.T) {
	cases := []struct {
		m    Mode
		want string
	}{
		{Mode0, "Mode0"},
		{Mode3, "Mode3"},
		{Mode3 | HalfDuplex, "Mode3|HalfDuplex"},
		{Mode0 | NoCS | LSBFirst, "Mode0|NoCS|LSBFirst"},
	}
	for _, c := range cases {
		if got := c.m.String(); got != c.want {
			t.Errorf("%d.String() = %q, want %q", c.m, got, c.want)
		}
	}
}
