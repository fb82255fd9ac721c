// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpio

import "testing"

func TestLevel_String(t *testing.T) {
	if Low.String() != "Low" {
		t.Fatal(Low.String())
	}
	if High.String() != "High" {
		t.Fatal(High.String())
	}
}

func TestBasicPin(t *testing.T) {
	p := &BasicPin{Name_: "CS0"}
	if p.String() != "CS0" || p.Name() != "CS0" {
		t.Fatal(p)
	}
	if p.Number() != -1 {
		t.Fatal(p.Number())
	}
	if err := p.Out(High); err == nil {
		t.Fatal("expected error")
	}
}

func TestInvalid(t *testing.T) {
	if err := INVALID.Out(High); err == nil {
		t.Fatal("expected error")
	}
	if INVALID.String() != "INVALID" {
		t.Fatal(INVALID.String())
	}
}
