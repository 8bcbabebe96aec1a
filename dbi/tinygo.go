// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dbi

import (
	"github.com/GermanBionicSystems/devices/dcs"
	"tinygo.org/x/drivers"
)

// TinyGo is a 4-wire SPI bus on top of a TinyGo SPI peripheral.
type TinyGo struct {
	bus drivers.SPI
	dc  func(high bool)
	op  [1]byte
}

// NewTinyGo returns a bus writing to bus. dc sets the D/C line, typically
// machine.Pin.Set of a pin configured as output.
func NewTinyGo(bus drivers.SPI, dc func(high bool)) *TinyGo {
	return &TinyGo{bus: bus, dc: dc}
}

// WriteRaw implements dcs.Interface.
func (t *TinyGo) WriteRaw(op byte, payload []byte) error {
	t.dc(false)
	t.op[0] = op
	if err := t.bus.Tx(t.op[:], nil); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	t.dc(true)
	return t.bus.Tx(payload, nil)
}

var _ dcs.Interface = &TinyGo{}
