// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dbi

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/devices/dcs"
	"periph.io/x/conn/v3/gpio"
)

// Parallel is a write only 8080 8 bit bus driven through GPIO lines.
//
// The controller latches D[7:0] on the rising edge of WRX. CSX must be tied
// low or driven by the caller.
type Parallel struct {
	dc   gpio.PinOut
	wr   gpio.PinOut
	data [8]gpio.PinOut

	// Current levels of D[7:0]; only changed lines are driven.
	lines byte
	known bool
}

// NewParallel returns a bus using dc as D/CX, wr as WRX and data as D0 to
// D7.
func NewParallel(dc, wr gpio.PinOut, data [8]gpio.PinOut) (*Parallel, error) {
	if dc == nil || wr == nil {
		return nil, errors.New("dbi: dc and wr pins are required")
	}
	for i, p := range data {
		if p == nil {
			return nil, fmt.Errorf("dbi: data pin D%d is missing", i)
		}
	}
	if err := wr.Out(gpio.High); err != nil {
		return nil, err
	}
	return &Parallel{dc: dc, wr: wr, data: data}, nil
}

func (p *Parallel) String() string {
	return fmt.Sprintf("dbi.Parallel{%s, %s, %s..%s}", p.dc, p.wr, p.data[0], p.data[7])
}

// WriteRaw implements dcs.Interface.
func (p *Parallel) WriteRaw(op byte, payload []byte) error {
	if err := p.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := p.writeByte(op); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	if err := p.dc.Out(gpio.High); err != nil {
		return err
	}
	for _, b := range payload {
		if err := p.writeByte(b); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parallel) writeByte(b byte) error {
	for i, pin := range p.data {
		mask := byte(1) << uint(i)
		if p.known && (p.lines^b)&mask == 0 {
			continue
		}
		if err := pin.Out(gpio.Level(b&mask != 0)); err != nil {
			p.known = false
			return err
		}
	}
	p.lines, p.known = b, true
	if err := p.wr.Out(gpio.Low); err != nil {
		return err
	}
	return p.wr.Out(gpio.High)
}

var _ dcs.Interface = &Parallel{}
