// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dbi

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/devices/dcs"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultFreq is the SPI clock used when none is specified. The ILI9341
// serial write cycle is 100ns minimum.
const DefaultFreq = 10 * physic.MegaHertz

// SPI is a 4-wire SPI bus with a D/C line.
type SPI struct {
	c     spi.Conn
	dc    gpio.PinOut
	maxTx int
	op    [1]byte
}

// NewSPI connects to p in mode 0 with 8 bits words.
//
// dc is the Data/Command line; 3-wire mode is not supported. f may be 0 to
// use DefaultFreq.
func NewSPI(p spi.Port, dc gpio.PinOut, f physic.Frequency) (*SPI, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("dbi: a dc pin is required for 4-wire SPI")
	}
	if f == 0 {
		f = DefaultFreq
	}
	if err := dc.Out(gpio.Low); err != nil {
		return nil, err
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	return newSPI(c, dc), nil
}

func newSPI(c spi.Conn, dc gpio.PinOut) *SPI {
	s := &SPI{c: c, dc: dc}
	if l, ok := c.(conn.Limits); ok {
		s.maxTx = l.MaxTxSize()
	}
	return s
}

func (s *SPI) String() string {
	return fmt.Sprintf("dbi.SPI{%s, %s}", s.c, s.dc)
}

// WriteRaw implements dcs.Interface.
//
// Large payloads are split to fit the connection maximum transfer size.
func (s *SPI) WriteRaw(op byte, payload []byte) error {
	if err := s.dc.Out(gpio.Low); err != nil {
		return err
	}
	s.op[0] = op
	if err := s.c.Tx(s.op[:], nil); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	if err := s.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(payload) != 0 {
		n := len(payload)
		if s.maxTx > 0 && n > s.maxTx {
			n = s.maxTx
		}
		if err := s.c.Tx(payload[:n], nil); err != nil {
			return err
		}
		payload = payload[n:]
	}
	return nil
}

var _ dcs.Interface = &SPI{}
