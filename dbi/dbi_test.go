// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dbi

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spitest"
)

// txn is a transfer along with the D/C level at the time it happened.
type txn struct {
	dc gpio.Level
	w  []byte
}

// fakeConn is a spi.Conn recording the D/C line with each transfer.
type fakeConn struct {
	dc     *gpiotest.Pin
	max    int
	failAt int
	ops    []txn
}

func (f *fakeConn) String() string { return "fake" }

func (f *fakeConn) Duplex() conn.Duplex { return conn.Full }

func (f *fakeConn) TxPackets(p []spi.Packet) error { return errors.New("not implemented") }

func (f *fakeConn) MaxTxSize() int { return f.max }

func (f *fakeConn) Tx(w, r []byte) error {
	if f.failAt != 0 && len(f.ops)+1 == f.failAt {
		return errBus
	}
	f.ops = append(f.ops, txn{dc: f.dc.L, w: append([]byte(nil), w...)})
	return nil
}

var errBus = errors.New("bus error")

func TestNewSPI(t *testing.T) {
	if _, err := NewSPI(&spitest.Record{}, nil, 0); err == nil {
		t.Error("expected error with nil dc")
	}
	if _, err := NewSPI(&spitest.Record{}, gpio.INVALID, 0); err == nil {
		t.Error("expected error with gpio.INVALID dc")
	}
	dc := &gpiotest.Pin{N: "DC", L: gpio.High}
	s, err := NewSPI(&spitest.Record{}, dc, 0)
	if err != nil {
		t.Fatal(err)
	}
	if dc.L != gpio.Low {
		t.Error("dc should be driven low")
	}
	if s.String() == "" {
		t.Error("empty String()")
	}
}

func TestSPIWriteRawRecord(t *testing.T) {
	record := &spitest.Record{}
	dc := &gpiotest.Pin{N: "DC"}
	s, err := NewSPI(record, dc, DefaultFreq)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.WriteRaw(0x2A, []byte{0x00, 0x00, 0x00, 0xEF}); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteRaw(0x29, nil); err != nil {
		t.Fatal(err)
	}
	want := []conntest.IO{
		{W: []byte{0x2A}},
		{W: []byte{0x00, 0x00, 0x00, 0xEF}},
		{W: []byte{0x29}},
	}
	if diff := cmp.Diff(record.Ops, want, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("WriteRaw() difference (-got +want):\n%s", diff)
	}
	if dc.L != gpio.Low {
		t.Error("dc must be low after an opcode only command")
	}
}

func TestSPIWriteRawDC(t *testing.T) {
	dc := &gpiotest.Pin{N: "DC"}
	c := &fakeConn{dc: dc, max: 4}
	s := newSPI(c, dc)
	if err := s.WriteRaw(0x2C, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}); err != nil {
		t.Fatal(err)
	}
	want := []txn{
		{dc: gpio.Low, w: []byte{0x2C}},
		{dc: gpio.High, w: []byte{1, 2, 3, 4}},
		{dc: gpio.High, w: []byte{5, 6, 7, 8}},
		{dc: gpio.High, w: []byte{9, 10}},
	}
	if diff := cmp.Diff(c.ops, want, cmp.AllowUnexported(txn{})); diff != "" {
		t.Errorf("WriteRaw() difference (-got +want):\n%s", diff)
	}
}

func TestSPIWriteRawError(t *testing.T) {
	for _, failAt := range []int{1, 2, 3} {
		dc := &gpiotest.Pin{N: "DC"}
		c := &fakeConn{dc: dc, max: 2, failAt: failAt}
		s := newSPI(c, dc)
		if err := s.WriteRaw(0xE0, []byte{1, 2, 3, 4}); err != errBus {
			t.Errorf("failAt=%d: WriteRaw() = %v, want %v", failAt, err, errBus)
		}
		if len(c.ops) != failAt-1 {
			t.Errorf("failAt=%d: %d transfers after the failure", failAt, len(c.ops)-(failAt-1))
		}
	}
}

// strobe latches the data lines on the rising edge of WR.
type strobe struct {
	gpiotest.Pin
	dc   *gpiotest.Pin
	data [8]*gpiotest.Pin
	got  []txn
}

func (s *strobe) Out(l gpio.Level) error {
	if l == gpio.High && s.L == gpio.Low {
		var b byte
		for i, p := range s.data {
			if p.L == gpio.High {
				b |= 1 << uint(i)
			}
		}
		s.got = append(s.got, txn{dc: s.dc.L, w: []byte{b}})
	}
	return s.Pin.Out(l)
}

func newParallelTest(t *testing.T) (*Parallel, *strobe) {
	s := &strobe{Pin: gpiotest.Pin{N: "WR", L: gpio.High}, dc: &gpiotest.Pin{N: "DC"}}
	var data [8]gpio.PinOut
	for i := range s.data {
		s.data[i] = &gpiotest.Pin{N: "D", Num: i}
		data[i] = s.data[i]
	}
	p, err := NewParallel(s.dc, s, data)
	if err != nil {
		t.Fatal(err)
	}
	return p, s
}

func TestParallelWriteRaw(t *testing.T) {
	p, s := newParallelTest(t)
	if err := p.WriteRaw(0xCF, []byte{0x00, 0xC3, 0x30}); err != nil {
		t.Fatal(err)
	}
	if err := p.WriteRaw(0x11, nil); err != nil {
		t.Fatal(err)
	}
	want := []txn{
		{dc: gpio.Low, w: []byte{0xCF}},
		{dc: gpio.High, w: []byte{0x00}},
		{dc: gpio.High, w: []byte{0xC3}},
		{dc: gpio.High, w: []byte{0x30}},
		{dc: gpio.Low, w: []byte{0x11}},
	}
	if diff := cmp.Diff(s.got, want, cmp.AllowUnexported(txn{})); diff != "" {
		t.Errorf("WriteRaw() difference (-got +want):\n%s", diff)
	}
}

func TestNewParallelMissingPin(t *testing.T) {
	var data [8]gpio.PinOut
	for i := 0; i < 7; i++ {
		data[i] = &gpiotest.Pin{}
	}
	if _, err := NewParallel(&gpiotest.Pin{}, &gpiotest.Pin{}, data); err == nil {
		t.Error("expected error with a missing data pin")
	}
	if _, err := NewParallel(nil, &gpiotest.Pin{}, data); err == nil {
		t.Error("expected error with a missing dc pin")
	}
}

// fakeTinyGoBus implements drivers.SPI.
type fakeTinyGoBus struct {
	dc  bool
	ops []txn
	err error
}

func (f *fakeTinyGoBus) Tx(w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	f.ops = append(f.ops, txn{dc: gpio.Level(f.dc), w: append([]byte(nil), w...)})
	return nil
}

func (f *fakeTinyGoBus) Transfer(b byte) (byte, error) {
	return 0, f.Tx([]byte{b}, nil)
}

func TestTinyGoWriteRaw(t *testing.T) {
	bus := &fakeTinyGoBus{}
	tg := NewTinyGo(bus, func(high bool) { bus.dc = high })
	if err := tg.WriteRaw(0x3A, []byte{0x55}); err != nil {
		t.Fatal(err)
	}
	if err := tg.WriteRaw(0x29, nil); err != nil {
		t.Fatal(err)
	}
	want := []txn{
		{dc: gpio.Low, w: []byte{0x3A}},
		{dc: gpio.High, w: []byte{0x55}},
		{dc: gpio.Low, w: []byte{0x29}},
	}
	if diff := cmp.Diff(bus.ops, want, cmp.AllowUnexported(txn{})); diff != "" {
		t.Errorf("WriteRaw() difference (-got +want):\n%s", diff)
	}

	bus.err = errBus
	if err := tg.WriteRaw(0x29, nil); err != errBus {
		t.Errorf("WriteRaw() = %v, want %v", err, errBus)
	}
}
