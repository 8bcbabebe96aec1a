// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ili934x

import (
	"image"

	"github.com/GermanBionicSystems/devices/dcs"
)

// Settle times, in milliseconds.
const (
	// resetSettle is the wait after a reset before SLPOUT may be sent. The
	// reset may have implicitly entered sleep, which requires 120ms.
	resetSettle = 120
	// sleepOutSettle is the wait after SLPOUT; the controller reloads the
	// factory settings and registers during that time.
	sleepOutSettle = 120
	// displayOnSettle is the wait after DISPON.
	displayOnSettle = 50
)

// Variant is a controller of the ILI934x family.
//
// It only holds what differs from the common ILI934x initialization
// sequence. Use one of the predefined values.
type Variant struct {
	name string
	// size is the native frame memory size, MV not set.
	size image.Point
	// overrides replaces the payload of a register of the common sequence.
	overrides map[byte][]byte
	// deferredTail skips the fixed MADCTL and INVON writes of the common
	// sequence and instead writes the inversion and address mode from the
	// options once the display is on.
	deferredTail bool
}

// Supported controllers.
var (
	// ILI9341 is a 240x320 controller. The sequence writes a fixed MADCTL
	// and enables inversion; the caller applies the returned AddressMode.
	ILI9341 = &Variant{
		name: "ILI9341",
		size: image.Point{X: 240, Y: 320},
	}
	// ILI9342C is the 320x240 landscape variant. It configures inversion and
	// the address mode from the options at the end of the sequence.
	ILI9342C = &Variant{
		name:         "ILI9342C",
		size:         image.Point{X: 320, Y: 240},
		deferredTail: true,
	}
)

func (v *Variant) String() string {
	if v == nil {
		return ILI9341.name
	}
	return v.name
}

// Size returns the native resolution, unrotated.
func (v *Variant) Size() image.Point {
	if v == nil {
		return ILI9341.size
	}
	return v.size
}

// WritesAddressMode returns true when Init writes the options derived
// AddressMode itself.
func (v *Variant) WritesAddressMode() bool {
	return v != nil && v.deferredTail
}

func (v *Variant) payload(op byte, def []byte) []byte {
	if v != nil {
		if p, ok := v.overrides[op]; ok {
			return p
		}
	}
	return def
}

type register struct {
	op   byte
	data []byte
}

// powerBlock is written right after the reset settle time.
var powerBlock = []register{
	// Power control B: power control [3:4], ESD protection, DC_ena.
	{dcs.PWCTRB, []byte{0x00, 0xC3, 0x30}},
	// Power on sequence: soft start, sequence, DDVDH enhance mode.
	{dcs.PWONCTR, []byte{0x64, 0x03, 0x12, 0x81}},
	// Driver timing A: gate non-overlap, EQ, pre-charge.
	{dcs.DTCTRA, []byte{0x85, 0x10, 0x79}},
	// Power control A: vCore 1.6V, DDVDH 5.6V.
	{dcs.PWCTRA, []byte{0x39, 0x2C, 0x00, 0x34, 0x02}},
	// Pump ratio: DDVDH = 2xVCI.
	{dcs.PUMPRCTR, []byte{0x20}},
	// Driver timing B: gate driver timing.
	{dcs.DTCTRB, []byte{0x00, 0x00}},
	// Power control 1: VRH[5:0], GVDD level.
	{dcs.PWCTR1, []byte{0x22}},
	// Power control 2: SAP[2:0], BT[3:0], step-up factor.
	{dcs.PWCTR2, []byte{0x11}},
	// VCOM control 1: VCOMH, VCOML.
	{dcs.VMCTR1, []byte{0x3A, 0x1C}},
	// VCOM control 2: nVM and VCOM offset.
	{dcs.VMCTR2, []byte{0xA9}},
}

// displayBlock is written after the pixel format.
var displayBlock = []register{
	// Frame control, normal mode: DIVA[1:0]=0, RTNA[4:0]=27 clocks, 70Hz.
	{dcs.FRMCTR1, []byte{0x00, 0x1B}},
	// Display function control.
	{dcs.DFUNCTR, []byte{0x0A, 0xA2}},
	// Interface control: memory overflow, endianness, RGB interface.
	{dcs.IFCTL, []byte{0x01, 0x1D}},
	// 3 gamma function disable.
	{dcs.EN3GAM, []byte{0x00}},
	// Gamma curve 1.
	{dcs.GAMSET, []byte{0x01}},
	{dcs.GMCTRP1, []byte{0x0F, 0x3F, 0x2F, 0x0C, 0x10, 0x0A, 0x53, 0xD5, 0x40, 0x0A, 0x13, 0x03, 0x08, 0x03, 0x00}},
	{dcs.GMCTRN1, []byte{0x00, 0x00, 0x10, 0x03, 0x0F, 0x05, 0x2C, 0xA2, 0x3F, 0x05, 0x0E, 0x0C, 0x37, 0x3C, 0x0F}},
}

// Init brings the controller from reset to display on.
//
// It must be called once after a hardware or software reset. It returns the
// AddressMode derived from opts for use by later frame writes; depending on
// the variant it may not have been written yet, see
// Variant.WritesAddressMode.
//
// The first error returned by di aborts the sequence and is returned as-is.
// The controller is then in an undefined state and must be reset.
//
// A nil v is ILI9341 and a nil opts is the zero ModelOptions. pf must be one
// of the valid dcs pixel formats.
func Init(di dcs.Interface, delay Delay, v *Variant, opts *ModelOptions, pf dcs.PixelFormat) (dcs.AddressMode, error) {
	if opts == nil {
		opts = &ModelOptions{}
	}
	mode := opts.AddressMode()
	s := sequencer{di: di, delay: delay}

	s.delayMs(resetSettle)
	for _, r := range powerBlock {
		s.write(r.op, v.payload(r.op, r.data))
	}
	if !v.WritesAddressMode() {
		// [MY, MX, MV, ML, BGR, MH, 0, 0]
		s.write(dcs.MADCTL, []byte{0x00})
	}
	s.command(dcs.SetPixelFormat(pf))
	for _, r := range displayBlock {
		s.write(r.op, v.payload(r.op, r.data))
	}
	if !v.WritesAddressMode() {
		s.command(dcs.SetInvertMode(true))
	}

	s.command(dcs.ExitSleepMode)
	s.delayMs(sleepOutSettle)
	// Exits display-off mode and starts reading from frame memory.
	s.command(dcs.SetDisplayOn)
	s.delayMs(displayOnSettle)

	if v.WritesAddressMode() {
		s.command(dcs.SetInvertMode(opts.InvertColors))
		s.command(dcs.SetAddressMode(mode))
	}
	if s.err != nil {
		return 0, s.err
	}
	return mode, nil
}

// sequencer issues writes and delays until the first error.
type sequencer struct {
	di    dcs.Interface
	delay Delay
	err   error
}

func (s *sequencer) write(op byte, data []byte) {
	if s.err != nil {
		return
	}
	s.err = s.di.WriteRaw(op, data)
}

func (s *sequencer) command(c dcs.Command) {
	if s.err != nil {
		return
	}
	s.err = dcs.WriteCommand(s.di, c)
}

func (s *sequencer) delayMs(ms uint32) {
	if s.err != nil {
		return
	}
	s.delay.DelayMs(ms)
}
