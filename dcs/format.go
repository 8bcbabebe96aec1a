// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dcs

import "fmt"

// BitsPerPixel is a color depth as encoded in the COLMOD register.
//
// The value is the 3 bit DCS code, not the number of bits.
type BitsPerPixel uint8

// Supported color depths.
const (
	Bpp3  BitsPerPixel = 0b001
	Bpp8  BitsPerPixel = 0b010
	Bpp12 BitsPerPixel = 0b011
	Bpp16 BitsPerPixel = 0b101
	Bpp18 BitsPerPixel = 0b110
	Bpp24 BitsPerPixel = 0b111
)

// Bits returns the number of bits per pixel, or 0 for an unknown code.
func (b BitsPerPixel) Bits() int {
	switch b {
	case Bpp3:
		return 3
	case Bpp8:
		return 8
	case Bpp12:
		return 12
	case Bpp16:
		return 16
	case Bpp18:
		return 18
	case Bpp24:
		return 24
	default:
		return 0
	}
}

func (b BitsPerPixel) String() string {
	if n := b.Bits(); n != 0 {
		return fmt.Sprintf("%dbpp", n)
	}
	return fmt.Sprintf("BitsPerPixel(%#03b)", uint8(b))
}

// PixelFormat selects the color depth of the RGB (DPI) and MCU (DBI)
// interfaces.
type PixelFormat struct {
	DPI BitsPerPixel
	DBI BitsPerPixel
}

// Common pixel formats, same depth on both interfaces.
var (
	RGB565 = PixelFormatAll(Bpp16)
	RGB666 = PixelFormatAll(Bpp18)
)

// PixelFormatAll returns a PixelFormat using bpp for both interfaces.
func PixelFormatAll(bpp BitsPerPixel) PixelFormat {
	return PixelFormat{DPI: bpp, DBI: bpp}
}

// Encode returns the COLMOD parameter: [0, DPI[2:0], 0, DBI[2:0]].
func (p PixelFormat) Encode() byte {
	return byte(p.DPI&7)<<4 | byte(p.DBI&7)
}

// Valid returns true if both depths are known codes.
func (p PixelFormat) Valid() bool {
	return p.DPI.Bits() != 0 && p.DBI.Bits() != 0
}

// BytesPerPixel returns the number of bytes sent per pixel on the MCU
// interface when using 8 bit transfers.
//
// Only 16 and 18 bits formats are supported for memory writes; it returns 0
// otherwise.
func (p PixelFormat) BytesPerPixel() int {
	switch p.DBI {
	case Bpp16:
		return 2
	case Bpp18:
		return 3
	default:
		return 0
	}
}

func (p PixelFormat) String() string {
	if p.DPI == p.DBI {
		return p.DBI.String()
	}
	return fmt.Sprintf("DPI:%s/DBI:%s", p.DPI, p.DBI)
}

// AddressMode is the memory access control (MADCTL) register value.
//
// [MY, MX, MV, ML, BGR, MH, 0, 0]
type AddressMode byte

// AddressMode bits.
const (
	_   AddressMode = 1 << iota // D0: reserved
	_                           // D1: reserved
	MH                          // D2: horizontal refresh right to left
	BGR                         // D3: BGR color filter order
	ML                          // D4: vertical refresh bottom to top
	MV                          // D5: row/column exchange
	MX                          // D6: column address order, right to left
	MY                          // D7: row address order, bottom to top
)

// Has returns true if all bits in m are set.
func (a AddressMode) Has(m AddressMode) bool {
	return a&m == m
}

// SwapsAxes returns true when rows and columns are exchanged, so the frame
// memory has to be addressed with width and height swapped.
func (a AddressMode) SwapsAxes() bool {
	return a.Has(MV)
}

func (a AddressMode) String() string {
	return fmt.Sprintf("AddressMode(%08b)", byte(a))
}
