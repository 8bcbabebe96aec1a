// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dcs

// Standard DCS opcodes.
const (
	NOP      = 0x00
	SWRESET  = 0x01 // Software reset
	RDDID    = 0x04 // Read display identification
	RDDST    = 0x09 // Read display status
	SLPIN    = 0x10 // Enter sleep mode
	SLPOUT   = 0x11 // Exit sleep mode
	PTLON    = 0x12 // Partial mode on
	NORON    = 0x13 // Normal display mode on
	INVOFF   = 0x20 // Display inversion off
	INVON    = 0x21 // Display inversion on
	GAMSET   = 0x26 // Gamma set
	DISPOFF  = 0x28 // Display off
	DISPON   = 0x29 // Display on
	CASET    = 0x2A // Column address set
	PASET    = 0x2B // Page address set
	RAMWR    = 0x2C // Memory write
	RAMRD    = 0x2E // Memory read
	PTLAR    = 0x30 // Partial area
	VSCRDEF  = 0x33 // Vertical scrolling definition
	TEOFF    = 0x34 // Tearing effect line off
	TEON     = 0x35 // Tearing effect line on
	MADCTL   = 0x36 // Memory access control
	VSCRSADD = 0x37 // Vertical scrolling start address
	IDMOFF   = 0x38 // Idle mode off
	IDMON    = 0x39 // Idle mode on
	COLMOD   = 0x3A // Pixel format set
	RAMWRC   = 0x3C // Write memory continue
	RAMRDC   = 0x3E // Read memory continue
	WRDISBV  = 0x51 // Write display brightness
	RDID1    = 0xDA
	RDID2    = 0xDB
	RDID3    = 0xDC
)

// ILI934x extended (manufacturer) registers.
const (
	FRMCTR1  = 0xB1 // Frame rate control, normal mode
	FRMCTR2  = 0xB2 // Frame rate control, idle mode
	FRMCTR3  = 0xB3 // Frame rate control, partial mode
	INVCTR   = 0xB4 // Display inversion control
	DFUNCTR  = 0xB6 // Display function control
	PWCTR1   = 0xC0 // Power control 1, VRH
	PWCTR2   = 0xC1 // Power control 2, SAP/BT
	VMCTR1   = 0xC5 // VCOM control 1
	VMCTR2   = 0xC7 // VCOM control 2
	PWCTRA   = 0xCB // Power control A
	PWCTRB   = 0xCF // Power control B
	GMCTRP1  = 0xE0 // Positive gamma correction
	GMCTRN1  = 0xE1 // Negative gamma correction
	DTCTRA   = 0xE8 // Driver timing control A
	DTCTRB   = 0xEA // Driver timing control B
	PWONCTR  = 0xED // Power on sequence control
	EN3GAM   = 0xF2 // Enable 3 gamma control
	IFCTL    = 0xF6 // Interface control
	PUMPRCTR = 0xF7 // Pump ratio control
)

// Interface is a bus that can deliver commands to the controller.
//
// Implementations must send the opcode followed by exactly len(payload)
// bytes, in order, and must not reorder or coalesce successive calls. The
// returned error comes from the underlying transport.
type Interface interface {
	WriteRaw(opcode byte, payload []byte) error
}

// Command is a typed DCS command.
type Command interface {
	Opcode() byte
	// Payload returns the parameter bytes. It may be empty.
	Payload() []byte
}

// WriteCommand sends cmd over di.
func WriteCommand(di Interface, cmd Command) error {
	return di.WriteRaw(cmd.Opcode(), cmd.Payload())
}

// Bytes returns the opcode followed by the payload of cmd.
func Bytes(cmd Command) []byte {
	p := cmd.Payload()
	b := make([]byte, 0, 1+len(p))
	b = append(b, cmd.Opcode())
	return append(b, p...)
}
