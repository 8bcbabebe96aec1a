// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package dcs

// Op is a command without parameter.
type Op byte

// Opcode implements Command.
func (o Op) Opcode() byte { return byte(o) }

// Payload implements Command.
func (Op) Payload() []byte { return nil }

// Parameterless commands.
const (
	SoftReset        Op = SWRESET
	EnterSleepMode   Op = SLPIN
	ExitSleepMode    Op = SLPOUT
	EnterNormalMode  Op = NORON
	SetDisplayOn     Op = DISPON
	SetDisplayOff    Op = DISPOFF
	EnterIdleMode    Op = IDMON
	ExitIdleMode     Op = IDMOFF
	WriteMemoryStart Op = RAMWR
	SetTearingOff    Op = TEOFF
)

// SetInvertMode enables or disables color inversion.
type SetInvertMode bool

// Opcode implements Command.
func (s SetInvertMode) Opcode() byte {
	if s {
		return INVON
	}
	return INVOFF
}

// Payload implements Command.
func (SetInvertMode) Payload() []byte { return nil }

// SetAddressMode writes the memory access control register.
type SetAddressMode AddressMode

// Opcode implements Command.
func (SetAddressMode) Opcode() byte { return MADCTL }

// Payload implements Command.
func (s SetAddressMode) Payload() []byte { return []byte{byte(s)} }

// SetPixelFormat writes the pixel format register.
type SetPixelFormat PixelFormat

// Opcode implements Command.
func (SetPixelFormat) Opcode() byte { return COLMOD }

// Payload implements Command.
func (s SetPixelFormat) Payload() []byte { return []byte{PixelFormat(s).Encode()} }

// SetColumnAddress selects the inclusive column range of the next memory
// write.
type SetColumnAddress struct {
	Start, End uint16
}

// Opcode implements Command.
func (SetColumnAddress) Opcode() byte { return CASET }

// Payload implements Command.
func (s SetColumnAddress) Payload() []byte { return be16(s.Start, s.End) }

// SetPageAddress selects the inclusive row range of the next memory write.
type SetPageAddress struct {
	Start, End uint16
}

// Opcode implements Command.
func (SetPageAddress) Opcode() byte { return PASET }

// Payload implements Command.
func (s SetPageAddress) Payload() []byte { return be16(s.Start, s.End) }

// SetScrollArea defines the vertical scrolling area.
//
// The three values must add up to the number of lines of the frame memory.
type SetScrollArea struct {
	TopFixed, Scroll, BottomFixed uint16
}

// Opcode implements Command.
func (SetScrollArea) Opcode() byte { return VSCRDEF }

// Payload implements Command.
func (s SetScrollArea) Payload() []byte { return be16(s.TopFixed, s.Scroll, s.BottomFixed) }

// SetScrollStart sets the first line of the scrolling area.
type SetScrollStart uint16

// Opcode implements Command.
func (SetScrollStart) Opcode() byte { return VSCRSADD }

// Payload implements Command.
func (s SetScrollStart) Payload() []byte { return be16(uint16(s)) }

// TearingEffect is the output mode of the TE line.
type TearingEffect byte

// TE line modes.
const (
	TearingVBlank     TearingEffect = 0 // V-blanking only
	TearingVAndHBlank TearingEffect = 1 // V-blanking and H-blanking
)

// SetTearingEffect enables the TE output line.
type SetTearingEffect TearingEffect

// Opcode implements Command.
func (SetTearingEffect) Opcode() byte { return TEON }

// Payload implements Command.
func (s SetTearingEffect) Payload() []byte { return []byte{byte(s)} }

func be16(v ...uint16) []byte {
	b := make([]byte, 0, 2*len(v))
	for _, x := range v {
		b = append(b, byte(x>>8), byte(x))
	}
	return b
}
