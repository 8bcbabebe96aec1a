// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ili934x

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/GermanBionicSystems/devices/dbi"
	"github.com/GermanBionicSystems/devices/dcs"
	"github.com/GermanBionicSystems/devices/image565"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Variant:     ILI9341,
	PixelFormat: dcs.RGB565,
	Freq:        dbi.DefaultFreq,
}

// Opts defines the options for the device.
type Opts struct {
	// Variant is the controller. nil means ILI9341.
	Variant *Variant
	// W and H are the native panel size, unrotated. 0 uses the variant's
	// frame memory size.
	W int
	H int
	// Model is the panel orientation, color order and inversion.
	Model ModelOptions
	// PixelFormat must be dcs.RGB565 or dcs.RGB666.
	PixelFormat dcs.PixelFormat
	// Freq is the SPI clock for NewSPI. 0 uses dbi.DefaultFreq.
	Freq physic.Frequency
}

// NewSPI returns a Dev object that communicates over 4-wire SPI to an
// ILI934x controller.
//
// # Wiring
//
// Connect SDI to SPI_MOSI, SCK to SPI_CLK, CS to SPI_CS and D/C to dc.
//
// rst is optional. When set, the controller is hardware reset before
// initialization. Otherwise the controller must have been reset by other
// means, Init is only valid once per reset.
func NewSPI(p spi.Port, dc, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	di, err := dbi.NewSPI(p, dc, opts.Freq)
	if err != nil {
		return nil, err
	}
	delay := SleepDelay{}
	if rst != nil {
		if err := reset(rst, delay); err != nil {
			return nil, err
		}
	}
	return New(di, delay, opts)
}

// reset pulses RESX low. The pulse must be longer than 10µs.
func reset(rst gpio.PinOut, delay Delay) error {
	if err := rst.Out(gpio.High); err != nil {
		return err
	}
	delay.DelayUs(10)
	if err := rst.Out(gpio.Low); err != nil {
		return err
	}
	delay.DelayUs(20)
	return rst.Out(gpio.High)
}

// New initializes the controller behind di and returns a handle to it.
//
// opts can be nil to use DefaultOpts. Errors from the initialization
// sequence are returned unchanged; the display must then be reset before
// retrying.
func New(di dcs.Interface, delay Delay, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	v := opts.Variant
	if v == nil {
		v = ILI9341
	}
	mode, err := Init(di, delay, v, &opts.Model, opts.PixelFormat)
	if err != nil {
		return nil, err
	}
	native := v.Size()
	if opts.W != 0 {
		native = image.Point{X: opts.W, Y: opts.H}
	}
	d := &Dev{
		di:      di,
		variant: v,
		native:  native,
		pf:      opts.PixelFormat,
		model:   opts.Model,
	}
	d.setMode(mode)
	if !v.WritesAddressMode() {
		// Apply what the variant's sequence left at its fixed defaults.
		if err := d.sendCommand(dcs.SetAddressMode(mode)); err != nil {
			return nil, err
		}
		if err := d.sendCommand(dcs.SetInvertMode(opts.Model.InvertColors)); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (o *Opts) validate() error {
	if o.PixelFormat.BytesPerPixel() == 0 {
		return fmt.Errorf("ili934x: unsupported pixel format %s", o.PixelFormat)
	}
	if o.W < 0 || o.H < 0 || (o.W == 0) != (o.H == 0) {
		return fmt.Errorf("ili934x: invalid size %dx%d", o.W, o.H)
	}
	if s := o.Variant.Size(); o.W > s.X || o.H > s.Y {
		return fmt.Errorf("ili934x: size %dx%d exceeds the %s frame memory %s", o.W, o.H, o.Variant, s)
	}
	return nil
}

// Dev is an open handle to the display controller.
type Dev struct {
	di      dcs.Interface
	variant *Variant
	// native is the panel size with MV not set.
	native image.Point
	pf     dcs.PixelFormat
	model  ModelOptions
	mode   dcs.AddressMode

	// Bounds, swapped when MV is set.
	rect image.Rectangle
	// buf is reused to convert pixels for Draw.
	buf    []byte
	halted bool
}

func (d *Dev) String() string {
	return fmt.Sprintf("ili934x.Dev{%s, %v, %s, %s}", d.variant, d.di, d.rect.Max, d.pf)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	if d.pf == dcs.RGB565 {
		return image565.Model
	}
	return color.RGBAModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// AddressMode returns the current memory access control value.
func (d *Dev) AddressMode() dcs.AddressMode {
	return d.mode
}

// Draw implements display.Drawer.
//
// Only the area r is sent to the controller. A full frame *image565.Image
// is sent without conversion when the pixel format is RGB565.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	c := r.Intersect(d.rect)
	if c.Empty() {
		return nil
	}
	if img, ok := src.(*image565.Image); ok && d.pf == dcs.RGB565 && r == d.rect && img.Rect == d.rect && sp.X == 0 && sp.Y == 0 {
		// Exact size, full frame, native encoding: fast path!
		return d.writeRect(r, img.Pix)
	}
	// src stays aligned with r.Min when r is clipped.
	sp = sp.Add(c.Min.Sub(r.Min))
	n := c.Dx() * c.Dy()
	if d.pf == dcs.RGB565 {
		dst := &image565.Image{Pix: d.scratch(2 * n), Stride: 2 * c.Dx(), Rect: c}
		draw.Src.Draw(dst, c, src, sp)
		return d.writeRect(c, dst.Pix)
	}
	// RGB666 uses the 6 most significant bits of each byte. The RGBA pixels
	// are packed in place.
	dst := &image.RGBA{Pix: d.scratch(4 * n), Stride: 4 * c.Dx(), Rect: c}
	draw.Src.Draw(dst, c, src, sp)
	b := dst.Pix[:0]
	for i := 0; i < len(dst.Pix); i += 4 {
		b = append(b, dst.Pix[i]&0xFC, dst.Pix[i+1]&0xFC, dst.Pix[i+2]&0xFC)
	}
	return d.writeRect(c, b)
}

// Write writes a full frame of pixels in the configured pixel format: 2
// bytes per pixel for RGB565, 3 bytes per pixel for RGB666.
func (d *Dev) Write(pixels []byte) (int, error) {
	if n := d.rect.Dx() * d.rect.Dy() * d.pf.BytesPerPixel(); len(pixels) != n {
		return 0, fmt.Errorf("ili934x: invalid pixel stream length; expected %d bytes, got %d bytes", n, len(pixels))
	}
	if err := d.writeRect(d.rect, pixels); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// SetAddressWindow selects the area written by the next memory write.
func (d *Dev) SetAddressWindow(r image.Rectangle) error {
	if r.Empty() || !r.In(d.rect) {
		return fmt.Errorf("ili934x: invalid window %s", r)
	}
	if err := d.sendCommand(dcs.SetColumnAddress{Start: uint16(r.Min.X), End: uint16(r.Max.X - 1)}); err != nil {
		return err
	}
	return d.sendCommand(dcs.SetPageAddress{Start: uint16(r.Min.Y), End: uint16(r.Max.Y - 1)})
}

// SetOrientation changes the orientation. Bounds are swapped for 90° and
// 270°. The frame memory content is not changed.
func (d *Dev) SetOrientation(o Orientation) error {
	m := d.model
	m.Orientation = o
	mode := m.AddressMode()
	if err := d.sendCommand(dcs.SetAddressMode(mode)); err != nil {
		return err
	}
	d.model = m
	d.setMode(mode)
	return nil
}

// Invert the display colors.
func (d *Dev) Invert(on bool) error {
	if err := d.sendCommand(dcs.SetInvertMode(on)); err != nil {
		return err
	}
	d.model.InvertColors = on
	return nil
}

// Scroll defines a vertical scrolling area between topFixed and bottomFixed
// lines of the panel and shows it starting offset lines down.
//
// The lines are counted on the frame memory, so with a 90° or 270° rotation
// the scrolling is horizontal. The frame memory lines past the panel height
// are added to the bottom fixed area, since the controller requires the
// definition to cover all of them.
func (d *Dev) Scroll(topFixed, bottomFixed, offset int) error {
	lines := d.native.Y
	if topFixed < 0 || bottomFixed < 0 || topFixed+bottomFixed >= lines {
		return fmt.Errorf("ili934x: invalid scroll area %d+%d for %d lines", topFixed, bottomFixed, lines)
	}
	area := lines - topFixed - bottomFixed
	offset %= area
	if offset < 0 {
		offset += area
	}
	unused := d.variant.Size().Y - lines
	if err := d.sendCommand(dcs.SetScrollArea{TopFixed: uint16(topFixed), Scroll: uint16(area), BottomFixed: uint16(bottomFixed + unused)}); err != nil {
		return err
	}
	return d.sendCommand(dcs.SetScrollStart(topFixed + offset))
}

// Halt turns off the display.
//
// Sending any other command afterward reenables the display.
func (d *Dev) Halt() error {
	if err := dcs.WriteCommand(d.di, dcs.SetDisplayOff); err != nil {
		return fmt.Errorf("ili934x: %w", err)
	}
	d.halted = true
	return nil
}

func (d *Dev) setMode(mode dcs.AddressMode) {
	d.mode = mode
	w, h := d.native.X, d.native.Y
	if mode.SwapsAxes() {
		w, h = h, w
	}
	d.rect = image.Rect(0, 0, w, h)
}

func (d *Dev) writeRect(r image.Rectangle, pixels []byte) error {
	if err := d.SetAddressWindow(r); err != nil {
		return err
	}
	if err := d.di.WriteRaw(dcs.RAMWR, pixels); err != nil {
		return fmt.Errorf("ili934x: memory write: %w", err)
	}
	return nil
}

// scratch returns a reused, zeroed, buffer of n bytes. Pixels not covered by
// the source stay black.
func (d *Dev) scratch(n int) []byte {
	if cap(d.buf) < n {
		d.buf = make([]byte, n)
		return d.buf
	}
	b := d.buf[:n]
	clear(b)
	return b
}

func (d *Dev) sendCommand(c dcs.Command) error {
	if d.halted {
		// Transparently enable the display.
		if err := dcs.WriteCommand(d.di, dcs.SetDisplayOn); err != nil {
			return fmt.Errorf("ili934x: %w", err)
		}
		d.halted = false
	}
	if err := dcs.WriteCommand(d.di, c); err != nil {
		return fmt.Errorf("ili934x: %w", err)
	}
	return nil
}

var _ display.Drawer = &Dev{}
