// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termpanel emulates an ILI934x panel and renders its frame memory
// to a terminal using ANSI color codes.
//
// Useful while you are waiting for your super nice TFT breakout to come by
// mail.
package termpanel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/devices/dcs"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for the emulated panel.
type Opts struct {
	// W and H are the native frame memory size. 0 means 240x320.
	W int
	H int
	// Scale is the number of pixels, in each direction, shown by one
	// terminal cell. 0 means 4.
	Scale int
	// BGR is true for a panel with BGR color filters.
	BGR     bool
	Palette *ansi256.Palette
	// Out receives the rendering. nil means the console.
	Out io.Writer
	// Trace records every write, see Dev.Trace.
	Trace bool

	_ struct{}
}

// Write is one recorded write.
type Write struct {
	Op      byte
	Payload []byte
}

// Dev is an emulated ILI934x controller and panel. It implements
// dcs.Interface on the input side and image.Image for what the panel shows.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	scale   int
	bgr     bool
	size    image.Point
	trace   bool

	// Frame memory, 3 bytes per pixel in native order.
	mem []byte

	sleeping bool
	on       bool
	inverted bool
	mode     dcs.AddressMode
	pf       dcs.PixelFormat
	cols     [2]int
	pages    [2]int

	// Memory write pointer, in logical coordinates.
	col, page int

	// Vertical scrolling, in frame memory lines.
	scrollTop   int
	scrollArea  int
	scrollStart int
	scrolling   bool

	writes []Write
	buf    bytes.Buffer
}

// New returns an emulated panel in its power on state: asleep, display off.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		w:       opts.Out,
		palette: *p,
		scale:   opts.Scale,
		bgr:     opts.BGR,
		size:    image.Point{X: opts.W, Y: opts.H},
		trace:   opts.Trace,
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
	}
	if d.scale <= 0 {
		d.scale = 4
	}
	if d.size.X <= 0 || d.size.Y <= 0 {
		d.size = image.Point{X: 240, Y: 320}
	}
	d.mem = make([]byte, 3*d.size.X*d.size.Y)
	d.reset()
	return d
}

func (d *Dev) String() string {
	return fmt.Sprintf("termpanel{%dx%d}", d.size.X, d.size.Y)
}

// WriteRaw implements dcs.Interface.
//
// Commands that do not change what the panel shows are accepted and ignored.
func (d *Dev) WriteRaw(op byte, payload []byte) error {
	if d.trace {
		d.writes = append(d.writes, Write{Op: op, Payload: append([]byte(nil), payload...)})
	}
	switch op {
	case dcs.SWRESET:
		d.reset()
	case dcs.SLPIN:
		d.sleeping = true
	case dcs.SLPOUT:
		d.sleeping = false
	case dcs.DISPOFF:
		d.on = false
	case dcs.DISPON:
		d.on = true
	case dcs.INVOFF:
		d.inverted = false
	case dcs.INVON:
		d.inverted = true
	case dcs.MADCTL:
		if err := expect(op, payload, 1); err != nil {
			return err
		}
		d.mode = dcs.AddressMode(payload[0])
	case dcs.COLMOD:
		if err := expect(op, payload, 1); err != nil {
			return err
		}
		d.pf = dcs.PixelFormat{DPI: dcs.BitsPerPixel(payload[0]>>4&7), DBI: dcs.BitsPerPixel(payload[0]&7)}
	case dcs.CASET:
		if err := expect(op, payload, 4); err != nil {
			return err
		}
		d.cols = [2]int{be16(payload), be16(payload[2:])}
	case dcs.PASET:
		if err := expect(op, payload, 4); err != nil {
			return err
		}
		d.pages = [2]int{be16(payload), be16(payload[2:])}
	case dcs.VSCRDEF:
		if err := expect(op, payload, 6); err != nil {
			return err
		}
		d.scrollTop, d.scrollArea = be16(payload), be16(payload[2:])
	case dcs.VSCRSADD:
		if err := expect(op, payload, 2); err != nil {
			return err
		}
		d.scrollStart = be16(payload)
		d.scrolling = true
	case dcs.NORON:
		d.scrolling = false
	case dcs.RAMWR:
		d.col, d.page = d.cols[0], d.pages[0]
		return d.memoryWrite(payload)
	case dcs.RAMWRC:
		return d.memoryWrite(payload)
	}
	return nil
}

// Trace returns the writes recorded so far when Opts.Trace is set.
func (d *Dev) Trace() []Write {
	return d.writes
}

// AddressMode returns the last MADCTL value written.
func (d *Dev) AddressMode() dcs.AddressMode {
	return d.mode
}

// PixelFormat returns the last COLMOD value written.
func (d *Dev) PixelFormat() dcs.PixelFormat {
	return d.pf
}

// Visible returns true when the panel is out of sleep with the display on.
func (d *Dev) Visible() bool {
	return d.on && !d.sleeping
}

// ColorModel implements image.Image.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image. It is the native, unrotated, panel.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: d.size}
}

// At implements image.Image. It returns the color shown by the panel, so
// black when the display is off.
func (d *Dev) At(x, y int) color.Color {
	return d.nrgbaAt(x, y)
}

func (d *Dev) nrgbaAt(x, y int) color.NRGBA {
	if !(image.Point{X: x, Y: y}.In(d.Bounds())) || !d.Visible() {
		return color.NRGBA{A: 255}
	}
	i := 3 * (d.line(y)*d.size.X + x)
	r, g, b := d.mem[i], d.mem[i+1], d.mem[i+2]
	if d.mode.Has(dcs.BGR) != d.bgr {
		r, b = b, r
	}
	if d.inverted {
		r, g, b = ^r, ^g, ^b
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Refresh renders the panel to the output.
func (d *Dev) Refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H\033[0m")
	for y := 0; y < d.size.Y; y += d.scale {
		for x := 0; x < d.size.X; x += d.scale {
			_, _ = io.WriteString(&d.buf, d.palette.Block(d.nrgbaAt(x, y)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Halt resets the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// line returns the frame memory line shown on the panel line y.
func (d *Dev) line(y int) int {
	top, area := d.scrollTop, d.scrollArea
	if !d.scrolling || area <= 0 || y < top || y >= top+area || top+area > d.size.Y {
		return y
	}
	return top + ((y-top+d.scrollStart-top)%area+area)%area
}

func (d *Dev) reset() {
	d.sleeping = true
	d.on = false
	d.inverted = false
	d.mode = 0
	d.pf = dcs.RGB666
	d.cols = [2]int{0, d.size.X - 1}
	d.pages = [2]int{0, d.size.Y - 1}
	d.col, d.page = 0, 0
	d.scrollTop, d.scrollArea, d.scrollStart = 0, d.size.Y, 0
	d.scrolling = false
}

// memoryWrite stores pixels at the write pointer, advancing along the
// column window then wrapping to the next page.
func (d *Dev) memoryWrite(payload []byte) error {
	n := d.pf.BytesPerPixel()
	if n == 0 {
		return fmt.Errorf("termpanel: memory write with unsupported pixel format %s", d.pf)
	}
	if d.cols[0] > d.cols[1] || d.pages[0] > d.pages[1] {
		return nil
	}
	for ; len(payload) >= n; payload = payload[n:] {
		var r, g, b byte
		if n == 2 {
			v := uint16(payload[0])<<8 | uint16(payload[1])
			r = byte(v>>11) << 3
			g = byte(v>>5) << 2
			b = byte(v) << 3
			r |= r >> 5
			g |= g >> 6
			b |= b >> 5
		} else {
			r, g, b = payload[0]&0xFC, payload[1]&0xFC, payload[2]&0xFC
		}
		if x, y, ok := d.physical(d.col, d.page); ok {
			i := 3 * (y*d.size.X + x)
			d.mem[i], d.mem[i+1], d.mem[i+2] = r, g, b
		}
		if d.col++; d.col > d.cols[1] {
			d.col = d.cols[0]
			if d.page++; d.page > d.pages[1] {
				d.page = d.pages[0]
			}
		}
	}
	return nil
}

// physical maps a logical column and page to the frame memory.
func (d *Dev) physical(c, p int) (int, int, bool) {
	w, h := d.size.X, d.size.Y
	if d.mode.SwapsAxes() {
		w, h = h, w
	}
	if c < 0 || c >= w || p < 0 || p >= h {
		return 0, 0, false
	}
	if d.mode.Has(dcs.MX) {
		c = w - 1 - c
	}
	if d.mode.Has(dcs.MY) {
		p = h - 1 - p
	}
	if d.mode.SwapsAxes() {
		return p, c, true
	}
	return c, p, true
}

func expect(op byte, payload []byte, n int) error {
	if len(payload) != n {
		return fmt.Errorf("termpanel: command %#02x expects %d bytes, got %d", op, n, len(payload))
	}
	return nil
}

func be16(b []byte) int {
	return int(b[0])<<8 | int(b[1])
}

var _ dcs.Interface = &Dev{}
var _ image.Image = &Dev{}
var _ fmt.Stringer = &Dev{}
