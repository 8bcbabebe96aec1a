// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image565 implements an image stored in the RGB565 big endian
// layout used by TFT controllers memory writes.
//
// Each pixel takes two bytes, red in the top 5 bits of the first byte, blue
// in the bottom 5 bits of the second byte. Image.Pix can be sent as-is after
// a RAMWR command.
package image565

import (
	"image"
	"image/color"
)

// Color is a 16 bits color: RRRRRGGG GGGBBBBB.
type Color uint16

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8 := uint32(c>>11) & 0x1F
	g8 := uint32(c>>5) & 0x3F
	b8 := uint32(c) & 0x1F
	r8 = r8<<3 | r8>>2
	g8 = g8<<2 | g8>>4
	b8 = b8<<3 | b8>>2
	return r8 * 0x101, g8 * 0x101, b8 * 0x101, 0xFFFF
}

// RGB returns a Color from 8 bits channels.
func RGB(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

func convert(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Model converts any color to Color. Alpha is ignored.
var Model = color.ModelFunc(convert)

// Image is an in-memory image whose At method returns Color values.
type Image struct {
	// Pix holds the pixels as big endian 16 bits words, row by row.
	Pix []byte
	// Stride is the number of bytes between two vertically adjacent pixels.
	Stride int
	Rect   image.Rectangle
}

// New returns a new Image with the given bounds.
func New(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image{Rect: r}
	}
	return &Image{Pix: make([]byte, 2*w*h), Stride: 2 * w, Rect: r}
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *Image) At(x, y int) color.Color {
	return i.RGB565At(x, y)
}

// RGB565At returns the Color at (x, y), or 0 outside of the bounds.
func (i *Image) RGB565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return 0
	}
	o := i.PixOffset(x, y)
	return Color(i.Pix[o])<<8 | Color(i.Pix[o+1])
}

// Set implements draw.Image.
func (i *Image) Set(x, y int, c color.Color) {
	i.SetRGB565(x, y, Model.Convert(c).(Color))
}

// SetRGB565 sets the pixel at (x, y) without color conversion.
func (i *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return
	}
	o := i.PixOffset(x, y)
	i.Pix[o] = byte(c >> 8)
	i.Pix[o+1] = byte(c)
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (i *Image) PixOffset(x, y int) int {
	return (y-i.Rect.Min.Y)*i.Stride + (x-i.Rect.Min.X)*2
}

// Fill sets every pixel to c.
func (i *Image) Fill(c Color) {
	hi, lo := byte(c>>8), byte(c)
	for o := 0; o+1 < len(i.Pix); o += 2 {
		i.Pix[o] = hi
		i.Pix[o+1] = lo
	}
}
