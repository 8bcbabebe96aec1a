// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// bars are the color bars of the test card, left to right.
var bars = [][3]float64{
	{1, 1, 1},
	{1, 1, 0},
	{0, 1, 1},
	{0, 1, 0},
	{1, 0, 1},
	{1, 0, 0},
	{0, 0, 1},
	{0, 0, 0},
}

// testCard returns an image of the size of r with color bars, a gray ramp,
// a border and label in the middle.
//
// The corner marks show the orientation: red top left, green top right.
func testCard(r image.Rectangle, label string) (image.Image, error) {
	w, h := r.Dx(), r.Dy()
	dc := gg.NewContext(w, h)
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	barH := float64(h) * 2 / 3
	barW := float64(w) / float64(len(bars))
	for i, c := range bars {
		dc.SetRGB(c[0], c[1], c[2])
		dc.DrawRectangle(float64(i)*barW, 0, barW+1, barH)
		dc.Fill()
	}
	for x := 0; x < w; x++ {
		v := float64(x) / float64(w-1)
		dc.SetRGB(v, v, v)
		dc.DrawRectangle(float64(x), barH, 1, float64(h)-barH)
		dc.Fill()
	}

	m := float64(min(w, h)) / 10
	dc.SetRGB(1, 0, 0)
	dc.DrawRectangle(0, 0, m, m)
	dc.Fill()
	dc.SetRGB(0, 1, 0)
	dc.DrawRectangle(float64(w)-m, 0, m, m)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawRectangle(1, 1, float64(w)-2, float64(h)-2)
	dc.Stroke()

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{Size: float64(h) / 12})
	defer face.Close()
	dc.SetFontFace(face)
	tw, th := dc.MeasureString(label)
	pad := th / 2
	dc.SetRGB(0, 0, 0)
	dc.DrawRoundedRectangle((float64(w)-tw)/2-pad, barH/2-th/2-pad, tw+2*pad, th+2*pad, pad)
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(label, float64(w)/2, barH/2, 0.5, 0.5)
	return dc.Image(), nil
}
