// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package panelview serves what a panel shows as an HTTP image stream.
//
// The source is any image.Image, typically a termpanel.Dev, copied on every
// Publish call. Clients get the current frame when they connect and a new one
// after each Publish.
//
// The protocol is "MJPEG" (https://en.wikipedia.org/wiki/Motion_JPEG), as
// used by IP cameras. PNG is the default since it keeps the test card sharp;
// JPEG can be selected with Options.Format or the "format" URL parameter.
package panelview

import (
	"image"
	"image/color"
	"image/draw"
	"net/http"
	"sync"
)

// Options for a View.
type Options struct {
	// Format is the image format sent to clients that do not ask for one.
	// Empty means PNG.
	Format Format
	// Scale enlarges each panel pixel to Scale x Scale. 0 means 1.
	Scale int
	// Quality is the JPEG quality, 1 to 100. 0 means 90.
	Quality int
}

// View is an http.Handler streaming snapshots of src.
type View struct {
	src     image.Image
	format  Format
	scale   int
	quality int

	mu      sync.Mutex
	frame   *image.RGBA
	clients map[*client]struct{}
	encoded map[Format][]byte
}

// New returns a View of src. The first frame is taken immediately.
func New(src image.Image, opt *Options) *View {
	if opt == nil {
		opt = &Options{}
	}
	v := &View{
		src:     src,
		format:  opt.Format,
		scale:   opt.Scale,
		quality: opt.Quality,
		clients: map[*client]struct{}{},
		encoded: map[Format][]byte{},
	}
	if v.format == "" {
		v.format = PNG
	}
	if v.scale <= 0 {
		v.scale = 1
	}
	if v.quality <= 0 || v.quality > 100 {
		v.quality = 90
	}
	b := src.Bounds()
	v.frame = image.NewRGBA(image.Rect(0, 0, b.Dx()*v.scale, b.Dy()*v.scale))
	v.Publish()
	return v
}

func (v *View) String() string {
	return "PanelView"
}

// Bounds returns the size of the streamed images.
func (v *View) Bounds() image.Rectangle {
	return v.frame.Bounds()
}

// Publish takes a new snapshot of the source and sends it to every client.
//
// It must not be called concurrently with changes to the source.
func (v *View) Publish() {
	v.mu.Lock()
	defer v.mu.Unlock()
	b := v.src.Bounds()
	if v.scale == 1 {
		draw.Draw(v.frame, v.frame.Bounds(), v.src, b.Min, draw.Src)
	} else {
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.RGBAModel.Convert(v.src.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
				r := image.Rect(x*v.scale, y*v.scale, (x+1)*v.scale, (y+1)*v.scale)
				draw.Draw(v.frame, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
			}
		}
	}
	v.frameChangedLocked()
}

// Halt implements conn.Resource and ends all running client requests
// asynchronously.
func (v *View) Halt() error {
	v.mu.Lock()
	v.terminateClientsLocked()
	v.mu.Unlock()
	return nil
}

var _ http.Handler = (*View)(nil)
