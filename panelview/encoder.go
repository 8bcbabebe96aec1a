// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package panelview

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"sync"
)

// Format is a frame encoding, named as in the "format" URL parameter.
type Format string

// Supported formats.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// parseFormat returns the Format named s, or def when s is empty.
func parseFormat(s string, def Format) (Format, error) {
	switch strings.ToLower(s) {
	case "":
		return def, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return "", fmt.Errorf("panelview: unrecognized image format %q", s)
}

type pngBufferPool sync.Pool

func (p *pngBufferPool) Get() *png.EncoderBuffer {
	buf, _ := (*sync.Pool)(p).Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngBufferPool) Put(buf *png.EncoderBuffer) {
	(*sync.Pool)(p).Put(buf)
}

// pngEncoder shares its buffers across all views. Frames change often, so
// speed matters more than size.
var pngEncoder = png.Encoder{
	CompressionLevel: png.BestSpeed,
	BufferPool:       &pngBufferPool{},
}

// framePool stores reusable []byte instances.
var framePool = sync.Pool{
	New: func() interface{} {
		return []byte(nil)
	},
}

func encode(img image.Image, format Format, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(framePool.Get().([]byte)[:0])
	switch format {
	case PNG:
		if err := pngEncoder.Encode(buf, img); err != nil {
			return nil, err
		}
	case JPEG:
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("panelview: unhandled image format %q", format)
	}
	return buf.Bytes(), nil
}
