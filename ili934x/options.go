// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ili934x

import (
	"fmt"

	"github.com/GermanBionicSystems/devices/dcs"
)

// Rotation is a clockwise rotation of the displayed image.
type Rotation uint8

// Possible rotations.
const (
	Deg0 Rotation = iota
	Deg90
	Deg180
	Deg270
)

func (r Rotation) String() string {
	switch r {
	case Deg0:
		return "0°"
	case Deg90:
		return "90°"
	case Deg180:
		return "180°"
	case Deg270:
		return "270°"
	default:
		return fmt.Sprintf("Rotation(%d)", uint8(r))
	}
}

// Orientation is the rotation plus an optional horizontal mirror.
type Orientation struct {
	Rotation Rotation
	// Mirrored flips the image along the vertical axis, after rotation.
	Mirrored bool
}

// ColorOrder is the order of the color filters on the panel.
type ColorOrder uint8

// Color filter orders.
const (
	RGB ColorOrder = iota
	BGR
)

// VerticalRefreshOrder is the order in which the panel refreshes lines.
type VerticalRefreshOrder uint8

// Vertical refresh orders.
const (
	TopToBottom VerticalRefreshOrder = iota
	BottomToTop
)

// HorizontalRefreshOrder is the order in which the panel latches columns.
type HorizontalRefreshOrder uint8

// Horizontal refresh orders.
const (
	LeftToRight HorizontalRefreshOrder = iota
	RightToLeft
)

// RefreshOrder controls the LCD refresh direction. It doesn't affect the
// image, only tearing artifacts.
type RefreshOrder struct {
	Vertical   VerticalRefreshOrder
	Horizontal HorizontalRefreshOrder
}

// ModelOptions is the per panel customization of the controller.
//
// The zero value is RGB, unrotated, not inverted.
type ModelOptions struct {
	Orientation  Orientation
	ColorOrder   ColorOrder
	RefreshOrder RefreshOrder
	// InvertColors selects INVON instead of INVOFF. Many IPS panels need it.
	InvertColors bool
}

// AddressMode returns the MADCTL value matching the options.
//
// It is a pure function of o.
func (o *ModelOptions) AddressMode() dcs.AddressMode {
	var rowBTT, colRTL, swap bool
	switch o.Orientation.Rotation {
	case Deg90:
		rowBTT, swap = true, true
	case Deg180:
		rowBTT, colRTL = true, true
	case Deg270:
		colRTL, swap = true, true
	}
	if o.Orientation.Mirrored {
		colRTL = !colRTL
	}

	var m dcs.AddressMode
	if rowBTT {
		m |= dcs.MY
	}
	if colRTL {
		m |= dcs.MX
	}
	if swap {
		m |= dcs.MV
	}
	if o.RefreshOrder.Vertical == BottomToTop {
		m |= dcs.ML
	}
	if o.ColorOrder == BGR {
		m |= dcs.BGR
	}
	if o.RefreshOrder.Horizontal == RightToLeft {
		m |= dcs.MH
	}
	return m
}
