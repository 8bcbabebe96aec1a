// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ili934x controls a TFT LCD through an ILI9341 or ILI9342C
// controller.
//
// Init runs the power up sequence on any dcs.Interface, so the same code
// drives a panel over 4-wire SPI, an 8080 parallel bus or an emulated panel.
// Dev wraps it as a display.Drawer.
//
// The controller has no readback on most breakout boards, so a failed
// initialization cannot be recovered from; reset the controller and start
// over.
//
// # Datasheets
//
// ILI9341
//
// https://cdn-shop.adafruit.com/datasheets/ILI9341.pdf
//
// ILI9342C
//
// https://www.displayfuture.com/Display/datasheet/controller/ILI9342C.pdf
package ili934x
