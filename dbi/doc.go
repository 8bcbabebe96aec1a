// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dbi implements dcs.Interface over the MIPI Display Bus Interface
// physical layers found on small TFT modules.
//
// SPI is the 4-wire serial interface (type C option 3): a D/C line selects
// between the opcode and its parameters. Parallel is the 8 bit 8080 bus
// (type B) bit banged on GPIO lines. TinyGo adapts a tinygo.org/x/drivers
// SPI bus so the same controller code runs on microcontrollers.
//
// All implementations send exactly the bytes they are given, in order, and
// return the first error of the underlying transport unchanged.
package dbi
