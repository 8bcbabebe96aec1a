// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dcs implements the MIPI Display Command Set as understood by small
// TFT controllers like the ILI9341.
//
// A command is an opcode byte followed by zero or more parameter bytes. The
// package exposes both forms: raw writes through Interface.WriteRaw, and
// typed commands (SetPixelFormat, SetAddressMode, ...) which emit the exact
// same bytes through WriteCommand.
//
// # Datasheets
//
// MIPI Alliance Specification for Display Command Set, v1.02.00.
//
// ILI9341: https://cdn-shop.adafruit.com/datasheets/ILI9341.pdf
package dcs
