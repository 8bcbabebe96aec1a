// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is a container for the ILI934x TFT display driver and its
// supporting packages.
//
// dcs holds the command set, dbi the buses, ili934x the controller
// initialization and display.Drawer, termpanel an emulated panel, panelview
// an HTTP view of it and image565 the native 16 bits pixel format.
package devices
