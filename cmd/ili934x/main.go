// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// ili934x draws a test card on an ILI9341 or ILI9342C display.
//
// With -emulate, the panel is emulated and rendered in the terminal so no
// hardware is needed.
//
// Wiring, for a Raspberry Pi:
//
//	Display    Raspberry Pi
//	GND        GND
//	VCC        3.3V
//	SCK        GPIO11 (SPI0 CLK)
//	SDI        GPIO10 (SPI0 MOSI)
//	CS         GPIO8 (SPI0 CE0)
//	D/C        GPIO25 (-dc)
//	RESET      GPIO24 (-rst)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/GermanBionicSystems/devices/dcs"
	"github.com/GermanBionicSystems/devices/ili934x"
	"github.com/GermanBionicSystems/devices/panelview"
	"github.com/GermanBionicSystems/devices/termpanel"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func parseVariant(s string) (*ili934x.Variant, error) {
	switch strings.ToLower(s) {
	case "ili9341", "9341":
		return ili934x.ILI9341, nil
	case "ili9342c", "ili9342", "9342c":
		return ili934x.ILI9342C, nil
	default:
		return nil, fmt.Errorf("unknown variant %q", s)
	}
}

func parseRotation(deg int) (ili934x.Rotation, error) {
	switch deg {
	case 0:
		return ili934x.Deg0, nil
	case 90:
		return ili934x.Deg90, nil
	case 180:
		return ili934x.Deg180, nil
	case 270:
		return ili934x.Deg270, nil
	default:
		return 0, fmt.Errorf("rotation must be 0, 90, 180 or 270, got %d", deg)
	}
}

// display is what the test card is drawn on.
type display interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Scroll(topFixed, bottomFixed, offset int) error
	Halt() error
}

func mainImpl() error {
	spiID := flag.String("spi", "", "SPI port to use")
	dcName := flag.String("dc", "GPIO25", "D/C pin")
	rstName := flag.String("rst", "GPIO24", "reset pin, empty if not connected")
	hz := flag.Int("hz", 0, "SPI clock in Hz, 0 for the default")
	variant := flag.String("variant", "ili9341", "controller: ili9341 or ili9342c")
	rotate := flag.Int("rotate", 0, "clockwise rotation in degrees")
	mirror := flag.Bool("mirror", false, "mirror the image horizontally")
	bgr := flag.Bool("bgr", false, "panel has BGR color filters")
	invert := flag.Bool("invert", false, "invert colors, needed by most IPS panels")
	rgb666 := flag.Bool("666", false, "use 18 bits per pixel instead of 16")
	emulate := flag.Bool("emulate", false, "render an emulated panel in the terminal")
	scale := flag.Int("scale", 4, "pixels per terminal cell with -emulate")
	scroll := flag.Bool("scroll", false, "scroll the test card once drawn")
	httpAddr := flag.String("http", "", "with -emulate, also stream the panel over HTTP at this address, e.g. :8080")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if *httpAddr != "" && !*emulate {
		return errors.New("-http requires -emulate")
	}

	v, err := parseVariant(*variant)
	if err != nil {
		return err
	}
	rot, err := parseRotation(*rotate)
	if err != nil {
		return err
	}
	opts := ili934x.DefaultOpts
	opts.Variant = v
	opts.Model = ili934x.ModelOptions{
		Orientation:  ili934x.Orientation{Rotation: rot, Mirrored: *mirror},
		InvertColors: *invert,
	}
	if *bgr {
		opts.Model.ColorOrder = ili934x.BGR
	}
	if *rgb666 {
		opts.PixelFormat = dcs.RGB666
	}
	if *hz != 0 {
		opts.Freq = physic.Frequency(*hz) * physic.Hertz
	}

	var d display
	var refresh func() error
	if *emulate {
		size := v.Size()
		p := termpanel.New(&termpanel.Opts{W: size.X, H: size.Y, Scale: *scale, BGR: *bgr})
		dev, err := ili934x.New(p, ili934x.SleepDelay{}, &opts)
		if err != nil {
			return err
		}
		d = dev
		refresh = p.Refresh
		if *httpAddr != "" {
			view := panelview.New(p, &panelview.Options{Scale: 2})
			defer view.Halt()
			srv := &http.Server{Addr: *httpAddr, Handler: view}
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Printf("http: %v", err)
				}
			}()
			defer srv.Close()
			refresh = func() error {
				view.Publish()
				return p.Refresh()
			}
		}
		// Clear the terminal once, Refresh redraws in place.
		fmt.Fprint(os.Stdout, "\033[2J")
		defer p.Halt()
	} else {
		if _, err := host.Init(); err != nil {
			return err
		}
		port, err := spireg.Open(*spiID)
		if err != nil {
			return err
		}
		defer port.Close()
		dc := gpioreg.ByName(*dcName)
		if dc == nil {
			return fmt.Errorf("pin %q not found", *dcName)
		}
		var rst gpio.PinOut
		if *rstName != "" {
			if rst = gpioreg.ByName(*rstName); rst == nil {
				return fmt.Errorf("pin %q not found", *rstName)
			}
		}
		dev, err := ili934x.NewSPI(port, dc, rst, &opts)
		if err != nil {
			return err
		}
		log.Printf("%s", dev)
		d = dev
		refresh = func() error { return nil }
	}

	img, err := testCard(d.Bounds(), fmt.Sprintf("%s %s", v, rot))
	if err != nil {
		return err
	}
	start := time.Now()
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		return err
	}
	if err := refresh(); err != nil {
		return err
	}
	if !*emulate {
		log.Printf("frame sent in %s", time.Since(start))
	}

	if *scroll {
		lines := v.Size().Y
		for i := 0; i <= lines; i += 8 {
			if err := d.Scroll(0, 0, i); err != nil {
				return err
			}
			if err := refresh(); err != nil {
				return err
			}
			time.Sleep(20 * time.Millisecond)
		}
	}
	if *httpAddr != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		log.Printf("serving on %s, press Ctrl-C to stop", *httpAddr)
		<-ctx.Done()
		return nil
	}
	if *emulate {
		return nil
	}
	time.Sleep(5 * time.Second)
	return d.Halt()
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "ili934x: %s.\n", err)
		os.Exit(1)
	}
}
