// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ili934x

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/GermanBionicSystems/devices/dcs"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// event is either a write or a delay.
type event struct {
	op    byte
	data  []byte
	delay time.Duration
}

func w(op byte, data ...byte) event {
	return event{op: op, data: data}
}

func ms(n int) event {
	return event{delay: time.Duration(n) * time.Millisecond}
}

var errFail = errors.New("transport failure")

// recorder implements dcs.Interface and Delay, recording both in a single
// timeline.
type recorder struct {
	events []event
	writes int
	// failAt is the 1-based index of the write that fails. 0 never fails.
	failAt int
}

func (r *recorder) WriteRaw(op byte, payload []byte) error {
	r.writes++
	if r.writes == r.failAt {
		return errFail
	}
	r.events = append(r.events, event{op: op, data: append([]byte(nil), payload...)})
	return nil
}

func (r *recorder) DelayMs(n uint32) {
	r.events = append(r.events, event{delay: time.Duration(n) * time.Millisecond})
}

func (r *recorder) DelayUs(n uint32) {
	r.events = append(r.events, event{delay: time.Duration(n) * time.Microsecond})
}

var gammaP = []byte{0x0F, 0x3F, 0x2F, 0x0C, 0x10, 0x0A, 0x53, 0xD5, 0x40, 0x0A, 0x13, 0x03, 0x08, 0x03, 0x00}
var gammaN = []byte{0x00, 0x00, 0x10, 0x03, 0x0F, 0x05, 0x2C, 0xA2, 0x3F, 0x05, 0x0E, 0x0C, 0x37, 0x3C, 0x0F}

func TestInitGoldenTrace(t *testing.T) {
	for _, tc := range []struct {
		name string
		v    *Variant
		opts ModelOptions
		pf   dcs.PixelFormat
		mode dcs.AddressMode
		want []event
	}{
		{
			name: "ILI9341 RGB565",
			v:    ILI9341,
			pf:   dcs.RGB565,
			want: []event{
				ms(120),
				w(0xCF, 0x00, 0xC3, 0x30),
				w(0xED, 0x64, 0x03, 0x12, 0x81),
				w(0xE8, 0x85, 0x10, 0x79),
				w(0xCB, 0x39, 0x2C, 0x00, 0x34, 0x02),
				w(0xF7, 0x20),
				w(0xEA, 0x00, 0x00),
				w(0xC0, 0x22),
				w(0xC1, 0x11),
				w(0xC5, 0x3A, 0x1C),
				w(0xC7, 0xA9),
				w(0x36, 0x00),
				w(0x3A, 0x55),
				w(0xB1, 0x00, 0x1B),
				w(0xB6, 0x0A, 0xA2),
				w(0xF6, 0x01, 0x1D),
				w(0xF2, 0x00),
				w(0x26, 0x01),
				w(0xE0, gammaP...),
				w(0xE1, gammaN...),
				w(0x21),
				w(0x11),
				ms(120),
				w(0x29),
				ms(50),
			},
		},
		{
			name: "ILI9341 RGB666 rotated",
			v:    ILI9341,
			opts: ModelOptions{Orientation: Orientation{Rotation: Deg90}, ColorOrder: BGR},
			pf:   dcs.RGB666,
			// The fixed MADCTL is written, the derived one is returned.
			mode: dcs.MY | dcs.MV | dcs.BGR,
			want: []event{
				ms(120),
				w(0xCF, 0x00, 0xC3, 0x30),
				w(0xED, 0x64, 0x03, 0x12, 0x81),
				w(0xE8, 0x85, 0x10, 0x79),
				w(0xCB, 0x39, 0x2C, 0x00, 0x34, 0x02),
				w(0xF7, 0x20),
				w(0xEA, 0x00, 0x00),
				w(0xC0, 0x22),
				w(0xC1, 0x11),
				w(0xC5, 0x3A, 0x1C),
				w(0xC7, 0xA9),
				w(0x36, 0x00),
				w(0x3A, 0x66),
				w(0xB1, 0x00, 0x1B),
				w(0xB6, 0x0A, 0xA2),
				w(0xF6, 0x01, 0x1D),
				w(0xF2, 0x00),
				w(0x26, 0x01),
				w(0xE0, gammaP...),
				w(0xE1, gammaN...),
				w(0x21),
				w(0x11),
				ms(120),
				w(0x29),
				ms(50),
			},
		},
		{
			name: "ILI9342C deferred tail",
			v:    ILI9342C,
			opts: ModelOptions{Orientation: Orientation{Rotation: Deg180}, InvertColors: true},
			pf:   dcs.RGB565,
			mode: dcs.MY | dcs.MX,
			want: []event{
				ms(120),
				w(0xCF, 0x00, 0xC3, 0x30),
				w(0xED, 0x64, 0x03, 0x12, 0x81),
				w(0xE8, 0x85, 0x10, 0x79),
				w(0xCB, 0x39, 0x2C, 0x00, 0x34, 0x02),
				w(0xF7, 0x20),
				w(0xEA, 0x00, 0x00),
				w(0xC0, 0x22),
				w(0xC1, 0x11),
				w(0xC5, 0x3A, 0x1C),
				w(0xC7, 0xA9),
				w(0x3A, 0x55),
				w(0xB1, 0x00, 0x1B),
				w(0xB6, 0x0A, 0xA2),
				w(0xF6, 0x01, 0x1D),
				w(0xF2, 0x00),
				w(0x26, 0x01),
				w(0xE0, gammaP...),
				w(0xE1, gammaN...),
				w(0x11),
				ms(120),
				w(0x29),
				ms(50),
				w(0x21),
				w(0x36, 0xC0),
			},
		},
		{
			name: "ILI9342C not inverted",
			v:    ILI9342C,
			opts: ModelOptions{ColorOrder: BGR},
			pf:   dcs.RGB565,
			mode: dcs.BGR,
			want: []event{
				ms(120),
				w(0xCF, 0x00, 0xC3, 0x30),
				w(0xED, 0x64, 0x03, 0x12, 0x81),
				w(0xE8, 0x85, 0x10, 0x79),
				w(0xCB, 0x39, 0x2C, 0x00, 0x34, 0x02),
				w(0xF7, 0x20),
				w(0xEA, 0x00, 0x00),
				w(0xC0, 0x22),
				w(0xC1, 0x11),
				w(0xC5, 0x3A, 0x1C),
				w(0xC7, 0xA9),
				w(0x3A, 0x55),
				w(0xB1, 0x00, 0x1B),
				w(0xB6, 0x0A, 0xA2),
				w(0xF6, 0x01, 0x1D),
				w(0xF2, 0x00),
				w(0x26, 0x01),
				w(0xE0, gammaP...),
				w(0xE1, gammaN...),
				w(0x11),
				ms(120),
				w(0x29),
				ms(50),
				w(0x20),
				w(0x36, 0x08),
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var r recorder
			mode, err := Init(&r, &r, tc.v, &tc.opts, tc.pf)
			if err != nil {
				t.Fatal(err)
			}
			if mode != tc.mode {
				t.Errorf("Init() = %v, want %v", mode, tc.mode)
			}
			if diff := cmp.Diff(r.events, tc.want, cmpopts.EquateEmpty(), cmp.AllowUnexported(event{})); diff != "" {
				t.Errorf("Init() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestInitNilVariantIsILI9341(t *testing.T) {
	var a, b recorder
	opts := ModelOptions{}
	if _, err := Init(&a, &a, nil, &opts, dcs.RGB565); err != nil {
		t.Fatal(err)
	}
	if _, err := Init(&b, &b, ILI9341, &opts, dcs.RGB565); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.events, b.events, cmpopts.EquateEmpty(), cmp.AllowUnexported(event{})); diff != "" {
		t.Errorf("Init(nil) difference (-nil +ILI9341):\n%s", diff)
	}
}

// indexOf returns the index of the first write of op.
func indexOf(events []event, op byte) int {
	for i := range events {
		if events[i].delay == 0 && events[i].op == op {
			return i
		}
	}
	return -1
}

func TestInitOrderAndDelays(t *testing.T) {
	for _, v := range []*Variant{ILI9341, ILI9342C} {
		t.Run(v.String(), func(t *testing.T) {
			var r recorder
			if _, err := Init(&r, &r, v, &ModelOptions{}, dcs.RGB565); err != nil {
				t.Fatal(err)
			}
			ev := r.events
			if len(ev) < 2 || ev[0].delay < 120*time.Millisecond {
				t.Fatalf("first event must be a 120ms delay, got %+v", ev)
			}
			if ev[1].op != 0xCF || !cmp.Equal(ev[1].data, []byte{0x00, 0xC3, 0x30}) {
				t.Errorf("first write = %#02x % x", ev[1].op, ev[1].data)
			}
			colmod := indexOf(ev, dcs.COLMOD)
			slpout := indexOf(ev, dcs.SLPOUT)
			dispon := indexOf(ev, dcs.DISPON)
			if colmod < 0 || slpout <= colmod || dispon <= slpout {
				t.Fatalf("bad order: COLMOD=%d SLPOUT=%d DISPON=%d", colmod, slpout, dispon)
			}
			if !cmp.Equal(ev[colmod].data, []byte{0x55}) || len(ev[slpout].data) != 0 || len(ev[dispon].data) != 0 {
				t.Errorf("bad payloads: %+v %+v %+v", ev[colmod], ev[slpout], ev[dispon])
			}
			if d := ev[slpout+1].delay; d < 120*time.Millisecond {
				t.Errorf("delay after SLPOUT = %s", d)
			}
			if d := ev[dispon+1].delay; d < 50*time.Millisecond {
				t.Errorf("delay after DISPON = %s", d)
			}
		})
	}
}

func TestInitFailFast(t *testing.T) {
	opts := ModelOptions{Orientation: Orientation{Rotation: Deg270}}
	for _, v := range []*Variant{ILI9341, ILI9342C} {
		var full recorder
		if _, err := Init(&full, &full, v, &opts, dcs.RGB565); err != nil {
			t.Fatal(err)
		}
		for n := 1; n <= full.writes; n++ {
			r := recorder{failAt: n}
			mode, err := Init(&r, &r, v, &opts, dcs.RGB565)
			if err != errFail {
				t.Errorf("%s failAt=%d: Init() error = %v, want %v", v, n, err, errFail)
			}
			if mode != 0 {
				t.Errorf("%s failAt=%d: Init() = %v on error", v, n, mode)
			}
			if r.writes != n {
				t.Errorf("%s failAt=%d: %d writes issued", v, n, r.writes)
			}
			// Everything up to the failed write happened, nothing after it.
			want := full.events[:nthWrite(full.events, n)]
			if diff := cmp.Diff(r.events, want, cmpopts.EquateEmpty(), cmp.AllowUnexported(event{})); diff != "" {
				t.Errorf("%s failAt=%d: difference (-got +want):\n%s", v, n, diff)
			}
		}
	}
}

// nthWrite returns the index of the n-th write, 1-based.
func nthWrite(events []event, n int) int {
	seen := 0
	for i, e := range events {
		if e.delay == 0 {
			seen++
			if seen == n {
				return i
			}
		}
	}
	return len(events)
}

func TestInitTwiceDoesNotPanic(t *testing.T) {
	var r recorder
	opts := ModelOptions{}
	for i := 0; i < 2; i++ {
		if _, err := Init(&r, &r, ILI9342C, &opts, dcs.RGB565); err != nil {
			t.Fatal(err)
		}
	}
}

func TestVariant(t *testing.T) {
	var nilVariant *Variant
	for _, tc := range []struct {
		v      *Variant
		name   string
		w, h   int
		writes bool
	}{
		{ILI9341, "ILI9341", 240, 320, false},
		{ILI9342C, "ILI9342C", 320, 240, true},
		{nilVariant, "ILI9341", 240, 320, false},
	} {
		if got := tc.v.String(); got != tc.name {
			t.Errorf("String() = %q, want %q", got, tc.name)
		}
		if s := tc.v.Size(); s.X != tc.w || s.Y != tc.h {
			t.Errorf("%s: Size() = %s", tc.name, s)
		}
		if got := tc.v.WritesAddressMode(); got != tc.writes {
			t.Errorf("%s: WritesAddressMode() = %t", tc.name, got)
		}
	}
}

func TestInitVariantOverrides(t *testing.T) {
	v := &Variant{
		name:      "custom",
		size:      image.Point{X: 240, Y: 320},
		overrides: map[byte][]byte{dcs.DTCTRA: {0x85, 0x00, 0x78}},
	}
	var base, got recorder
	if _, err := Init(&base, &base, ILI9341, nil, dcs.RGB565); err != nil {
		t.Fatal(err)
	}
	if _, err := Init(&got, &got, v, nil, dcs.RGB565); err != nil {
		t.Fatal(err)
	}
	want := append([]event(nil), base.events...)
	i := indexOf(want, 0xE8)
	if i < 0 {
		t.Fatal("driver timing A not written")
	}
	want[i] = w(0xE8, 0x85, 0x00, 0x78)
	if diff := cmp.Diff(got.events, want, cmpopts.EquateEmpty(), cmp.AllowUnexported(event{})); diff != "" {
		t.Errorf("difference (-got +want):\n%s", diff)
	}
}

func TestInitNilOpts(t *testing.T) {
	for _, v := range []*Variant{ILI9341, ILI9342C} {
		var got, want recorder
		mode, err := Init(&got, &got, v, nil, dcs.RGB565)
		if err != nil {
			t.Fatal(err)
		}
		if mode != 0 {
			t.Errorf("%s: Init() = %v, want 0", v, mode)
		}
		if _, err := Init(&want, &want, v, &ModelOptions{}, dcs.RGB565); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(got.events, want.events, cmpopts.EquateEmpty(), cmp.AllowUnexported(event{})); diff != "" {
			t.Errorf("%s: difference (-got +want):\n%s", v, diff)
		}
	}
}
