// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ili934x

import "time"

// Delay blocks the caller for at least the requested duration.
type Delay interface {
	DelayMs(ms uint32)
	DelayUs(us uint32)
}

// SleepDelay implements Delay with time.Sleep.
type SleepDelay struct{}

// DelayMs implements Delay.
func (SleepDelay) DelayMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// DelayUs implements Delay.
func (SleepDelay) DelayUs(us uint32) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}
