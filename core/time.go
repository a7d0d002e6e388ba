// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"time"
)

// NewTime creates a new time service. A zero FramesPerSecond leaves the
// loop uncapped, the FIFO present mode then paces it to the display.
func NewTime(cfg TimeConfiguration) *Time {
	t := &Time{
		fps: cfg.FramesPerSecond,
	}
	if cfg.FramesPerSecond > 0 {
		t.fpsTicker = time.NewTicker(time.Second / time.Duration(cfg.FramesPerSecond))
	}
	return t
}

// Time contains the frame pacing ticker
type Time struct {
	fps       int
	fpsTicker *time.Ticker
}

// Fps gets the set frames per second
func (t *Time) Fps() int {
	return t.fps
}

// Wait blocks until the next frame is due.
func (t *Time) Wait() {
	if t == nil || t.fpsTicker == nil {
		return
	}
	<-t.fpsTicker.C
}

// Stop releases the ticker.
func (t *Time) Stop() {
	if t == nil || t.fpsTicker == nil {
		return
	}
	t.fpsTicker.Stop()
}
