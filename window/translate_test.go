// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package window_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/vkb/event"
	"github.com/devblok/vkb/input"
	"github.com/devblok/vkb/window"
)

func translate(events ...sdl.Event) []event.Event {
	var out []event.Event
	for _, ev := range events {
		out = window.Translate(out, ev)
	}
	return out
}

func TestTranslateClose(t *testing.T) {
	c := qt.New(t)
	got := translate(
		&sdl.QuitEvent{Type: sdl.QUIT},
		&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_CLOSE},
	)
	c.Assert(got, qt.DeepEquals, []event.Event{event.CloseRequested{}, event.CloseRequested{}})
}

func TestTranslateResize(t *testing.T) {
	c := qt.New(t)
	got := translate(
		&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED, Data1: 1024, Data2: 768},
		&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_MOVED, Data1: 5, Data2: 5},
	)
	c.Assert(got, qt.DeepEquals, []event.Event{event.Resized{Width: 1024, Height: 768}})
}

func TestTranslateKeyboard(t *testing.T) {
	c := qt.New(t)
	got := translate(
		&sdl.KeyboardEvent{Type: sdl.KEYDOWN, State: sdl.PRESSED, Keysym: sdl.Keysym{Sym: sdl.K_w}},
		&sdl.KeyboardEvent{Type: sdl.KEYUP, State: sdl.RELEASED, Keysym: sdl.Keysym{Sym: sdl.K_F1}},
	)
	c.Assert(got, qt.DeepEquals, []event.Event{
		event.KeyboardInput{Key: event.KeyW, State: event.Pressed},
		event.KeyboardInput{Key: event.KeyUnknown, State: event.Released},
	})

	c.Assert(event.Keyboard(got), qt.DeepEquals, []input.KeyboardEvent{
		{Action: input.Pressed, Key: input.KeyW},
	})
}

func TestTranslateMouse(t *testing.T) {
	c := qt.New(t)
	got := translate(
		&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 10, Y: 20, XRel: 1, YRel: -2},
		&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_RIGHT, State: sdl.PRESSED},
		&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, X: 0, Y: 1},
		&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, X: 0, Y: 1, Direction: sdl.MOUSEWHEEL_FLIPPED},
	)
	c.Assert(got, qt.DeepEquals, []event.Event{
		event.CursorMoved{X: 10, Y: 20},
		event.MouseMotion{DX: 1, DY: -2},
		event.DeviceButton{Button: uint32(sdl.BUTTON_RIGHT), State: event.Pressed},
		event.MouseInput{Button: sdl.BUTTON_RIGHT, State: event.Pressed},
		event.MouseWheel{Delta: event.ScrollDelta{Lines: true, Y: 1}},
		event.MouseWheel{Delta: event.ScrollDelta{Lines: true, Y: -1}},
	})

	// the window press duplicates the device press and is dropped
	mouse := event.Mouse(got, glm.Vec2{10, 20})
	c.Assert(mouse, qt.HasLen, 4)
	c.Assert(mouse[1], qt.Equals, input.MouseEvent{
		Kind:     input.MousePressed,
		Button:   input.MouseLeft,
		Position: glm.Vec2{10, 20},
	})
}

func TestTranslateIgnored(t *testing.T) {
	c := qt.New(t)
	got := translate(
		&sdl.TextInputEvent{Type: sdl.TEXTINPUT},
		&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_FOCUS_GAINED},
	)
	c.Assert(got, qt.HasLen, 0)
}
