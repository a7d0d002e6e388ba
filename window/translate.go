// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/vkb/event"
)

var keyMap = map[sdl.Keycode]event.VirtualKey{
	sdl.K_a: event.KeyA, sdl.K_b: event.KeyB, sdl.K_c: event.KeyC,
	sdl.K_d: event.KeyD, sdl.K_e: event.KeyE, sdl.K_f: event.KeyF,
	sdl.K_g: event.KeyG, sdl.K_h: event.KeyH, sdl.K_i: event.KeyI,
	sdl.K_j: event.KeyJ, sdl.K_k: event.KeyK, sdl.K_l: event.KeyL,
	sdl.K_m: event.KeyM, sdl.K_n: event.KeyN, sdl.K_o: event.KeyO,
	sdl.K_p: event.KeyP, sdl.K_q: event.KeyQ, sdl.K_r: event.KeyR,
	sdl.K_s: event.KeyS, sdl.K_t: event.KeyT, sdl.K_u: event.KeyU,
	sdl.K_v: event.KeyV, sdl.K_w: event.KeyW, sdl.K_x: event.KeyX,
	sdl.K_y: event.KeyY, sdl.K_z: event.KeyZ,

	sdl.K_ESCAPE: event.KeyEscape,
	sdl.K_SPACE:  event.KeySpace,
	sdl.K_RETURN: event.KeyReturn,
}

// Translate appends the raw events an SDL event stands for to dst.
// Mouse motion and buttons are reported on both the window and the
// device channel, events without a counterpart are skipped.
func Translate(dst []event.Event, ev sdl.Event) []event.Event {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		dst = append(dst, event.CloseRequested{})
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			dst = append(dst, event.CloseRequested{})
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			dst = append(dst, event.Resized{Width: uint32(e.Data1), Height: uint32(e.Data2)})
		}
	case *sdl.KeyboardEvent:
		dst = append(dst, event.KeyboardInput{
			Key:   keyMap[e.Keysym.Sym],
			State: state(e.State),
		})
	case *sdl.MouseMotionEvent:
		dst = append(dst,
			event.CursorMoved{X: float64(e.X), Y: float64(e.Y)},
			event.MouseMotion{DX: float64(e.XRel), DY: float64(e.YRel)},
		)
	case *sdl.MouseButtonEvent:
		dst = append(dst,
			event.DeviceButton{Button: uint32(e.Button), State: state(e.State)},
			event.MouseInput{Button: e.Button, State: state(e.State)},
		)
	case *sdl.MouseWheelEvent:
		x, y := float32(e.X), float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			x, y = -x, -y
		}
		dst = append(dst, event.MouseWheel{
			Delta: event.ScrollDelta{Lines: true, X: x, Y: y},
		})
	}
	return dst
}

func state(s uint8) event.ElementState {
	if s == sdl.PRESSED {
		return event.Pressed
	}
	return event.Released
}
