// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package event

import (
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/vkb/input"
)

// lineSize converts line based wheel deltas to the unit of pixel deltas.
const lineSize = 1.0

var keyMap = map[VirtualKey]input.Key{
	KeyA: input.KeyA,
	KeyS: input.KeyS,
	KeyD: input.KeyD,
	KeyQ: input.KeyQ,
	KeyW: input.KeyW,
	KeyE: input.KeyE,
	KeyJ: input.KeyJ,
	KeyK: input.KeyK,
	KeyF: input.KeyF,
}

// Keyboard translates the raw events of a frame into keyboard events.
// Every event passes three stages and is dropped by the first one it
// fails: scope (window only), shape (KeyboardInput only) and key lookup
// (mapped keys only). Dropped events are not errors.
func Keyboard(events []Event) []input.KeyboardEvent {
	var out []input.KeyboardEvent
	for _, ev := range events {
		if !inScope(ev, WindowScope) {
			continue
		}
		ki, ok := ev.(KeyboardInput)
		if !ok {
			continue
		}
		key, ok := lookupKey(ki.Key)
		if !ok {
			continue
		}
		out = append(out, input.KeyboardEvent{
			Action:    action(ki.State),
			Key:       key,
			Modifiers: input.KeyModifiers{},
		})
	}
	return out
}

// Mouse translates the raw events of a frame into mouse events. Device
// events go first, window button events after them. Device buttons carry no
// position, so cursor (the last known window position) is used for every
// press and release.
//
// When the device stream holds a press, window presses are duplicates of it
// and are removed before merging.
func Mouse(events []Event, cursor glm.Vec2) []input.MouseEvent {
	device := deviceMouse(events, cursor)
	window := windowMouse(events, cursor)

	if anyPressed(device) {
		kept := window[:0]
		for _, ev := range window {
			if !ev.IsPressed() {
				kept = append(kept, ev)
			}
		}
		window = kept
	}
	return append(device, window...)
}

func deviceMouse(events []Event, cursor glm.Vec2) []input.MouseEvent {
	var out []input.MouseEvent
	for _, ev := range events {
		if !inScope(ev, DeviceScope) {
			continue
		}
		switch de := ev.(type) {
		case MouseMotion:
			out = append(out, input.MouseEvent{
				Kind:  input.MouseMovement,
				Delta: glm.Vec2{float32(de.DX), float32(de.DY)},
			})
		case MouseWheel:
			delta := glm.Vec2{de.Delta.X, de.Delta.Y}
			if de.Delta.Lines {
				delta = delta.Mul(lineSize)
			}
			out = append(out, input.MouseEvent{
				Kind:  input.MouseWheel,
				Delta: delta,
			})
		case DeviceButton:
			out = append(out, buttonEvent(de.State, cursor))
		}
	}
	return out
}

func windowMouse(events []Event, cursor glm.Vec2) []input.MouseEvent {
	var out []input.MouseEvent
	for _, ev := range events {
		if !inScope(ev, WindowScope) {
			continue
		}
		if mi, ok := ev.(MouseInput); ok {
			out = append(out, buttonEvent(mi.State, cursor))
		}
	}
	return out
}

// buttonEvent ignores which physical button changed; every button
// is reported as the left one.
func buttonEvent(state ElementState, cursor glm.Vec2) input.MouseEvent {
	kind := input.MousePressed
	if state == Released {
		kind = input.MouseReleased
	}
	return input.MouseEvent{
		Kind:     kind,
		Button:   input.MouseLeft,
		Position: cursor,
	}
}

func anyPressed(events []input.MouseEvent) bool {
	for _, ev := range events {
		if ev.IsPressed() {
			return true
		}
	}
	return false
}

func inScope(ev Event, scope Scope) bool {
	return ev != nil && ev.Scope() == scope
}

func lookupKey(vk VirtualKey) (input.Key, bool) {
	key, ok := keyMap[vk]
	return key, ok
}

func action(state ElementState) input.Action {
	if state == Pressed {
		return input.Pressed
	}
	return input.Released
}
