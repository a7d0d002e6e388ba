// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package input defines the normalized keyboard and mouse events
// handed to the host.
package input

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// Key is a named keyboard key.
type Key int

// Keys the backend reports
const (
	KeyA Key = iota
	KeyS
	KeyD
	KeyQ
	KeyW
	KeyE
	KeyJ
	KeyK
	KeyF
)

var keyNames = [...]string{"A", "S", "D", "Q", "W", "E", "J", "K", "F"}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "Unknown"
	}
	return keyNames[k]
}

// KeyModifiers is the set of modifiers held with a key. Empty for now.
type KeyModifiers struct{}

// Action tells whether a key or button went down or up.
type Action int

// Actions
const (
	Pressed Action = iota
	Released
)

func (a Action) String() string {
	if a == Pressed {
		return "Pressed"
	}
	return "Released"
}

// KeyboardEvent is a single key transition.
type KeyboardEvent struct {
	Action    Action
	Key       Key
	Modifiers KeyModifiers
}

// MouseButton identifies a mouse button.
type MouseButton int

// Mouse buttons
const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// MouseEventKind discriminates MouseEvent.
type MouseEventKind int

// Mouse event kinds
const (
	MousePressed MouseEventKind = iota
	MouseReleased
	MouseMovement
	MouseWheel
)

// MouseEvent is a normalized mouse event. Button and Position are set
// for presses and releases, Delta for movement and wheel.
type MouseEvent struct {
	Kind     MouseEventKind
	Button   MouseButton
	Position glm.Vec2
	Delta    glm.Vec2
}

// IsPressed reports whether the event is a button press.
func (e MouseEvent) IsPressed() bool {
	return e.Kind == MousePressed
}
