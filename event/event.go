// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package event holds the raw, platform neutral events captured each frame
// and the translators that turn them into the host's keyboard and mouse
// streams.
//
// Raw events come from two channels. Window events are delivered for the
// focused window and carry window coordinates. Device events come from the
// input device itself and carry no coordinates at all.
package event

// Scope tells which channel delivered an event.
type Scope int

// Scopes
const (
	WindowScope Scope = iota
	DeviceScope
)

// Event is any raw event captured by the platform layer.
type Event interface {
	Scope() Scope
}

// ElementState is the state of a key or button.
type ElementState int

// Element states
const (
	Pressed ElementState = iota
	Released
)

// VirtualKey is a platform independent key code.
type VirtualKey int

// Virtual keys
const (
	KeyUnknown VirtualKey = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeyEscape
	KeySpace
	KeyReturn
)

// CloseRequested is sent when the user asks the window to close.
type CloseRequested struct{}

// Resized is sent when the window size changed.
type Resized struct {
	Width, Height uint32
}

// CursorMoved carries the new cursor position in window coordinates.
type CursorMoved struct {
	X, Y float64
}

// KeyboardInput is a key transition on the focused window.
type KeyboardInput struct {
	Key   VirtualKey
	State ElementState
}

// MouseInput is a button transition on the focused window.
type MouseInput struct {
	Button uint8
	State  ElementState
}

// MouseMotion is relative motion reported by the device.
type MouseMotion struct {
	DX, DY float64
}

// ScrollDelta is a wheel movement either in lines or in pixels.
type ScrollDelta struct {
	Lines bool
	X, Y  float32
}

// MouseWheel is wheel movement reported by the device.
type MouseWheel struct {
	Delta ScrollDelta
}

// DeviceButton is a button transition reported by the device.
type DeviceButton struct {
	Button uint32
	State  ElementState
}

// Scope implements Event
func (CloseRequested) Scope() Scope { return WindowScope }

// Scope implements Event
func (Resized) Scope() Scope { return WindowScope }

// Scope implements Event
func (CursorMoved) Scope() Scope { return WindowScope }

// Scope implements Event
func (KeyboardInput) Scope() Scope { return WindowScope }

// Scope implements Event
func (MouseInput) Scope() Scope { return WindowScope }

// Scope implements Event
func (MouseMotion) Scope() Scope { return DeviceScope }

// Scope implements Event
func (MouseWheel) Scope() Scope { return DeviceScope }

// Scope implements Event
func (DeviceButton) Scope() Scope { return DeviceScope }
