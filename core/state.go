// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/devblok/vkb/event"
	"github.com/devblok/vkb/model"
)

// State is the mutable render state of the backend. The host reaches it
// through the Application callbacks, the Engine drains it once per frame.
// It is not safe for concurrent use; everything runs on the loop goroutine.
type State struct {
	vertexQueue []model.Vertex
	events      []event.Event

	mouseX, mouseY float64
	dimensions     Extent
	constants      model.Uniforms

	quit bool
}

// NewState returns a State with default uniforms and empty queues.
func NewState() *State {
	return &State{
		constants: model.DefaultUniforms(),
	}
}

// EnqueueVertexes appends a batch to the vertex queue. Call order is kept,
// triangle winding depends on it.
func (s *State) EnqueueVertexes(batch []model.Vertex) {
	s.vertexQueue = append(s.vertexQueue, batch...)
}

// SetUniforms replaces the whole uniform block.
func (s *State) SetUniforms(u model.Uniforms) {
	s.constants = u
}

// Uniforms returns the current uniform block.
func (s *State) Uniforms() model.Uniforms {
	return s.constants
}

// Events returns a copy of the raw events polled at the end of the previous
// frame. It does not consume them.
func (s *State) Events() []event.Event {
	snapshot := make([]event.Event, len(s.events))
	copy(snapshot, s.events)
	return snapshot
}

// MousePosition returns the last known cursor position in window coordinates.
func (s *State) MousePosition() (float64, float64) {
	return s.mouseX, s.mouseY
}

// ScreenSize returns the current drawable dimensions.
func (s *State) ScreenSize() (uint32, uint32) {
	return s.dimensions.Width, s.dimensions.Height
}

// Quit asks the Engine to stop. The loop treats this as fatal and
// returns ErrQuitRequested once the current callbacks return.
func (s *State) Quit() {
	s.quit = true
}

// drainVertexes hands the queued vertexes over and leaves the queue empty.
func (s *State) drainVertexes() []model.Vertex {
	drained := s.vertexQueue
	s.vertexQueue = nil
	return drained
}

func (s *State) pushEvent(e event.Event) {
	s.events = append(s.events, e)
}

func (s *State) resetEvents() {
	for idx := range s.events {
		s.events[idx] = nil
	}
	s.events = s.events[:0]
}
