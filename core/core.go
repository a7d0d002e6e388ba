// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core drives the per-frame loop of the backend. It owns the
// render state the host writes into and talks to the GPU and the platform
// window only through the Renderer and Window interfaces.
package core

import (
	"github.com/devblok/vkb/event"
	"github.com/devblok/vkb/model"
)

// Extent is a drawable size in pixels.
type Extent struct {
	Width, Height uint32
}

// VertexBuffer is a GPU visible buffer filled with one frame's vertexes.
type VertexBuffer interface {
	// Len returns the number of vertexes in the buffer
	Len() int

	// Release frees the buffer, it must no longer be in use by the GPU
	Release()
}

// Frame is everything needed to record one frame's command buffer.
type Frame struct {
	Image    uint32
	Vertices VertexBuffer
	Viewport Extent
	Uniforms model.Uniforms
}

// Renderer describes the GPU side of the frame loop. Every method is
// called from the loop goroutine only.
type Renderer interface {
	// Extent returns the swapchain extent chosen at initialisation
	Extent() Extent

	// CleanupFinished releases resources of frames the GPU is done with.
	// It must not block.
	CleanupFinished()

	// Upload copies vertices into a newly allocated GPU visible buffer.
	// An empty slice is valid.
	Upload(vertices []model.Vertex) (VertexBuffer, error)

	// RecreateSwapchain rebuilds the swapchain for the given size.
	// Returns ErrUnsupportedDimensions when the surface can't take it,
	// in which case the current swapchain stays usable.
	RecreateSwapchain(Extent) error

	// BuildFramebuffers creates one framebuffer per swapchain image,
	// replacing any existing ones.
	BuildFramebuffers() error

	// Acquire blocks until a presentable image is available and returns
	// its index. Returns ErrOutOfDate when the swapchain must be rebuilt.
	Acquire() (uint32, error)

	// Record fills the command buffer for the acquired image. The renderer
	// takes ownership of frame.Vertices.
	Record(frame Frame) error

	// Submit executes the recorded commands and presents the image.
	// Returns ErrOutOfDate when presentation found the swapchain stale.
	Submit(image uint32) error

	// Destroy waits for the device and frees every GPU object
	Destroy()
}

// Window is the platform window the swapchain presents to.
type Window interface {
	// DrawableSize returns the current size of the drawable area
	DrawableSize() Extent

	// Poll appends every pending platform event to dst without blocking
	Poll(dst []event.Event) []event.Event
}

// Application is the host side of the loop. Update is called first,
// then Render, once per frame. Host data lives in the Application value.
// Render should only read host data.
type Application interface {
	Update(s *State)
	Render(s *State)
}

// ApplicationFuncs adapts two functions into an Application.
// Nil functions are skipped.
type ApplicationFuncs struct {
	UpdateFunc func(s *State)
	RenderFunc func(s *State)
}

// Update implements Application
func (a ApplicationFuncs) Update(s *State) {
	if a.UpdateFunc != nil {
		a.UpdateFunc(s)
	}
}

// Render implements Application
func (a ApplicationFuncs) Render(s *State) {
	if a.RenderFunc != nil {
		a.RenderFunc(s)
	}
}

// EngineState is the lifecycle stage of an Engine.
type EngineState int

// Engine lifecycle stages
const (
	Initializing EngineState = iota
	Running
	Terminated
)

func (s EngineState) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return "unknown"
}
