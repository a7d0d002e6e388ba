// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package window is the SDL2 platform layer: the window the swapchain
// presents to, its Vulkan surface and the event pump.
package window

import (
	vk "github.com/devblok/vulkan"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/vkb/core"
	"github.com/devblok/vkb/event"
)

var _ core.Window = (*SDL)(nil)

// New creates a Vulkan capable window. SDL video must be initialised.
func New(cfg core.WindowConfiguration) (*SDL, error) {
	flags := uint32(sdl.WINDOW_VULKAN | sdl.WINDOW_SHOWN)
	if cfg.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}

	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags)
	if err != nil {
		return nil, errors.Wrap(err, "sdl.CreateWindow()")
	}

	return &SDL{window: window}, nil
}

// SDL is a window backed by SDL2.
type SDL struct {
	window *sdl.Window
}

// DrawableSize implements core.Window
func (w *SDL) DrawableSize() core.Extent {
	width, height := w.window.VulkanGetDrawableSize()
	return core.Extent{Width: uint32(width), Height: uint32(height)}
}

// Poll implements core.Window
func (w *SDL) Poll(dst []event.Event) []event.Event {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		dst = Translate(dst, ev)
	}
	return dst
}

// VulkanExtensions returns the instance extensions a surface for this window needs.
func (w *SDL) VulkanExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

// CreateSurface creates a Vulkan surface for the window.
func (w *SDL) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	surface, err := w.window.VulkanCreateSurface(instance)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "sdl.Window.VulkanCreateSurface()")
	}
	return vk.SurfaceFromPointer(uintptr(surface)), nil
}

// Destroy closes the window
func (w *SDL) Destroy() error {
	return w.window.Destroy()
}
