// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	vk "github.com/devblok/vulkan"
	"github.com/sirupsen/logrus"

	"github.com/devblok/vkb/core"
	"github.com/devblok/vkb/model"
)

var _ core.Renderer = (*Renderer)(nil)

// New initialises the renderer on the instance's first physical device,
// presenting to surface. The surface is destroyed along with the
// renderer, the instance is not.
func New(instance *Instance, surface vk.Surface, size core.Extent, cfg core.RendererConfiguration, shaders ShaderCode, log logrus.FieldLogger) (*Renderer, error) {
	if cfg.FramesInFlight < 1 {
		cfg.FramesInFlight = 1
	}

	r := &Renderer{
		configuration:  cfg,
		instance:       instance,
		surface:        surface,
		physicalDevice: instance.AvailableDevices()[0],
		log:            log,
	}

	/* Device and queue */
	if err := r.createDevice(); err != nil {
		return nil, err
	}

	/* Image format */
	if err := r.chooseSurfaceFormat(); err != nil {
		return nil, err
	}

	/* Swapchain setup */
	caps, err := r.surfaceCapabilities()
	if err != nil {
		return nil, err
	}
	extent := initialExtent(caps.CurrentExtent, caps.MinImageExtent, caps.MaxImageExtent, size)
	if err := r.createSwapchain(caps, extent, vk.NullSwapchain); err != nil {
		return nil, err
	}

	/* Render pass */
	if err := r.createRenderPass(); err != nil {
		return nil, err
	}

	/* Shaders */
	if err := r.loadShaders(shaders); err != nil {
		return nil, err
	}

	/* Pipeline */
	if err := r.createPipelineLayout(); err != nil {
		return nil, err
	}
	if err := r.createPipelineCache(); err != nil {
		return nil, err
	}
	if err := r.createPipeline(); err != nil {
		return nil, err
	}

	/* Command buffers and synchronisation */
	if err := r.createCommandPool(); err != nil {
		return nil, err
	}
	if err := r.createFrameSlots(cfg.FramesInFlight); err != nil {
		return nil, err
	}

	r.log.WithFields(logrus.Fields{
		"queue_family":     r.queueFamily,
		"format":           r.imageFormat,
		"frames_in_flight": cfg.FramesInFlight,
	}).Info("vulkan renderer initialised")
	return r, nil
}

// Renderer is the Vulkan implementation of core.Renderer
type Renderer struct {
	configuration core.RendererConfiguration
	log           logrus.FieldLogger

	instance       *Instance
	surface        vk.Surface
	physicalDevice vk.PhysicalDevice
	device         vk.Device
	queue          vk.Queue
	queueFamily    uint32
	allocator      *MemoryAllocator

	imageFormat     vk.Format
	imageColorspace vk.ColorSpace
	extent          core.Extent

	swapchain           vk.Swapchain
	swapchainImages     []vk.Image
	swapchainImageViews []vk.ImageView
	framebuffers        []framebuffer

	renderPass     vk.RenderPass
	pipelineLayout vk.PipelineLayout
	pipelineCache  vk.PipelineCache
	pipeline       vk.Pipeline
	shaderModules  []vk.ShaderModule

	commandPool vk.CommandPool
	slots       []frameSlot
	current     int
}

// Extent implements core.Renderer
func (r *Renderer) Extent() core.Extent {
	return r.extent
}

// Upload implements core.Renderer
func (r *Renderer) Upload(vertices []model.Vertex) (core.VertexBuffer, error) {
	vb, err := newVertexBuffer(r.device, r.allocator, vertices)
	if err != nil {
		return nil, err
	}
	return vb, nil
}

// Destroy implements core.Renderer
func (r *Renderer) Destroy() {
	if r.device == nil {
		return
	}
	vk.DeviceWaitIdle(r.device)

	r.destroyFrameSlots()
	vk.DestroyCommandPool(r.device, r.commandPool, nil)

	r.destroyFramebuffers()
	r.destroyImageViews()
	vk.DestroySwapchain(r.device, r.swapchain, nil)

	vk.DestroyPipeline(r.device, r.pipeline, nil)
	vk.DestroyPipelineCache(r.device, r.pipelineCache, nil)
	vk.DestroyPipelineLayout(r.device, r.pipelineLayout, nil)
	for _, module := range r.shaderModules {
		vk.DestroyShaderModule(r.device, module, nil)
	}
	vk.DestroyRenderPass(r.device, r.renderPass, nil)

	vk.DestroyDevice(r.device, nil)
	r.device = nil

	r.instance.DestroySurface(r.surface)
}
