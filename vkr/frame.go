// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"unsafe"

	vk "github.com/devblok/vulkan"
	"github.com/pkg/errors"

	"github.com/devblok/vkb/core"
)

// clearColor is the background every frame starts from.
var clearColor = []float32{0.1, 0.1, 0.1, 1.0}

// frameSlot is one frame in flight. Its fence is waited on only when the
// slot comes around again, so at most len(slots) frames are queued.
type frameSlot struct {
	commandBuffer  vk.CommandBuffer
	imageAvailable vk.Semaphore
	renderFinished vk.Semaphore
	fence          vk.Fence

	// vertex buffers the slot's last submission reads from
	pending []core.VertexBuffer
}

func (s *frameSlot) releasePending() {
	for _, b := range s.pending {
		b.Release()
	}
	s.pending = s.pending[:0]
}

// framebuffer pairs a swapchain image with its own depth attachment.
type framebuffer struct {
	framebuffer vk.Framebuffer
	depthImage  vk.Image
	depthView   vk.ImageView
	depthMemory Memory
}

func (r *Renderer) createCommandPool() error {
	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: r.queueFamily,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}

	var commandPool vk.CommandPool
	if err := vk.Error(vk.CreateCommandPool(r.device, &cpci, nil, &commandPool)); err != nil {
		return vkErr("vk.CreateCommandPool", err)
	}
	r.commandPool = commandPool
	return nil
}

func (r *Renderer) createFrameSlots(count int) error {
	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        r.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}
	commandBuffers := make([]vk.CommandBuffer, count)
	if err := vk.Error(vk.AllocateCommandBuffers(r.device, &cbai, commandBuffers)); err != nil {
		return vkErr("vk.AllocateCommandBuffers", err)
	}

	sci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	fci := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}

	r.slots = make([]frameSlot, count)
	for idx := range r.slots {
		slot := &r.slots[idx]
		slot.commandBuffer = commandBuffers[idx]
		if err := vk.Error(vk.CreateSemaphore(r.device, &sci, nil, &slot.imageAvailable)); err != nil {
			return vkErr("vk.CreateSemaphore", err)
		}
		if err := vk.Error(vk.CreateSemaphore(r.device, &sci, nil, &slot.renderFinished)); err != nil {
			return vkErr("vk.CreateSemaphore", err)
		}
		if err := vk.Error(vk.CreateFence(r.device, &fci, nil, &slot.fence)); err != nil {
			return vkErr("vk.CreateFence", err)
		}
	}
	return nil
}

func (r *Renderer) destroyFrameSlots() {
	for idx := range r.slots {
		slot := &r.slots[idx]
		slot.releasePending()
		vk.DestroySemaphore(r.device, slot.imageAvailable, nil)
		vk.DestroySemaphore(r.device, slot.renderFinished, nil)
		vk.DestroyFence(r.device, slot.fence, nil)
	}
	r.slots = nil
}

func (r *Renderer) createDepthImage(fb *framebuffer) error {
	ici := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    vk.FormatD16Unorm,
		Extent: vk.Extent3D{
			Width:  r.extent.Width,
			Height: r.extent.Height,
			Depth:  1,
		},
		MipLevels:   1,
		ArrayLayers: 1,
		Samples:     vk.SampleCount1Bit,
		Tiling:      vk.ImageTilingOptimal,
		Usage:       vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		SharingMode: vk.SharingModeExclusive,
	}

	if err := vk.Error(vk.CreateImage(r.device, &ici, nil, &fb.depthImage)); err != nil {
		return vkErr("vk.CreateImage", err)
	}

	var memoryRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(r.device, fb.depthImage, &memoryRequirements)
	memoryRequirements.Deref()

	memory, err := r.allocator.Malloc(memoryRequirements, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		return err
	}
	fb.depthMemory = memory

	if err := vk.Error(vk.BindImageMemory(r.device, fb.depthImage, memory.Get(), vk.DeviceSize(memory.Offset()))); err != nil {
		return vkErr("vk.BindImageMemory", err)
	}

	ivci := vk.ImageViewCreateInfo{
		SType:  vk.StructureTypeImageViewCreateInfo,
		Format: vk.FormatD16Unorm,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectDepthBit),
			LevelCount: 1,
			LayerCount: 1,
		},
		ViewType: vk.ImageViewType2d,
		Image:    fb.depthImage,
	}

	if err := vk.Error(vk.CreateImageView(r.device, &ivci, nil, &fb.depthView)); err != nil {
		return vkErr("vk.CreateImageView", err)
	}
	return nil
}

// BuildFramebuffers implements core.Renderer
func (r *Renderer) BuildFramebuffers() error {
	vk.DeviceWaitIdle(r.device)
	r.destroyFramebuffers()

	framebuffers := make([]framebuffer, len(r.swapchainImageViews))
	for idx, view := range r.swapchainImageViews {
		fb := &framebuffers[idx]
		if err := r.createDepthImage(fb); err != nil {
			return errors.Wrapf(err, "depth image %d", idx)
		}

		attachments := []vk.ImageView{
			view,
			fb.depthView,
		}
		fci := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      r.renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           r.extent.Width,
			Height:          r.extent.Height,
			Layers:          1,
		}

		if err := vk.Error(vk.CreateFramebuffer(r.device, &fci, nil, &fb.framebuffer)); err != nil {
			return errors.Wrapf(err, "vk.CreateFramebuffer() for swapchain image %d", idx)
		}
	}
	r.framebuffers = framebuffers

	r.log.WithField("count", len(framebuffers)).Debug("framebuffers built")
	return nil
}

func (r *Renderer) destroyFramebuffers() {
	for _, fb := range r.framebuffers {
		vk.DestroyFramebuffer(r.device, fb.framebuffer, nil)
		vk.DestroyImageView(r.device, fb.depthView, nil)
		vk.DestroyImage(r.device, fb.depthImage, nil)
		fb.depthMemory.Release()
	}
	r.framebuffers = nil
}

// CleanupFinished implements core.Renderer
func (r *Renderer) CleanupFinished() {
	for idx := range r.slots {
		slot := &r.slots[idx]
		if len(slot.pending) == 0 {
			continue
		}
		if vk.GetFenceStatus(r.device, slot.fence) == vk.Success {
			slot.releasePending()
		}
	}
}

// Acquire implements core.Renderer
func (r *Renderer) Acquire() (uint32, error) {
	slot := &r.slots[r.current]
	if err := vk.Error(vk.WaitForFences(r.device, 1, []vk.Fence{slot.fence}, vk.True, noTimeout)); err != nil {
		return 0, vkErr("vk.WaitForFences", err)
	}
	slot.releasePending()

	var image uint32
	result := vk.AcquireNextImage(r.device, r.swapchain, noTimeout, slot.imageAvailable, vk.NullFence, &image)
	switch result {
	case vk.Success, vk.Suboptimal:
		return image, nil
	case vk.ErrorOutOfDate:
		return 0, errors.Wrap(core.ErrOutOfDate, "vk.AcquireNextImage()")
	default:
		return 0, vkErr("vk.AcquireNextImage", vk.Error(result))
	}
}

// Record implements core.Renderer
func (r *Renderer) Record(frame core.Frame) error {
	slot := &r.slots[r.current]
	slot.pending = append(slot.pending, frame.Vertices)

	vb, ok := frame.Vertices.(*vertexBuffer)
	if !ok {
		return errors.Errorf("vertex buffer %T was not uploaded by this renderer", frame.Vertices)
	}
	if int(frame.Image) >= len(r.framebuffers) {
		return errors.Errorf("image %d has no framebuffer", frame.Image)
	}

	cmd := slot.commandBuffer
	if err := vk.Error(vk.ResetCommandBuffer(cmd, 0)); err != nil {
		return vkErr("vk.ResetCommandBuffer", err)
	}

	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vk.Error(vk.BeginCommandBuffer(cmd, &cbbi)); err != nil {
		return vkErr("vk.BeginCommandBuffer", err)
	}

	clearValues := make([]vk.ClearValue, 2)
	clearValues[0].SetColor(clearColor)
	clearValues[1].SetDepthStencil(1, 0)

	rpbi := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  r.renderPass,
		Framebuffer: r.framebuffers[frame.Image].framebuffer,
		RenderArea: vk.Rect2D{
			Extent: vk.Extent2D{
				Width:  r.extent.Width,
				Height: r.extent.Height,
			},
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(cmd, &rpbi, vk.SubpassContentsInline)
	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, r.pipeline)
	vk.CmdSetViewport(cmd, 0, 1, []vk.Viewport{{
		Width:    float32(frame.Viewport.Width),
		Height:   float32(frame.Viewport.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}})
	vk.CmdBindVertexBuffers(cmd, 0, 1, []vk.Buffer{vb.Get()}, []vk.DeviceSize{0})

	uniforms := frame.Uniforms
	vk.CmdPushConstants(cmd, r.pipelineLayout, pushConstantStages, 0, uint32(unsafe.Sizeof(uniforms)), unsafe.Pointer(&uniforms))
	vk.CmdDraw(cmd, uint32(vb.Len()), 1, 0, 0)
	vk.CmdEndRenderPass(cmd)

	if err := vk.Error(vk.EndCommandBuffer(cmd)); err != nil {
		return vkErr("vk.EndCommandBuffer", err)
	}
	return nil
}

// Submit implements core.Renderer
func (r *Renderer) Submit(image uint32) error {
	slot := &r.slots[r.current]
	r.current = (r.current + 1) % len(r.slots)

	if err := vk.Error(vk.ResetFences(r.device, 1, []vk.Fence{slot.fence})); err != nil {
		return vkErr("vk.ResetFences", err)
	}

	submit := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{slot.imageAvailable},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{slot.commandBuffer},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{slot.renderFinished},
	}}
	if err := vk.Error(vk.QueueSubmit(r.queue, 1, submit, slot.fence)); err != nil {
		return vkErr("vk.QueueSubmit", err)
	}

	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{slot.renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{r.swapchain},
		PImageIndices:      []uint32{image},
	}

	switch result := vk.QueuePresent(r.queue, &presentInfo); result {
	case vk.Success, vk.Suboptimal:
		return nil
	case vk.ErrorOutOfDate:
		return errors.Wrap(core.ErrOutOfDate, "vk.QueuePresent()")
	default:
		return vkErr("vk.QueuePresent", vk.Error(result))
	}
}
