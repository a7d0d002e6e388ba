// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	vk "github.com/devblok/vulkan"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/devblok/vkb/core"
)

// undefinedExtent in CurrentExtent means the swapchain decides the size.
const undefinedExtent = 0xFFFFFFFF

func extentSupported(min, max vk.Extent2D, e core.Extent) bool {
	return e.Width > 0 && e.Height > 0 &&
		e.Width >= min.Width && e.Width <= max.Width &&
		e.Height >= min.Height && e.Height <= max.Height
}

// initialExtent takes the surface's current extent, or the requested size
// clamped to the surface limits when the surface leaves it open.
func initialExtent(current, min, max vk.Extent2D, requested core.Extent) core.Extent {
	if current.Width != undefinedExtent {
		return core.Extent{Width: current.Width, Height: current.Height}
	}
	return core.Extent{
		Width:  clamp(requested.Width, min.Width, max.Width),
		Height: clamp(requested.Height, min.Height, max.Height),
	}
}

func clamp(v, min, max uint32) uint32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// imageCount uses the configured count when set, otherwise the surface
// minimum. A max of 0 means unlimited.
func imageCount(configured, min, max uint32) uint32 {
	count := configured
	if count < min {
		count = min
	}
	if max > 0 && count > max {
		count = max
	}
	return count
}

func compositeAlpha(supported vk.CompositeAlphaFlags) vk.CompositeAlphaFlagBits {
	compositeAlphaFlags := []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	}
	for _, flag := range compositeAlphaFlags {
		if supported&vk.CompositeAlphaFlags(flag) != 0 {
			return flag
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

func (r *Renderer) surfaceCapabilities() (vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(r.physicalDevice, r.surface, &caps)); err != nil {
		return caps, vkErr("vk.GetPhysicalDeviceSurfaceCapabilities", err)
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return caps, nil
}

func (r *Renderer) chooseSurfaceFormat() error {
	var surfaceFormatCount uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(r.physicalDevice, r.surface, &surfaceFormatCount, nil)); err != nil {
		return vkErr("vk.GetPhysicalDeviceSurfaceFormats", err)
	}
	if surfaceFormatCount == 0 {
		return errors.New("surface reports no formats")
	}

	surfaceFormats := make([]vk.SurfaceFormat, surfaceFormatCount)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(r.physicalDevice, r.surface, &surfaceFormatCount, surfaceFormats)); err != nil {
		return vkErr("vk.GetPhysicalDeviceSurfaceFormats", err)
	}
	surfaceFormats[0].Deref()

	r.imageFormat = surfaceFormats[0].Format
	r.imageColorspace = surfaceFormats[0].ColorSpace
	return nil
}

func (r *Renderer) createSwapchain(caps vk.SurfaceCapabilities, extent core.Extent, oldSwapchain vk.Swapchain) error {
	scci := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         r.surface,
		MinImageCount:   imageCount(r.configuration.SwapchainSize, caps.MinImageCount, caps.MaxImageCount),
		ImageFormat:     r.imageFormat,
		ImageColorSpace: r.imageColorspace,
		ImageExtent: vk.Extent2D{
			Width:  extent.Width,
			Height: extent.Height,
		},
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   compositeAlpha(caps.SupportedCompositeAlpha),
		PresentMode:      vk.PresentModeFifo,
		Clipped:          vk.True,
		ImageArrayLayers: 1,
		ImageSharingMode: vk.SharingModeExclusive,
		OldSwapchain:     oldSwapchain,
	}

	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(r.device, &scci, nil, &swapchain)); err != nil {
		return vkErr("vk.CreateSwapchain", err)
	}

	var numImages uint32
	if err := vk.Error(vk.GetSwapchainImages(r.device, swapchain, &numImages, nil)); err != nil {
		vk.DestroySwapchain(r.device, swapchain, nil)
		return vkErr("vk.GetSwapchainImages", err)
	}
	images := make([]vk.Image, numImages)
	if err := vk.Error(vk.GetSwapchainImages(r.device, swapchain, &numImages, images)); err != nil {
		vk.DestroySwapchain(r.device, swapchain, nil)
		return vkErr("vk.GetSwapchainImages", err)
	}

	r.swapchain = swapchain
	r.swapchainImages = images
	r.extent = extent

	if err := r.createImageViews(); err != nil {
		return err
	}

	r.log.WithFields(logrus.Fields{
		"width":  extent.Width,
		"height": extent.Height,
		"images": numImages,
	}).Debug("swapchain created")
	return nil
}

func (r *Renderer) createImageViews() error {
	views := make([]vk.ImageView, 0, len(r.swapchainImages))
	for idx := range r.swapchainImages {
		ivci := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    r.swapchainImages[idx],
			ViewType: vk.ImageViewType2d,
			Format:   r.imageFormat,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}

		var imageView vk.ImageView
		if err := vk.Error(vk.CreateImageView(r.device, &ivci, nil, &imageView)); err != nil {
			return errors.Wrapf(err, "vk.CreateImageView() for swapchain image %d", idx)
		}
		views = append(views, imageView)
	}
	r.swapchainImageViews = views
	return nil
}

func (r *Renderer) destroyImageViews() {
	for _, iv := range r.swapchainImageViews {
		vk.DestroyImageView(r.device, iv, nil)
	}
	r.swapchainImageViews = nil
}

// RecreateSwapchain implements core.Renderer
func (r *Renderer) RecreateSwapchain(extent core.Extent) error {
	caps, err := r.surfaceCapabilities()
	if err != nil {
		return err
	}
	if !extentSupported(caps.MinImageExtent, caps.MaxImageExtent, extent) {
		return errors.Wrapf(core.ErrUnsupportedDimensions, "%dx%d", extent.Width, extent.Height)
	}

	vk.DeviceWaitIdle(r.device)
	r.destroyFramebuffers()
	r.destroyImageViews()

	old := r.swapchain
	if err := r.createSwapchain(caps, extent, old); err != nil {
		return err
	}
	vk.DestroySwapchain(r.device, old, nil)
	return nil
}
