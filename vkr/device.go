// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"strings"

	vk "github.com/devblok/vulkan"
	"github.com/pkg/errors"
)

// selectQueueFamily returns the first family that can both draw and present.
func selectQueueFamily(flags []vk.QueueFlags, present []bool) (uint32, error) {
	for idx := range flags {
		if flags[idx]&vk.QueueFlags(vk.QueueGraphicsBit) != 0 && present[idx] {
			return uint32(idx), nil
		}
	}
	return 0, ErrNoQueueFamily
}

func (r *Renderer) findQueueFamily() (uint32, error) {
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(r.physicalDevice, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(r.physicalDevice, &queueFamilyCount, queueFamilies)

	flags := make([]vk.QueueFlags, queueFamilyCount)
	present := make([]bool, queueFamilyCount)
	for i := uint32(0); i < queueFamilyCount; i++ {
		queueFamilies[i].Deref()
		flags[i] = queueFamilies[i].QueueFlags

		var supportsPresent vk.Bool32
		if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(r.physicalDevice, i, r.surface, &supportsPresent)); err != nil {
			return 0, vkErr("vk.GetPhysicalDeviceSurfaceSupport", err)
		}
		present[i] = supportsPresent.B()
	}
	return selectQueueFamily(flags, present)
}

func (r *Renderer) createDevice() error {
	available, err := deviceExtensions(r.physicalDevice)
	if err != nil {
		return err
	}
	if m := missing(available, r.configuration.DeviceExtensions); len(m) > 0 {
		return errors.Wrap(ErrMissingExtension, strings.Join(m, ", "))
	}

	family, err := r.findQueueFamily()
	if err != nil {
		return err
	}

	/* Logical Device setup */
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: family,
		QueueCount:       1,
		PQueuePriorities: []float32{0.5},
	}}

	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(r.configuration.DeviceExtensions)),
		PpEnabledExtensionNames: safeStrings(r.configuration.DeviceExtensions),
	}

	var device vk.Device
	if err := vk.Error(vk.CreateDevice(r.physicalDevice, &dci, nil, &device)); err != nil {
		return vkErr("vk.CreateDevice", err)
	}

	var queue vk.Queue
	vk.GetDeviceQueue(device, family, 0, &queue)

	r.device = device
	r.queue = queue
	r.queueFamily = family
	r.allocator = NewMemoryAllocator(device, r.physicalDevice)
	return nil
}
