// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"strings"
	"unsafe"

	vk "github.com/devblok/vulkan"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultApplicationInfo describes the Vulkan application
var DefaultApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   safeString("vkb"),
	PEngineName:        safeString("vkb"),
}

// InstanceConfiguration selects what the instance is created with.
type InstanceConfiguration struct {
	// Extensions the platform window needs to create a surface
	Extensions []string

	// Layers to enable, every one must be available
	Layers []string
}

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            int      `json:"id"`
	VendorID      int      `json:"vendor_id"`
	DriverVersion int      `json:"driver_version"`
	Name          string   `json:"name"`
	Invalid       bool     `json:"invalid"`
	Extensions    []string `json:"extensions"`
	Layers        []string `json:"layers"`
	Memory        uint64   `json:"memory"`
}

// NewInstance loads the Vulkan loader through procAddr, or the system
// default when it is nil, and creates an instance. Unsupported extensions
// or layers fail with ErrMissingExtension or ErrMissingLayer, an instance
// without physical devices fails with ErrNoDevice.
func NewInstance(procAddr unsafe.Pointer, cfg InstanceConfiguration, log logrus.FieldLogger) (*Instance, error) {
	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, vkErr("vk.SetDefaultGetInstanceProcAddr", err)
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, vkErr("vk.Init", err)
	}

	availableExtensions, err := instanceExtensions()
	if err != nil {
		return nil, err
	}
	if m := missing(availableExtensions, cfg.Extensions); len(m) > 0 {
		return nil, errors.Wrap(ErrMissingExtension, strings.Join(m, ", "))
	}

	if len(cfg.Layers) > 0 {
		availableLayers, err := instanceLayers()
		if err != nil {
			return nil, err
		}
		if m := missing(availableLayers, cfg.Layers); len(m) > 0 {
			return nil, errors.Wrap(ErrMissingLayer, strings.Join(m, ", "))
		}
	}

	log.WithFields(logrus.Fields{
		"extensions": cfg.Extensions,
		"layers":     cfg.Layers,
	}).Debug("creating vulkan instance")

	/* Create instance */
	instanceInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        DefaultApplicationInfo,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		EnabledLayerCount:       uint32(len(cfg.Layers)),
		PpEnabledLayerNames:     safeStrings(cfg.Layers),
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, vkErr("vk.CreateInstance", err)
	}
	vk.InitInstance(instance)

	/* Enumerate devices */
	devices, err := enumerateDevices(instance)
	if err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, err
	}
	if len(devices) == 0 {
		vk.DestroyInstance(instance, nil)
		return nil, ErrNoDevice
	}

	return &Instance{
		configuration:    cfg,
		instance:         instance,
		availableDevices: devices,
		log:              log,
	}, nil
}

// Instance describes a Vulkan API Instance
type Instance struct {
	configuration InstanceConfiguration

	availableDevices []vk.PhysicalDevice
	instance         vk.Instance
	log              logrus.FieldLogger
}

// Handle returns the vk.Instance, the platform window needs it
// to create a surface.
func (v *Instance) Handle() vk.Instance {
	return v.instance
}

// Extensions returns the enabled instance extensions
func (v *Instance) Extensions() []string {
	return v.configuration.Extensions
}

// Layers returns the enabled instance layers
func (v *Instance) Layers() []string {
	return v.configuration.Layers
}

// AvailableDevices returns every physical device, the renderer uses the first
func (v *Instance) AvailableDevices() []vk.PhysicalDevice {
	return v.availableDevices
}

// PhysicalDevicesInfo describes every physical device. A device whose
// properties could not be queried is marked Invalid.
func (v *Instance) PhysicalDevicesInfo() []PhysicalDeviceInfo {
	pdi := make([]PhysicalDeviceInfo, len(v.availableDevices))
	for i, dev := range v.availableDevices {
		extensions, err := deviceExtensions(dev)
		if err != nil {
			pdi[i].Invalid = true
		}
		pdi[i].Extensions = extensions

		// Get layers info
		var numDeviceLayers uint32
		if err := vk.Error(vk.EnumerateDeviceLayerProperties(dev, &numDeviceLayers, nil)); err != nil {
			pdi[i].Invalid = true
		}
		deviceLayers := make([]vk.LayerProperties, numDeviceLayers)
		if err := vk.Error(vk.EnumerateDeviceLayerProperties(dev, &numDeviceLayers, deviceLayers)); err != nil {
			pdi[i].Invalid = true
		}
		for _, layer := range deviceLayers {
			layer.Deref()
			pdi[i].Layers = append(pdi[i].Layers, vk.ToString(layer.LayerName[:]))
		}

		// Get memory info
		var memoryProperties vk.PhysicalDeviceMemoryProperties
		vk.GetPhysicalDeviceMemoryProperties(dev, &memoryProperties)
		memoryProperties.Deref()
		for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
			memoryProperties.MemoryHeaps[iMem].Deref()
			pdi[i].Memory += uint64(memoryProperties.MemoryHeaps[iMem].Size)
		}

		// Get general device info
		var properties vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(dev, &properties)
		properties.Deref()
		pdi[i].ID = int(properties.DeviceID)
		pdi[i].VendorID = int(properties.VendorID)
		pdi[i].Name = vk.ToString(properties.DeviceName[:])
		pdi[i].DriverVersion = int(properties.DriverVersion)
	}
	return pdi
}

// DestroySurface destroys a surface created for this instance
func (v *Instance) DestroySurface(surface vk.Surface) {
	vk.DestroySurface(v.instance, surface, nil)
}

// Destroy destroys the instance, everything created from it must be gone
func (v *Instance) Destroy() {
	v.availableDevices = nil
	vk.DestroyInstance(v.instance, nil)
}

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, vkErr("vk.EnumeratePhysicalDevices", err)
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, availableDevices)); err != nil {
		return nil, vkErr("vk.EnumeratePhysicalDevices", err)
	}
	return availableDevices, nil
}

func instanceExtensions() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, vkErr("vk.EnumerateInstanceExtensionProperties", err)
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, props)); err != nil {
		return nil, vkErr("vk.EnumerateInstanceExtensionProperties", err)
	}
	names := make([]string, 0, count)
	for _, ext := range props {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

func instanceLayers() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, vkErr("vk.EnumerateInstanceLayerProperties", err)
	}
	props := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, props)); err != nil {
		return nil, vkErr("vk.EnumerateInstanceLayerProperties", err)
	}
	names := make([]string, 0, count)
	for _, layer := range props {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

func deviceExtensions(dev vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(dev, "", &count, nil)); err != nil {
		return nil, vkErr("vk.EnumerateDeviceExtensionProperties", err)
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(dev, "", &count, props)); err != nil {
		return nil, vkErr("vk.EnumerateDeviceExtensionProperties", err)
	}
	names := make([]string, 0, count)
	for _, ext := range props {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}
