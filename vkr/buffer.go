// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"unsafe"

	vk "github.com/devblok/vulkan"

	"github.com/devblok/vkb/model"
)

// NewBuffer creates, configures, allocates and binds a new host visible buffer.
func NewBuffer(dev vk.Device, size uint, usage vk.BufferUsageFlagBits, mode vk.SharingMode, ma *MemoryAllocator) (Buffer, error) {
	createInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       vk.BufferUsageFlags(usage),
		SharingMode: mode,
	}
	var buffer vk.Buffer
	if err := vk.Error(vk.CreateBuffer(dev, &createInfo, nil, &buffer)); err != nil {
		return Buffer{}, vkErr("vk.CreateBuffer", err)
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(dev, buffer, &req)
	req.Deref()

	memory, err := ma.Malloc(req, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		vk.DestroyBuffer(dev, buffer, nil)
		return Buffer{}, err
	}

	if err := vk.Error(vk.BindBufferMemory(dev, buffer, memory.Get(), vk.DeviceSize(memory.Offset()))); err != nil {
		vk.DestroyBuffer(dev, buffer, nil)
		memory.Release()
		return Buffer{}, vkErr("vk.BindBufferMemory", err)
	}

	return Buffer{
		device: dev,
		buffer: buffer,
		memory: memory,
	}, nil
}

// Buffer implements a generic vulkan buffer.
type Buffer struct {
	device vk.Device
	buffer vk.Buffer

	memory Memory
}

// Mem returns the Memory that the buffer is based on.
func (b *Buffer) Mem() *Memory {
	return &b.memory
}

// Get returns the vulkan Buffer handle.
func (b *Buffer) Get() vk.Buffer {
	return b.buffer
}

// Release destroys the buffer and memory asociated with it.
func (b *Buffer) Release() {
	vk.DestroyBuffer(b.device, b.buffer, nil)
	b.memory.Release()
}

// vertexBuffer holds one frame worth of vertexes.
type vertexBuffer struct {
	Buffer
	count int
}

// Len implements core.VertexBuffer
func (vb *vertexBuffer) Len() int {
	return vb.count
}

// Release implements core.VertexBuffer
func (vb *vertexBuffer) Release() {
	vb.Buffer.Release()
}

// newVertexBuffer uploads vertices into a new buffer. Room for at least
// one vertex is always allocated, zero sized buffers are invalid.
func newVertexBuffer(dev vk.Device, ma *MemoryAllocator, vertices []model.Vertex) (*vertexBuffer, error) {
	capacity := len(vertices)
	if capacity == 0 {
		capacity = 1
	}

	buf, err := NewBuffer(dev, uint(capacity)*uint(model.VertexSize), vk.BufferUsageVertexBufferBit, vk.SharingModeExclusive, ma)
	if err != nil {
		return nil, err
	}

	if len(vertices) > 0 {
		mapped, err := buf.Mem().Map()
		if err != nil {
			buf.Release()
			return nil, err
		}
		copy(unsafe.Slice((*model.Vertex)(mapped), len(vertices)), vertices)
		buf.Mem().Unmap()
	}

	return &vertexBuffer{
		Buffer: buf,
		count:  len(vertices),
	}, nil
}
