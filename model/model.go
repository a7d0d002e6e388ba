// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package model holds the data the renderer hands to the GPU as-is:
// the per-vertex record and the push constant block.
package model

import (
	"unsafe"

	vk "github.com/devblok/vulkan"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Vertex is one record of the vertex buffer. Field order and sizes
// must match the attribute locations of the vertex shader.
type Vertex struct {
	Position glm.Vec4
	Normal   glm.Vec4
	Color    glm.Vec4
	Texture  glm.Vec2
}

// Uniforms are pushed as push constants with every draw.
// The layout is shared with both shader stages:
// mat4, vec4, vec4, float, float, float.
type Uniforms struct {
	ProjectionView glm.Mat4

	LightColor  glm.Vec4
	LightOrigin glm.Vec4

	AmbientLightStrength  float32
	DiffuseLightStrength  float32
	SpecularLightStrength float32
}

// Sizes of the records as seen by the GPU.
const (
	VertexSize   = uint32(unsafe.Sizeof(Vertex{}))
	UniformsSize = uint32(unsafe.Sizeof(Uniforms{}))
)

// DefaultUniforms returns an orthographic projection over the unit cube
// (deep enough in z for most scenes) and a white light above the origin.
func DefaultUniforms() Uniforms {
	return Uniforms{
		ProjectionView:        glm.Ortho(-1, 1, -1, 1, -900, 900).Mul4(glm.Ident4()),
		LightColor:            glm.Vec4{1, 1, 1, 1},
		LightOrigin:           glm.Vec4{3, 3, -3, 1},
		AmbientLightStrength:  0.2,
		DiffuseLightStrength:  0.7,
		SpecularLightStrength: 0.3,
	}
}

// VertexBindingDescriptions return Vulkan Vertex descriptors
func VertexBindingDescriptions() []vk.VertexInputBindingDescription {
	return []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    VertexSize,
		InputRate: vk.VertexInputRateVertex,
	}}
}

// VertexAttributeDescriptions return Vulkan attribute descriptors
func VertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Binding:  0,
			Location: 0,
			Format:   vk.FormatR32g32b32a32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Position)),
		},
		{
			Binding:  0,
			Location: 1,
			Format:   vk.FormatR32g32b32a32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Normal)),
		},
		{
			Binding:  0,
			Location: 2,
			Format:   vk.FormatR32g32b32a32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Color)),
		},
		{
			Binding:  0,
			Location: 3,
			Format:   vk.FormatR32g32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Texture)),
		},
	}
}
