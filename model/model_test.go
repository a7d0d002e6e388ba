// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/vkb/model"
)

func TestRecordSizes(t *testing.T) {
	c := qt.New(t)
	// mat4 + 2 vec4 + 3 floats, as declared by the shader push constant block
	c.Assert(model.UniformsSize, qt.Equals, uint32(64+16+16+12))
	c.Assert(model.VertexSize, qt.Equals, uint32(16+16+16+8))
}

func TestVertexAttributes(t *testing.T) {
	c := qt.New(t)
	attrs := model.VertexAttributeDescriptions()
	c.Assert(attrs, qt.HasLen, 4)

	offsets := []uint32{0, 16, 32, 48}
	for idx, a := range attrs {
		c.Assert(a.Location, qt.Equals, uint32(idx))
		c.Assert(a.Offset, qt.Equals, offsets[idx])
		c.Assert(a.Binding, qt.Equals, uint32(0))
	}

	bindings := model.VertexBindingDescriptions()
	c.Assert(bindings, qt.HasLen, 1)
	c.Assert(bindings[0].Stride, qt.Equals, model.VertexSize)
}

func TestDefaultUniforms(t *testing.T) {
	c := qt.New(t)
	u := model.DefaultUniforms()

	c.Assert(u.LightColor, qt.Equals, glm.Vec4{1, 1, 1, 1})
	c.Assert(u.LightOrigin, qt.Equals, glm.Vec4{3, 3, -3, 1})
	c.Assert(u.AmbientLightStrength, qt.Equals, float32(0.2))
	c.Assert(u.DiffuseLightStrength, qt.Equals, float32(0.7))
	c.Assert(u.SpecularLightStrength, qt.Equals, float32(0.3))

	// the orthographic volume maps the unit square onto clip space unchanged
	p := u.ProjectionView.Mul4x1(glm.Vec4{0.5, -0.5, 0, 1})
	c.Assert(p.ApproxEqual(glm.Vec4{0.5, -0.5, 0, 1}), qt.IsTrue)
}
